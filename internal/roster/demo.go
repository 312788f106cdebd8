package roster

import "meal-checkin/internal/domain/models"

// DemoStudents is served when no roster sheet is configured.
func DemoStudents() []models.Student {
	return []models.Student{
		{
			RUT:    "11111111-1",
			Name:   "Ana Contreras (Demo)",
			Course: "1° Medio A",
			Photo:  "https://placehold.co/150x150/f9a8d4/4a044e?text=AC",
		},
		{
			RUT:    "22222222-2",
			Name:   "Benjamín Soto (Demo)",
			Course: "2° Medio B",
			Photo:  "https://placehold.co/150x150/a5b4fc/1e1b4b?text=BS",
		},
	}
}

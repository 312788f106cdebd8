package models

import (
	"time"

	"meal-checkin/internal/domain/meal"
)

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

type Visit struct {
	ID           string    `db:"id" json:"id"`
	RUT          string    `db:"rut" json:"rut"`
	Name         string    `db:"nombre" json:"nombre"`
	Course       string    `db:"curso" json:"curso"`
	Meal         meal.Type `db:"servicio" json:"servicio"`
	Date         string    `db:"fecha" json:"fecha"`
	Clock        string    `db:"hora" json:"hora"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
	Source       string    `db:"source" json:"source"`
}

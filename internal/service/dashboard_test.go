package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
	"meal-checkin/internal/lib/logger"
)

func sampleVisits() []models.Visit {
	return []models.Visit{
		{ID: "1", RUT: "11111111-1", Name: "Ana Contreras", Meal: meal.Breakfast, Date: "2026-03-10"},
		{ID: "2", RUT: "22222222-2", Name: "Benjamín Soto", Meal: meal.Lunch, Date: "2026-03-10"},
		{ID: "3", RUT: "33333333-3", Name: "ÉLISE Núñez", Meal: meal.Lunch, Date: "2026-03-10"},
		{ID: "4", RUT: "44444444-4", Name: "Ayer", Meal: meal.Lunch, Date: "2026-03-09"},
	}
}

func TestDashboardService_Today(t *testing.T) {
	visits := &fakeVisits{visits: sampleVisits()}
	svc := NewDashboardService(logger.Discard(), visits, meal.NewSchedule(santiago),
		fixedClock(time.Date(2026, 3, 10, 14, 0, 0, 0, santiago)))

	d, err := svc.Today(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, "2026-03-10", d.Date)
	require.Equal(t, models.Counts{Total: 3, Breakfasts: 1, Lunches: 2}, d.Counts)
	require.Equal(t, []string{"Desayunos", "Almuerzos"}, d.Chart.Labels)
	require.Equal(t, []int{1, 2}, d.Chart.Values)

	require.Len(t, d.Table.Rows, 3)
	require.Equal(t, "3", d.Table.Rows[0].ID)
	require.Equal(t, "1", d.Table.Rows[2].ID)
	require.Empty(t, d.Table.EmptyMessage)
}

func TestBuildTable_Filter(t *testing.T) {
	visits := sampleVisits()[:3]

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: "desayuno", want: []string{"1"}},
		{filter: "ALMUER", want: []string{"3", "2"}},
		{filter: "élise", want: []string{"3"}},
		{filter: "2222", want: []string{"2"}},
		{filter: "  ", want: []string{"3", "2", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			table := BuildTable(visits, tt.filter)

			var got []string
			for _, r := range table.Rows {
				got = append(got, r.ID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBuildTable_EmptyMessages(t *testing.T) {
	table := BuildTable(nil, "")
	require.Empty(t, table.Rows)
	require.Equal(t, MessageNoVisits, table.EmptyMessage)

	table = BuildTable(sampleVisits(), "zzz")
	require.Empty(t, table.Rows)
	require.Equal(t, MessageNoMatches, table.EmptyMessage)
}

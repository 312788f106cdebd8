package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
)

func newVisit(rut string, m meal.Type, at time.Time) models.Visit {
	return models.Visit{
		ID:           uuid.NewString(),
		RUT:          rut,
		Name:         "Alumno " + rut,
		Course:       "1A",
		Meal:         m,
		Date:         at.Format(time.DateOnly),
		Clock:        meal.FormatClock(at),
		RegisteredAt: at,
		Source:       models.SourceLocal,
	}
}

func TestVisitRepo_InsertAndList(t *testing.T) {
	ctx := context.Background()
	r := NewVisitRepo(newTestDB(t))

	base := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, newVisit("2", meal.Lunch, base.Add(4*time.Hour))))
	require.NoError(t, r.Insert(ctx, newVisit("1", meal.Breakfast, base)))
	require.NoError(t, r.Insert(ctx, newVisit("1", meal.Breakfast, base.AddDate(0, 0, 1))))

	visits, err := r.ListByDate(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, visits, 2)
	require.Equal(t, "1", visits[0].RUT)
	require.Equal(t, meal.Breakfast, visits[0].Meal)
	require.True(t, visits[0].RegisteredAt.Equal(base))
	require.Equal(t, "2", visits[1].RUT)

	exists, err := r.Exists(ctx, "1", "2026-03-10", meal.Breakfast)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = r.Exists(ctx, "1", "2026-03-10", meal.Lunch)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestVisitRepo_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	r := NewVisitRepo(newTestDB(t))

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, newVisit("1", meal.Lunch, at)))

	err := r.Insert(ctx, newVisit("1", meal.Lunch, at.Add(time.Minute)))
	require.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestVisitRepo_Merge(t *testing.T) {
	ctx := context.Background()
	r := NewVisitRepo(newTestDB(t))

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, newVisit("1", meal.Lunch, at)))

	remote := []models.Visit{
		newVisit("1", meal.Lunch, at),
		newVisit("2", meal.Lunch, at.Add(time.Minute)),
		newVisit("3", meal.Lunch, at.Add(2*time.Minute)),
	}

	added, err := r.Merge(ctx, remote)
	require.NoError(t, err)
	require.Equal(t, 2, added)

	added, err = r.Merge(ctx, remote)
	require.NoError(t, err)
	require.Zero(t, added)

	visits, err := r.ListByDate(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, visits, 3)
}

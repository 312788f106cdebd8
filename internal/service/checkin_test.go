package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
	"meal-checkin/internal/lib/logger"
)

var ana = models.Student{RUT: "11111111-1", Name: "Ana Contreras", Course: "1° Medio A", Photo: "ana.png"}

func newCheckin(at time.Time, journal *fakeJournal) (*CheckinService, *fakeVisits) {
	visits := &fakeVisits{}
	svc := NewCheckinService(
		logger.Discard(),
		newFakeStudents(ana),
		visits,
		journal,
		meal.NewSchedule(santiago),
		fixedClock(at),
	)
	return svc, visits
}

func TestCheckinService_Register(t *testing.T) {
	journal := &fakeJournal{enabled: true}
	at := time.Date(2026, 3, 10, 12, 30, 0, 0, santiago)
	svc, visits := newCheckin(at, journal)

	res, err := svc.Register(context.Background(), "  11111111-1 ")
	require.NoError(t, err)
	svc.Wait()

	require.Equal(t, "Registrado: Ana Contreras", res.Message)
	require.Equal(t, ana, res.Student)
	require.Equal(t, meal.Lunch, res.Visit.Meal)
	require.Equal(t, "2026-03-10", res.Visit.Date)
	require.Equal(t, "12:30 PM", res.Visit.Clock)
	require.Equal(t, models.SourceLocal, res.Visit.Source)
	require.NotEmpty(t, res.Visit.ID)

	require.Len(t, visits.visits, 1)
	require.Len(t, journal.submitted, 1)
	require.Equal(t, res.Visit.ID, journal.submitted[0].ID)
}

func TestCheckinService_RegisterUsesLocalDate(t *testing.T) {
	// 22:00 in Santiago is already the next day in UTC.
	at := time.Date(2026, 3, 10, 22, 0, 0, 0, santiago)
	svc, _ := newCheckin(at.UTC(), &fakeJournal{})

	res, err := svc.Register(context.Background(), ana.RUT)
	require.NoError(t, err)
	require.Equal(t, "2026-03-10", res.Visit.Date)
	require.Equal(t, "10:00 PM", res.Visit.Clock)
}

func TestCheckinService_RegisterRejections(t *testing.T) {
	tests := []struct {
		name string
		rut  string
		at   time.Time
		want error
	}{
		{name: "empty", rut: "   ", at: time.Date(2026, 3, 10, 9, 0, 0, 0, santiago), want: apperrors.ErrRUTRequired},
		{name: "unknown", rut: "99999999-9", at: time.Date(2026, 3, 10, 9, 0, 0, 0, santiago), want: apperrors.ErrStudentNotFound},
		{name: "between meals", rut: ana.RUT, at: time.Date(2026, 3, 10, 10, 30, 0, 0, santiago), want: apperrors.ErrOutsideMealWindow},
		{name: "too early", rut: ana.RUT, at: time.Date(2026, 3, 10, 7, 59, 59, 0, santiago), want: apperrors.ErrOutsideMealWindow},
		{name: "too late", rut: ana.RUT, at: time.Date(2026, 3, 10, 23, 50, 1, 0, santiago), want: apperrors.ErrOutsideMealWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, visits := newCheckin(tt.at, &fakeJournal{})

			_, err := svc.Register(context.Background(), tt.rut)
			require.ErrorIs(t, err, tt.want)
			require.Empty(t, visits.visits)
		})
	}
}

func TestCheckinService_RegisterDuplicate(t *testing.T) {
	at := time.Date(2026, 3, 10, 8, 0, 0, 0, santiago)
	svc, visits := newCheckin(at, &fakeJournal{})

	_, err := svc.Register(context.Background(), ana.RUT)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), ana.RUT)
	require.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	var dup *apperrors.DuplicateVisitError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "Desayuno", dup.Meal)
	require.Len(t, visits.visits, 1)
}

func TestCheckinService_RemoteFailureKeepsVisit(t *testing.T) {
	journal := &fakeJournal{enabled: true, submitErr: errors.New("boom")}
	svc, visits := newCheckin(time.Date(2026, 3, 10, 13, 0, 0, 0, santiago), journal)

	_, err := svc.Register(context.Background(), ana.RUT)
	require.NoError(t, err)
	svc.Wait()

	require.Len(t, visits.visits, 1)
	require.Len(t, journal.submitted, 1)
}

func TestCheckinService_DisabledJournalSkipsSubmit(t *testing.T) {
	journal := &fakeJournal{}
	svc, _ := newCheckin(time.Date(2026, 3, 10, 13, 0, 0, 0, santiago), journal)

	_, err := svc.Register(context.Background(), ana.RUT)
	require.NoError(t, err)
	svc.Wait()

	require.Empty(t, journal.submitted)

	added, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Zero(t, added)
}

func TestCheckinService_Sync(t *testing.T) {
	remote := []models.Visit{
		{ID: "a", RUT: "1", Meal: meal.Breakfast, Date: "2026-03-10", Source: models.SourceRemote},
		{ID: "b", RUT: "2", Meal: meal.Lunch, Date: "2026-03-10", Source: models.SourceRemote},
	}
	journal := &fakeJournal{enabled: true, remote: remote}
	svc, visits := newCheckin(time.Date(2026, 3, 10, 13, 0, 0, 0, santiago), journal)

	added, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, added)

	added, err = svc.Sync(context.Background())
	require.NoError(t, err)
	require.Zero(t, added)
	require.Len(t, visits.visits, 2)

	journal.todayErr = apperrors.ErrJournalRejected
	_, err = svc.Sync(context.Background())
	require.ErrorIs(t, err, apperrors.ErrJournalRejected)
}

func TestCheckinService_RemoteVisitBlocksDuplicate(t *testing.T) {
	journal := &fakeJournal{enabled: true, remote: []models.Visit{
		{ID: "a", RUT: ana.RUT, Meal: meal.Lunch, Date: "2026-03-10", Source: models.SourceRemote},
	}}
	svc, _ := newCheckin(time.Date(2026, 3, 10, 13, 0, 0, 0, santiago), journal)

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), ana.RUT)
	require.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestCheckinService_Suggest(t *testing.T) {
	students := newFakeStudents(
		models.Student{RUT: "1000-1"},
		models.Student{RUT: "1000-2"},
		models.Student{RUT: "1000-3"},
		models.Student{RUT: "1000-4"},
		models.Student{RUT: "1000-5"},
		models.Student{RUT: "1000-6"},
		models.Student{RUT: "2000-K"},
	)
	svc := NewCheckinService(logger.Discard(), students, &fakeVisits{}, &fakeJournal{}, meal.NewSchedule(santiago), nil)

	got, err := svc.Suggest(context.Background(), "1000")
	require.NoError(t, err)
	require.Len(t, got, SuggestLimit)

	got, err = svc.Suggest(context.Background(), "2000-k")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.Suggest(context.Background(), " ")
	require.NoError(t, err)
	require.Empty(t, got)
}

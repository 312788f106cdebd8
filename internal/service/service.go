package service

import (
	"context"
	"io"
	"time"

	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
)

// SuggestLimit bounds autocomplete results.
const SuggestLimit = 5

// Clock returns the current instant. Services default to time.Now.
type Clock func() time.Time

type StudentProvider interface {
	GetByRUT(ctx context.Context, rut string) (*models.Student, error)
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Student, error)
}

type StudentStore interface {
	StudentProvider
	ReplaceAll(ctx context.Context, students []models.Student) error
	Count(ctx context.Context) (int, error)
}

type VisitLister interface {
	ListByDate(ctx context.Context, date string) ([]models.Visit, error)
}

type VisitStore interface {
	VisitLister
	Insert(ctx context.Context, v models.Visit) error
	Exists(ctx context.Context, rut, date string, m meal.Type) (bool, error)
	Merge(ctx context.Context, visits []models.Visit) (int, error)
}

// RosterSource yields the full roster from its origin.
type RosterSource interface {
	Fetch(ctx context.Context) ([]models.Student, error)
}

// Journal is the remote append-only visit log.
type Journal interface {
	Enabled() bool
	Today(ctx context.Context) ([]models.Visit, error)
	Submit(ctx context.Context, v models.Visit) error
}

type Syncer interface {
	Sync(ctx context.Context) (int, error)
}

type Archiver interface {
	Save(ctx context.Context, key, contentType string, body io.Reader) error
}

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

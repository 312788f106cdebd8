package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/models"
	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/roster"
)

type RosterService struct {
	log      *slog.Logger
	source   RosterSource
	students StudentStore
}

// NewRosterService wires the roster snapshot. A nil source runs in demo mode.
func NewRosterService(log *slog.Logger, source RosterSource, students StudentStore) *RosterService {
	return &RosterService{
		log:      log,
		source:   source,
		students: students,
	}
}

func (s *RosterService) Demo() bool {
	return s.source == nil
}

// Reload replaces the stored roster with a fresh copy. On fetch failure the
// previous snapshot stays in place.
func (s *RosterService) Reload(ctx context.Context) (models.RosterStatus, error) {
	const op = "service.roster.Reload"

	log := s.log.With(
		slog.String("op", op),
		slog.Bool("demo", s.Demo()),
	)

	log.Info("reloading roster")

	var students []models.Student
	if s.Demo() {
		students = roster.DemoStudents()
	} else {
		fetched, err := s.source.Fetch(ctx)
		if err != nil {
			log.Error("failed to fetch roster", sl.Err(err))
			return models.RosterStatus{}, fmt.Errorf("%s: %w", op, err)
		}
		students = fetched
	}

	if err := s.students.ReplaceAll(ctx, students); err != nil {
		log.Error("failed to store roster", sl.Err(err))
		return models.RosterStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	status, err := s.Status(ctx)
	if err != nil {
		return models.RosterStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("roster reloaded", slog.Int("size", status.Size))

	return status, nil
}

func (s *RosterService) Status(ctx context.Context) (models.RosterStatus, error) {
	const op = "service.roster.Status"

	size, err := s.students.Count(ctx)
	if err != nil {
		return models.RosterStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.RosterStatus{Size: size, Demo: s.Demo()}, nil
}

func (s *RosterService) Lookup(ctx context.Context, rut string) (*models.Student, error) {
	const op = "service.roster.Lookup"

	rut = strings.TrimSpace(rut)
	if rut == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrRUTRequired)
	}

	student, err := s.students.GetByRUT(ctx, rut)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return student, nil
}

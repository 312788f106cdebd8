package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
	"meal-checkin/internal/lib/logger/sl"
)

type RegisterResult struct {
	Visit   models.Visit   `json:"visit"`
	Student models.Student `json:"student"`
	Message string         `json:"message"`
}

type CheckinService struct {
	log      *slog.Logger
	students StudentProvider
	visits   VisitStore
	journal  Journal
	schedule *meal.Schedule
	now      Clock

	pending sync.WaitGroup
}

func NewCheckinService(
	log *slog.Logger,
	students StudentProvider,
	visits VisitStore,
	journal Journal,
	schedule *meal.Schedule,
	now Clock,
) *CheckinService {
	return &CheckinService{
		log:      log,
		students: students,
		visits:   visits,
		journal:  journal,
		schedule: schedule,
		now:      orNow(now),
	}
}

func (s *CheckinService) Register(ctx context.Context, rut string) (RegisterResult, error) {
	const op = "service.checkin.Register"

	rut = strings.TrimSpace(rut)

	log := s.log.With(
		slog.String("op", op),
		slog.String("rut", rut),
	)

	if rut == "" {
		return RegisterResult{}, fmt.Errorf("%s: %w", op, apperrors.ErrRUTRequired)
	}

	student, err := s.students.GetByRUT(ctx, rut)
	if err != nil {
		log.Warn("student lookup failed", sl.Err(err))
		return RegisterResult{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().In(s.schedule.Location())

	served, ok := s.schedule.Classify(now)
	if !ok {
		log.Info("check-in outside meal windows", slog.String("clock", meal.ClockOf(now).String()))
		return RegisterResult{}, fmt.Errorf("%s: %w", op, apperrors.ErrOutsideMealWindow)
	}

	today := s.schedule.Day(now)

	exists, err := s.visits.Exists(ctx, rut, today, served)
	if err != nil {
		log.Error("failed to check previous visits", sl.Err(err))
		return RegisterResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return RegisterResult{}, fmt.Errorf("%s: %w", op, &apperrors.DuplicateVisitError{Meal: string(served)})
	}

	visit := models.Visit{
		ID:           uuid.NewString(),
		RUT:          student.RUT,
		Name:         student.Name,
		Course:       student.Course,
		Meal:         served,
		Date:         today,
		Clock:        meal.FormatClock(now),
		RegisteredAt: now,
		Source:       models.SourceLocal,
	}

	if err := s.visits.Insert(ctx, visit); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return RegisterResult{}, fmt.Errorf("%s: %w", op, &apperrors.DuplicateVisitError{Meal: string(served)})
		}
		log.Error("failed to store visit", sl.Err(err))
		return RegisterResult{}, fmt.Errorf("%s: %w", op, err)
	}

	s.submit(ctx, visit)

	log.Info("visit registered", slog.String("meal", string(served)))

	return RegisterResult{
		Visit:   visit,
		Student: *student,
		Message: "Registrado: " + student.Name,
	}, nil
}

// submit forwards the visit to the remote log without blocking the caller.
// A failed write is logged and the local entry is kept.
func (s *CheckinService) submit(ctx context.Context, visit models.Visit) {
	if s.journal == nil || !s.journal.Enabled() {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		const op = "service.checkin.submit"

		if err := s.journal.Submit(context.WithoutCancel(ctx), visit); err != nil {
			s.log.Error("failed to submit visit to remote log",
				slog.String("op", op),
				slog.String("rut", visit.RUT),
				sl.Err(err),
			)
		}
	}()
}

// Wait blocks until every background submission has finished.
func (s *CheckinService) Wait() {
	s.pending.Wait()
}

// Sync merges the remote log into the local store and returns how many
// visits were new.
func (s *CheckinService) Sync(ctx context.Context) (int, error) {
	const op = "service.checkin.Sync"

	if s.journal == nil || !s.journal.Enabled() {
		return 0, nil
	}

	log := s.log.With(slog.String("op", op))

	remote, err := s.journal.Today(ctx)
	if err != nil {
		log.Error("failed to load remote log", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	added, err := s.visits.Merge(ctx, remote)
	if err != nil {
		log.Error("failed to merge remote log", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("remote log merged", slog.Int("received", len(remote)), slog.Int("added", added))

	return added, nil
}

func (s *CheckinService) Suggest(ctx context.Context, prefix string) ([]models.Student, error) {
	const op = "service.checkin.Suggest"

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []models.Student{}, nil
	}

	students, err := s.students.SearchByPrefix(ctx, prefix, SuggestLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return students, nil
}

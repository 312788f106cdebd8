package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
	"meal-checkin/internal/lib/logger/sl"
)

const (
	MessageNoVisits  = "Aún no hay registros."
	MessageNoMatches = "No hay resultados."
)

type DashboardService struct {
	log      *slog.Logger
	visits   VisitLister
	schedule *meal.Schedule
	now      Clock
}

func NewDashboardService(log *slog.Logger, visits VisitLister, schedule *meal.Schedule, now Clock) *DashboardService {
	return &DashboardService{
		log:      log,
		visits:   visits,
		schedule: schedule,
		now:      orNow(now),
	}
}

func (s *DashboardService) Today(ctx context.Context, filter string) (models.Dashboard, error) {
	const op = "service.dashboard.Today"

	today := s.schedule.Day(s.now())

	visits, err := s.visits.ListByDate(ctx, today)
	if err != nil {
		s.log.Error("failed to list visits", slog.String("op", op), sl.Err(err))
		return models.Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}

	counts := Count(visits)

	return models.Dashboard{
		Date:   today,
		Counts: counts,
		Chart: models.Chart{
			Labels: []string{meal.Breakfast.Plural(), meal.Lunch.Plural()},
			Values: []int{counts.Breakfasts, counts.Lunches},
		},
		Table: BuildTable(visits, filter),
	}, nil
}

func (s *DashboardService) Table(ctx context.Context, filter string) (models.Table, error) {
	const op = "service.dashboard.Table"

	visits, err := s.visits.ListByDate(ctx, s.schedule.Day(s.now()))
	if err != nil {
		s.log.Error("failed to list visits", slog.String("op", op), sl.Err(err))
		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}

	return BuildTable(visits, filter), nil
}

func Count(visits []models.Visit) models.Counts {
	counts := models.Counts{Total: len(visits)}
	for _, v := range visits {
		switch v.Meal {
		case meal.Breakfast:
			counts.Breakfasts++
		case meal.Lunch:
			counts.Lunches++
		}
	}
	return counts
}

// BuildTable lists visits newest first, keeping those whose name, RUT or meal
// contains filter regardless of case.
func BuildTable(visits []models.Visit, filter string) models.Table {
	filter = strings.TrimSpace(filter)
	fold := cases.Fold()
	needle := fold.String(filter)

	rows := make([]models.Visit, 0, len(visits))
	for _, v := range slices.Backward(visits) {
		if needle == "" ||
			strings.Contains(fold.String(v.Name), needle) ||
			strings.Contains(fold.String(v.RUT), needle) ||
			strings.Contains(fold.String(string(v.Meal)), needle) {
			rows = append(rows, v)
		}
	}

	table := models.Table{Filter: filter, Rows: rows}
	if len(rows) == 0 {
		if len(visits) == 0 {
			table.EmptyMessage = MessageNoVisits
		} else {
			table.EmptyMessage = MessageNoMatches
		}
	}

	return table
}

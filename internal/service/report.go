package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/report"
)

type ReportService struct {
	log      *slog.Logger
	syncer   Syncer
	visits   VisitLister
	archiver Archiver
	schedule *meal.Schedule
	now      Clock
}

// NewReportService builds the exporter. archiver may be nil.
func NewReportService(
	log *slog.Logger,
	syncer Syncer,
	visits VisitLister,
	archiver Archiver,
	schedule *meal.Schedule,
	now Clock,
) *ReportService {
	return &ReportService{
		log:      log,
		syncer:   syncer,
		visits:   visits,
		archiver: archiver,
		schedule: schedule,
		now:      orNow(now),
	}
}

// Today resyncs with the remote log and renders the day's CSV report.
func (s *ReportService) Today(ctx context.Context) (report.File, error) {
	const op = "service.report.Today"

	log := s.log.With(slog.String("op", op))

	if s.syncer != nil {
		if _, err := s.syncer.Sync(ctx); err != nil {
			log.Warn("exporting without remote sync", sl.Err(err))
		}
	}

	today := s.schedule.Day(s.now())

	visits, err := s.visits.ListByDate(ctx, today)
	if err != nil {
		log.Error("failed to list visits", sl.Err(err))
		return report.File{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(visits) == 0 {
		return report.File{}, fmt.Errorf("%s: %w", op, apperrors.ErrNothingToExport)
	}

	file := report.Build(today, visits)

	if s.archiver != nil {
		key := report.ArchiveKey(today)
		if err := s.archiver.Save(ctx, key, report.ContentType, bytes.NewReader(file.Content)); err != nil {
			log.Error("failed to archive report", slog.String("key", key), sl.Err(err))
		} else {
			log.Info("report archived", slog.String("key", key))
		}
	}

	log.Info("report generated", slog.Int("rows", file.Rows))

	return file, nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"meal-checkin/internal/app/rest"
	"meal-checkin/internal/config"
	"meal-checkin/internal/domain/meal"
	v1 "meal-checkin/internal/http/v1"
	"meal-checkin/internal/journal"
	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/lib/migrator"
	"meal-checkin/internal/repo"
	"meal-checkin/internal/roster"
	"meal-checkin/internal/service"
	"meal-checkin/internal/storage"
	"meal-checkin/internal/storage/archive"
)

const preloadTimeout = 30 * time.Second

type App struct {
	log            *slog.Logger
	storage        *storage.Storage
	restApp        *rest.App
	rosterService  *service.RosterService
	checkinService *service.CheckinService

	preloadCtx    context.Context
	preloadCancel context.CancelFunc
	preloadDone   chan struct{}
}

func MustNew(log *slog.Logger, cfg *config.Config) *App {
	// storage goes first so an in-memory database outlives the migration connection.
	st := storage.MustNew(cfg.Storage)

	if err := migrator.RunMigrations(cfg.Storage, log); err != nil {
		log.Error("failed to run migrations", sl.Err(err))
		panic(err)
	}

	schedule, err := NewSchedule(cfg.Meals)
	if err != nil {
		log.Error("invalid meal schedule", sl.Err(err))
		panic(err)
	}

	studentRepo := repo.NewStudentRepo(st.GetDB())
	visitRepo := repo.NewVisitRepo(st.GetDB())

	var source service.RosterSource
	if cfg.Roster.SheetURL != "" {
		source = roster.NewFetcher(log, cfg.Roster.SheetURL, cfg.Roster.Timeout)
	} else {
		log.Warn("no roster sheet configured, running with demo students")
	}

	journalClient := journal.New(log, cfg.Journal.ScriptURL, schedule.Location(), cfg.Journal.Timeout, cfg.Journal.MaxRetryWindow)
	if !journalClient.Enabled() {
		log.Warn("no remote log configured, visits are kept locally only")
	}

	var archiver service.Archiver
	if cfg.Archive.Enabled() {
		s3Archive, err := archive.NewS3(context.Background(), log, cfg.Archive)
		if err != nil {
			log.Error("failed to init report archive", sl.Err(err))
			panic(err)
		}
		archiver = s3Archive
	}

	rosterService := service.NewRosterService(log, source, studentRepo)
	checkinService := service.NewCheckinService(log, studentRepo, visitRepo, journalClient, schedule, nil)
	dashboardService := service.NewDashboardService(log, visitRepo, schedule, nil)
	reportService := service.NewReportService(log, checkinService, visitRepo, archiver, schedule, nil)

	routerDependencies := v1.RouterDependencies{
		CheckinService:   checkinService,
		RosterService:    rosterService,
		DashboardService: dashboardService,
		ReportService:    reportService,
	}

	restApp := rest.New(
		log,
		&routerDependencies,
		cfg.Server,
	)

	preloadCtx, preloadCancel := context.WithCancel(context.Background())

	return &App{
		log:            log,
		storage:        st,
		restApp:        restApp,
		rosterService:  rosterService,
		checkinService: checkinService,
		preloadCtx:     preloadCtx,
		preloadCancel:  preloadCancel,
		preloadDone:    make(chan struct{}),
	}
}

// NewSchedule builds the meal schedule from configured bounds.
func NewSchedule(cfg config.MealsConfig) (*meal.Schedule, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", cfg.TimeZone, err)
	}

	bounds := []struct {
		meal       meal.Type
		start, end string
	}{
		{meal.Breakfast, cfg.BreakfastStart, cfg.BreakfastEnd},
		{meal.Lunch, cfg.LunchStart, cfg.LunchEnd},
	}

	windows := make([]meal.Window, 0, len(bounds))
	for _, b := range bounds {
		start, err := meal.ParseClock(b.start)
		if err != nil {
			return nil, fmt.Errorf("%s start: %w", b.meal, err)
		}
		end, err := meal.ParseClock(b.end)
		if err != nil {
			return nil, fmt.Errorf("%s end: %w", b.meal, err)
		}
		if end < start {
			return nil, fmt.Errorf("%s window ends before it starts", b.meal)
		}
		windows = append(windows, meal.Window{Meal: b.meal, Start: start, End: end})
	}

	return meal.NewSchedule(loc, windows...), nil
}

// Preload fetches the roster and today's remote log concurrently. Failures are
// logged and leave the service running on whatever is stored.
func (a *App) Preload(ctx context.Context) {
	const op = "app.Preload"
	log := a.log.With(slog.String("op", op))

	ctx, cancel := context.WithTimeout(ctx, preloadTimeout)
	defer cancel()

	var g errgroup.Group

	g.Go(func() error {
		if _, err := a.rosterService.Reload(ctx); err != nil {
			log.Error("initial roster load failed", sl.Err(err))
		}
		return nil
	})

	g.Go(func() error {
		if _, err := a.checkinService.Sync(ctx); err != nil {
			log.Error("initial remote log sync failed", sl.Err(err))
		}
		return nil
	})

	_ = g.Wait()
}

// MustRun binds the HTTP listener, then preloads data in the background while
// already serving requests.
func (a *App) MustRun() {
	const op = "app.MustRun"
	a.log.With(slog.String("op", op)).Info("starting application")

	if err := a.restApp.Listen(); err != nil {
		panic(err)
	}

	go func() {
		defer close(a.preloadDone)
		a.Preload(a.preloadCtx)
	}()

	if err := a.restApp.Run(); err != nil {
		panic(err)
	}
}

func (a *App) GracefulShutdown() {
	const op = "app.GracefulShutdown"
	log := a.log.With(slog.String("op", op))
	log.Info("shutting down application")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.restApp.Stop(ctx); err != nil {
		log.Error("failed to stop HTTP server", sl.Err(err))
	}

	a.preloadCancel()
	select {
	case <-a.preloadDone:
	case <-ctx.Done():
		log.Warn("preload still running at shutdown")
	}

	a.checkinService.Wait()

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			log.Error("failed to close database", sl.Err(err))
		}
		log.Info("database connection closed")
	}
}

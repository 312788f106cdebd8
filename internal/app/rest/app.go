package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"meal-checkin/internal/config"
	v1 "meal-checkin/internal/http/v1"
	mw "meal-checkin/internal/http/v1/middleware"
)

type App struct {
	log        *slog.Logger
	deps       *v1.RouterDependencies
	httpServer *http.Server
	listener   net.Listener
}

func New(
	log *slog.Logger,
	deps *v1.RouterDependencies,
	cfg config.HTTPServer,
) *App {
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewHandler(log, deps),
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		log:        log,
		deps:       deps,
		httpServer: httpServer,
	}
}

// NewHandler assembles the v1 API with its middleware stack.
func NewHandler(log *slog.Logger, deps *v1.RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	v1.SetupRoutes(r, deps, log)

	return r
}

// Listen binds the server address. Calling it again is a no-op.
func (a *App) Listen() error {
	const op = "app.rest.Listen"

	if a.listener != nil {
		return nil
	}

	l, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.listener = l

	return nil
}

// Addr is the bound address, or the configured one before Listen.
func (a *App) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.httpServer.Addr
}

func (a *App) Run() error {
	const op = "app.rest.Run"

	if err := a.Listen(); err != nil {
		return err
	}

	a.log.With(slog.String("op", op)).Info("starting REST server", slog.String("addr", a.Addr()))

	if err := a.httpServer.Serve(a.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "app.rest.Stop"
	a.log.With(slog.String("op", op)).Info("stopping REST server")
	return a.httpServer.Shutdown(ctx)
}

package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/http/v1/handler"
)

type HealthRouter struct {
	handler *handler.HealthHandler
}

func NewHealthRouter(log *slog.Logger) *HealthRouter {
	return &HealthRouter{
		handler: handler.NewHealthHandler(log),
	}
}

func (hr *HealthRouter) SetupRoutes(r chi.Router) {
	r.Get("/health", hr.handler.Health)
}

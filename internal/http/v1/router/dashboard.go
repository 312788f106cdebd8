package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/http/v1/handler"
	"meal-checkin/internal/service"
)

type DashboardRouter struct {
	handler *handler.DashboardHandler
}

func NewDashboardRouter(dashboardService *service.DashboardService, log *slog.Logger) *DashboardRouter {
	return &DashboardRouter{
		handler: handler.NewDashboardHandler(dashboardService, log),
	}
}

func (dr *DashboardRouter) SetupRoutes(r chi.Router) {
	r.Get("/dashboard", dr.handler.Today)
}

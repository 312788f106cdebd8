package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/http/v1/handler"
	"meal-checkin/internal/service"
)

type CheckinRouter struct {
	handler *handler.CheckinHandler
}

func NewCheckinRouter(
	checkinService *service.CheckinService,
	dashboardService *service.DashboardService,
	log *slog.Logger,
) *CheckinRouter {
	return &CheckinRouter{
		handler: handler.NewCheckinHandler(checkinService, dashboardService, log),
	}
}

func (cr *CheckinRouter) SetupRoutes(r chi.Router) {
	r.Route("/checkins", func(r chi.Router) {
		r.Post("/", cr.handler.Register)
		r.Get("/", cr.handler.List)
		r.Post("/sync", cr.handler.Sync)
	})
}

package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/http/v1/handler"
	"meal-checkin/internal/service"
)

type RosterRouter struct {
	handler *handler.RosterHandler
}

func NewRosterRouter(rosterService *service.RosterService, log *slog.Logger) *RosterRouter {
	return &RosterRouter{
		handler: handler.NewRosterHandler(rosterService, log),
	}
}

func (rr *RosterRouter) SetupRoutes(r chi.Router) {
	r.Route("/roster", func(r chi.Router) {
		r.Get("/", rr.handler.Status)
		r.Post("/reload", rr.handler.Reload)
	})
}

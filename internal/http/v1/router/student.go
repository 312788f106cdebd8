package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/http/v1/handler"
	"meal-checkin/internal/service"
)

type StudentRouter struct {
	handler *handler.StudentHandler
}

func NewStudentRouter(
	checkinService *service.CheckinService,
	rosterService *service.RosterService,
	log *slog.Logger,
) *StudentRouter {
	return &StudentRouter{
		handler: handler.NewStudentHandler(checkinService, rosterService, log),
	}
}

func (sr *StudentRouter) SetupRoutes(r chi.Router) {
	r.Route("/students", func(r chi.Router) {
		r.Get("/suggest", sr.handler.Suggest)
		r.Get("/{rut}", sr.handler.Get)
	})
}

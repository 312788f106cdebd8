package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/http/v1/handler"
	"meal-checkin/internal/service"
)

type ReportRouter struct {
	handler *handler.ReportHandler
}

func NewReportRouter(reportService *service.ReportService, log *slog.Logger) *ReportRouter {
	return &ReportRouter{
		handler: handler.NewReportHandler(reportService, log),
	}
}

func (rr *ReportRouter) SetupRoutes(r chi.Router) {
	r.Get("/reports/today.csv", rr.handler.Today)
}

package handler

import (
	"log/slog"
	"net/http"

	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              *slog.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log,
	}
}

func (h *DashboardHandler) Today(w http.ResponseWriter, r *http.Request) {
	const op = "handler.dashboard.Today"

	log := h.log.With(slog.String("op", op))

	dashboard, err := h.dashboardService.Today(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, dashboard)
}

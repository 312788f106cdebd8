package handler

import (
	"log/slog"
	"net/http"

	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/service"
)

type RosterHandler struct {
	rosterService *service.RosterService
	log           *slog.Logger
}

func NewRosterHandler(rosterService *service.RosterService, log *slog.Logger) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
		log:           log,
	}
}

func (h *RosterHandler) Status(w http.ResponseWriter, r *http.Request) {
	const op = "handler.roster.Status"

	log := h.log.With(slog.String("op", op))

	status, err := h.rosterService.Status(r.Context())
	if err != nil {
		log.Error("failed to read roster status", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, status)
}

func (h *RosterHandler) Reload(w http.ResponseWriter, r *http.Request) {
	const op = "handler.roster.Reload"

	log := h.log.With(slog.String("op", op))

	status, err := h.rosterService.Reload(r.Context())
	if err != nil {
		log.Error("failed to reload roster", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, status)
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/domain/models"
	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/service"
)

type SuggestResponse struct {
	Students []models.Student `json:"students"`
}

type StudentHandler struct {
	checkinService *service.CheckinService
	rosterService  *service.RosterService
	log            *slog.Logger
}

func NewStudentHandler(
	checkinService *service.CheckinService,
	rosterService *service.RosterService,
	log *slog.Logger,
) *StudentHandler {
	return &StudentHandler{
		checkinService: checkinService,
		rosterService:  rosterService,
		log:            log,
	}
}

func (h *StudentHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	const op = "handler.student.Suggest"

	log := h.log.With(slog.String("op", op))

	students, err := h.checkinService.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Error("failed to suggest students", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, SuggestResponse{Students: students})
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handler.student.Get"

	log := h.log.With(slog.String("op", op))

	student, err := h.rosterService.Lookup(r.Context(), chi.URLParam(r, "rut"))
	if err != nil {
		log.Info("student lookup failed", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, student)
}

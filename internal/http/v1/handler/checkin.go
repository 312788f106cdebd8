package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/service"
)

type (
	CheckinRequest struct {
		RUT string `json:"rut" validate:"required,max=32"`
	}

	SyncResponse struct {
		Added int `json:"added"`
	}
)

type CheckinHandler struct {
	checkinService   *service.CheckinService
	dashboardService *service.DashboardService
	validate         *validator.Validate
	log              *slog.Logger
}

func NewCheckinHandler(
	checkinService *service.CheckinService,
	dashboardService *service.DashboardService,
	log *slog.Logger,
) *CheckinHandler {
	return &CheckinHandler{
		checkinService:   checkinService,
		dashboardService: dashboardService,
		validate:         newValidator(),
		log:              log,
	}
}

func (h *CheckinHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handler.checkin.Register"

	log := h.log.With(slog.String("op", op))

	var req CheckinRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("invalid request body", sl.Err(err))
		writeError(log, w, http.StatusBadRequest, "INVALID_REQUEST", msgInvalidRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("request validation failed", sl.Err(err))

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "required" {
			writeError(log, w, http.StatusBadRequest, "RUT_REQUIRED", msgRUTRequired)
			return
		}
		writeError(log, w, http.StatusBadRequest, "INVALID_REQUEST", msgInvalidRequest)
		return
	}

	result, err := h.checkinService.Register(r.Context(), req.RUT)
	if err != nil {
		log.Info("check-in refused", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, result)
}

func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handler.checkin.List"

	log := h.log.With(slog.String("op", op))

	table, err := h.dashboardService.Table(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		log.Error("failed to build visit table", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, table)
}

func (h *CheckinHandler) Sync(w http.ResponseWriter, r *http.Request) {
	const op = "handler.checkin.Sync"

	log := h.log.With(slog.String("op", op))

	added, err := h.checkinService.Sync(r.Context())
	if err != nil {
		log.Error("failed to sync remote log", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, SyncResponse{Added: added})
}

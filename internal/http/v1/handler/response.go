package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/lib/logger/sl"
)

type (
	ErrorResponse struct {
		Error ErrorDetail `json:"error"`
	}

	ErrorDetail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
)

const (
	msgRUTRequired     = "Debe ingresar un RUT."
	msgInvalidRequest  = "Solicitud inválida."
	msgNotFound        = "RUT no encontrado."
	msgOutsideWindow   = "Registro fuera de horario permitido."
	msgNothingToExport = "No hay registros hoy para exportar."
	msgRosterFailed    = "Error al cargar la base de datos."
	msgJournalFailed   = "Error de sincronización con el registro remoto."
	msgInternal        = "Error interno."
)

// newValidator reports field errors under their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", sl.Err(err))
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, status int, code, message string) {
	writeJSON(log, w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeServiceError maps a service failure onto the API error contract.
func writeServiceError(log *slog.Logger, w http.ResponseWriter, err error) {
	var dup *apperrors.DuplicateVisitError

	switch {
	case errors.As(err, &dup):
		writeError(log, w, http.StatusConflict, "ALREADY_REGISTERED",
			fmt.Sprintf("Ya tiene un registro de %s hoy.", dup.Meal))
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		writeError(log, w, http.StatusConflict, "ALREADY_REGISTERED", "Ya tiene un registro hoy.")
	case errors.Is(err, apperrors.ErrRUTRequired):
		writeError(log, w, http.StatusBadRequest, "RUT_REQUIRED", msgRUTRequired)
	case errors.Is(err, apperrors.ErrStudentNotFound):
		writeError(log, w, http.StatusNotFound, "STUDENT_NOT_FOUND", msgNotFound)
	case errors.Is(err, apperrors.ErrOutsideMealWindow):
		writeError(log, w, http.StatusUnprocessableEntity, "OUTSIDE_MEAL_WINDOW", msgOutsideWindow)
	case errors.Is(err, apperrors.ErrNothingToExport):
		writeError(log, w, http.StatusNotFound, "NOTHING_TO_EXPORT", msgNothingToExport)
	case errors.Is(err, apperrors.ErrRosterUnavailable),
		errors.Is(err, apperrors.ErrRosterMissingRUT),
		errors.Is(err, apperrors.ErrRosterEmpty):
		writeError(log, w, http.StatusBadGateway, "ROSTER_UNAVAILABLE", msgRosterFailed)
	case errors.Is(err, apperrors.ErrJournalRejected),
		errors.Is(err, apperrors.ErrJournalStatus):
		writeError(log, w, http.StatusBadGateway, "JOURNAL_UNAVAILABLE", msgJournalFailed)
	default:
		writeError(log, w, http.StatusInternalServerError, "INTERNAL_ERROR", msgInternal)
	}
}

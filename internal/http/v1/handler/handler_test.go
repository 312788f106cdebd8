package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/lib/logger"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "duplicate",
			err:     fmt.Errorf("op: %w", &apperrors.DuplicateVisitError{Meal: "Almuerzo"}),
			status:  http.StatusConflict,
			code:    "ALREADY_REGISTERED",
			message: "Ya tiene un registro de Almuerzo hoy.",
		},
		{
			name:    "not found",
			err:     fmt.Errorf("op: %w", apperrors.ErrStudentNotFound),
			status:  http.StatusNotFound,
			code:    "STUDENT_NOT_FOUND",
			message: "RUT no encontrado.",
		},
		{
			name:    "outside window",
			err:     apperrors.ErrOutsideMealWindow,
			status:  http.StatusUnprocessableEntity,
			code:    "OUTSIDE_MEAL_WINDOW",
			message: "Registro fuera de horario permitido.",
		},
		{
			name:    "nothing to export",
			err:     apperrors.ErrNothingToExport,
			status:  http.StatusNotFound,
			code:    "NOTHING_TO_EXPORT",
			message: "No hay registros hoy para exportar.",
		},
		{
			name:   "roster",
			err:    apperrors.ErrRosterUnavailable,
			status: http.StatusBadGateway,
			code:   "ROSTER_UNAVAILABLE",
		},
		{
			name:   "unknown",
			err:    errors.New("disk on fire"),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(logger.Discard(), rec, tt.err)

			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			detail := decodeError(t, rec)
			require.Equal(t, tt.code, detail.Code)
			if tt.message != "" {
				require.Equal(t, tt.message, detail.Message)
			}
		})
	}
}

func TestCheckinHandler_RegisterRejectsBadRequests(t *testing.T) {
	h := NewCheckinHandler(nil, nil, logger.Discard())

	tests := []struct {
		body string
		code string
	}{
		{body: `{`, code: "INVALID_REQUEST"},
		{body: `{}`, code: "RUT_REQUIRED"},
		{body: `{"rut":""}`, code: "RUT_REQUIRED"},
		{body: `{"rut":"` + strings.Repeat("1", 40) + `"}`, code: "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/checkins", strings.NewReader(tt.body))

			h.Register(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

package handler

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"meal-checkin/internal/lib/logger/sl"
	"meal-checkin/internal/report"
	"meal-checkin/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
	log           *slog.Logger
}

func NewReportHandler(reportService *service.ReportService, log *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		log:           log,
	}
}

func (h *ReportHandler) Today(w http.ResponseWriter, r *http.Request) {
	const op = "handler.report.Today"

	log := h.log.With(slog.String("op", op))

	file, err := h.reportService.Today(r.Context())
	if err != nil {
		log.Info("report not generated", sl.Err(err))
		writeServiceError(log, w, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(file.Content); err != nil {
		log.Error("failed to write report", sl.Err(err))
	}
}

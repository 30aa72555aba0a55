package handler

import (
	"collection-engine/internal/api/handler/dto"
	"collection-engine/internal/domain/report"
	"log/slog"
	"net/http"
)

type ReportHandler struct {
	service report.ReportService
	logger  *slog.Logger
}

func NewReportHandler(s report.ReportService, l *slog.Logger) *ReportHandler {
	if s == nil {
		panic("report service cannot be nil")
	}
	return &ReportHandler{
		service: s,
		logger:  l.With("component", "ReportHandler"),
	}
}

// GetSummary handles GET /reports/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to build summary", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewSummaryResponse(summary))
}

// GetCollectorPerformance handles GET /reports/collectors
func (h *ReportHandler) GetCollectorPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.service.GetCollectorPerformance(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to build collector performance report", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CollectorPerformanceResponse, len(perf))
	for i := range perf {
		resp[i] = dto.NewCollectorPerformanceResponse(&perf[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetAreaReport handles GET /reports/areas
func (h *ReportHandler) GetAreaReport(w http.ResponseWriter, r *http.Request) {
	areas, err := h.service.GetAreaReport(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to build area report", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.AreaPerformanceResponse, len(areas))
	for i := range areas {
		resp[i] = dto.NewAreaPerformanceResponse(&areas[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetPromiseBuckets handles GET /reports/promises
func (h *ReportHandler) GetPromiseBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.GetPromiseBuckets(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to build promise buckets", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewPromiseBucketsResponse(buckets))
}

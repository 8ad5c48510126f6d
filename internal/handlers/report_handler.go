package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
	"github.com/traininghub/training-api/internal/services"
)

// ReportService is the interface that wraps methods for report generation
type ReportService interface {
	// Method Generate builds a report over all users and sessions in the requested format.
	//
	// "format" parameter is one of "pdf", "csv", "excel".
	//
	// If the format is unknown, models.ErrUnsupportedFormat will be returned together with "nil" value.
	Generate(ctx context.Context, actor *models.User, format string) (*services.Report, error)
}

// ReportHandler handles report generation HTTP requests
type ReportHandler struct {
	BaseHandler
	reportService ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		reportService: reportService,
	}
}

// RegisterRoutes registers all report handler routes.
// Note: This assumes the router already applies the auth middleware.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/generate", h.Generate)
	})
}

// Generate handles GET /reports/generate
// @Summary Generate training report
// @Description Generate a report over all users and sessions as a file download. Admin only.
// @Tags reports
// @Produce application/octet-stream
// @Param format query string false "Report format: pdf, csv, or excel (default: pdf)"
// @Success 200 {file} file "Report file"
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 403 {object} map[string]string "Not authorized"
// @Security ApiKeyAuth
// @Router /reports/generate [get]
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.FormatPDF
	}

	report, err := h.reportService.Generate(r.Context(), actor, format)
	if err != nil {
		h.Logger.Error("failed to generate report", zap.String("format", format), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(report.Content); err != nil {
		h.Logger.Error("failed to stream report", zap.Error(err))
	}
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
)

// ReportService определяет методы отчетов
type ReportService interface {
	Summary(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error)
}

// ReportHandler обрабатывает запросы отчетов
type ReportHandler struct {
	reportService ReportService
	logger        logger.Logger
	now           func() time.Time
}

// NewReportHandler создает новый handler
func NewReportHandler(reportService ReportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
		now:           time.Now,
	}
}

// Summary возвращает сводку за период [from, to)
// GET /api/v1/reports/summary?from=2024-01-01&to=2024-02-01
// По умолчанию - последние 30 дней
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeParam(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid to date")
		return
	}

	end := h.now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}

	summary, err := h.reportService.Summary(r.Context(), start, end)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build report")
		return
	}

	respondSuccess(w, http.StatusOK, summary)
}

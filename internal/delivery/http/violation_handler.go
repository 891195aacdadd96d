package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/frontandrew/patrol/internal/delivery/http/middleware"
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/usecase/violation"
	"github.com/google/uuid"
)

// ViolationService определяет методы для работы с нарушениями
type ViolationService interface {
	Quote(ctx context.Context, req *violation.QuoteRequest) (*violation.Quote, error)
	Submit(ctx context.Context, officerID uuid.UUID, req *violation.SubmitRequest) (*violation.SubmitResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Violation, error)
	List(ctx context.Context, filter domain.ViolationFilter, limit, offset int) ([]*domain.Violation, error)
	Recompute(ctx context.Context, onlyMissing bool) (*violation.RecomputeStats, error)
}

// ViolationHandler обрабатывает запросы оформления нарушений и расчета штрафов
type ViolationHandler struct {
	violationService ViolationService
	logger           logger.Logger
}

// NewViolationHandler создает новый handler
func NewViolationHandler(violationService ViolationService, logger logger.Logger) *ViolationHandler {
	return &ViolationHandler{
		violationService: violationService,
		logger:           logger,
	}
}

// Quote считает штраф без сохранения (живой пересчет в форме инспектора)
// POST /api/v1/fines/quote
func (h *ViolationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req violation.QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.quote(w, r, &req)
}

// QuoteQuery - то же, что Quote, но параметры в query
// GET /api/v1/fines/quote?vehicle_type=ΜΟΤΟ&ids=1,2&ids=5
func (h *ViolationHandler) QuoteQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := violation.QuoteRequest{
		VehicleType:          query.Get("vehicle_type"),
		SelectedViolationIDs: domain.RawSelection{},
	}
	for _, value := range query["ids"] {
		req.SelectedViolationIDs = append(req.SelectedViolationIDs, strings.Split(value, ",")...)
	}

	if err := validateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.quote(w, r, &req)
}

func (h *ViolationHandler) quote(w http.ResponseWriter, r *http.Request, req *violation.QuoteRequest) {
	quote, err := h.violationService.Quote(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to calculate fine")
		return
	}

	respondSuccess(w, http.StatusOK, quote)
}

// Submit оформляет нарушение от имени текущего инспектора
// POST /api/v1/violations
func (h *ViolationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req violation.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.violationService.Submit(r.Context(), claims.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to submit violation")
		return
	}

	respondSuccess(w, http.StatusCreated, result)
}

// GetViolation возвращает нарушение; инспектор видит только свои
// GET /api/v1/violations/{id}
func (h *ViolationHandler) GetViolation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid violation ID")
		return
	}

	v, err := h.violationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get violation")
		return
	}

	if claims.Role != domain.RoleAdmin && v.OfficerID != claims.UserID {
		// Чужие записи не раскрываем
		respondError(w, http.StatusNotFound, domain.ErrViolationNotFound.Error())
		return
	}

	respondSuccess(w, http.StatusOK, v)
}

// ListViolations возвращает нарушения по фильтру
// GET /api/v1/violations?from=&to=&plate=&officer_id=
// Инспектор всегда видит только свои записи
func (h *ViolationHandler) ListViolations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var (
		filter domain.ViolationFilter
		err    error
	)

	if filter.From, err = parseTimeParam(r, "from"); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	if filter.To, err = parseTimeParam(r, "to"); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid to date")
		return
	}
	filter.LicensePlate = r.URL.Query().Get("plate")

	if claims.Role == domain.RoleAdmin {
		if officer := r.URL.Query().Get("officer_id"); officer != "" {
			officerID, err := uuid.Parse(officer)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid officer ID")
				return
			}
			filter.OfficerID = &officerID
		}
	} else {
		officerID := claims.UserID
		filter.OfficerID = &officerID
	}

	limit, offset := getPaginationParams(r)

	violations, err := h.violationService.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list violations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    violations,
		"pagination": map[string]int{
			"limit":  limit,
			"offset": offset,
		},
	})
}

// Recompute пересчитывает сохраненные штрафы по текущему справочнику
// POST /api/v1/violations/recompute?all=true
// Без all пересчитываются только записи без суммы
func (h *ViolationHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	stats, err := h.violationService.Recompute(r.Context(), !all)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to recompute fines")
		return
	}

	respondSuccess(w, http.StatusOK, stats)
}

package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frontandrew/patrol/internal/delivery/http/middleware"
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/usecase/catalog"
)

// CatalogService определяет методы справочника нарушений
type CatalogService interface {
	CreateType(ctx context.Context, req *catalog.ViolationTypeRequest) (*domain.ViolationType, error)
	UpdateType(ctx context.Context, id int64, req *catalog.ViolationTypeRequest) (*domain.ViolationType, error)
	DeactivateType(ctx context.Context, id int64) error
	GetType(ctx context.Context, id int64) (*domain.ViolationType, error)
	ListTypes(ctx context.Context, includeInactive bool) ([]*domain.ViolationType, error)
}

// CatalogHandler обрабатывает запросы к справочнику нарушений
type CatalogHandler struct {
	catalogService CatalogService
	logger         logger.Logger
}

// NewCatalogHandler создает новый handler
func NewCatalogHandler(catalogService CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListTypes возвращает справочник
// GET /api/v1/violation-types?include_inactive=true (неактивные видит только администратор)
func (h *CatalogHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if v, err := strconv.ParseBool(r.URL.Query().Get("include_inactive")); err == nil && v {
		claims, ok := middleware.GetUserClaims(r.Context())
		includeInactive = ok && claims.Role == domain.RoleAdmin
	}

	types, err := h.catalogService.ListTypes(r.Context(), includeInactive)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list violation types")
		return
	}

	respondSuccess(w, http.StatusOK, types)
}

// GetType возвращает запись справочника
// GET /api/v1/violation-types/{id}
func (h *CatalogHandler) GetType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTypeID(w, r)
	if !ok {
		return
	}

	vt, err := h.catalogService.GetType(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get violation type")
		return
	}

	respondSuccess(w, http.StatusOK, vt)
}

// CreateType добавляет запись в справочник
// POST /api/v1/violation-types
func (h *CatalogHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req catalog.ViolationTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vt, err := h.catalogService.CreateType(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create violation type")
		return
	}

	respondSuccess(w, http.StatusCreated, vt)
}

// UpdateType заменяет запись справочника
// PUT /api/v1/violation-types/{id}
func (h *CatalogHandler) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTypeID(w, r)
	if !ok {
		return
	}

	var req catalog.ViolationTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vt, err := h.catalogService.UpdateType(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update violation type")
		return
	}

	respondSuccess(w, http.StatusOK, vt)
}

// DeactivateType выводит запись из оборота, сохраняя ее для старых нарушений
// DELETE /api/v1/violation-types/{id}
func (h *CatalogHandler) DeactivateType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTypeID(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.DeactivateType(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to deactivate violation type")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Violation type deactivated",
	})
}

func parseTypeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(getPathParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid violation type ID")
		return 0, false
	}
	return id, true
}

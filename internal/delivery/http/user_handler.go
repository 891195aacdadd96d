package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/patrol/internal/delivery/http/middleware"
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/usecase/user"
	"github.com/google/uuid"
)

// UserService определяет методы для управления сотрудниками
type UserService interface {
	CreateUser(ctx context.Context, req *user.CreateUserRequest) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *user.UpdateUserRequest) (*domain.User, error)
	DeactivateUser(ctx context.Context, actorID, id uuid.UUID) error
}

// UserHandler обрабатывает запросы администрирования сотрудников
type UserHandler struct {
	userService UserService
	logger      logger.Logger
}

// NewUserHandler создает новый handler
func NewUserHandler(userService UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser создает учетную запись сотрудника
// POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.userService.CreateUser(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create user")
		return
	}

	respondSuccess(w, http.StatusCreated, created)
}

// ListUsers возвращает список сотрудников
// GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := getPaginationParams(r)

	users, err := h.userService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    users,
		"pagination": map[string]int{
			"limit":  limit,
			"offset": offset,
		},
	})
}

// UpdateUser частично обновляет сотрудника
// PATCH /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req user.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update user")
		return
	}

	respondSuccess(w, http.StatusOK, updated)
}

// DeactivateUser блокирует сотрудника и отзывает его сессии
// DELETE /api/v1/users/{id}
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userService.DeactivateUser(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to deactivate user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deactivated",
	})
}

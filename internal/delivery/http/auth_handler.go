package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/patrol/internal/delivery/http/middleware"
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/usecase/auth"
	"github.com/google/uuid"
)

// AuthService определяет методы сервиса аутентификации
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	Refresh(ctx context.Context, req *auth.RefreshRequest) (*auth.LoginResponse, error)
	Logout(ctx context.Context, req *auth.RefreshRequest) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler создает новый handler
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login обрабатывает вход сотрудника
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to login")
		return
	}

	respondSuccess(w, http.StatusOK, response)
}

// Refresh выдает новую пару токенов по refresh токену
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	response, err := h.authService.Refresh(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to refresh token")
		return
	}

	respondSuccess(w, http.StatusOK, response)
}

// Logout отзывает refresh токен
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.Logout(r.Context(), &req); err != nil {
		respondServiceError(w, h.logger, err, "Failed to logout")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetMe возвращает информацию о текущем пользователе
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get user")
		return
	}

	respondSuccess(w, http.StatusOK, user)
}

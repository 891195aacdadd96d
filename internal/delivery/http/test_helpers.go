package http

import (
	"context"
	"testing"

	"github.com/frontandrew/patrol/internal/delivery/http/middleware"
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateTestUser создает тестового сотрудника
func CreateTestUser(id uuid.UUID, username string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:          id,
		Username:    username,
		FullName:    "Test Officer",
		BadgeNumber: "B-001",
		Role:        role,
		IsActive:    true,
	}
}

// CreateTestViolation создает тестовое нарушение
func CreateTestViolation(id, officerID uuid.UUID, licensePlate string) *domain.Violation {
	return &domain.Violation{
		ID:                   id,
		OfficerID:            officerID,
		LicensePlate:         licensePlate,
		VehicleType:          "ΙΧΕ",
		SelectedViolationIDs: []int64{1},
		FineBreakdown:        []domain.FineItem{},
		ViolationArticles:    []string{},
	}
}

// CreateAuthContext создает контекст с claims пользователя для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, username string, role domain.UserRole) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// WithURLParam добавляет параметр маршрута chi в контекст
func WithURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}

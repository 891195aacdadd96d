package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/hash"
	"github.com/frontandrew/patrol/internal/pkg/jwt"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/repository"
	"github.com/google/uuid"
)

// LoginRequest - запрос на вход
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest - запрос на обновление или отзыв токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse - ответ на вход и на обновление токенов
type LoginResponse struct {
	User             *domain.User `json:"user"`
	AccessToken      string       `json:"access_token"`
	RefreshToken     string       `json:"refresh_token"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
}

// Service содержит бизнес-логику аутентификации
type Service struct {
	userRepo     repository.UserRepository
	tokenRepo    repository.RefreshTokenRepository
	tokenService *jwt.TokenService
	logger       logger.Logger
}

// NewService создает новый экземпляр AuthService
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	tokenService *jwt.TokenService,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login аутентифицирует сотрудника и выдает пару токенов
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	s.logger.Info("User login attempt", map[string]interface{}{
		"username": username,
	})

	// Находим пользователя по логину
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Проверяем пароль
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("Login failed: user inactive", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, domain.ErrUserInactive
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	// Обновляем last_login_at
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("Failed to update last login", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	return resp, nil
}

// Refresh обменивает refresh токен на новую пару; старый токен отзывается
func (s *Service) Refresh(ctx context.Context, req *RefreshRequest) (*LoginResponse, error) {
	stored, err := s.tokenRepo.GetByTokenHash(ctx, jwt.HashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if stored.RevokedAt != nil {
		// Повторное использование отозванного токена - отзываем все сессии пользователя
		s.logger.Warn("Revoked refresh token reused", map[string]interface{}{
			"user_id": stored.UserID,
		})
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, stored.UserID); err != nil {
			s.logger.Error("Failed to revoke user tokens", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, domain.ErrRefreshTokenRevoked
	}

	if !stored.IsValid(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		// Параллельный refresh успел раньше
		if errors.Is(err, domain.ErrRefreshTokenRevoked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout отзывает refresh токен. Неизвестный или уже отозванный токен не ошибка
func (s *Service) Logout(ctx context.Context, req *RefreshRequest) error {
	stored, err := s.tokenRepo.GetByTokenHash(ctx, jwt.HashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil && !errors.Is(err, domain.ErrRefreshTokenRevoked) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.logger.Info("User logged out", map[string]interface{}{
		"user_id": stored.UserID,
	})

	return nil
}

// PurgeExpiredSessions удаляет истекшие и отозванные refresh токены
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("Expired sessions purged", map[string]interface{}{
			"deleted": deleted,
		})
	}

	return deleted, nil
}

// GetUserByID возвращает пользователя по ID
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return user, nil
}

// ValidateToken валидирует JWT токен и возвращает claims
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenService.ValidateToken(tokenString)
}

func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*LoginResponse, error) {
	tokenPair, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate tokens", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	refresh := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: jwt.HashToken(tokenPair.RefreshToken),
		ExpiresAt: tokenPair.RefreshExpiresAt,
	}
	if err := s.tokenRepo.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return &LoginResponse{
		User:             user,
		AccessToken:      tokenPair.AccessToken,
		RefreshToken:     tokenPair.RefreshToken,
		ExpiresAt:        tokenPair.ExpiresAt,
		RefreshExpiresAt: tokenPair.RefreshExpiresAt,
	}, nil
}

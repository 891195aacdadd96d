package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/hash"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/repository"
	"github.com/google/uuid"
)

// CreateUserRequest - запрос на создание сотрудника
type CreateUserRequest struct {
	Username    string          `json:"username" validate:"required,min=3,max=64"`
	Password    string          `json:"password" validate:"required,min=8"`
	FullName    string          `json:"full_name" validate:"required"`
	BadgeNumber string          `json:"badge_number,omitempty" validate:"omitempty,max=32"`
	Role        domain.UserRole `json:"role" validate:"required,oneof=admin officer"`
}

// UpdateUserRequest - частичное обновление сотрудника, nil = не менять
type UpdateUserRequest struct {
	FullName    *string          `json:"full_name,omitempty" validate:"omitempty,min=1"`
	BadgeNumber *string          `json:"badge_number,omitempty" validate:"omitempty,max=32"`
	Role        *domain.UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin officer"`
	Password    *string          `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// Service управляет учетными записями сотрудников
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	logger    logger.Logger
}

// NewService создает новый экземпляр UserService
func NewService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, logger logger.Logger) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// CreateUser создает учетную запись сотрудника
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*domain.User, error) {
	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(req.FullName),
		BadgeNumber:  strings.TrimSpace(req.BadgeNumber),
		Role:         req.Role,
		IsActive:     true,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	user.PasswordHash = ""
	return user, nil
}

// ListUsers возвращает сотрудников постранично
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// UpdateUser меняет данные сотрудника
// При смене пароля, роли или деактивации все сессии сотрудника отзываются
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	revokeSessions := false

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.BadgeNumber != nil {
		user.BadgeNumber = strings.TrimSpace(*req.BadgeNumber)
	}
	if req.Role != nil && *req.Role != user.Role {
		user.Role = *req.Role
		revokeSessions = true
	}
	if req.Password != nil {
		passwordHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
		revokeSessions = true
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.IsActive {
			revokeSessions = true
		}
		user.IsActive = *req.IsActive
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if revokeSessions {
		s.revokeSessions(ctx, user.ID)
	}

	s.logger.Info("User updated", map[string]interface{}{
		"user_id": user.ID,
	})

	user.PasswordHash = ""
	return user, nil
}

// DeactivateUser деактивирует сотрудника (мягкое удаление) и отзывает его сессии
// Администратор не может деактивировать сам себя
func (s *Service) DeactivateUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return domain.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.revokeSessions(ctx, id)

	s.logger.Info("User deactivated", map[string]interface{}{
		"user_id":  id,
		"actor_id": actorID,
	})

	return nil
}

func (s *Service) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		s.logger.Error("Failed to revoke user tokens", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

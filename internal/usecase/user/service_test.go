package user

import (
	"context"
	"testing"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное создание", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewService(users, new(MockRefreshTokenRepository), logger.NewNoop())

		users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "officer2" && u.PasswordHash != "" && u.PasswordHash != "password123" && u.IsActive
		})).Return(nil)

		user, err := svc.CreateUser(ctx, &CreateUserRequest{
			Username: "Officer2",
			Password: "password123",
			FullName: " Νίκος Παπαδόπουλος ",
			Role:     domain.RoleOfficer,
		})

		require.NoError(t, err)
		assert.Equal(t, "officer2", user.Username)
		assert.Equal(t, "Νίκος Παπαδόπουλος", user.FullName)
		assert.Empty(t, user.PasswordHash)
		users.AssertExpectations(t)
	})

	t.Run("логин занят", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewService(users, new(MockRefreshTokenRepository), logger.NewNoop())
		users.On("Create", ctx, mock.Anything).Return(domain.ErrUserAlreadyExists)

		_, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "admin", Password: "password123", FullName: "A", Role: domain.RoleAdmin})

		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("неизвестная роль", func(t *testing.T) {
		svc := NewService(new(MockUserRepository), new(MockRefreshTokenRepository), logger.NewNoop())

		_, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "x1", Password: "password123", FullName: "X", Role: "driver"})

		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})
}

func TestService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("смена роли отзывает сессии", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)
		svc := NewService(users, tokens, logger.NewNoop())

		existing := &domain.User{ID: uuid.New(), Username: "officer1", FullName: "O", Role: domain.RoleOfficer, IsActive: true}
		role := domain.RoleAdmin

		users.On("GetByID", ctx, existing.ID).Return(existing, nil)
		users.On("Update", ctx, existing).Return(nil)
		tokens.On("RevokeAllUserTokens", ctx, existing.ID).Return(nil)

		updated, err := svc.UpdateUser(ctx, existing.ID, &UpdateUserRequest{Role: &role})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, updated.Role)
		tokens.AssertExpectations(t)
	})

	t.Run("смена ФИО не трогает сессии", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)
		svc := NewService(users, tokens, logger.NewNoop())

		existing := &domain.User{ID: uuid.New(), Username: "officer1", FullName: "O", Role: domain.RoleOfficer, IsActive: true}
		name := "New Name"

		users.On("GetByID", ctx, existing.ID).Return(existing, nil)
		users.On("Update", ctx, existing).Return(nil)

		updated, err := svc.UpdateUser(ctx, existing.ID, &UpdateUserRequest{FullName: &name})

		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.FullName)
		tokens.AssertNotCalled(t, "RevokeAllUserTokens", mock.Anything, mock.Anything)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewService(users, new(MockRefreshTokenRepository), logger.NewNoop())
		id := uuid.New()
		users.On("GetByID", ctx, id).Return(nil, domain.ErrUserNotFound)

		_, err := svc.UpdateUser(ctx, id, &UpdateUserRequest{})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestService_DeactivateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("деактивация", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)
		svc := NewService(users, tokens, logger.NewNoop())
		id := uuid.New()

		users.On("Delete", ctx, id).Return(nil)
		tokens.On("RevokeAllUserTokens", ctx, id).Return(nil)

		require.NoError(t, svc.DeactivateUser(ctx, uuid.New(), id))
		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("себя деактивировать нельзя", func(t *testing.T) {
		svc := NewService(new(MockUserRepository), new(MockRefreshTokenRepository), logger.NewNoop())
		id := uuid.New()

		assert.ErrorIs(t, svc.DeactivateUser(ctx, id, id), domain.ErrForbidden)
	})
}

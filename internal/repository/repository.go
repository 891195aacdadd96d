package repository

import (
	"context"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с сотрудниками
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername возвращает пользователя по логину
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя (мягкое удаление - is_active = false)
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает список пользователей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired удаляет истекшие и отозванные токены, возвращает количество
	DeleteExpired(ctx context.Context) (int64, error)
}

// ViolationTypeRepository определяет методы для работы со справочником нарушений
type ViolationTypeRepository interface {
	// Create создает запись справочника, заполняет ID
	Create(ctx context.Context, vt *domain.ViolationType) error

	// GetByID возвращает запись, в том числе неактивную
	GetByID(ctx context.Context, id int64) (*domain.ViolationType, error)

	// Update обновляет запись справочника
	Update(ctx context.Context, vt *domain.ViolationType) error

	// Deactivate выводит запись из использования (is_active = false)
	// Физически записи не удаляются: на них ссылаются сохраненные нарушения
	Deactivate(ctx context.Context, id int64) error

	// List возвращает справочник, упорядоченный по ID
	List(ctx context.Context, includeInactive bool) ([]*domain.ViolationType, error)
}

// ViolationRepository определяет методы для работы с нарушениями
type ViolationRepository interface {
	// Create сохраняет нарушение вместе с рассчитанным штрафом
	Create(ctx context.Context, v *domain.Violation) error

	// GetByID возвращает нарушение по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Violation, error)

	// List возвращает нарушения по фильтру, новые первыми
	List(ctx context.Context, filter domain.ViolationFilter, limit, offset int) ([]*domain.Violation, error)

	// UpdateFine перезаписывает кэш штрафа и флаги изъятий
	UpdateFine(ctx context.Context, v *domain.Violation) error

	// ListForRecompute возвращает страницу нарушений с id > afterID, упорядоченную по id
	// onlyMissing = только записи без сохраненной суммы (NULL или 0)
	ListForRecompute(ctx context.Context, afterID uuid.UUID, limit int, onlyMissing bool) ([]*domain.Violation, error)

	// SummarizePeriod считает итоги за период [from, to)
	SummarizePeriod(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error)

	// CountByType считает, сколько раз выбран каждый тип нарушения за период [from, to)
	CountByType(ctx context.Context, from, to time.Time) ([]domain.TypeCount, error)
}

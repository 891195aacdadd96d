package cached

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/pkg/redis"
	"github.com/frontandrew/patrol/internal/repository"
)

const (
	catalogActiveKey = "catalog:violation_types:active"
	catalogAllKey    = "catalog:violation_types:all"
)

// Cache - операции кэша, которые нужны репозиторию (реализуется *redis.Client)
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ViolationTypeRepository добавляет кэширование справочника нарушений
// Кэшируется только List: справочник читается при каждом расчете штрафа,
// а меняется редко. Любая запись сбрасывает оба ключа.
type ViolationTypeRepository struct {
	repo  repository.ViolationTypeRepository
	cache Cache
	ttl   time.Duration
	log   logger.Logger
}

// NewViolationTypeRepository создает новый кэшируемый репозиторий справочника
func NewViolationTypeRepository(repo repository.ViolationTypeRepository, cache Cache, ttl time.Duration, log logger.Logger) *ViolationTypeRepository {
	return &ViolationTypeRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// List возвращает справочник (с кэшированием)
func (r *ViolationTypeRepository) List(ctx context.Context, includeInactive bool) ([]*domain.ViolationType, error) {
	key := catalogActiveKey
	if includeInactive {
		key = catalogAllKey
	}

	// 1. Проверяем кэш
	var cached []*domain.ViolationType
	err := r.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		// Ошибка кэша не критична - идем в БД
		r.log.Warn("Catalog cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	// 2. Cache miss - идем в БД
	types, err := r.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш
	if err := r.cache.SetJSON(ctx, key, types, r.ttl); err != nil {
		r.log.Warn("Catalog cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return types, nil
}

// GetByID получает запись по ID
func (r *ViolationTypeRepository) GetByID(ctx context.Context, id int64) (*domain.ViolationType, error) {
	// Одиночные записи читает только админка - не кэшируем
	return r.repo.GetByID(ctx, id)
}

// Create создает запись и инвалидирует кэш
func (r *ViolationTypeRepository) Create(ctx context.Context, vt *domain.ViolationType) error {
	if err := r.repo.Create(ctx, vt); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Update обновляет запись и инвалидирует кэш
func (r *ViolationTypeRepository) Update(ctx context.Context, vt *domain.ViolationType) error {
	if err := r.repo.Update(ctx, vt); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Deactivate выводит запись из использования и инвалидирует кэш
func (r *ViolationTypeRepository) Deactivate(ctx context.Context, id int64) error {
	if err := r.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *ViolationTypeRepository) invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, catalogActiveKey, catalogAllKey); err != nil {
		// Устаревший снимок проживет не дольше TTL
		r.log.Error("Catalog cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

var _ repository.ViolationTypeRepository = (*ViolationTypeRepository)(nil)

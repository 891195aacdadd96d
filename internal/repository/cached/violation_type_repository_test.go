package cached

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/pkg/redis"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryCache - кэш в памяти с JSON-сериализацией, как у Redis
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return errors.New("connection refused")
	}
	data, ok := c.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type MockViolationTypeRepository struct {
	mock.Mock
}

func (m *MockViolationTypeRepository) Create(ctx context.Context, vt *domain.ViolationType) error {
	args := m.Called(ctx, vt)
	return args.Error(0)
}

func (m *MockViolationTypeRepository) GetByID(ctx context.Context, id int64) (*domain.ViolationType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ViolationType), args.Error(1)
}

func (m *MockViolationTypeRepository) Update(ctx context.Context, vt *domain.ViolationType) error {
	args := m.Called(ctx, vt)
	return args.Error(0)
}

func (m *MockViolationTypeRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockViolationTypeRepository) List(ctx context.Context, includeInactive bool) ([]*domain.ViolationType, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ViolationType), args.Error(1)
}

func sampleTypes() []*domain.ViolationType {
	return []*domain.ViolationType{
		{
			ID:                  1,
			Description:         "Illegal parking",
			Article:             "34",
			FineCars:            decimal.RequireFromString("80.00"),
			FineMotorcycles:     decimal.NewNullDecimal(decimal.RequireFromString("40.00")),
			HalfFineMotorcycles: true,
			IsActive:            true,
		},
	}
}

func TestViolationTypeRepository_ListReadThrough(t *testing.T) {
	ctx := context.Background()
	base := new(MockViolationTypeRepository)
	cache := newMemoryCache()
	repo := NewViolationTypeRepository(base, cache, time.Minute, logger.NewNoop())

	base.On("List", ctx, false).Return(sampleTypes(), nil).Once()

	first, err := repo.List(ctx, false)
	require.NoError(t, err)
	second, err := repo.List(ctx, false)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].Description, second[0].Description)
	assert.True(t, second[0].FineMotorcycles.Valid)
	assert.True(t, second[0].FineMotorcycles.Decimal.Equal(decimal.RequireFromString("40")))
	assert.True(t, cache.has(catalogActiveKey))
	assert.False(t, cache.has(catalogAllKey))
	base.AssertExpectations(t)
}

func TestViolationTypeRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	base := new(MockViolationTypeRepository)
	cache := newMemoryCache()
	repo := NewViolationTypeRepository(base, cache, time.Minute, logger.NewNoop())

	base.On("List", ctx, false).Return(sampleTypes(), nil)
	base.On("List", ctx, true).Return(sampleTypes(), nil)
	base.On("Deactivate", ctx, int64(1)).Return(nil)

	_, err := repo.List(ctx, false)
	require.NoError(t, err)
	_, err = repo.List(ctx, true)
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(ctx, 1))

	assert.False(t, cache.has(catalogActiveKey))
	assert.False(t, cache.has(catalogAllKey))
}

func TestViolationTypeRepository_FailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	base := new(MockViolationTypeRepository)
	cache := newMemoryCache()
	repo := NewViolationTypeRepository(base, cache, time.Minute, logger.NewNoop())

	vt := sampleTypes()[0]
	base.On("List", ctx, false).Return(sampleTypes(), nil).Once()
	base.On("Update", ctx, vt).Return(domain.ErrViolationTypeNotFound)

	_, err := repo.List(ctx, false)
	require.NoError(t, err)

	err = repo.Update(ctx, vt)
	assert.ErrorIs(t, err, domain.ErrViolationTypeNotFound)
	assert.True(t, cache.has(catalogActiveKey))
}

func TestViolationTypeRepository_CacheErrorFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	base := new(MockViolationTypeRepository)
	cache := newMemoryCache()
	cache.failGet = true
	repo := NewViolationTypeRepository(base, cache, time.Minute, logger.NewNoop())

	base.On("List", ctx, true).Return(sampleTypes(), nil).Twice()

	for i := 0; i < 2; i++ {
		types, err := repo.List(ctx, true)
		require.NoError(t, err)
		assert.Len(t, types, 1)
	}
	base.AssertExpectations(t)
}

package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_ops/internal/dto"
	"transit_ops/internal/repository"
	"transit_ops/internal/service"
	"transit_ops/internal/testutil"
)

// memoryCache mimics the redis repository: values are stored as JSON.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return repository.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestStopListIsCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	mem := newMemoryCache()
	metrics := service.NewMetricsService()
	stops := service.NewStopService(store, service.NewCacheService(mem, metrics, time.Minute, true))

	_, err := stops.Create(ctx, dto.CreateStopRequest{StopID: "S1", StopLat: ptr(36.8), StopLon: ptr(10.1)})
	require.NoError(t, err)

	first, err := stops.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, mem.sets)

	second, err := stops.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first[0].StopID, second[0].StopID)
	assert.Equal(t, 1, mem.sets, "second read is a hit")

	_, err = stops.Create(ctx, dto.CreateStopRequest{StopID: "S2", StopLat: ptr(36.9), StopLon: ptr(10.2)})
	require.NoError(t, err)

	third, err := stops.List(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.Equal(t, 2, mem.sets)
}

func TestDisabledCacheIsANoop(t *testing.T) {
	mem := newMemoryCache()
	cache := service.NewCacheService(mem, nil, 0, false)
	cache.Set(context.Background(), "k", 1)
	var out int
	assert.False(t, cache.Get(context.Background(), "k", &out))
	assert.Zero(t, mem.sets)

	var nilCache *service.CacheService
	assert.False(t, nilCache.Enabled())
}

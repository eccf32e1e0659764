package cache

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/config"
	"github.com/BaSui01/genbridge/providers/stock"
	"github.com/BaSui01/genbridge/registry"
	"github.com/BaSui01/genbridge/testutil"
)

// =============================================================================
// 🧪 Manager 测试
// =============================================================================

type countingRecorder struct {
	mu           sync.Mutex
	hits, misses int
}

func (r *countingRecorder) RecordCacheHit(string) {
	r.mu.Lock()
	r.hits++
	r.mu.Unlock()
}

func (r *countingRecorder) RecordCacheMiss(string) {
	r.mu.Lock()
	r.misses++
	r.mu.Unlock()
}

func setupTestRedis(t *testing.T, opts ...Option) (*miniredis.Miniredis, *Manager) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := Config{
		Addr:       mr.Addr(),
		KeyPrefix:  "test:",
		Name:       "stock",
		DefaultTTL: time.Minute,
	}
	manager, err := NewManager(cfg, zap.NewNop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	return mr, manager
}

func TestManager_SetAndGet(t *testing.T) {
	mr, manager := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, manager.Set(ctx, "k", "v", time.Minute))

	value, err := manager.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	// 键前缀写入 Redis
	assert.True(t, mr.Exists("test:k"))
	assert.False(t, mr.Exists("k"))
}

func TestManager_DefaultTTL(t *testing.T) {
	mr, manager := setupTestRedis(t)

	require.NoError(t, manager.Set(context.Background(), "k", "v", 0))
	assert.Equal(t, time.Minute, mr.TTL("test:k"))
}

func TestManager_Miss(t *testing.T) {
	rec := &countingRecorder{}
	_, manager := setupTestRedis(t, WithRecorder(rec))
	ctx := context.Background()

	value, err := manager.Get(ctx, "non-existent")
	assert.True(t, IsCacheMiss(err))
	assert.Equal(t, "", value)

	var result map[string]any
	assert.True(t, IsCacheMiss(manager.GetJSON(ctx, "non-existent", &result)))
	assert.Equal(t, 2, rec.misses)
	assert.Equal(t, 0, rec.hits)
}

func TestManager_DeleteAndExists(t *testing.T) {
	_, manager := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, manager.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, manager.Set(ctx, "b", "2", time.Minute))

	n, err := manager.Exists(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, manager.Delete(ctx, "a"))
	require.NoError(t, manager.Delete(ctx))

	_, err = manager.Get(ctx, "a")
	assert.True(t, IsCacheMiss(err))
}

func TestManager_JSON(t *testing.T) {
	_, manager := setupTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	require.NoError(t, manager.SetJSON(ctx, "j", payload{Name: "test", Value: 123}, time.Minute))

	var got payload
	require.NoError(t, manager.GetJSON(ctx, "j", &got))
	assert.Equal(t, payload{Name: "test", Value: 123}, got)

	assert.Error(t, manager.SetJSON(ctx, "bad", make(chan int), time.Minute))

	require.NoError(t, manager.Set(ctx, "text", "not a json", time.Minute))
	assert.Error(t, manager.GetJSON(ctx, "text", &got))
}

func TestManager_TTLExpiry(t *testing.T) {
	mr, manager := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, manager.Set(ctx, "ttl", "value", 100*time.Millisecond))
	require.NoError(t, manager.Expire(ctx, "ttl", 50*time.Millisecond))

	mr.FastForward(60 * time.Millisecond)

	_, err := manager.Get(ctx, "ttl")
	assert.True(t, IsCacheMiss(err))
}

func TestManager_Stats(t *testing.T) {
	_, manager := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, manager.Set(ctx, "k", "v", time.Minute))
	_, _ = manager.Get(ctx, "k")
	_, _ = manager.Get(ctx, "k")
	_, _ = manager.Get(ctx, "missing")

	stats, err := manager.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Keys)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
	assert.Equal(t, 0.0, Stats{}.HitRate())
}

func TestManager_Closed(t *testing.T) {
	_, manager := setupTestRedis(t)
	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())

	ctx := context.Background()
	assert.Error(t, manager.Ping(ctx))
	assert.Error(t, manager.Set(ctx, "k", "v", 0))
	_, err := manager.Get(ctx, "k")
	assert.Error(t, err)
	_, err = manager.GetStats(ctx)
	assert.Error(t, err)
}

func TestManager_HealthCheckStopsOnClose(t *testing.T) {
	mr := miniredis.RunT(t)
	manager, err := NewManager(Config{Addr: mr.Addr(), HealthCheckInterval: 5 * time.Millisecond}, nil)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, manager.Close())
	assert.Error(t, manager.Ping(context.Background()))
}

func TestNewManager_ConnectFailed(t *testing.T) {
	manager, err := NewManager(Config{Addr: "localhost:1"}, zap.NewNop())
	assert.Nil(t, manager)
	assert.Error(t, err)
}

func TestConfigFrom(t *testing.T) {
	c := ConfigFrom(config.RedisConfig{Addr: "r:6379", DB: 2, KeyPrefix: "gb:", StockTTL: time.Hour})
	assert.Equal(t, "r:6379", c.Addr)
	assert.Equal(t, 2, c.DB)
	assert.Equal(t, "gb:", c.KeyPrefix)
	assert.Equal(t, time.Hour, c.DefaultTTL)
	assert.Equal(t, 10, c.PoolSize)
}

func TestManager_ConcurrentOperations(t *testing.T) {
	_, manager := setupTestRedis(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "concurrent-" + strconv.Itoa(id)
			assert.NoError(t, manager.Set(ctx, key, "value", time.Minute))
			v, err := manager.Get(ctx, key)
			assert.NoError(t, err)
			assert.Equal(t, "value", v)
		}(i)
	}
	wg.Wait()
}

// ===== 🧪 Stock 搜索缓存集成 =====

func TestManager_StockSearchCache(t *testing.T) {
	_, manager := setupTestRedis(t)

	srv := testutil.NewAPIServer(t).On("GET", "/Rest"+stock.PathSearch,
		testutil.JSON(200, map[string]any{"nb_results": 1, "files": []map[string]any{{"id": 7, "title": "car"}}}))
	reg := registry.New(testutil.ClientOptions()...)
	reg.Register(stock.APIName, apiclient.Config{BaseURL: srv.URL + "/Rest"})
	svc := stock.NewService(reg, zap.NewNop(), stock.WithCache(manager, time.Minute))

	ctx := testutil.TestContext(t)
	for i := 0; i < 3; i++ {
		resp, err := svc.Search(ctx, "key", stock.SearchParameters{Words: "car"}, "")
		require.NoError(t, err)
		assert.Equal(t, 1, resp.NbResults)
	}

	assert.Equal(t, 1, srv.CallCount("GET", "/Rest"+stock.PathSearch))
	stats, err := manager.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

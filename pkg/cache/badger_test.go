package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadger(t *testing.T) *BadgerCache {
	t.Helper()
	bc, err := NewBadgerCache(WithBadgerInMemory(true), WithBadgerPrefix("test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bc.Close() })
	return bc
}

func TestBadgerCacheRoundTrip(t *testing.T) {
	bc := newTestBadger(t)
	ctx := context.Background()

	_, err := bc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, bc.Set(ctx, "stock:US:AAPL", []byte(`{"p":1}`), time.Minute))
	v, err := bc.Get(ctx, "stock:US:AAPL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":1}`, string(v))

	require.NoError(t, bc.Delete(ctx, "stock:US:AAPL"))
	ok, err := bc.Exists(ctx, "stock:US:AAPL")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerCacheDeleteByPattern(t *testing.T) {
	bc := newTestBadger(t)
	ctx := context.Background()
	for _, k := range []string{"stock:US:AAPL:12", "stock:US:MSFT:12", "stock:KR:005930:12"} {
		require.NoError(t, bc.Set(ctx, k, []byte("x"), time.Minute))
	}

	require.NoError(t, bc.DeleteByPattern(ctx, "stock:US:*"))

	ok, err := bc.Exists(ctx, "stock:US:AAPL:12", "stock:US:MSFT:12")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = bc.Exists(ctx, "stock:KR:005930:12")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLayeredCachePromotesFromL2(t *testing.T) {
	l2 := newTestBadger(t)
	lc := NewLayeredCache(l2, WithLayeredMemoryTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, l2.Set(ctx, "k", []byte("v"), time.Hour))
	assert.Equal(t, 0, lc.memCache.Len())

	v, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 1, lc.memCache.Len())

	require.NoError(t, lc.Delete(ctx, "k"))
	_, err = lc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLoaderOverBadger(t *testing.T) {
	loader, err := NewLoader(newTestBadger(t), 15*time.Minute)
	require.NoError(t, err)

	var calls int
	fetch := func(ctx context.Context) (string, error) { calls++; return "payload", nil }
	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), loader, "stock:US:AAPL:12", fetch)
		require.NoError(t, err)
		assert.Equal(t, "payload", got)
	}
	assert.Equal(t, 1, calls)
}

func TestLayeredMemoryTTLZeroKeepsDefault(t *testing.T) {
	lc := NewLayeredCache(newTestBadger(t), WithLayeredMemoryTTL(0))
	assert.Equal(t, time.Minute, lc.l1TTL)

	lc = NewLayeredCache(newTestBadger(t), WithLayeredMemoryTTL(5*time.Second))
	assert.Equal(t, 5*time.Second, lc.l1TTL)
}

func TestRedisPoolOption(t *testing.T) {
	cfg := &RedisConfig{PoolSize: 10, MinIdleConns: 2, PoolTimeout: 30 * time.Second}
	WithRedisPool(0, -1, 0)(cfg)
	assert.Equal(t, RedisConfig{PoolSize: 10, MinIdleConns: 2, PoolTimeout: 30 * time.Second}, *cfg)

	WithRedisPool(20, 4, time.Second)(cfg)
	assert.Equal(t, RedisConfig{PoolSize: 20, MinIdleConns: 4, PoolTimeout: time.Second}, *cfg)
}

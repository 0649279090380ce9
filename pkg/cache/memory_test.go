package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheLazyExpiry(t *testing.T) {
	mc := NewMemoryCache()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Minute))
	v, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	now = now.Add(time.Minute)
	assert.Equal(t, 1, mc.Len())
	_, err = mc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Hour))
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), time.Hour))
	now = now.Add(time.Second)
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", []byte("3"), time.Hour))

	ok, _ := mc.Exists(ctx, "b")
	assert.False(t, ok)
	ok, _ = mc.Exists(ctx, "a", "c")
	assert.True(t, ok)
	assert.Equal(t, 2, mc.Len())
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, mc.Set(ctx, "k", in, time.Minute))
	in[0] = 'x'

	out, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
	out[1] = 'y'

	again, _ := mc.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()
	for _, k := range []string{"stock:US:AAPL:12", "stock:US:MSFT:12", "stock:KR:005930:12"} {
		require.NoError(t, mc.Set(ctx, k, []byte("x"), time.Minute))
	}

	require.NoError(t, mc.DeleteByPattern(ctx, "stock:US:*"))

	ok, _ := mc.Exists(ctx, "stock:US:AAPL:12", "stock:US:MSFT:12")
	assert.False(t, ok)
	ok, _ = mc.Exists(ctx, "stock:KR:005930:12")
	assert.True(t, ok)
}

func TestLiteralPrefix(t *testing.T) {
	assert.Equal(t, "stock:US:", literalPrefix("stock:US:*"))
	assert.Equal(t, "stock:", literalPrefix("stock:[UK]*"))
	assert.Equal(t, "plain", literalPrefix("plain"))
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "stock:US:AAPL:12", GenerateKeyWithParams("stock", "US", "AAPL", 12))
}

func TestMemoryCacheConcurrentReaders(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(4))
	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "stock:US:AAPL:12", []byte(`{"price":226.48}`), time.Minute))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := mc.Get(ctx, "stock:US:AAPL:12")
			if err == nil && string(v) != `{"price":226.48}` {
				err = errors.New("unexpected value " + string(v))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestMemoryCacheExpiredGetKeepsReplacement(t *testing.T) {
	mc := NewMemoryCache()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("old"), time.Minute))
	now = now.Add(2 * time.Minute)
	require.NoError(t, mc.Set(ctx, "k", []byte("new"), time.Minute))

	v, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

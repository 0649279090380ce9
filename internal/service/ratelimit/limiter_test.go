package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowRefills(t *testing.T) {
	now := time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC)
	l := New(2, 0.5)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, wait := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 2*time.Second, wait)

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok, "buckets are per key")

	now = now.Add(2 * time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestSweepDropsIdleFullBuckets(t *testing.T) {
	now := time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC)
	l := New(1, 1)
	l.now = func() time.Time { return now }
	l.Allow("a")
	l.Allow("b")

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 2, l.Sweep(5*time.Minute))
	assert.Zero(t, l.Len())
}

func TestMiddlewareReturns429(t *testing.T) {
	e := echo.New()
	l := New(1, 0.1)
	e.GET("/api/analyze", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, l.Middleware())

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
		req.RemoteAddr = "192.0.2.10:4321"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do().Code)
	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParseDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "demo", r.URL.Query().Get("apikey"))
		assert.Equal(t, "stockadvisor/1.0", r.UserAgent())
		_, _ = w.Write([]byte(`{"symbol":"IBM","price":"187.41"}`))
	}))
	defer srv.Close()

	var out struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{
		URL:         srv.URL + "/query?function=GLOBAL_QUOTE",
		QueryParams: map[string][]string{"apikey": {"demo"}},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "IBM", out.Symbol)
	assert.Equal(t, "187.41", out.Price)
}

func TestSendAndParseStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: srv.URL}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, 30*time.Second, se.RetryAfter)
	assert.True(t, se.Temporary())
	assert.Contains(t, se.Body, "slow down")
}

func TestSendAndParseMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol": nope}`))
	}))
	defer srv.Close()

	var out map[string]string
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: srv.URL}, &out)
	require.Error(t, err)
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, 5*time.Second, parseRetryAfter("5", now))
	assert.Equal(t, 90*time.Second, parseRetryAfter(now.Add(90*time.Second).Format(http.TimeFormat), now))
	assert.Zero(t, parseRetryAfter("soon", now))
	assert.Zero(t, parseRetryAfter("", now))
}

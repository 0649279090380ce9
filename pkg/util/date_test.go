package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	require.True(t, ok)
	assert.Equal(t, s, got.UTC().Format(time.RFC3339))
}

func TestParseTimeDate(t *testing.T) {
	got, ok := ParseTime("2025-03-14")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got)
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	require.True(t, ok)
	assert.Equal(t, ts, got.Unix())
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 4, 5, 0, time.UTC)
	from, to := PeriodRange(now, 12)
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), to)
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), from)
}

func TestTruncateAndTicker(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeTicker("  aapl "))
	assert.Equal(t, "삼성", Truncate("삼성전자", 2))
	assert.Equal(t, "abc", Truncate("abc", 10))
}

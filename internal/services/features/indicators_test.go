package features

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/domain/models"
)

func barsFromCloses(closes ...float64) []models.PriceBar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		d := decimal.NewFromFloat(c)
		out[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   d,
			High:   d.Add(decimal.NewFromInt(1)),
			Low:    d.Sub(decimal.NewFromInt(1)),
			Close:  d,
			Volume: 1000,
		}
	}
	return out
}

func TestComputeLogReturns(t *testing.T) {
	assert.Nil(t, ComputeLogReturns([]float64{100}))

	r := ComputeLogReturns([]float64{100, 110, 0, 121})
	require.Len(t, r, 3)
	assert.InDelta(t, math.Log(1.1), r[0], 1e-12)
	assert.Equal(t, 0.0, r[1])
	assert.Equal(t, 0.0, r[2])
}

func TestAnnualizedVolatilityOfFlatSeriesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(ComputeLogReturns([]float64{10, 10, 10, 10})))
	assert.Greater(t, AnnualizedVolatility(ComputeLogReturns([]float64{10, 11, 9, 12, 8})), 0.0)
}

func TestSMAAndRSI(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 4.0, SMA(closes, 3))
	assert.Equal(t, 0.0, SMA(closes, 10))

	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	assert.Equal(t, 100.0, RSI(rising, 14))
	assert.Equal(t, 0.0, RSI(rising[:10], 14))
}

func TestMaxDrawdown(t *testing.T) {
	assert.InDelta(t, 0.5, MaxDrawdown([]float64{100, 120, 60, 90}), 1e-12)
	assert.Equal(t, 0.0, MaxDrawdown([]float64{1, 2, 3}))
}

func TestSummarize(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	s := Summarize(barsFromCloses(closes...))

	assert.Equal(t, 159.0, s.LastClose)
	assert.Equal(t, "uptrend", s.Trend)
	assert.InDelta(t, 2.0, s.ATR14, 1e-9)
	assert.Equal(t, 139.0, s.Support)
	assert.Equal(t, 160.0, s.Resistance)
	assert.Equal(t, 1000.0, s.AvgVolume20)

	assert.Equal(t, "unknown", Summarize(nil).Trend)
}

func TestPriceTargetsBands(t *testing.T) {
	calm := Summary{Volatility: 0.10}
	target, stop := PriceTargets(models.StanceBuy, 100, calm)
	assert.InDelta(t, 102, target, 1e-9)
	assert.InDelta(t, 97, stop, 1e-9)

	wild := Summary{Volatility: 0.50, Support: 90, ATR14: 3}
	target, stop = PriceTargets(models.StanceSell, 100, wild)
	assert.InDelta(t, 88, target, 1e-9)
	assert.InDelta(t, 88.2, stop, 1e-9)

	target, _ = PriceTargets(models.StanceHold, 100, calm)
	assert.Equal(t, 100.0, target)
}

func TestPriceTargetsStopIsNeverNegative(t *testing.T) {
	_, stop := PriceTargets(models.StanceBuy, 10, Summary{Volatility: 0.2, ATR14: 20})
	assert.Equal(t, 0.0, stop)
}

func TestRiskAndHorizon(t *testing.T) {
	assert.Equal(t, models.RiskLow, RiskFromVolatility(0.1))
	assert.Equal(t, models.RiskMedium, RiskFromVolatility(0.2))
	assert.Equal(t, models.RiskHigh, RiskFromVolatility(0.3))

	assert.Equal(t, "1-3 months", TimeHorizon(3))
	assert.Equal(t, "3-6 months", TimeHorizon(12))
	assert.Equal(t, "6-12 months", TimeHorizon(13))
}

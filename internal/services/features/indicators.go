// Package features derives price-history indicators used by analyst prompts
// and by the decision's price target and stop loss.
package features

import (
	"math"

	"github.com/montanaflynn/stats"

	"StockAdvisor/internal/domain/models"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252.0

// Summary is the indicator snapshot for one price history. Zero values mean
// the history was too short for that indicator.
type Summary struct {
	LastClose   float64 `json:"last_close"`
	Change1D    float64 `json:"change_1d"`
	Change5D    float64 `json:"change_5d"`
	Change20D   float64 `json:"change_20d"`
	SMA20       float64 `json:"sma_20"`
	SMA50       float64 `json:"sma_50"`
	SMA200      float64 `json:"sma_200"`
	RSI14       float64 `json:"rsi_14"`
	ATR14       float64 `json:"atr_14"`
	Volatility  float64 `json:"volatility"`
	MaxDrawdown float64 `json:"max_drawdown"`
	Support     float64 `json:"support"`
	Resistance  float64 `json:"resistance"`
	Position52W float64 `json:"position_52w"`
	AvgVolume20 float64 `json:"avg_volume_20"`
	Trend       string  `json:"trend"`
}

// Summarize computes a Summary over bars, which must be chronological.
func Summarize(bars []models.PriceBar) Summary {
	closes := closes(bars)
	if len(closes) == 0 {
		return Summary{Trend: "unknown"}
	}

	s := Summary{
		LastClose:   closes[len(closes)-1],
		Change1D:    change(closes, 1),
		Change5D:    change(closes, 5),
		Change20D:   change(closes, 20),
		SMA20:       SMA(closes, 20),
		SMA50:       SMA(closes, 50),
		SMA200:      SMA(closes, 200),
		RSI14:       RSI(closes, 14),
		ATR14:       ATR(bars, 14),
		Volatility:  AnnualizedVolatility(ComputeLogReturns(closes)),
		MaxDrawdown: MaxDrawdown(closes),
	}
	s.Support, s.Resistance = SupportResistance(bars, 20)
	s.Position52W = position52w(bars, s.LastClose)
	s.AvgVolume20 = avgVolume(bars, 20)
	s.Trend = trend(s.LastClose, s.SMA20, s.SMA50)
	return s
}

// ComputeLogReturns computes log returns r_t = ln(C_t / C_{t-1}).
// It returns a slice of length len(closes)-1, or nil if insufficient data.
func ComputeLogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev, cur := closes[i-1], closes[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// AnnualizedVolatility is the sample standard deviation of daily returns scaled to a year.
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return sd * math.Sqrt(TradingDaysPerYear)
}

// SMA is the mean of the last window values.
func SMA(values []float64, window int) float64 {
	if window <= 0 || len(values) < window {
		return 0
	}
	m, err := stats.Mean(values[len(values)-window:])
	if err != nil {
		return 0
	}
	return m
}

// RSI is Wilder's relative strength index over period.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) <= period {
		return 0
	}
	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(period)
	loss /= float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		gain = (gain*float64(period-1) + g) / float64(period)
		loss = (loss*float64(period-1) + l) / float64(period)
	}
	if loss == 0 {
		if gain == 0 {
			return 50
		}
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// ATR is the mean true range of the last period bars.
func ATR(bars []models.PriceBar, period int) float64 {
	if period <= 0 || len(bars) <= period {
		return 0
	}
	trs := make([]float64, 0, period)
	for i := len(bars) - period; i < len(bars); i++ {
		high := bars[i].High.InexactFloat64()
		low := bars[i].Low.InexactFloat64()
		prevClose := bars[i-1].Close.InexactFloat64()
		tr := math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
		trs = append(trs, tr)
	}
	m, err := stats.Mean(trs)
	if err != nil {
		return 0
	}
	return m
}

// MaxDrawdown is the largest peak-to-trough decline as a positive fraction.
func MaxDrawdown(closes []float64) float64 {
	peak, worst := 0.0, 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if dd := (peak - c) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// SupportResistance returns the lowest low and highest high of the last window bars.
func SupportResistance(bars []models.PriceBar, window int) (support, resistance float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	if window <= 0 || window > len(bars) {
		window = len(bars)
	}
	tail := bars[len(bars)-window:]
	lows := make([]float64, len(tail))
	highs := make([]float64, len(tail))
	for i, b := range tail {
		lows[i] = b.Low.InexactFloat64()
		highs[i] = b.High.InexactFloat64()
	}
	support, _ = stats.Min(lows)
	resistance, _ = stats.Max(highs)
	return support, resistance
}

func closes(bars []models.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close.InexactFloat64()
	}
	return out
}

func change(closes []float64, n int) float64 {
	if len(closes) <= n {
		return 0
	}
	prev := closes[len(closes)-1-n]
	if prev == 0 {
		return 0
	}
	return closes[len(closes)-1]/prev - 1
}

func position52w(bars []models.PriceBar, last float64) float64 {
	lo, hi := SupportResistance(bars, int(TradingDaysPerYear))
	if hi <= lo {
		return 0.5
	}
	return (last - lo) / (hi - lo)
}

func avgVolume(bars []models.PriceBar, window int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if window > len(bars) {
		window = len(bars)
	}
	vols := make([]float64, 0, window)
	for _, b := range bars[len(bars)-window:] {
		vols = append(vols, float64(b.Volume))
	}
	m, _ := stats.Mean(vols)
	return m
}

func trend(last, sma20, sma50 float64) string {
	switch {
	case sma20 == 0 || sma50 == 0:
		return "unknown"
	case last > sma20 && sma20 > sma50:
		return "uptrend"
	case last < sma20 && sma20 < sma50:
		return "downtrend"
	default:
		return "sideways"
	}
}

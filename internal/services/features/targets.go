package features

import (
	"math"

	"StockAdvisor/internal/domain/models"
)

// Band holds the percentage moves used for a volatility bucket.
type Band struct {
	Up       float64
	Down     float64
	StopLoss float64
}

// BandFor picks the band for an annualized volatility.
func BandFor(volatility float64) Band {
	switch {
	case volatility < 0.15:
		return Band{Up: 0.02, Down: 0.05, StopLoss: 0.03}
	case volatility < 0.30:
		return Band{Up: 0.03, Down: 0.08, StopLoss: 0.04}
	default:
		return Band{Up: 0.05, Down: 0.12, StopLoss: 0.06}
	}
}

// RiskFromVolatility buckets volatility into a risk level.
func RiskFromVolatility(volatility float64) models.RiskLevel {
	switch {
	case volatility < 0.15:
		return models.RiskLow
	case volatility < 0.30:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// PriceTargets derives a target and stop for the verdict. BUY aims at the
// band's upside capped by resistance when resistance is higher; SELL aims at the
// downside; HOLD stays at the current price. The stop never goes below zero.
func PriceTargets(verdict models.Stance, price float64, s Summary) (target, stop float64) {
	if price <= 0 {
		return 0, 0
	}
	band := BandFor(s.Volatility)

	switch verdict {
	case models.StanceBuy:
		target = price * (1 + band.Up)
		if s.Resistance > target {
			target = math.Min(s.Resistance, price*(1+2*band.Up))
		}
	case models.StanceSell:
		target = price * (1 - band.Down)
	default:
		target = price
	}

	stop = price * (1 - band.StopLoss)
	if s.Support > 0 {
		stop = math.Min(stop, s.Support*0.98)
	}
	if s.ATR14 > 0 {
		stop = math.Min(stop, price-2*s.ATR14)
	}
	return target, math.Max(stop, 0)
}

// TimeHorizon maps an analysis period in months to a holding horizon label.
func TimeHorizon(periodMonths int) string {
	switch {
	case periodMonths <= 3:
		return "1-3 months"
	case periodMonths <= 12:
		return "3-6 months"
	default:
		return "6-12 months"
	}
}

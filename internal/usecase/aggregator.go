package usecase

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/services/analyst"
	"StockAdvisor/internal/services/features"
	"StockAdvisor/pkg/util"
)

const (
	// tieEpsilon treats weighted sums this close to the maximum as tied.
	tieEpsilon = 1e-9
	// excerptRunes bounds each rationale line's excerpt.
	excerptRunes = 240
)

// DefaultTieBreak resolves equal weighted votes toward the more conservative verdict.
var DefaultTieBreak = []models.Stance{models.StanceHold, models.StanceSell, models.StanceBuy}

// WeightUpdater receives per-role performance scores.
type WeightUpdater interface {
	UpdateWeights(scores map[string]float64) map[string]float64
}

// Aggregator reconciles role outcomes into one Decision.
type Aggregator struct {
	tieBreak []models.Stance
	weights  WeightUpdater
	clock    func() time.Time
	newID    func() string
}

var _ WeightUpdater = (*analyst.Set)(nil)

// NewAggregator validates tieBreak, which must name each stance exactly once.
// An empty tieBreak uses DefaultTieBreak.
func NewAggregator(tieBreak []models.Stance, weights WeightUpdater) (*Aggregator, error) {
	if len(tieBreak) == 0 {
		tieBreak = DefaultTieBreak
	}
	if len(tieBreak) != 3 {
		return nil, models.NewConfigurationError("analysis.tie_break_order", "must list BUY, SELL and HOLD once each")
	}
	seen := map[models.Stance]bool{}
	for _, s := range tieBreak {
		if !s.Valid() || seen[s] {
			return nil, models.NewConfigurationError("analysis.tie_break_order", "must list BUY, SELL and HOLD once each, got %v", tieBreak)
		}
		seen[s] = true
	}
	return &Aggregator{
		tieBreak: append([]models.Stance(nil), tieBreak...),
		weights:  weights,
		clock:    time.Now,
		newID:    uuid.NewString,
	}, nil
}

// Aggregate builds the Decision from outcomes, which must hold one entry per
// configured role in role order. With no successful outcome it returns *AnalysisFailed.
func (a *Aggregator) Aggregate(outcomes []models.AnalystOutcome, data *models.StockData, periodMonths int) (*models.Decision, error) {
	ticker := ""
	if data != nil {
		ticker = data.Ticker
	}

	var contributing []models.AnalystOutcome
	votes := map[models.Stance]float64{models.StanceBuy: 0, models.StanceSell: 0, models.StanceHold: 0}
	total := 0.0
	for _, o := range outcomes {
		if !o.Succeeded() {
			continue
		}
		if !o.Stance.Valid() {
			o.Stance = analyst.Extract(o.Text).Stance
		}
		contributing = append(contributing, o)
		votes[o.Stance] += o.Weight
		total += o.Weight
	}
	if len(contributing) == 0 {
		return nil, &models.AnalysisFailed{Ticker: ticker, Outcomes: outcomes}
	}

	verdict := a.winner(votes)
	confidence := 0.0
	if total > 0 {
		confidence = votes[verdict] / total * float64(len(contributing)) / float64(len(outcomes))
	}

	d := &models.Decision{
		ID:                a.newID(),
		Ticker:            ticker,
		PeriodMonths:      periodMonths,
		Verdict:           verdict,
		Confidence:        math.Min(1, math.Max(0, confidence)),
		Rationale:         rationale(contributing),
		ContributingRoles: contributing,
		Degraded:          len(contributing) < len(outcomes),
		TimeHorizon:       features.TimeHorizon(periodMonths),
		Votes:             votes,
		CreatedAt:         a.clock(),
	}

	var summary features.Summary
	if data != nil {
		d.Market = data.Market
		d.SourceTier = data.SourceTier
		summary = features.Summarize(data.History)
		a.applyTargets(d, contributing, data, summary)
	}
	d.RiskLevel = riskLevel(contributing, summary.Volatility)
	return d, nil
}

// UpdateWeights adjusts role weights from performance scores in [0, 1]. Coverage in
// Aggregate is counted over configured roles, so weights never change confidence scale.
func (a *Aggregator) UpdateWeights(scores map[string]float64) map[string]float64 {
	if a.weights == nil {
		return nil
	}
	return a.weights.UpdateWeights(scores)
}

func (a *Aggregator) winner(votes map[models.Stance]float64) models.Stance {
	top := math.Inf(-1)
	for _, v := range votes {
		top = math.Max(top, v)
	}
	for _, s := range a.tieBreak {
		if votes[s] >= top-tieEpsilon {
			return s
		}
	}
	return models.StanceHold
}

func rationale(contributing []models.AnalystOutcome) string {
	lines := make([]string, 0, len(contributing))
	for _, o := range contributing {
		name := o.DisplayName
		if name == "" {
			name = o.RoleName
		}
		lines = append(lines, "["+name+"] "+string(o.Stance)+": "+util.Truncate(analyst.StripStructured(o.Text), excerptRunes))
	}
	return strings.Join(lines, "\n")
}

// applyTargets prefers the weight-averaged hints of roles agreeing with the verdict
// and falls back to the volatility bands. A HOLD keeps the computed target.
func (a *Aggregator) applyTargets(d *models.Decision, contributing []models.AnalystOutcome, data *models.StockData, s features.Summary) {
	price := data.CurrentPrice.InexactFloat64()
	if price <= 0 {
		return
	}
	target, stop := features.PriceTargets(d.Verdict, price, s)

	var agreeing []models.AnalystOutcome
	for _, o := range contributing {
		if o.Stance == d.Verdict {
			agreeing = append(agreeing, o)
		}
	}
	if d.Verdict != models.StanceHold {
		if v, ok := weightedHint(agreeing, func(o models.AnalystOutcome) decimal.NullDecimal { return o.PriceTarget }); ok {
			target = v
		}
	}
	if v, ok := weightedHint(agreeing, func(o models.AnalystOutcome) decimal.NullDecimal { return o.StopLoss }); ok {
		stop = v
	}

	places := int32(2)
	if data.Market == models.MarketKR {
		places = 0
	}
	d.PriceTarget = decimal.NewNullDecimal(decimal.NewFromFloat(target).Round(places))
	d.StopLoss = decimal.NewNullDecimal(decimal.NewFromFloat(math.Max(stop, 0)).Round(places))
}

func weightedHint(outcomes []models.AnalystOutcome, get func(models.AnalystOutcome) decimal.NullDecimal) (float64, bool) {
	sum, weight := 0.0, 0.0
	for _, o := range outcomes {
		v := get(o)
		if !v.Valid || !v.Decimal.IsPositive() {
			continue
		}
		sum += v.Decimal.InexactFloat64() * o.Weight
		weight += o.Weight
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

// riskLevel is the weighted mode of role risk hints, higher risk winning ties.
// Without hints it buckets the price volatility.
func riskLevel(contributing []models.AnalystOutcome, volatility float64) models.RiskLevel {
	w := map[models.RiskLevel]float64{}
	for _, o := range contributing {
		if o.RiskLevel != "" {
			w[o.RiskLevel] += o.Weight
		}
	}
	if len(w) == 0 {
		return features.RiskFromVolatility(volatility)
	}
	best, bestW := models.RiskLevel(""), math.Inf(-1)
	for _, r := range []models.RiskLevel{models.RiskHigh, models.RiskMedium, models.RiskLow} {
		if v, ok := w[r]; ok && v > bestW+tieEpsilon {
			best, bestW = r, v
		}
	}
	return best
}

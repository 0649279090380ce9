// Package marketdata assembles per-ticker market data from ranked sources.
package marketdata

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/repository"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/pkg/logger"
	"StockAdvisor/pkg/metrics"
	"StockAdvisor/pkg/util"
)

var DefaultOrder = []models.SourceTier{models.TierPrimary, models.TierSecondary, models.TierTertiary}

// Chain tries each tier in order and returns the first record that passes validation.
// Fields are never merged across tiers.
type Chain struct {
	tiers       []service.MarketDataTier
	tierTimeout time.Duration
	pacer       *Pacer
	metrics     repository.Metrics
	log         *logger.Logger
	now         func() time.Time
}

type ChainOption func(*Chain)

func WithTierTimeout(d time.Duration) ChainOption {
	return func(c *Chain) { c.tierTimeout = d }
}

// WithPacer sets the delay applied before every network tier call.
func WithPacer(p *Pacer) ChainOption {
	return func(c *Chain) { c.pacer = p }
}

func WithMetrics(m repository.Metrics) ChainOption {
	return func(c *Chain) { c.metrics = m }
}

func WithLogger(l *logger.Logger) ChainOption {
	return func(c *Chain) { c.log = l }
}

func WithClock(now func() time.Time) ChainOption {
	return func(c *Chain) { c.now = now }
}

// NewChain orders the available tiers by order. Tiers named in order but not
// available are skipped; at least one tier must remain.
func NewChain(available []service.MarketDataTier, order []models.SourceTier, opts ...ChainOption) (*Chain, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	byTier := make(map[models.SourceTier]service.MarketDataTier, len(available))
	for _, t := range available {
		byTier[t.Tier()] = t
	}

	c := &Chain{
		tierTimeout: 10 * time.Second,
		metrics:     metrics.Nop{},
		log:         logger.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	seen := make(map[models.SourceTier]bool, len(order))
	for _, name := range order {
		if !name.Valid() {
			return nil, models.NewConfigurationError("providers.data_source_order", "unknown tier %q", name)
		}
		if seen[name] {
			return nil, models.NewConfigurationError("providers.data_source_order", "tier %s listed twice", name)
		}
		seen[name] = true
		t, ok := byTier[name]
		if !ok {
			c.log.Warn("data tier not available, skipping", logger.String("tier", string(name)))
			continue
		}
		c.tiers = append(c.tiers, t)
	}
	if len(c.tiers) == 0 {
		return nil, models.NewConfigurationError("providers.data_source_order", "no usable data tier")
	}
	if c.tierTimeout <= 0 {
		return nil, models.NewConfigurationError("providers.tier_timeout", "must be positive, got %s", c.tierTimeout)
	}
	return c, nil
}

// Tiers returns the effective tier order.
func (c *Chain) Tiers() []models.SourceTier {
	out := make([]models.SourceTier, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = t.Tier()
	}
	return out
}

// Fetch returns the record of the first tier that succeeds, or *models.DataUnavailable
// wrapping one TierError per attempted tier.
func (c *Chain) Fetch(ctx context.Context, ticker string, market models.Market, periodMonths int) (*models.StockData, error) {
	from, to := util.PeriodRange(c.now(), periodMonths)

	var causes []error
	for _, t := range c.tiers {
		if err := ctx.Err(); err != nil {
			causes = append(causes, err)
			break
		}

		start := time.Now()
		data, err := c.fetchTier(ctx, t, ticker, market, from, to)
		elapsed := time.Since(start).Seconds()
		if err == nil {
			c.metrics.RecordTierFetch(t.Tier(), "success", elapsed)
			c.log.Debug("data tier served request",
				logger.String("tier", string(t.Tier())),
				logger.String("ticker", ticker),
				logger.Int("bars", len(data.History)))
			return data, nil
		}

		c.metrics.RecordTierFetch(t.Tier(), resultOf(err), elapsed)
		c.log.Warn("data tier failed, falling back",
			logger.String("tier", string(t.Tier())),
			logger.String("ticker", ticker),
			logger.Error(err))
		causes = append(causes, &TierError{Tier: t.Tier(), Err: err})
	}

	return nil, &models.DataUnavailable{Ticker: ticker, Market: market, Causes: causes}
}

func (c *Chain) fetchTier(ctx context.Context, t service.MarketDataTier, ticker string, market models.Market, from, to time.Time) (*models.StockData, error) {
	if t.Tier() != models.TierTertiary {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	tctx, cancel := context.WithTimeout(ctx, c.tierTimeout)
	defer cancel()

	var (
		bars []models.PriceBar
		fund *models.Fundamentals
	)
	g, gctx := errgroup.WithContext(tctx)
	g.Go(func() error {
		var err error
		bars, err = t.FetchPriceHistory(gctx, ticker, market, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		fund, err = t.FetchFundamentals(gctx, ticker, market)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Normalize(ticker, market, t.Tier(), bars, fund, c.now())
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "error"
	}
}

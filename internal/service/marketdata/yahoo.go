package marketdata

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"StockAdvisor/internal/domain/models"
)

// YahooTier is the PRIMARY tier backed by Yahoo Finance chart and quote endpoints.
type YahooTier struct {
	chartFn func(p *chart.Params) ([]finance.ChartBar, error)
	quoteFn func(symbol string) (*finance.Equity, error)
}

func NewYahooTier() *YahooTier {
	return &YahooTier{chartFn: fetchChart, quoteFn: equity.Get}
}

func (y *YahooTier) Tier() models.SourceTier { return models.TierPrimary }

func (y *YahooTier) FetchPriceHistory(ctx context.Context, ticker string, market models.Market, from, to time.Time) ([]models.PriceBar, error) {
	symbol := YahooSymbol(ticker, market)
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}

	raw, err := withContext(ctx, func() ([]finance.ChartBar, error) { return y.chartFn(params) })
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	bars := make([]models.PriceBar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, models.PriceBar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	return bars, nil
}

func (y *YahooTier) FetchFundamentals(ctx context.Context, ticker string, market models.Market) (*models.Fundamentals, error) {
	symbol := YahooSymbol(ticker, market)
	q, err := withContext(ctx, func() (*finance.Equity, error) { return y.quoteFn(symbol) })
	if err != nil {
		return nil, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("yahoo quote %s: %w", symbol, ErrNoData)
	}

	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	currency := q.CurrencyID
	if currency == "" {
		currency = currencyFor(market)
	}
	return &models.Fundamentals{
		Name:         name,
		Currency:     currency,
		CurrentPrice: decimal.NewFromFloat(q.RegularMarketPrice),
		MarketCap:    positive(float64(q.MarketCap)),
		PER:          positive(q.TrailingPE),
		PBR:          positive(q.PriceToBook),
		Volume:       int64(q.RegularMarketVolume),
		Week52High:   decimal.NewFromFloat(q.FiftyTwoWeekHigh),
		Week52Low:    decimal.NewFromFloat(q.FiftyTwoWeekLow),
	}, nil
}

func fetchChart(p *chart.Params) ([]finance.ChartBar, error) {
	iter := chart.Get(p)
	var out []finance.ChartBar
	for iter.Next() {
		out = append(out, *iter.Bar())
	}
	return out, iter.Err()
}

// withContext runs a blocking call that takes no context and abandons it when ctx ends.
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// positive returns a valid NullDecimal for v > 0 and null otherwise.
func positive(v float64) decimal.NullDecimal {
	if v <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

package marketdata

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"StockAdvisor/internal/domain/models"
)

// Normalize builds a validated StockData from one tier's raw responses. Bars that are
// non-positive, inconsistent or duplicated are dropped. Missing price, volume and
// 52-week range are derived from the history.
func Normalize(ticker string, market models.Market, tier models.SourceTier, bars []models.PriceBar, f *models.Fundamentals, now time.Time) (*models.StockData, error) {
	if f == nil {
		f = &models.Fundamentals{}
	}
	clean := cleanBars(bars)

	d := &models.StockData{
		Ticker:       ticker,
		Market:       market,
		Name:         f.Name,
		Currency:     f.Currency,
		CurrentPrice: f.CurrentPrice,
		MarketCap:    f.MarketCap,
		PER:          f.PER,
		PBR:          f.PBR,
		ROE:          f.ROE,
		Volume:       f.Volume,
		Week52High:   f.Week52High,
		Week52Low:    f.Week52Low,
		History:      clean,
		FetchedAt:    now.UTC(),
		SourceTier:   tier,
	}
	if d.Currency == "" {
		d.Currency = currencyFor(market)
	}

	if len(clean) > 0 {
		last := clean[len(clean)-1]
		if !d.CurrentPrice.IsPositive() {
			d.CurrentPrice = last.Close
		}
		if d.Volume <= 0 {
			d.Volume = last.Volume
		}
		if !d.Week52High.IsPositive() || d.Week52High.LessThan(d.Week52Low) || d.Week52Low.IsNegative() {
			d.Week52High, d.Week52Low = rangeOf(clean, now.AddDate(-1, 0, 0))
		}
	}
	if !d.CurrentPrice.IsPositive() {
		return nil, fmt.Errorf("%s/%s: %w", market, ticker, ErrNoData)
	}
	if !d.Week52High.IsPositive() || d.Week52High.LessThan(d.Week52Low) || d.Week52Low.IsNegative() {
		d.Week52High, d.Week52Low = d.CurrentPrice, d.CurrentPrice
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d, nil
}

func cleanBars(bars []models.PriceBar) []models.PriceBar {
	out := make([]models.PriceBar, 0, len(bars))
	for _, b := range bars {
		if !b.Close.IsPositive() || b.Low.IsNegative() || b.High.LessThan(b.Low) || b.Volume < 0 {
			continue
		}
		b.Date = b.Date.UTC()
		out = append(out, b)
	}
	models.SortBars(out)

	dedup := out[:0]
	for i, b := range out {
		if i > 0 && b.Date.Equal(dedup[len(dedup)-1].Date) {
			dedup[len(dedup)-1] = b
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}

func rangeOf(bars []models.PriceBar, since time.Time) (decimal.Decimal, decimal.Decimal) {
	var hi, lo decimal.Decimal
	first := true
	for _, b := range bars {
		if b.Date.Before(since) {
			continue
		}
		if first {
			hi, lo = b.High, b.Low
			first = false
			continue
		}
		hi = decimal.Max(hi, b.High)
		lo = decimal.Min(lo, b.Low)
	}
	if first {
		last := bars[len(bars)-1]
		return last.High, last.Low
	}
	return hi, lo
}

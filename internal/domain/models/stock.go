package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Market string

const (
	MarketUS Market = "US"
	MarketKR Market = "KR"
)

func (m Market) Valid() bool { return m == MarketUS || m == MarketKR }

// ParseMarket accepts the market code in any case.
func ParseMarket(s string) (Market, error) {
	m := Market(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown market %q", s)
	}
	return m, nil
}

// SourceTier ranks where a StockData record came from.
type SourceTier string

const (
	TierPrimary   SourceTier = "PRIMARY"
	TierSecondary SourceTier = "SECONDARY"
	TierTertiary  SourceTier = "TERTIARY"
)

func (t SourceTier) Valid() bool {
	switch t {
	case TierPrimary, TierSecondary, TierTertiary:
		return true
	}
	return false
}

// PriceBar is one daily OHLCV candle.
type PriceBar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// Fundamentals is the quote/ratio part of a tier response. Unknown ratios stay invalid (null).
type Fundamentals struct {
	Name         string
	Currency     string
	CurrentPrice decimal.Decimal
	MarketCap    decimal.NullDecimal
	PER          decimal.NullDecimal
	PBR          decimal.NullDecimal
	ROE          decimal.NullDecimal
	Volume       int64
	Week52High   decimal.Decimal
	Week52Low    decimal.Decimal
}

// StockData is the normalized per-ticker snapshot handed to every analyst role.
type StockData struct {
	Ticker       string              `json:"ticker"`
	Market       Market              `json:"market"`
	Name         string              `json:"name,omitempty"`
	Currency     string              `json:"currency,omitempty"`
	CurrentPrice decimal.Decimal     `json:"current_price"`
	MarketCap    decimal.NullDecimal `json:"market_cap"`
	PER          decimal.NullDecimal `json:"per"`
	PBR          decimal.NullDecimal `json:"pbr"`
	ROE          decimal.NullDecimal `json:"roe"`
	Volume       int64               `json:"volume"`
	Week52High   decimal.Decimal     `json:"week52_high"`
	Week52Low    decimal.Decimal     `json:"week52_low"`
	History      []PriceBar          `json:"history"`
	FetchedAt    time.Time           `json:"fetched_at"`
	SourceTier   SourceTier          `json:"source_tier"`
}

// Validate checks the record invariants: one known source tier, high >= low >= 0
// for the 52-week range and every bar, non-negative volumes, chronological history.
func (d *StockData) Validate() error {
	if d.Ticker == "" {
		return fmt.Errorf("ticker is empty")
	}
	if !d.Market.Valid() {
		return fmt.Errorf("invalid market %q", d.Market)
	}
	if !d.SourceTier.Valid() {
		return fmt.Errorf("invalid source tier %q", d.SourceTier)
	}
	if d.CurrentPrice.IsNegative() {
		return fmt.Errorf("negative current price %s", d.CurrentPrice)
	}
	if d.Volume < 0 {
		return fmt.Errorf("negative volume %d", d.Volume)
	}
	if d.Week52Low.IsNegative() || d.Week52High.LessThan(d.Week52Low) {
		return fmt.Errorf("inconsistent 52-week range high=%s low=%s", d.Week52High, d.Week52Low)
	}
	for i, b := range d.History {
		if b.Low.IsNegative() || b.High.LessThan(b.Low) {
			return fmt.Errorf("bar %d: inconsistent range high=%s low=%s", i, b.High, b.Low)
		}
		if b.Volume < 0 {
			return fmt.Errorf("bar %d: negative volume %d", i, b.Volume)
		}
		if i > 0 && !b.Date.After(d.History[i-1].Date) {
			return fmt.Errorf("bar %d: history is not chronological", i)
		}
	}
	return nil
}

// Closes returns the closing prices as float64 for indicator math.
func (d *StockData) Closes() []float64 {
	out := make([]float64, len(d.History))
	for i, b := range d.History {
		out[i] = b.Close.InexactFloat64()
	}
	return out
}

// SortBars orders bars chronologically in place.
func SortBars(bars []PriceBar) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
)

// stubRole is a service.Analyst with scripted behaviour.
type stubRole struct {
	name   string
	weight float64
	run    func(ctx context.Context) models.AnalystOutcome
}

func (s *stubRole) Name() string        { return s.name }
func (s *stubRole) DisplayName() string { return displayName(s.name) }
func (s *stubRole) Weight() float64     { return s.weight }
func (s *stubRole) Run(ctx context.Context, _ string, _ models.Market, _ *models.StockData) models.AnalystOutcome {
	return s.run(ctx)
}

func displayName(name string) string { return "Role " + name }

func says(stance models.Stance, text string) func(context.Context) models.AnalystOutcome {
	return func(context.Context) models.AnalystOutcome {
		return models.AnalystOutcome{Status: models.StatusSuccess, Text: text, Stance: stance, Strength: 0.5}
	}
}

// blocks until ctx ends, like a completion honoring its context.
func blocks(ctx context.Context) models.AnalystOutcome {
	<-ctx.Done()
	return models.AnalystOutcome{Status: models.StatusFailed, ErrorKind: models.ErrorKindTimeout, Error: ctx.Err().Error()}
}

func role(name string, run func(context.Context) models.AnalystOutcome) service.Analyst {
	return &stubRole{name: name, weight: 1, run: run}
}

func success(name string, stance models.Stance, weight float64) models.AnalystOutcome {
	return models.AnalystOutcome{
		RoleName:    name,
		DisplayName: displayName(name),
		Weight:      weight,
		Status:      models.StatusSuccess,
		Text:        name + " thinks " + string(stance),
		Stance:      stance,
		Strength:    0.5,
	}
}

func failure(name string, status models.OutcomeStatus, kind models.ErrorKind) models.AnalystOutcome {
	return models.AnalystOutcome{RoleName: name, DisplayName: displayName(name), Weight: 1, Status: status, ErrorKind: kind, Error: string(kind)}
}

func testStockData(ticker string) *models.StockData {
	bars := make([]models.PriceBar, 0, 40)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		p := decimal.NewFromFloat(220 + float64(i%5))
		bars = append(bars, models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   p,
			High:   p.Add(decimal.NewFromInt(1)),
			Low:    p.Sub(decimal.NewFromInt(1)),
			Close:  p,
			Volume: 50_000_000,
		})
	}
	return &models.StockData{
		Ticker:       ticker,
		Market:       models.MarketUS,
		Name:         "Apple Inc.",
		Currency:     "USD",
		CurrentPrice: decimal.NewFromFloat(226.48),
		Volume:       50_000_000,
		Week52High:   decimal.NewFromFloat(237.23),
		Week52Low:    decimal.NewFromFloat(164.08),
		History:      bars,
		FetchedAt:    time.Date(2026, 2, 13, 21, 0, 0, 0, time.UTC),
		SourceTier:   models.TierPrimary,
	}
}

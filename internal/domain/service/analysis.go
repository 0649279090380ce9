package service

import (
	"context"
	"time"

	"StockAdvisor/internal/domain/models"
)

//go:generate mockgen -source=analysis.go -destination=mocks/mock_analysis.go -package=mocks

// Completer is the LLM completion service.
type Completer interface {
	Complete(ctx context.Context, prompt models.Prompt, cfg models.SamplingConfig) (string, error)
	Name() string
}

// MarketDataTier is one ranked market data source.
type MarketDataTier interface {
	Tier() models.SourceTier
	FetchPriceHistory(ctx context.Context, ticker string, market models.Market, from, to time.Time) ([]models.PriceBar, error)
	FetchFundamentals(ctx context.Context, ticker string, market models.Market) (*models.Fundamentals, error)
}

// Analyst is one analysis role. Run never returns an error: failures are
// reported through the outcome status.
type Analyst interface {
	Name() string
	DisplayName() string
	Weight() float64
	Run(ctx context.Context, ticker string, market models.Market, data *models.StockData) models.AnalystOutcome
}

// ProgressObserver receives state machine transitions of an analyze call.
type ProgressObserver interface {
	OnProgress(ev models.ProgressEvent)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(ev models.ProgressEvent)

func (f ProgressFunc) OnProgress(ev models.ProgressEvent) { f(ev) }

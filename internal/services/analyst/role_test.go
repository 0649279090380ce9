package analyst

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service/mocks"
	"StockAdvisor/internal/service/llm"
)

func sampleData() *models.StockData {
	bars := make([]models.PriceBar, 0, 30)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		p := decimal.NewFromFloat(200 + float64(i))
		bars = append(bars, models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   p,
			High:   p.Add(decimal.NewFromInt(2)),
			Low:    p.Sub(decimal.NewFromInt(2)),
			Close:  p,
			Volume: 1_000_000,
		})
	}
	return &models.StockData{
		Ticker:       "AAPL",
		Market:       models.MarketUS,
		Name:         "Apple Inc.",
		Currency:     "USD",
		CurrentPrice: decimal.NewFromFloat(229),
		PER:          decimal.NewNullDecimal(decimal.NewFromFloat(34.2)),
		Week52High:   decimal.NewFromFloat(237.23),
		Week52Low:    decimal.NewFromFloat(164.08),
		Volume:       1_000_000,
		History:      bars,
		SourceTier:   models.TierTertiary,
	}
}

func newTestRole(t *testing.T, name string, c *mocks.MockCompleter) *Role {
	t.Helper()
	r, err := NewRole(DefaultSpecs()[name], c, models.SamplingConfig{Model: "test-model"})
	require.NoError(t, err)
	return r
}

func TestRoleRunSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockCompleter(ctrl)
	c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p models.Prompt, cfg models.SamplingConfig) (string, error) {
			assert.Contains(t, p.System, `"stance"`)
			assert.Contains(t, p.User, "AAPL")
			assert.Contains(t, p.User, "RSI(14)")
			assert.Contains(t, p.User, "PER: 34.20")
			assert.Equal(t, "test-model", cfg.Model)
			assert.Equal(t, DefaultTemperature, cfg.Temperature)
			assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
			return "Uptrend intact.\n```json\n{\"stance\":\"BUY\",\"strength\":0.7,\"risk_level\":\"LOW\"}\n```", nil
		})

	out := newTestRole(t, RoleTechnical, c).Run(context.Background(), "AAPL", models.MarketUS, sampleData())

	assert.Equal(t, models.StatusSuccess, out.Status)
	assert.Equal(t, "technical", out.RoleName)
	assert.Equal(t, "Technical Analyst", out.DisplayName)
	assert.Equal(t, 1.0, out.Weight)
	assert.Equal(t, models.StanceBuy, out.Stance)
	assert.Equal(t, 0.7, out.Strength)
	assert.Equal(t, models.RiskLow, out.RiskLevel)
	assert.Empty(t, out.ErrorKind)
	assert.NotEmpty(t, out.Text)
}

func TestRoleRunFailures(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		err        error
		wantStatus models.OutcomeStatus
		wantKind   models.ErrorKind
	}{
		{"empty text", "   ", nil, models.StatusFailed, models.ErrorKindMalformed},
		{"rate limited", "", &llm.CompletionError{Kind: models.ErrorKindRateLimit, Provider: "claude", Err: errors.New("429")}, models.StatusFailed, models.ErrorKindRateLimit},
		{"auth", "", &llm.CompletionError{Kind: models.ErrorKindAuth, Provider: "gemini", Err: errors.New("bad key")}, models.StatusFailed, models.ErrorKindAuth},
		{"unclassified", "", errors.New("boom"), models.StatusFailed, models.ErrorKindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mocks.NewMockCompleter(ctrl)
			c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.text, tt.err)

			out := newTestRole(t, RoleCompany, c).Run(context.Background(), "AAPL", models.MarketUS, sampleData())

			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantKind, out.ErrorKind)
			assert.Empty(t, out.Text)
			assert.NotEmpty(t, out.Error)
		})
	}
}

func TestRoleRunDeadlineIsTimedOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockCompleter(ctrl)
	c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.Prompt, _ models.SamplingConfig) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	out := newTestRole(t, RoleRisk, c).Run(ctx, "AAPL", models.MarketUS, sampleData())

	assert.Equal(t, models.StatusTimedOut, out.Status)
	assert.Equal(t, models.ErrorKindTimeout, out.ErrorKind)
}

func TestNewRoleRejectsBadSpec(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockCompleter(ctrl)

	_, err := NewRole(Spec{Name: "x", Weight: 0}, c, models.SamplingConfig{})
	assert.ErrorIs(t, err, models.ErrConfiguration)

	_, err = NewRole(Spec{Name: "x", Weight: 1, UserTemplate: "{{.Nope"}, c, models.SamplingConfig{})
	assert.Error(t, err)

	_, err = NewRole(Spec{Name: "x", Weight: 1}, nil, models.SamplingConfig{})
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestEveryCatalogueTemplateRenders(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockCompleter(ctrl)
	for _, name := range DefaultOrder {
		r := newTestRole(t, name, c)
		p, err := r.Prompt("005930", models.MarketKR, sampleData())
		require.NoError(t, err, name)
		assert.Contains(t, p.User, "005930", name)

		_, err = r.Prompt("005930", models.MarketKR, nil)
		require.NoError(t, err, name)
	}
}

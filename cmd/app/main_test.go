package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/domain/models"
)

func TestRolesCommandListsConfiguredRoster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analysis:
  roles: [technical, risk]
  role_weights:
    risk: 1.5
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"roles", "--config", path})
	require.NoError(t, rootCmd.Execute())

	got := out.String()
	assert.Contains(t, got, "Technical Analyst")
	assert.Contains(t, got, "Risk Manager")
	assert.Contains(t, got, "1.50")
	assert.NotContains(t, got, "Macroeconomist")
}

func TestFormatDecision(t *testing.T) {
	d := &models.Decision{
		Ticker:      "AAPL",
		Market:      models.MarketUS,
		Verdict:     models.StanceBuy,
		Confidence:  0.5,
		Degraded:    true,
		PriceTarget: decimal.NewNullDecimal(decimal.RequireFromString("247.5")),
		StopLoss:    decimal.NewNullDecimal(decimal.RequireFromString("210")),
		RiskLevel:   models.RiskMedium,
		TimeHorizon: "6-12 months",
		SourceTier:  models.TierPrimary,
		Votes:       map[models.Stance]float64{models.StanceBuy: 2, models.StanceSell: 1},
		Rationale:   "[Company Analyst] BUY: strong margins",
		CreatedAt:   time.Now(),
	}

	got := formatDecision(d)
	assert.Contains(t, got, "AAPL (US): BUY  confidence 0.50  [degraded]")
	assert.Contains(t, got, "target 247.5  stop 210")
	assert.Contains(t, got, "votes BUY 2.00 / SELL 1.00 / HOLD 0.00")
	assert.Contains(t, got, "[Company Analyst] BUY: strong margins")
}

package analyst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockAdvisor/internal/domain/models"
)

func TestExtractStructuredBlock(t *testing.T) {
	text := "Margins keep expanding and the balance sheet is clean.\n\n```json\n" +
		`{"stance": "buy", "strength": 0.8, "price_target": 250.5, "stop_loss": 210, "risk_level": "medium"}` +
		"\n```"

	op := Extract(text)

	assert.True(t, op.Structured)
	assert.Equal(t, models.StanceBuy, op.Stance)
	assert.Equal(t, 0.8, op.Strength)
	assert.True(t, op.PriceTarget.Valid)
	assert.Equal(t, "250.5", op.PriceTarget.Decimal.String())
	assert.Equal(t, "210", op.StopLoss.Decimal.String())
	assert.Equal(t, models.RiskMedium, op.RiskLevel)
}

func TestExtractBareObjectAndDefaults(t *testing.T) {
	op := Extract(`Valuation is stretched. {"stance": "SELL", "strength": 7, "price_target": "n/a"}`)

	assert.True(t, op.Structured)
	assert.Equal(t, models.StanceSell, op.Stance)
	assert.Equal(t, 1.0, op.Strength)
	assert.False(t, op.PriceTarget.Valid)
	assert.Empty(t, op.RiskLevel)
}

func TestExtractKeywordFallback(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Stance
	}{
		{"invalid stance in block", "We should sell into strength.\n```json\n{\"stance\": \"MAYBE\"}\n```", models.StanceSell},
		{"english majority", "Buy on dips. Analysts broadly say buy; a few say hold.", models.StanceBuy},
		{"korean buy", "실적 개선이 뚜렷하여 매수 의견을 제시합니다.", models.StanceBuy},
		{"korean sell", "밸류에이션 부담으로 매도 관점입니다.", models.StanceSell},
		{"korean neutral", "당분간 중립 의견을 유지합니다.", models.StanceHold},
		{"tie falls back to hold", "Some buy, some sell.", models.StanceHold},
		{"no keywords", "The share buyback continues and shareholders are content.", models.StanceHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := Extract(tt.text)
			assert.False(t, op.Structured)
			assert.Equal(t, tt.want, op.Stance)
			assert.Equal(t, 0.5, op.Strength)
		})
	}
}

func TestStripStructured(t *testing.T) {
	text := "Strong   quarter.\n\nGuidance raised.\n```json\n{\"stance\": \"BUY\"}\n```\n"
	assert.Equal(t, "Strong quarter. Guidance raised.", StripStructured(text))
}

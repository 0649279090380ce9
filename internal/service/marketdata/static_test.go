package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
)

func TestStaticTierRecordsSatisfyInvariants(t *testing.T) {
	chain, err := NewChain([]service.MarketDataTier{NewStaticTier()}, nil, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	cases := []struct {
		ticker string
		market models.Market
	}{
		{"AAPL", models.MarketUS},
		{"MSFT", models.MarketUS},
		{"GOOGL", models.MarketUS},
		{"NVDA", models.MarketUS},
		{"TSLA", models.MarketUS},
		{"ZZZZ", models.MarketUS},
		{"005930", models.MarketKR},
		{"000660", models.MarketKR},
		{"035720", models.MarketKR},
		{"123456", models.MarketKR},
	}
	for _, tc := range cases {
		for _, months := range []int{1, 12, 60} {
			data, err := chain.Fetch(context.Background(), tc.ticker, tc.market, months)
			require.NoError(t, err, "%s/%s %d", tc.market, tc.ticker, months)

			assert.Equal(t, models.TierTertiary, data.SourceTier)
			assert.NoError(t, data.Validate())
			assert.True(t, data.CurrentPrice.IsPositive())
			assert.True(t, data.Week52High.GreaterThanOrEqual(data.Week52Low))
			assert.False(t, data.Week52Low.IsNegative())
			assert.GreaterOrEqual(t, data.Volume, int64(0))
			require.NotEmpty(t, data.History)
			for _, b := range data.History {
				assert.True(t, b.High.GreaterThanOrEqual(b.Low))
				assert.False(t, b.Low.IsNegative())
				assert.GreaterOrEqual(t, b.Volume, int64(0))
			}
		}
	}
}

func TestStaticTierIsDeterministic(t *testing.T) {
	tier := NewStaticTier()
	from, to := testNow.AddDate(0, -3, 0), testNow
	a, err := tier.FetchPriceHistory(context.Background(), "AAPL", models.MarketUS, from, to)
	require.NoError(t, err)
	b, err := tier.FetchPriceHistory(context.Background(), "AAPL", models.MarketUS, from, to)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "226.48", a[len(a)-1].Close.String())

	f, err := tier.FetchFundamentals(context.Background(), "AAPL", models.MarketUS)
	require.NoError(t, err)
	assert.Equal(t, "USD", f.Currency)
	assert.Equal(t, "34.8", f.PER.Decimal.String())
}

func TestYahooSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", YahooSymbol("aapl", models.MarketUS))
	assert.Equal(t, "005930.KS", YahooSymbol("005930", models.MarketKR))
	assert.Equal(t, "035720.KQ", YahooSymbol("035720.KQ", models.MarketKR))
}

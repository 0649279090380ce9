package marketdata

import (
	"strings"

	"StockAdvisor/internal/domain/models"
)

// YahooSymbol maps a ticker to its Yahoo Finance symbol. KRX listings get the
// .KS suffix unless a suffix is already present.
func YahooSymbol(ticker string, market models.Market) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if market == models.MarketKR && !strings.Contains(t, ".") {
		return t + ".KS"
	}
	return t
}

func currencyFor(market models.Market) string {
	if market == models.MarketKR {
		return "KRW"
	}
	return "USD"
}

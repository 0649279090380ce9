package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"StockAdvisor/internal/domain/models"
	xhttp "StockAdvisor/pkg/http"
	"StockAdvisor/pkg/util"
)

const DefaultAlphaVantageURL = "https://www.alphavantage.co"

// avCallsPerFetch is how many queries one chain fetch issues at once
// (TIME_SERIES_DAILY and OVERVIEW). The limiter burst must cover it.
const avCallsPerFetch = 2

// AlphaVantageTier is the SECONDARY tier. Only US listings are served.
type AlphaVantageTier struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
	limiter *rate.Limiter
}

type AlphaVantageOption func(*AlphaVantageTier)

func WithAlphaVantageURL(u string) AlphaVantageOption {
	return func(t *AlphaVantageTier) { t.baseURL = strings.TrimRight(u, "/") }
}

func WithAlphaVantageClient(c *xhttp.Client) AlphaVantageOption {
	return func(t *AlphaVantageTier) { t.client = c }
}

// WithRequestsPerMinute sets the client-side quota. The free plan allows 5.
func WithRequestsPerMinute(n int) AlphaVantageOption {
	return func(t *AlphaVantageTier) {
		if n > 0 {
			t.limiter = newAVLimiter(n)
		}
	}
}

func newAVLimiter(perMinute int) *rate.Limiter {
	burst := avCallsPerFetch
	if perMinute < burst {
		burst = perMinute
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

func NewAlphaVantageTier(apiKey string, opts ...AlphaVantageOption) *AlphaVantageTier {
	t := &AlphaVantageTier{
		baseURL: DefaultAlphaVantageURL,
		apiKey:  apiKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		limiter: newAVLimiter(5),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *AlphaVantageTier) Tier() models.SourceTier { return models.TierSecondary }

// avEnvelope carries the fields Alpha Vantage uses to report problems with a 200 status.
type avEnvelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (e avEnvelope) err() error {
	switch {
	case e.Note != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, e.Note)
	case e.Information != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, e.Information)
	case e.ErrorMessage != "":
		return fmt.Errorf("%w: %s", ErrNoData, e.ErrorMessage)
	}
	return nil
}

type avDailyResponse struct {
	avEnvelope
	Series map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

type avOverviewResponse struct {
	avEnvelope
	Symbol    string `json:"Symbol"`
	Name      string `json:"Name"`
	Currency  string `json:"Currency"`
	MarketCap string `json:"MarketCapitalization"`
	PERatio   string `json:"PERatio"`
	PBRatio   string `json:"PriceToBookRatio"`
	ROE       string `json:"ReturnOnEquityTTM"`
	High52    string `json:"52WeekHigh"`
	Low52     string `json:"52WeekLow"`
}

func (t *AlphaVantageTier) FetchPriceHistory(ctx context.Context, ticker string, market models.Market, from, to time.Time) ([]models.PriceBar, error) {
	if market != models.MarketUS {
		return nil, ErrUnsupported
	}
	size := "compact"
	if to.Sub(from) > 140*24*time.Hour {
		size = "full"
	}

	var resp avDailyResponse
	if err := t.query(ctx, map[string]string{"function": "TIME_SERIES_DAILY", "symbol": ticker, "outputsize": size}, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("alphavantage daily %s: %w", ticker, ErrNoData)
	}

	bars := make([]models.PriceBar, 0, len(resp.Series))
	for day, v := range resp.Series {
		date, ok := util.ParseTime(day)
		if !ok {
			return nil, fmt.Errorf("alphavantage daily %s: bad date %q: %w", ticker, day, ErrMalformed)
		}
		if date.Before(util.StartOfDay(from)) || date.After(to) {
			continue
		}
		bar, err := parseAVBar(date, v.Open, v.High, v.Low, v.Close, v.Volume)
		if err != nil {
			return nil, fmt.Errorf("alphavantage daily %s %s: %w", ticker, day, err)
		}
		bars = append(bars, bar)
	}
	models.SortBars(bars)
	return bars, nil
}

func (t *AlphaVantageTier) FetchFundamentals(ctx context.Context, ticker string, market models.Market) (*models.Fundamentals, error) {
	if market != models.MarketUS {
		return nil, ErrUnsupported
	}

	var resp avOverviewResponse
	if err := t.query(ctx, map[string]string{"function": "OVERVIEW", "symbol": ticker}, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	if resp.Symbol == "" {
		return nil, fmt.Errorf("alphavantage overview %s: %w", ticker, ErrNoData)
	}

	currency := resp.Currency
	if currency == "" {
		currency = currencyFor(market)
	}
	return &models.Fundamentals{
		Name:       resp.Name,
		Currency:   currency,
		MarketCap:  avNullDecimal(resp.MarketCap),
		PER:        avNullDecimal(resp.PERatio),
		PBR:        avNullDecimal(resp.PBRatio),
		ROE:        avNullDecimal(resp.ROE),
		Week52High: avNullDecimal(resp.High52).Decimal,
		Week52Low:  avNullDecimal(resp.Low52).Decimal,
	}, nil
}

func (t *AlphaVantageTier) query(ctx context.Context, params map[string]string, dest interface{}) error {
	if t.apiKey == "" {
		return errors.New("alphavantage: api key not configured")
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	q := map[string][]string{"apikey": {t.apiKey}}
	for k, v := range params {
		q[k] = []string{v}
	}
	err := t.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         t.baseURL + "/query",
		QueryParams: q,
	}, dest)
	if err == nil {
		return nil
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return err
}

func parseAVBar(date time.Time, open, high, low, closeStr, volume string) (models.PriceBar, error) {
	var bar models.PriceBar
	var err error
	bar.Date = date
	if bar.Open, err = decimal.NewFromString(open); err != nil {
		return bar, fmt.Errorf("open: %w", ErrMalformed)
	}
	if bar.High, err = decimal.NewFromString(high); err != nil {
		return bar, fmt.Errorf("high: %w", ErrMalformed)
	}
	if bar.Low, err = decimal.NewFromString(low); err != nil {
		return bar, fmt.Errorf("low: %w", ErrMalformed)
	}
	if bar.Close, err = decimal.NewFromString(closeStr); err != nil {
		return bar, fmt.Errorf("close: %w", ErrMalformed)
	}
	vol, err := decimal.NewFromString(volume)
	if err != nil {
		return bar, fmt.Errorf("volume: %w", ErrMalformed)
	}
	bar.Volume = vol.IntPart()
	return bar, nil
}

// avNullDecimal parses Alpha Vantage numeric strings, where "None", "-" and "" mean unknown.
func avNullDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "-", "0":
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/pkg/util"
)

// profile is the reference snapshot of a known listing.
type profile struct {
	Name       string
	Price      float64
	MarketCap  float64
	PER        float64
	PBR        float64
	ROE        float64
	High52     float64
	Low52      float64
	Volume     int64
	Volatility float64
}

var knownStocks = map[models.Market]map[string]profile{
	models.MarketUS: {
		"AAPL":  {Name: "Apple Inc.", Price: 226.48, MarketCap: 3.45e12, PER: 34.8, PBR: 50.3, ROE: 1.57, High52: 237.23, Low52: 164.08, Volume: 52_000_000, Volatility: 0.24},
		"MSFT":  {Name: "Microsoft Corporation", Price: 428.02, MarketCap: 3.18e12, PER: 36.1, PBR: 12.4, ROE: 0.36, High52: 468.35, Low52: 366.50, Volume: 21_000_000, Volatility: 0.22},
		"GOOGL": {Name: "Alphabet Inc.", Price: 166.99, MarketCap: 2.06e12, PER: 23.9, PBR: 6.8, ROE: 0.30, High52: 191.75, Low52: 130.67, Volume: 26_000_000, Volatility: 0.28},
		"NVDA":  {Name: "NVIDIA Corporation", Price: 135.58, MarketCap: 3.32e12, PER: 63.7, PBR: 56.1, ROE: 1.23, High52: 152.89, Low52: 47.32, Volume: 240_000_000, Volatility: 0.52},
		"TSLA":  {Name: "Tesla, Inc.", Price: 248.50, MarketCap: 7.93e11, PER: 69.5, PBR: 11.4, ROE: 0.21, High52: 278.98, Low52: 138.80, Volume: 95_000_000, Volatility: 0.58},
	},
	models.MarketKR: {
		"005930": {Name: "Samsung Electronics", Price: 79700, MarketCap: 4.76e14, PER: 15.2, PBR: 1.4, ROE: 0.09, High52: 88800, Low52: 65800, Volume: 14_000_000, Volatility: 0.26},
		"000660": {Name: "SK hynix", Price: 191800, MarketCap: 1.40e14, PER: 26.3, PBR: 2.1, ROE: 0.08, High52: 248500, Low52: 126200, Volume: 3_500_000, Volatility: 0.45},
		"035720": {Name: "Kakao", Price: 37650, MarketCap: 1.67e13, PER: 55.0, PBR: 1.7, ROE: 0.03, High52: 61600, Low52: 33000, Volume: 1_200_000, Volatility: 0.35},
	},
}

// StaticTier is the TERTIARY tier: a deterministic synthetic source that always answers
// for a well-formed ticker. Known listings use reference figures; anything else gets
// a profile derived from a hash of the ticker.
type StaticTier struct{}

func NewStaticTier() *StaticTier { return &StaticTier{} }

func (s *StaticTier) Tier() models.SourceTier { return models.TierTertiary }

func (s *StaticTier) FetchPriceHistory(ctx context.Context, ticker string, market models.Market, from, to time.Time) ([]models.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := lookupProfile(ticker, market)
	days := tradingDays(util.StartOfDay(from), util.StartOfDay(to))

	rng := rand.New(rand.NewPCG(seed(ticker, market), uint64(len(days))))
	dailyVol := p.Volatility / math.Sqrt(252)
	places := int32(2)
	if market == models.MarketKR {
		places = 0
	}

	closes := make([]float64, len(days))
	closes[len(closes)-1] = p.Price
	for i := len(closes) - 1; i > 0; i-- {
		closes[i-1] = closes[i] / math.Exp(rng.NormFloat64()*dailyVol)
	}

	bars := make([]models.PriceBar, len(days))
	for i, day := range days {
		c := closes[i]
		o := c
		if i > 0 {
			o = closes[i-1]
		}
		hi := math.Max(o, c) * (1 + rng.Float64()*dailyVol)
		lo := math.Min(o, c) * (1 - rng.Float64()*dailyVol)
		bars[i] = models.PriceBar{
			Date:   day,
			Open:   decimal.NewFromFloat(o).Round(places),
			High:   decimal.NewFromFloat(hi).RoundCeil(places),
			Low:    decimal.NewFromFloat(math.Max(lo, 0)).RoundFloor(places),
			Close:  decimal.NewFromFloat(c).Round(places),
			Volume: int64(float64(p.Volume) * (0.5 + rng.Float64())),
		}
	}
	return bars, nil
}

func (s *StaticTier) FetchFundamentals(ctx context.Context, ticker string, market models.Market) (*models.Fundamentals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := lookupProfile(ticker, market)
	return &models.Fundamentals{
		Name:         p.Name,
		Currency:     currencyFor(market),
		CurrentPrice: decimal.NewFromFloat(p.Price),
		MarketCap:    positive(p.MarketCap),
		PER:          positive(p.PER),
		PBR:          positive(p.PBR),
		ROE:          positive(p.ROE),
		Volume:       p.Volume,
		Week52High:   decimal.NewFromFloat(p.High52),
		Week52Low:    decimal.NewFromFloat(p.Low52),
	}, nil
}

func lookupProfile(ticker string, market models.Market) profile {
	if p, ok := knownStocks[market][ticker]; ok {
		return p
	}

	h := seed(ticker, market)
	vol := 0.15 + float64(h%40)/100
	var price float64
	if market == models.MarketKR {
		price = float64(5000 + (h/7)%195000)
		price = math.Round(price/50) * 50
	} else {
		price = 10 + float64((h/7)%49000)/100
	}
	return profile{
		Name:       ticker,
		Price:      price,
		MarketCap:  price * float64(1e7+(h/11)%1e9),
		PER:        8 + float64((h/13)%4000)/100,
		PBR:        0.5 + float64((h/17)%800)/100,
		Volume:     int64(100_000 + (h/19)%10_000_000),
		High52:     price * (1 + vol/2),
		Low52:      price * (1 - vol/2),
		Volatility: vol,
	}
}

func seed(ticker string, market models.Market) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(string(market) + ":" + ticker))
	return h.Sum64()
}

// tradingDays lists the weekdays in [from, to]. It always returns at least one day.
func tradingDays(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !util.IsWeekend(d) {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		days = append(days, to)
	}
	return days
}

package analyst

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"StockAdvisor/internal/domain/models"
)

// Opinion is the structured reading of a role's completion text.
type Opinion struct {
	Stance      models.Stance
	Strength    float64
	PriceTarget decimal.NullDecimal
	StopLoss    decimal.NullDecimal
	RiskLevel   models.RiskLevel
	// Structured is false when the stance came from the keyword fallback.
	Structured bool
}

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSON   = regexp.MustCompile(`(?s)\{[^{}]*"stance"[^{}]*\}`)
	keywordRe  = regexp.MustCompile(`(?i)\b(strong buy|buy|strong sell|sell|hold|neutral)\b|매수|매도|보유|중립|관망`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// Extract reads the trailing JSON block of text. Without a usable block it falls back
// to counting stance keywords; with no keywords either the stance is HOLD.
func Extract(text string) Opinion {
	if block, ok := structuredBlock(text); ok {
		if st, ok := models.ParseStance(gjson.Get(block, "stance").String()); ok {
			op := Opinion{Stance: st, Strength: 0.5, Structured: true}
			if s := gjson.Get(block, "strength"); s.Exists() {
				op.Strength = clamp01(s.Float())
			}
			op.PriceTarget = positiveNumber(gjson.Get(block, "price_target"))
			op.StopLoss = positiveNumber(gjson.Get(block, "stop_loss"))
			if r, ok := models.ParseRiskLevel(gjson.Get(block, "risk_level").String()); ok {
				op.RiskLevel = r
			}
			return op
		}
	}
	return Opinion{Stance: keywordStance(text), Strength: 0.5}
}

// StripStructured removes the JSON block and collapses whitespace.
func StripStructured(text string) string {
	out := fencedJSON.ReplaceAllString(text, " ")
	out = bareJSON.ReplaceAllString(out, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(out, " "))
}

func structuredBlock(text string) (string, bool) {
	if m := fencedJSON.FindAllStringSubmatch(text, -1); len(m) > 0 {
		block := m[len(m)-1][1]
		if gjson.Valid(block) {
			return block, true
		}
	}
	if m := bareJSON.FindAllString(text, -1); len(m) > 0 {
		block := m[len(m)-1]
		if gjson.Valid(block) {
			return block, true
		}
	}
	return "", false
}

func keywordStance(text string) models.Stance {
	counts := map[models.Stance]int{}
	for _, kw := range keywordRe.FindAllString(text, -1) {
		switch strings.ToLower(kw) {
		case "buy", "strong buy", "매수":
			counts[models.StanceBuy]++
		case "sell", "strong sell", "매도":
			counts[models.StanceSell]++
		default:
			counts[models.StanceHold]++
		}
	}
	buy, sell := counts[models.StanceBuy], counts[models.StanceSell]
	switch {
	case buy > sell && buy > counts[models.StanceHold]:
		return models.StanceBuy
	case sell > buy && sell > counts[models.StanceHold]:
		return models.StanceSell
	default:
		return models.StanceHold
	}
}

func positiveNumber(r gjson.Result) decimal.NullDecimal {
	if r.Type != gjson.Number || r.Float() <= 0 {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(r.Raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

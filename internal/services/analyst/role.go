// Package analyst holds the analysis roles. Every role is one Role value differing
// only in configuration: name, weight, prompts and sampling.
package analyst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/internal/service/llm"
	"StockAdvisor/internal/services/features"
)

// Default sampling for every role.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 4000
)

// Spec is the static description of a role.
type Spec struct {
	Name         string
	DisplayName  string
	Weight       float64
	SystemPrompt string
	UserTemplate string
}

// Role is a service.Analyst issuing exactly one completion per Run.
type Role struct {
	spec      Spec
	tmpl      *template.Template
	sampling  models.SamplingConfig
	completer service.Completer
	clock     func() time.Time
}

var _ service.Analyst = (*Role)(nil)

// NewRole parses the user template of spec. Zero sampling fields take the role defaults.
func NewRole(spec Spec, completer service.Completer, sampling models.SamplingConfig) (*Role, error) {
	if spec.Name == "" {
		return nil, models.NewConfigurationError("analysis.roles", "role name is empty")
	}
	if completer == nil {
		return nil, models.NewConfigurationError("llm", "role %s has no completer", spec.Name)
	}
	if spec.Weight <= 0 {
		return nil, models.NewConfigurationError("analysis.role_weights."+spec.Name, "weight must be positive, got %v", spec.Weight)
	}
	tmpl, err := template.New(spec.Name).Funcs(templateFuncs).Parse(spec.UserTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", spec.Name, err)
	}
	if sampling.Temperature == 0 {
		sampling.Temperature = DefaultTemperature
	}
	if sampling.MaxTokens == 0 {
		sampling.MaxTokens = DefaultMaxTokens
	}
	return &Role{spec: spec, tmpl: tmpl, sampling: sampling, completer: completer, clock: time.Now}, nil
}

func (r *Role) Name() string        { return r.spec.Name }
func (r *Role) DisplayName() string { return r.spec.DisplayName }
func (r *Role) Weight() float64     { return r.spec.Weight }

// withWeight returns a copy of r carrying w.
func (r *Role) withWeight(w float64) *Role {
	c := *r
	c.spec.Weight = w
	return &c
}

type promptData struct {
	Ticker     string
	Market     models.Market
	Data       *models.StockData
	Indicators features.Summary
	Today      string
}

// Prompt renders the system and user framing for one ticker.
func (r *Role) Prompt(ticker string, market models.Market, data *models.StockData) (models.Prompt, error) {
	pd := promptData{
		Ticker: ticker,
		Market: market,
		Data:   data,
		Today:  r.clock().Format("2006-01-02"),
	}
	if data != nil {
		pd.Indicators = features.Summarize(data.History)
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, pd); err != nil {
		return models.Prompt{}, fmt.Errorf("render %s prompt: %w", r.spec.Name, err)
	}
	return models.Prompt{
		System: r.spec.SystemPrompt + "\n\n" + responseFormat,
		User:   buf.String(),
	}, nil
}

// Run never returns an error. A failed completion is reported as FAILED with its
// error kind, or TIMED_OUT when ctx hit its deadline.
func (r *Role) Run(ctx context.Context, ticker string, market models.Market, data *models.StockData) models.AnalystOutcome {
	start := r.clock()
	out := models.AnalystOutcome{
		RoleName:    r.spec.Name,
		DisplayName: r.spec.DisplayName,
		Weight:      r.spec.Weight,
	}
	defer func() { out.DurationMs = r.clock().Sub(start).Milliseconds() }()

	prompt, err := r.Prompt(ticker, market, data)
	if err != nil {
		return fail(out, models.ErrorKindInternal, err)
	}

	text, err := r.completer.Complete(ctx, prompt, r.sampling)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Status = models.StatusTimedOut
			out.ErrorKind = models.ErrorKindTimeout
			out.Error = err.Error()
			return out
		}
		return fail(out, llm.KindOf(err), err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fail(out, models.ErrorKindMalformed, llm.ErrEmptyCompletion)
	}

	op := Extract(text)
	out.Status = models.StatusSuccess
	out.Text = text
	out.Stance = op.Stance
	out.Strength = op.Strength
	out.PriceTarget = op.PriceTarget
	out.StopLoss = op.StopLoss
	out.RiskLevel = op.RiskLevel
	return out
}

func fail(out models.AnalystOutcome, kind models.ErrorKind, err error) models.AnalystOutcome {
	out.Status = models.StatusFailed
	out.ErrorKind = kind
	out.Error = err.Error()
	return out
}

const responseFormat = "Finish your answer with a fenced JSON block of the form:\n" +
	"```json\n" +
	`{"stance": "BUY|SELL|HOLD", "strength": 0.0-1.0, "price_target": number, "stop_loss": number, "risk_level": "LOW|MEDIUM|HIGH"}` +
	"\n```"

var templateFuncs = template.FuncMap{
	"dec": func(d decimal.NullDecimal) string {
		if !d.Valid {
			return "n/a"
		}
		return d.Decimal.StringFixed(2)
	},
	"price": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
	"num":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"last": func(n int, bars []models.PriceBar) []models.PriceBar {
		if len(bars) <= n {
			return bars
		}
		return bars[len(bars)-n:]
	},
	"day": func(t time.Time) string { return t.Format("2006-01-02") },
}

package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stance is a directional opinion. It is also the verdict type of a Decision.
type Stance string

const (
	StanceBuy  Stance = "BUY"
	StanceSell Stance = "SELL"
	StanceHold Stance = "HOLD"
)

func (s Stance) Valid() bool {
	return s == StanceBuy || s == StanceSell || s == StanceHold
}

func ParseStance(s string) (Stance, bool) {
	st := Stance(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

func ParseRiskLevel(s string) (RiskLevel, bool) {
	r := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return r, true
	}
	return "", false
}

type OutcomeStatus string

const (
	StatusSuccess  OutcomeStatus = "SUCCESS"
	StatusFailed   OutcomeStatus = "FAILED"
	StatusTimedOut OutcomeStatus = "TIMED_OUT"
)

// ErrorKind classifies why a role did not succeed.
type ErrorKind string

const (
	ErrorKindAuth      ErrorKind = "AUTH"
	ErrorKindRateLimit ErrorKind = "RATE_LIMIT"
	ErrorKindTimeout   ErrorKind = "TIMEOUT"
	ErrorKindMalformed ErrorKind = "MALFORMED"
	ErrorKindCanceled  ErrorKind = "CANCELED"
	ErrorKindInternal  ErrorKind = "INTERNAL"
)

// AnalystOutcome is the result of one role execution. Text is set iff Status is SUCCESS,
// ErrorKind iff it is not.
type AnalystOutcome struct {
	RoleName    string              `json:"role_name"`
	DisplayName string              `json:"display_name,omitempty"`
	Weight      float64             `json:"weight"`
	Status      OutcomeStatus       `json:"status"`
	Text        string              `json:"text,omitempty"`
	ErrorKind   ErrorKind           `json:"error_kind,omitempty"`
	Error       string              `json:"error,omitempty"`
	DurationMs  int64               `json:"duration_ms"`
	Stance      Stance              `json:"stance,omitempty"`
	Strength    float64             `json:"strength,omitempty"`
	PriceTarget decimal.NullDecimal `json:"price_target"`
	StopLoss    decimal.NullDecimal `json:"stop_loss"`
	RiskLevel   RiskLevel           `json:"risk_level,omitempty"`
}

func (o AnalystOutcome) Succeeded() bool { return o.Status == StatusSuccess }

// Decision is the aggregated recommendation for one analyze call.
type Decision struct {
	ID                string              `json:"id"`
	Ticker            string              `json:"ticker"`
	Market            Market              `json:"market"`
	PeriodMonths      int                 `json:"period_months"`
	Verdict           Stance              `json:"verdict"`
	Confidence        float64             `json:"confidence"`
	Rationale         string              `json:"rationale"`
	ContributingRoles []AnalystOutcome    `json:"contributing_roles"`
	Degraded          bool                `json:"degraded"`
	PriceTarget       decimal.NullDecimal `json:"price_target"`
	StopLoss          decimal.NullDecimal `json:"stop_loss"`
	RiskLevel         RiskLevel           `json:"risk_level"`
	TimeHorizon       string              `json:"time_horizon"`
	Votes             map[Stance]float64  `json:"votes"`
	SourceTier        SourceTier          `json:"source_tier"`
	CreatedAt         time.Time           `json:"created_at"`
}

// Prompt is the framing sent to the completion service.
type Prompt struct {
	System string
	User   string
}

type SamplingConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDataUnavailable = errors.New("data unavailable")
	ErrAnalysisFailed  = errors.New("analysis failed")
	ErrConfiguration   = errors.New("configuration error")
	ErrInvalidRequest  = errors.New("invalid request")
)

// DataUnavailable is returned when every configured data tier failed.
type DataUnavailable struct {
	Ticker string
	Market Market
	Causes []error
}

func (e *DataUnavailable) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("data unavailable for %s/%s: %s", e.Market, e.Ticker, strings.Join(msgs, "; "))
}

func (e *DataUnavailable) Is(target error) bool { return target == ErrDataUnavailable }

func (e *DataUnavailable) Unwrap() []error { return e.Causes }

// AnalysisFailed is returned when no analyst role succeeded. Outcomes carries every
// role's result for diagnostics.
type AnalysisFailed struct {
	Ticker   string
	Outcomes []AnalystOutcome
	Cause    error
}

func (e *AnalysisFailed) Error() string {
	parts := make([]string, 0, len(e.Outcomes))
	for _, o := range e.Outcomes {
		parts = append(parts, fmt.Sprintf("%s=%s", o.RoleName, o.ErrorKind))
	}
	msg := fmt.Sprintf("analysis failed for %s: 0/%d roles succeeded", e.Ticker, len(e.Outcomes))
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AnalysisFailed) Is(target error) bool { return target == ErrAnalysisFailed }

func (e *AnalysisFailed) Unwrap() error { return e.Cause }

// ErrorKinds maps role name to its error kind.
func (e *AnalysisFailed) ErrorKinds() map[string]ErrorKind {
	out := make(map[string]ErrorKind, len(e.Outcomes))
	for _, o := range e.Outcomes {
		out[o.RoleName] = o.ErrorKind
	}
	return out
}

// ConfigurationError reports a malformed option detected at startup.
type ConfigurationError struct {
	Field  string
	Reason string
}

func NewConfigurationError(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvalidRequestError rejects analyze parameters before any work starts.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

func (e *InvalidRequestError) Is(target error) bool { return target == ErrInvalidRequest }

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"StockAdvisor/internal/domain/models"
)

var ErrEmptyCompletion = errors.New("empty completion")

// CompletionError is the only error type the completers return.
type CompletionError struct {
	Kind     models.ErrorKind
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// KindOf maps any error returned along a role call to an ErrorKind.
func KindOf(err error) models.ErrorKind {
	if err == nil {
		return ""
	}
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return models.ErrorKindCanceled
	case errors.Is(err, ErrEmptyCompletion):
		return models.ErrorKindMalformed
	}
	return models.ErrorKindInternal
}

// wrap classifies a provider error. Context errors win over whatever the SDK reported.
func wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &CompletionError{Kind: classify(err), Provider: provider, Err: err}
}

func classify(err error) models.ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return models.ErrorKindCanceled
	case errors.Is(err, ErrEmptyCompletion):
		return models.ErrorKindMalformed
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if k, ok := kindOfStatus(apiErr.StatusCode); ok {
			return k
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case IsRateLimitError(err):
		return models.ErrorKindRateLimit
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthorized"), strings.Contains(msg, "api key"),
		strings.Contains(msg, "authentication"), strings.Contains(msg, "permission_denied"):
		return models.ErrorKindAuth
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return models.ErrorKindTimeout
	case strings.Contains(msg, "invalid character"), strings.Contains(msg, "unexpected end of json"):
		return models.ErrorKindMalformed
	}
	return models.ErrorKindInternal
}

func kindOfStatus(code int) (models.ErrorKind, bool) {
	switch {
	case code == 401 || code == 403:
		return models.ErrorKindAuth, true
	case code == 429:
		return models.ErrorKindRateLimit, true
	case code == 408 || code == 504:
		return models.ErrorKindTimeout, true
	}
	return "", false
}

// IsRateLimitError reports quota exhaustion as worded by the supported providers.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "429") ||
		strings.Contains(s, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(s), "quota") ||
		strings.Contains(strings.ToLower(s), "rate limit")
}

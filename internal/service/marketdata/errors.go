package marketdata

import (
	"errors"
	"fmt"

	"StockAdvisor/internal/domain/models"
)

var (
	ErrRateLimited = errors.New("rate limited")
	ErrMalformed   = errors.New("malformed payload")
	ErrNoData      = errors.New("no data")
	ErrUnsupported = errors.New("market not supported by tier")
)

// TierError records why one tier attempt was abandoned.
type TierError struct {
	Tier models.SourceTier
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error { return e.Err }

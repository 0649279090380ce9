package repository

import (
	"context"

	"StockAdvisor/internal/domain/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// DecisionPublisher hands finished decisions to the persistence collaborator.
// The engine never depends on a publish succeeding.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, d *models.Decision, outcomes []models.AnalystOutcome) error
	Close() error
}

type Metrics interface {
	RecordRoleOutcome(role string, status models.OutcomeStatus, seconds float64)
	RecordTierFetch(tier models.SourceTier, result string, seconds float64)
	RecordCacheLookup(result string)
	RecordDecision(verdict models.Stance, degraded bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

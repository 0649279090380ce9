package repository

import (
	"context"
	"time"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/repository"
	pkgkafka "StockAdvisor/pkg/kafka"
)

// producer is the subset of *pkgkafka.Producer used here.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

var _ producer = (*pkgkafka.Producer)(nil)

// decisionRecord is the message body on the decisions topic.
type decisionRecord struct {
	Decision    *models.Decision        `json:"decision"`
	Outcomes    []models.AnalystOutcome `json:"outcomes"`
	PublishedAt time.Time               `json:"published_at"`
}

// KafkaDecisionPublisher implements DecisionPublisher for Kafka.
// Messages are keyed by market and ticker.
type KafkaDecisionPublisher struct {
	producer producer
	topic    string
	now      func() time.Time
}

// NewKafkaDecisionPublisher creates Kafka decision publisher.
func NewKafkaDecisionPublisher(p *pkgkafka.Producer, topic string) repository.DecisionPublisher {
	return newKafkaDecisionPublisher(p, topic)
}

func newKafkaDecisionPublisher(p producer, topic string) *KafkaDecisionPublisher {
	return &KafkaDecisionPublisher{producer: p, topic: topic, now: time.Now}
}

func (p *KafkaDecisionPublisher) PublishDecision(ctx context.Context, d *models.Decision, outcomes []models.AnalystOutcome) error {
	if d == nil {
		return nil
	}
	key := []byte(string(d.Market) + ":" + d.Ticker)
	return p.producer.Publish(ctx, p.topic, key, decisionRecord{
		Decision:    d,
		Outcomes:    outcomes,
		PublishedAt: p.now().UTC(),
	})
}

func (p *KafkaDecisionPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops every decision. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishDecision(context.Context, *models.Decision, []models.AnalystOutcome) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/domain/models"
)

type recordingProducer struct {
	topic  string
	key    []byte
	value  interface{}
	err    error
	closed bool
}

func (p *recordingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.topic, p.key, p.value = topic, key, value
	return p.err
}

func (p *recordingProducer) Close() error {
	p.closed = true
	return nil
}

func TestKafkaDecisionPublisherKeysByTicker(t *testing.T) {
	rec := &recordingProducer{}
	pub := newKafkaDecisionPublisher(rec, "analysis.decisions")
	pub.now = func() time.Time { return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC) }

	d := &models.Decision{ID: "d-1", Ticker: "AAPL", Market: models.MarketUS, Verdict: models.StanceBuy, Confidence: 0.5}
	outcomes := []models.AnalystOutcome{{RoleName: "company", Status: models.StatusSuccess, Text: "BUY"}}
	require.NoError(t, pub.PublishDecision(context.Background(), d, outcomes))

	assert.Equal(t, "analysis.decisions", rec.topic)
	assert.Equal(t, "US:AAPL", string(rec.key))

	b, err := json.Marshal(rec.value)
	require.NoError(t, err)
	var got struct {
		Decision    models.Decision         `json:"decision"`
		Outcomes    []models.AnalystOutcome `json:"outcomes"`
		PublishedAt time.Time               `json:"published_at"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "d-1", got.Decision.ID)
	assert.Equal(t, models.StanceBuy, got.Decision.Verdict)
	require.Len(t, got.Outcomes, 1)
	assert.Equal(t, "company", got.Outcomes[0].RoleName)
	assert.True(t, got.PublishedAt.Equal(time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)))

	require.NoError(t, pub.Close())
	assert.True(t, rec.closed)
}

func TestKafkaDecisionPublisherPropagatesErrors(t *testing.T) {
	boom := errors.New("broker unreachable")
	pub := newKafkaDecisionPublisher(&recordingProducer{err: boom}, "t")

	err := pub.PublishDecision(context.Background(), &models.Decision{Ticker: "MSFT", Market: models.MarketUS}, nil)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, pub.PublishDecision(context.Background(), nil, nil))
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.PublishDecision(context.Background(), &models.Decision{}, nil))
	assert.NoError(t, p.Close())
}

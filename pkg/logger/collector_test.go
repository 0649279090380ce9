package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	digests []*LogDigest
	topics  []string
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.digests = append(p.digests, payload.(*LogDigest))
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.digests)
}

func TestCollectorFoldsRepeatsAndPublishesOnClose(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		Interval:    time.Hour,
		MaxDistinct: 10,
		Topic:       "analysis.logs",
		Source:      "stockadvisor-test",
		Publisher:   pub,
	})

	c.AddLog("error", "role failed", map[string]interface{}{"role": "macro", "ticker": "AAPL"}, "dispatcher.go:10")
	c.AddLog("error", "role failed", map[string]interface{}{"ticker": "AAPL", "role": "macro"}, "dispatcher.go:10")
	c.AddLog("error", "tier failed", nil, "chain.go:42")
	assert.Equal(t, 2, c.Pending())

	c.Close()
	c.Close()

	require.Equal(t, 1, pub.count())
	assert.Equal(t, []string{"analysis.logs"}, pub.topics)

	d := pub.digests[0]
	assert.Equal(t, "stockadvisor-test", d.Source)
	assert.False(t, d.WindowEnd.Before(d.WindowStart))
	require.Len(t, d.Entries, 2)
	assert.Equal(t, "role failed", d.Entries[0].Message)
	assert.Equal(t, 2, d.Entries[0].Count)
	assert.Equal(t, "tier failed", d.Entries[1].Message)
}

func TestCollectorClosesWindowAtMaxDistinct(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		Interval:    time.Hour,
		MaxDistinct: 2,
		Publisher:   pub,
	})
	defer c.Close()

	c.AddLog("error", "a", nil, "x:1")
	c.AddLog("error", "b", nil, "x:2")

	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, c.Pending())
}

func TestCollectorSkipsEmptyWindows(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{Interval: 5 * time.Millisecond, Publisher: pub})
	time.Sleep(30 * time.Millisecond)
	c.Close()

	assert.Zero(t, pub.count())
}

func TestLoggerErrorFeedsCollector(t *testing.T) {
	l := Nop()
	l.AddCollector(&CollectionConfig{Interval: time.Hour, MaxDistinct: 100})
	defer l.RemoveCollector()

	l.Error("fetch failed", String("ticker", "AAPL"), Error(errors.New("boom")))
	l.Warn("not collected")

	assert.Equal(t, 1, l.collector.Pending())
}

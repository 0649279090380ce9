package logger

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"sync"
	"time"
)

// Publisher ships log digests somewhere (Kafka in production).
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	Interval    time.Duration // digest window
	MaxDistinct int           // distinct entries that close a window early
	Topic       string
	Source      string // service name stamped on each digest
	Publisher   Publisher
}

// DigestEntry is one distinct error with how often it repeated in the window.
type DigestEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogDigest is the message published for each closed window. Entries are
// ordered by Count, most frequent first.
type LogDigest struct {
	Source      string        `json:"source"`
	WindowStart time.Time     `json:"window_start"`
	WindowEnd   time.Time     `json:"window_end"`
	Entries     []DigestEntry `json:"entries"`
}

// LogCollector folds repeated error logs into DigestEntry counts and
// publishes one LogDigest per window from a single background loop.
type LogCollector struct {
	cfg CollectionConfig
	now func() time.Time

	mu      sync.Mutex
	entries map[uint64]*DigestEntry
	opened  time.Time

	flushCh chan struct{}
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	cfg := *config
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.MaxDistinct <= 0 {
		cfg.MaxDistinct = 100
	}
	if cfg.Source == "" {
		cfg.Source = "stockadvisor"
	}

	c := &LogCollector{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[uint64]*DigestEntry),
		flushCh: make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	c.opened = c.now()
	go c.loop()
	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := c.now()
	key := digestKey(level, message, fields, caller)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		c.entries[key] = &DigestEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	full := len(c.entries) >= c.cfg.MaxDistinct
	c.mu.Unlock()

	if full {
		select {
		case c.flushCh <- struct{}{}:
		default:
		}
	}
}

// Pending returns the number of distinct entries in the open window.
func (c *LogCollector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close publishes the open window and stops the loop. It is safe to call twice.
func (c *LogCollector) Close() {
	c.once.Do(func() { close(c.stop) })
	<-c.done
}

func (c *LogCollector) loop() {
	defer close(c.done)

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.publish(c.cut())
		case <-c.flushCh:
			c.publish(c.cut())
		case <-c.stop:
			c.publish(c.cut())
			return
		}
	}
}

// cut closes the current window and returns its digest, or nil when empty.
func (c *LogCollector) cut() *LogDigest {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	start := c.opened
	c.opened = now
	if len(c.entries) == 0 {
		return nil
	}

	d := &LogDigest{
		Source:      c.cfg.Source,
		WindowStart: start,
		WindowEnd:   now,
		Entries:     make([]DigestEntry, 0, len(c.entries)),
	}
	for _, e := range c.entries {
		d.Entries = append(d.Entries, *e)
	}
	c.entries = make(map[uint64]*DigestEntry)

	sort.SliceStable(d.Entries, func(i, j int) bool {
		if d.Entries[i].Count != d.Entries[j].Count {
			return d.Entries[i].Count > d.Entries[j].Count
		}
		return d.Entries[i].FirstSeen.Before(d.Entries[j].FirstSeen)
	})
	return d
}

func (c *LogCollector) publish(d *LogDigest) {
	if d == nil || c.cfg.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.cfg.Publisher.PublishMessage(ctx, c.cfg.Topic, d); err != nil {
		fmt.Fprintf(os.Stderr, "log digest publish failed: %v\n", err)
	}
}

// digestKey hashes the entry identity. Field order does not matter.
func digestKey(level, message string, fields map[string]interface{}, caller string) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%s\x00%s", level, message, caller)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "\x00%s=%v", k, fields[k])
	}
	return h.Sum64()
}

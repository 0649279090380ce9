package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is what the Loader stores. ExpiresAt is always after CreatedAt.
type Entry struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry must be treated as absent at now.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// LookupObserver is told the outcome of every lookup: hit, miss, shared or error.
type LookupObserver interface {
	RecordCacheLookup(result string)
}

// FetchFunc loads a value from upstream. The returned value is JSON encoded before storing.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Loader is a read-through cache in front of a Service. Concurrent misses for the
// same key are collapsed into one FetchFunc call. Readers of a valid entry take no lock.
type Loader struct {
	store    Service
	ttl      time.Duration
	group    singleflight.Group
	now      func() time.Time
	observer LookupObserver
}

type LoaderOption func(*Loader)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

func WithObserver(o LookupObserver) LoaderOption {
	return func(l *Loader) { l.observer = o }
}

// NewLoader creates a Loader storing entries for ttl.
func NewLoader(store Service, ttl time.Duration, opts ...LoaderOption) (*Loader, error) {
	if store == nil {
		return nil, errors.New("cache: store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache: ttl must be positive, got %s", ttl)
	}
	l := &Loader{store: store, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// GetOrFetch returns the cached payload for key, calling fetch at most once across
// all concurrent callers when the entry is missing or expired. Fetch errors are not cached.
// A caller whose ctx ends while waiting gets ctx.Err(); the shared fetch keeps running
// for the remaining waiters.
func (l *Loader) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (json.RawMessage, error) {
	if e, ok := l.lookup(ctx, key); ok {
		l.observe("hit")
		return clone(e.Payload), nil
	}

	ch := l.group.DoChan(key, func() (interface{}, error) {
		fctx := context.WithoutCancel(ctx)

		// A flight that finished just before this one may have stored the entry.
		if e, ok := l.lookup(fctx, key); ok {
			return e.Payload, nil
		}

		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cache: encode %s: %w", key, err)
		}

		now := l.now()
		entry := Entry{Key: key, Payload: payload, CreatedAt: now, ExpiresAt: now.Add(l.ttl)}
		if err := SetJSON(fctx, l.store, key, entry, l.ttl); err != nil {
			l.observe("error")
		}
		return json.RawMessage(payload), nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.observe("shared")
		} else {
			l.observe("miss")
		}
		return clone(res.Val.(json.RawMessage)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fetch is the typed form of GetOrFetch. Every caller decodes its own copy.
func Fetch[T any](ctx context.Context, l *Loader, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var out T
	raw, err := l.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return out, nil
}

// Clear drops every key matching pattern.
func (l *Loader) Clear(ctx context.Context, pattern string) error {
	return l.store.DeleteByPattern(ctx, pattern)
}

// lookup returns a valid entry. Expired or undecodable entries are deleted.
func (l *Loader) lookup(ctx context.Context, key string) (*Entry, bool) {
	raw, err := l.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			l.observe("error")
		}
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Expired(l.now()) {
		_ = l.store.Delete(ctx, key)
		return nil, false
	}
	return &e, true
}

func (l *Loader) observe(result string) {
	if l.observer != nil {
		l.observer.RecordCacheLookup(result)
	}
}

func clone(b json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}

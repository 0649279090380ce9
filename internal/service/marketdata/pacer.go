package marketdata

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer spaces out calls to rate-limited upstreams by waiting base plus a
// uniform random jitter before each call.
type Pacer struct {
	base   time.Duration
	jitter time.Duration
	rnd    func(n int64) int64
}

func NewPacer(base, jitter time.Duration) *Pacer {
	return &Pacer{base: base, jitter: jitter, rnd: rand.Int64N}
}

// Delay returns the next wait duration.
func (p *Pacer) Delay() time.Duration {
	if p == nil {
		return 0
	}
	d := p.base
	if p.jitter > 0 {
		d += time.Duration(p.rnd(int64(p.jitter) + 1))
	}
	return d
}

// Wait sleeps for Delay or until ctx ends.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/pkg/pool"
)

func newTestDispatcher(t *testing.T, size int) *Dispatcher {
	t.Helper()
	p, err := pool.New(size)
	require.NoError(t, err)
	return NewDispatcher(p, nil, nil)
}

func TestDispatchAllPreservesRoleOrder(t *testing.T) {
	d := newTestDispatcher(t, 6)
	delays := []time.Duration{40, 5, 30, 0, 20, 10}
	roles := make([]service.Analyst, len(delays))
	names := []string{"company", "industry", "macro", "technical", "risk", "sentiment"}
	for i, delay := range delays {
		delay := delay * time.Millisecond
		roles[i] = role(names[i], func(ctx context.Context) models.AnalystOutcome {
			time.Sleep(delay)
			return says(models.StanceHold, "steady")(ctx)
		})
	}

	out := d.DispatchAll(context.Background(), roles, "AAPL", models.MarketUS, testStockData("AAPL"), time.Second)

	require.Len(t, out, len(roles))
	for i, o := range out {
		assert.Equal(t, names[i], o.RoleName)
		assert.Equal(t, models.StatusSuccess, o.Status)
	}
}

func TestDispatchAllIsolatesFailingRoles(t *testing.T) {
	d := newTestDispatcher(t, 6)
	roles := []service.Analyst{
		role("company", says(models.StanceBuy, "strong quarter")),
		role("industry", func(context.Context) models.AnalystOutcome { panic("nil map write") }),
		role("macro", func(context.Context) models.AnalystOutcome {
			return models.AnalystOutcome{Status: models.StatusFailed, ErrorKind: models.ErrorKindRateLimit, Error: "429"}
		}),
		role("technical", blocks),
		role("risk", func(context.Context) models.AnalystOutcome {
			// ignores its context entirely
			time.Sleep(300 * time.Millisecond)
			return models.AnalystOutcome{Status: models.StatusSuccess, Text: "late", Stance: models.StanceSell}
		}),
		role("sentiment", func(context.Context) models.AnalystOutcome {
			return models.AnalystOutcome{Status: models.StatusSuccess, Text: "```json\n{\"stance\":\"sell\"}\n```"}
		}),
	}

	start := time.Now()
	out := d.DispatchAll(context.Background(), roles, "AAPL", models.MarketUS, testStockData("AAPL"), 50*time.Millisecond)
	elapsed := time.Since(start)

	require.Len(t, out, 6)
	assert.Less(t, elapsed, 250*time.Millisecond, "a role ignoring its context must not hold up the batch")

	assert.Equal(t, models.StatusSuccess, out[0].Status)
	assert.Equal(t, models.StanceBuy, out[0].Stance)

	assert.Equal(t, models.StatusFailed, out[1].Status)
	assert.Equal(t, models.ErrorKindInternal, out[1].ErrorKind)
	assert.Contains(t, out[1].Error, "panic")
	assert.Equal(t, "industry", out[1].RoleName)

	assert.Equal(t, models.StatusFailed, out[2].Status)
	assert.Equal(t, models.ErrorKindRateLimit, out[2].ErrorKind)

	assert.Equal(t, models.StatusTimedOut, out[3].Status)
	assert.Equal(t, models.ErrorKindTimeout, out[3].ErrorKind)
	assert.Empty(t, out[3].Text)

	assert.Equal(t, models.StatusTimedOut, out[4].Status)

	assert.Equal(t, models.StatusSuccess, out[5].Status)
	assert.Equal(t, models.StanceSell, out[5].Stance, "stance is extracted when the role left it unset")
}

func TestDispatchAllBoundsConcurrency(t *testing.T) {
	d := newTestDispatcher(t, 2)
	var running, peak int32
	track := func(context.Context) models.AnalystOutcome {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(15 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return models.AnalystOutcome{Status: models.StatusSuccess, Text: "hold", Stance: models.StanceHold}
	}
	roles := make([]service.Analyst, 6)
	for i := range roles {
		roles[i] = role("r"+string(rune('a'+i)), track)
	}

	out := d.DispatchAll(context.Background(), roles, "AAPL", models.MarketUS, nil, time.Second)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	for _, o := range out {
		assert.Equal(t, models.StatusSuccess, o.Status)
	}
}

func TestDispatchAllPerRoleTimeoutStartsAfterSlot(t *testing.T) {
	d := newTestDispatcher(t, 1)
	slow := func(context.Context) models.AnalystOutcome {
		time.Sleep(30 * time.Millisecond)
		return models.AnalystOutcome{Status: models.StatusSuccess, Text: "buy", Stance: models.StanceBuy}
	}
	roles := []service.Analyst{role("a", slow), role("b", slow), role("c", slow)}

	// queued roles wait ~60ms in total, longer than their own 50ms budget
	out := d.DispatchAll(context.Background(), roles, "AAPL", models.MarketUS, nil, 50*time.Millisecond)

	for _, o := range out {
		assert.Equal(t, models.StatusSuccess, o.Status, o.RoleName)
	}
}

func TestDispatchAllParentCancellation(t *testing.T) {
	d := newTestDispatcher(t, 1)
	release := make(chan struct{})
	var finished sync.WaitGroup
	finished.Add(1)
	held := func(ctx context.Context) models.AnalystOutcome {
		defer finished.Done()
		<-release
		return models.AnalystOutcome{Status: models.StatusSuccess, Text: "buy", Stance: models.StanceBuy}
	}
	// one role holds the only slot, the other stays queued
	roles := []service.Analyst{role("first", held), role("second", held)}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	out := d.DispatchAll(ctx, roles, "AAPL", models.MarketUS, nil, time.Second)

	for _, o := range out {
		assert.Equal(t, models.StatusFailed, o.Status, o.RoleName)
		assert.Equal(t, models.ErrorKindCanceled, o.ErrorKind, o.RoleName)
	}

	// the discarded call was not killed and still finishes
	close(release)
	finished.Wait()
}

func TestDispatchAllParentDeadlineIsTimedOut(t *testing.T) {
	d := newTestDispatcher(t, 6)
	roles := []service.Analyst{role("fast", says(models.StanceHold, "ok")), role("slow", blocks)}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	out := d.DispatchAll(ctx, roles, "AAPL", models.MarketUS, nil, time.Second)

	assert.Equal(t, models.StatusSuccess, out[0].Status)
	assert.Equal(t, models.StatusTimedOut, out[1].Status)
	assert.True(t, errors.Is(ctx.Err(), context.DeadlineExceeded))
}

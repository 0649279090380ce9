package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"StockAdvisor/internal/domain/models"
	domrepo "StockAdvisor/internal/domain/repository"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/internal/services/analyst"
	"StockAdvisor/pkg/logger"
	"StockAdvisor/pkg/metrics"
	"StockAdvisor/pkg/pool"
)

// Dispatcher runs analyst roles concurrently on a pool shared by every analysis.
type Dispatcher struct {
	pool    *pool.Pool
	metrics domrepo.Metrics
	log     *logger.Logger
	clock   func() time.Time
}

func NewDispatcher(p *pool.Pool, m domrepo.Metrics, log *logger.Logger) *Dispatcher {
	if m == nil {
		m = metrics.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{pool: p, metrics: m, log: log, clock: time.Now}
}

// DispatchAll runs every role once and returns exactly len(roles) outcomes in role
// order. Each role gets timeoutPerRole from the moment it holds a pool slot.
//
// Explicit cancellation of ctx does not reach running completions: DispatchAll stops
// waiting, reports the unfinished roles as FAILED/CANCELED and the discarded calls
// release their slots when they return. A ctx deadline ends the role calls and
// reports them as TIMED_OUT.
func (d *Dispatcher) DispatchAll(ctx context.Context, roles []service.Analyst, ticker string, market models.Market, data *models.StockData, timeoutPerRole time.Duration) []models.AnalystOutcome {
	out := make([]models.AnalystOutcome, len(roles))
	var wg sync.WaitGroup
	for i, role := range roles {
		wg.Add(1)
		go func(i int, role service.Analyst) {
			defer wg.Done()
			start := d.clock()
			o := d.runOne(ctx, role, ticker, market, data, timeoutPerRole)
			o.DurationMs = d.clock().Sub(start).Milliseconds()
			out[i] = o
			d.metrics.RecordRoleOutcome(o.RoleName, o.Status, d.clock().Sub(start).Seconds())
			if !o.Succeeded() {
				d.log.Warn("analyst role did not succeed",
					logger.String("role", o.RoleName),
					logger.String("ticker", ticker),
					logger.String("status", string(o.Status)),
					logger.String("kind", string(o.ErrorKind)),
					logger.String("error", o.Error))
			}
		}(i, role)
	}
	wg.Wait()
	return out
}

func (d *Dispatcher) runOne(ctx context.Context, role service.Analyst, ticker string, market models.Market, data *models.StockData, timeout time.Duration) models.AnalystOutcome {
	base := models.AnalystOutcome{
		RoleName:    role.Name(),
		DisplayName: role.DisplayName(),
		Weight:      role.Weight(),
	}

	if err := d.pool.Acquire(ctx); err != nil {
		return interrupted(base, ctx)
	}

	deadline := d.clock().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	rctx, cancel := context.WithDeadline(context.WithoutCancel(ctx), deadline)

	done := make(chan models.AnalystOutcome, 1)
	go func() {
		defer d.pool.Release()
		defer cancel()
		done <- d.safeRun(rctx, role, ticker, market, data)
	}()

	select {
	case o := <-done:
		return settle(o, base, ctx, rctx)
	case <-rctx.Done():
		select {
		case o := <-done:
			return settle(o, base, ctx, rctx)
		default:
		}
		o := interrupted(base, ctx)
		if ctx.Err() == nil {
			o.Error = fmt.Sprintf("role timed out after %s", timeout)
		}
		return o
	case <-ctx.Done():
		return interrupted(base, ctx)
	}
}

// safeRun turns a panicking role into a FAILED/INTERNAL outcome.
func (d *Dispatcher) safeRun(ctx context.Context, role service.Analyst, ticker string, market models.Market, data *models.StockData) (o models.AnalystOutcome) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("analyst role panicked",
				logger.String("role", role.Name()),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())))
			o = models.AnalystOutcome{
				Status:    models.StatusFailed,
				ErrorKind: models.ErrorKindInternal,
				Error:     fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return role.Run(ctx, ticker, market, data)
}

// settle enforces the outcome invariants on whatever the role returned.
func settle(o, base models.AnalystOutcome, parent, rctx context.Context) models.AnalystOutcome {
	o.RoleName, o.DisplayName, o.Weight = base.RoleName, base.DisplayName, base.Weight

	if o.Status == models.StatusSuccess {
		if o.Text == "" {
			o.Status, o.ErrorKind, o.Error = models.StatusFailed, models.ErrorKindMalformed, "empty completion"
			return o
		}
		if !o.Stance.Valid() {
			op := analyst.Extract(o.Text)
			o.Stance, o.Strength = op.Stance, op.Strength
		}
		o.ErrorKind, o.Error = "", ""
		return o
	}

	o.Text = ""
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		o.Status, o.ErrorKind = models.StatusFailed, models.ErrorKindCanceled
	case errors.Is(rctx.Err(), context.DeadlineExceeded):
		o.Status, o.ErrorKind = models.StatusTimedOut, models.ErrorKindTimeout
	case o.Status != models.StatusTimedOut:
		o.Status = models.StatusFailed
	}
	if o.ErrorKind == "" {
		o.ErrorKind = models.ErrorKindInternal
	}
	return o
}

func interrupted(base models.AnalystOutcome, parent context.Context) models.AnalystOutcome {
	o := base
	if errors.Is(parent.Err(), context.Canceled) {
		o.Status, o.ErrorKind, o.Error = models.StatusFailed, models.ErrorKindCanceled, context.Canceled.Error()
		return o
	}
	o.Status, o.ErrorKind, o.Error = models.StatusTimedOut, models.ErrorKindTimeout, context.DeadlineExceeded.Error()
	return o
}

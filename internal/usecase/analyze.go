package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"StockAdvisor/internal/domain/models"
	domrepo "StockAdvisor/internal/domain/repository"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/pkg/cache"
	"StockAdvisor/pkg/logger"
	"StockAdvisor/pkg/metrics"
	"StockAdvisor/pkg/util"
)

// Analyze defaults and bounds.
const (
	DefaultPeriodMonths = 12
	MaxPeriodMonths     = 60
	maxTickerLen        = 16
	publishTimeout      = 5 * time.Second
)

// StockDataSource produces the normalized snapshot for a ticker.
type StockDataSource interface {
	Fetch(ctx context.Context, ticker string, market models.Market, periodMonths int) (*models.StockData, error)
}

// RoleSource is the configured role roster.
type RoleSource interface {
	Roles() []service.Analyst
	Info() []models.RoleInfo
}

// AnalyzeParams are the inputs of one analysis. Observer is optional.
type AnalyzeParams struct {
	Ticker       string
	Market       string
	PeriodMonths int
	Observer     service.ProgressObserver
}

// AnalyzeOptions carries the timeouts of AnalyzeUseCase.
type AnalyzeOptions struct {
	PerRoleTimeout      time.Duration
	OperationTimeout    time.Duration
	DefaultPeriodMonths int
}

// AnalyzeUseCase is the single entry point of the engine: fetch data through the
// cache, dispatch every role, aggregate, publish.
type AnalyzeUseCase struct {
	data       StockDataSource
	loader     *cache.Loader
	roles      RoleSource
	dispatcher *Dispatcher
	aggregator *Aggregator
	publisher  domrepo.DecisionPublisher
	metrics    domrepo.Metrics
	log        *logger.Logger
	opts       AnalyzeOptions
	clock      func() time.Time
	newID      func() string
}

func NewAnalyzeUseCase(
	data StockDataSource,
	loader *cache.Loader,
	roles RoleSource,
	dispatcher *Dispatcher,
	aggregator *Aggregator,
	publisher domrepo.DecisionPublisher,
	m domrepo.Metrics,
	log *logger.Logger,
	opts AnalyzeOptions,
) (*AnalyzeUseCase, error) {
	if opts.PerRoleTimeout <= 0 {
		return nil, models.NewConfigurationError("analysis.per_role_timeout", "must be positive, got %s", opts.PerRoleTimeout)
	}
	if opts.OperationTimeout <= 0 {
		return nil, models.NewConfigurationError("analysis.operation_timeout", "must be positive, got %s", opts.OperationTimeout)
	}
	if opts.DefaultPeriodMonths == 0 {
		opts.DefaultPeriodMonths = DefaultPeriodMonths
	}
	if m == nil {
		m = metrics.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyzeUseCase{
		data:       data,
		loader:     loader,
		roles:      roles,
		dispatcher: dispatcher,
		aggregator: aggregator,
		publisher:  publisher,
		metrics:    m,
		log:        log,
		opts:       opts,
		clock:      time.Now,
		newID:      uuid.NewString,
	}, nil
}

// run is the state of one Analyze call.
type run struct {
	uc       *AnalyzeUseCase
	id       string
	ticker   string
	observer service.ProgressObserver
	stage    models.Stage
}

func (r *run) transition(stage models.Stage, msg string) {
	r.uc.log.Info("analysis stage",
		logger.String("analysis_id", r.id),
		logger.String("ticker", r.ticker),
		logger.String("from", string(r.stage)),
		logger.String("to", string(stage)),
		logger.String("message", msg))
	r.stage = stage
	if r.observer != nil {
		r.observer.OnProgress(models.ProgressEvent{
			AnalysisID: r.id,
			Ticker:     r.ticker,
			Stage:      stage,
			Message:    msg,
			At:         r.uc.clock(),
		})
	}
}

func (r *run) fail(kind string, err error) error {
	r.uc.metrics.RecordError(kind)
	r.transition(models.StageFailed, err.Error())
	return err
}

// Analyze runs one full analysis. It returns *InvalidRequestError for bad params,
// *DataUnavailable when no tier produced data and *AnalysisFailed when no role
// succeeded or the caller canceled.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, p AnalyzeParams) (*models.Decision, error) {
	start := uc.clock()
	defer func() { uc.metrics.RecordLatency("analyze", uc.clock().Sub(start).Seconds()) }()

	ticker, market, period, err := uc.normalize(p)
	if err != nil {
		uc.metrics.RecordError("invalid_request")
		return nil, err
	}

	r := &run{uc: uc, id: uc.newID(), ticker: ticker, observer: p.Observer, stage: models.StageIdle}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.OperationTimeout)
	defer cancel()

	r.transition(models.StageFetchingData, fmt.Sprintf("fetching %s/%s for %d months", market, ticker, period))
	data, err := uc.stockData(ctx, ticker, market, period)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, r.fail("canceled", &models.AnalysisFailed{Ticker: ticker, Cause: context.Canceled})
		}
		var du *models.DataUnavailable
		if !errors.As(err, &du) {
			err = &models.DataUnavailable{Ticker: ticker, Market: market, Causes: []error{err}}
		}
		return nil, r.fail("data_unavailable", err)
	}

	roles := uc.roles.Roles()
	r.transition(models.StageDispatching, fmt.Sprintf("dispatching %d analysts on %s data", len(roles), data.SourceTier))
	outcomes := uc.dispatcher.DispatchAll(ctx, roles, ticker, market, data, uc.opts.PerRoleTimeout)

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, r.fail("canceled", &models.AnalysisFailed{Ticker: ticker, Outcomes: outcomes, Cause: context.Canceled})
	}

	r.transition(models.StageAggregating, fmt.Sprintf("%d/%d analysts succeeded", succeeded(outcomes), len(outcomes)))
	decision, err := uc.aggregator.Aggregate(outcomes, data, period)
	if err != nil {
		return nil, r.fail("analysis_failed", err)
	}
	decision.ID = r.id

	uc.metrics.RecordDecision(decision.Verdict, decision.Degraded)
	uc.log.Info("decision ready",
		logger.String("analysis_id", r.id),
		logger.String("ticker", ticker),
		logger.String("verdict", string(decision.Verdict)),
		logger.Float64("confidence", decision.Confidence),
		logger.Strings("failed_roles", failedRoles(outcomes)),
	)
	uc.publish(ctx, decision, outcomes)
	r.transition(models.StageDone, fmt.Sprintf("%s with confidence %.2f", decision.Verdict, decision.Confidence))
	return decision, nil
}

func (uc *AnalyzeUseCase) normalize(p AnalyzeParams) (string, models.Market, int, error) {
	ticker := util.NormalizeTicker(p.Ticker)
	if ticker == "" {
		return "", "", 0, &models.InvalidRequestError{Field: "ticker", Reason: "is required"}
	}
	if len(ticker) > maxTickerLen {
		return "", "", 0, &models.InvalidRequestError{Field: "ticker", Reason: fmt.Sprintf("exceeds %d characters", maxTickerLen)}
	}
	marketStr := p.Market
	if marketStr == "" {
		marketStr = string(models.MarketUS)
	}
	market, err := models.ParseMarket(marketStr)
	if err != nil {
		return "", "", 0, &models.InvalidRequestError{Field: "market", Reason: "must be US or KR"}
	}
	period := p.PeriodMonths
	if period == 0 {
		period = uc.opts.DefaultPeriodMonths
	}
	if period < 1 || period > MaxPeriodMonths {
		return "", "", 0, &models.InvalidRequestError{Field: "period_months", Reason: fmt.Sprintf("must be between 1 and %d", MaxPeriodMonths)}
	}
	return ticker, market, period, nil
}

func (uc *AnalyzeUseCase) stockData(ctx context.Context, ticker string, market models.Market, period int) (*models.StockData, error) {
	fetch := func(ctx context.Context) (*models.StockData, error) {
		return uc.data.Fetch(ctx, ticker, market, period)
	}
	if uc.loader == nil {
		return fetch(ctx)
	}
	return cache.Fetch(ctx, uc.loader, SnapshotKey(market, ticker, period), fetch)
}

func (uc *AnalyzeUseCase) publish(ctx context.Context, d *models.Decision, outcomes []models.AnalystOutcome) {
	if uc.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := uc.publisher.PublishDecision(pctx, d, outcomes); err != nil {
		uc.metrics.RecordError("publish")
		uc.log.Warn("decision publish failed",
			logger.String("analysis_id", d.ID),
			logger.String("ticker", d.Ticker),
			logger.Error(err))
	}
}

// ClearCache drops cached snapshots. An empty ticker clears the whole market,
// an empty market clears everything.
func (uc *AnalyzeUseCase) ClearCache(ctx context.Context, ticker string, market string) error {
	if uc.loader == nil {
		return nil
	}
	prefix := "stock:"
	if market != "" {
		m, err := models.ParseMarket(market)
		if err != nil {
			return &models.InvalidRequestError{Field: "market", Reason: "must be US or KR"}
		}
		prefix += string(m) + ":"
		if t := util.NormalizeTicker(ticker); t != "" {
			prefix += t + ":"
		}
	}
	if err := uc.loader.Clear(ctx, cache.BuildPattern(prefix)); err != nil {
		return fmt.Errorf("clear cache %s: %w", prefix, err)
	}
	uc.log.Info("cache cleared", logger.String("pattern", cache.BuildPattern(prefix)))
	return nil
}

// Roles lists the configured roles and their current weights.
func (uc *AnalyzeUseCase) Roles() []models.RoleInfo {
	return uc.roles.Info()
}

// UpdateWeights applies performance scores in [0, 1] to the named roles and
// returns the roster with its new weights. Unknown roles reject the whole update.
func (uc *AnalyzeUseCase) UpdateWeights(scores map[string]float64) ([]models.RoleInfo, error) {
	if len(scores) == 0 {
		return nil, &models.InvalidRequestError{Field: "scores", Reason: "must name at least one role"}
	}
	known := make(map[string]bool)
	for _, r := range uc.roles.Info() {
		known[r.Name] = true
	}
	for name, score := range scores {
		if !known[name] {
			return nil, &models.InvalidRequestError{Field: "scores", Reason: fmt.Sprintf("unknown role %q", name)}
		}
		if !(score >= 0 && score <= 1) {
			return nil, &models.InvalidRequestError{Field: "scores", Reason: fmt.Sprintf("score of %q must be in [0, 1], got %v", name, score)}
		}
	}

	weights := uc.aggregator.UpdateWeights(scores)
	uc.log.Info("role weights updated", logger.Any("weights", weights))
	return uc.Roles(), nil
}

// SnapshotKey is the cache key of one StockData snapshot.
func SnapshotKey(market models.Market, ticker string, periodMonths int) string {
	return cache.GenerateKeyWithParams("stock", market, ticker, "snapshot", periodMonths)
}

func failedRoles(outcomes []models.AnalystOutcome) []string {
	var names []string
	for _, o := range outcomes {
		if !o.Succeeded() {
			names = append(names, o.RoleName)
		}
	}
	return names
}

func succeeded(outcomes []models.AnalystOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

package di

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"StockAdvisor/internal/domain/repository"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/internal/handler/api"
	"StockAdvisor/internal/handler/ws"
	internalrepo "StockAdvisor/internal/repository"
	"StockAdvisor/internal/service/llm"
	"StockAdvisor/internal/service/marketdata"
	"StockAdvisor/internal/service/ratelimit"
	"StockAdvisor/internal/services/analyst"
	"StockAdvisor/internal/usecase"
	"StockAdvisor/pkg/cache"
	"StockAdvisor/pkg/config"
	xhttp "StockAdvisor/pkg/http"
	pkgkafka "StockAdvisor/pkg/kafka"
	"StockAdvisor/pkg/logger"
	"StockAdvisor/pkg/metrics"
	"StockAdvisor/pkg/pool"
	"StockAdvisor/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
// Decision and log messages share it.
func ProvideKafkaProducer(cfg *config.Config, l *logger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	p := cfg.Kafka.Producer
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(p.BatchSize, p.BatchBytes, p.Linger),
		pkgkafka.WithTimeouts(p.WriteTimeout, p.ReadTimeout),
		pkgkafka.WithMaxAttempts(p.MaxAttempts),
		pkgkafka.WithAsync(p.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	l.AddCollector(&logger.CollectionConfig{
		Topic:     cfg.Kafka.LogTopic,
		Source:    "stockadvisor-" + cfg.Environment,
		Publisher: producer,
	})
	cleanup := func() {
		l.RemoveCollector()
		if err := producer.Close(); err != nil {
			l.Warn("kafka producer close error", logger.Error(err))
		}
	}
	return producer, cleanup, nil
}

// ProvideDecisionPublisher publishes decisions to Kafka when enabled.
func ProvideDecisionPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.DecisionPublisher {
	if producer == nil {
		return internalrepo.NopPublisher{}
	}
	return internalrepo.NewKafkaDecisionPublisher(producer, cfg.Kafka.DecisionTopic)
}

// ProvideCacheStore opens the configured cache backend.
func ProvideCacheStore(cfg *config.Config) (cache.Service, func(), error) {
	c := cfg.Cache
	var store cache.Service
	switch c.Backend {
	case "memory":
		store = cache.NewMemoryCache(cache.WithMemoryMaxSize(c.MemoryMaxSize))
	case "redis", "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(c.Redis.Host),
			cache.WithRedisPort(c.Redis.Port),
			cache.WithRedisPassword(c.Redis.Password),
			cache.WithRedisDB(c.Redis.DB),
			cache.WithRedisPrefix(c.Redis.Prefix),
			cache.WithRedisPool(c.Redis.PoolSize, c.Redis.MinIdleConns, c.Redis.PoolTimeout),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		store = rc
		if c.Backend == "layered" {
			store = cache.NewLayeredCache(rc,
				cache.WithLayeredMemorySize(c.MemoryMaxSize),
				cache.WithLayeredMemoryTTL(c.MemoryTTL),
			)
		}
	case "badger":
		bc, err := cache.NewBadgerCache(cache.WithBadgerDir(c.Badger.Dir))
		if err != nil {
			return nil, nil, fmt.Errorf("badger cache: %w", err)
		}
		store = bc
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
	return store, func() { _ = store.Close() }, nil
}

// ProvideLoader puts the read-through loader in front of the store.
func ProvideLoader(cfg *config.Config, store cache.Service, m repository.Metrics) (*cache.Loader, error) {
	return cache.NewLoader(store, cfg.Analysis.CacheTTL, cache.WithObserver(m))
}

// ProvideMarketData builds the tiered provider chain. The SECONDARY tier is only
// available when an Alpha Vantage key is configured.
func ProvideMarketData(cfg *config.Config, m repository.Metrics, l *logger.Logger) (*marketdata.Chain, error) {
	order, err := config.ParseTierOrder(cfg.Providers.DataSourceOrder)
	if err != nil {
		return nil, err
	}

	tiers := []service.MarketDataTier{marketdata.NewYahooTier()}
	if av := cfg.Providers.AlphaVantage; av.APIKey != "" {
		tiers = append(tiers, marketdata.NewAlphaVantageTier(av.APIKey,
			marketdata.WithAlphaVantageURL(av.BaseURL),
			marketdata.WithRequestsPerMinute(av.RequestsPerMinute),
		))
	}
	if cfg.Providers.Static.Enabled {
		tiers = append(tiers, marketdata.NewStaticTier())
	}

	return marketdata.NewChain(tiers, order,
		marketdata.WithTierTimeout(cfg.Providers.TierTimeout),
		marketdata.WithPacer(marketdata.NewPacer(cfg.Providers.RequestDelay, cfg.Providers.RequestJitter)),
		marketdata.WithMetrics(m),
		marketdata.WithLogger(l.With(logger.String("component", "marketdata"))),
	)
}

// ProvideCompleter creates the completion client for the configured provider.
func ProvideCompleter(cfg *config.Config) (service.Completer, error) {
	return llm.New(context.Background(), cfg.LLM)
}

// ProvideAnalystSet builds the configured role roster.
func ProvideAnalystSet(cfg *config.Config, completer service.Completer) (*analyst.Set, error) {
	return analyst.NewSet(cfg.Analysis.Roles, cfg.Analysis.WeightOf, completer, llm.Sampling(cfg.LLM))
}

// ProvidePool creates the process-wide analyst worker pool.
func ProvidePool(cfg *config.Config) (*pool.Pool, error) {
	return pool.New(cfg.Analysis.WorkerPoolSize)
}

func ProvideDispatcher(p *pool.Pool, m repository.Metrics, l *logger.Logger) *usecase.Dispatcher {
	return usecase.NewDispatcher(p, m, l.With(logger.String("component", "dispatcher")))
}

func ProvideAggregator(cfg *config.Config, set *analyst.Set) (*usecase.Aggregator, error) {
	order, err := config.ParseTieBreakOrder(cfg.Analysis.TieBreakOrder)
	if err != nil {
		return nil, err
	}
	return usecase.NewAggregator(order, set)
}

// ProvideAnalyzeUseCase creates the analysis facade.
func ProvideAnalyzeUseCase(
	cfg *config.Config,
	chain *marketdata.Chain,
	loader *cache.Loader,
	set *analyst.Set,
	dispatcher *usecase.Dispatcher,
	aggregator *usecase.Aggregator,
	publisher repository.DecisionPublisher,
	m repository.Metrics,
	l *logger.Logger,
) (*usecase.AnalyzeUseCase, error) {
	return usecase.NewAnalyzeUseCase(chain, loader, set, dispatcher, aggregator, publisher, m,
		l.With(logger.String("component", "analyze")),
		usecase.AnalyzeOptions{
			PerRoleTimeout:      cfg.Analysis.PerRoleTimeout,
			OperationTimeout:    cfg.Analysis.OperationTimeout,
			DefaultPeriodMonths: cfg.Analysis.DefaultPeriodMonths,
		},
	)
}

// ProvideRateLimiter creates the per-client token bucket for analyze requests.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(float64(cfg.RateLimit.Capacity), cfg.RateLimit.RefillPerSec)
}

// ProvideHandlers collects every route group.
func ProvideHandlers(cfg *config.Config, l *logger.Logger, uc *usecase.AnalyzeUseCase, limiter *ratelimit.Limiter) []xhttp.Handler {
	var mw echo.MiddlewareFunc
	if limiter != nil {
		mw = limiter.Middleware()
	}
	return []xhttp.Handler{
		api.NewAnalysisEchoHandler(l, uc, mw),
		ws.NewProgressHandler(l, uc,
			ws.WithLimiter(mw),
			ws.WithAllowedOrigins(cfg.Server.CORSOrigins...),
		),
	}
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, handlers []xhttp.Handler, l *logger.Logger) *xhttp.Server {
	path := ""
	if cfg.Metrics.Enabled {
		path = cfg.Metrics.Path
	}
	return xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(path, prometheus.DefaultRegisterer, prometheus.DefaultGatherer),
		xhttp.WithCORS(cfg.Server.CORSOrigins...),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, srv, limiter)
}

//go:build wireinject
// +build wireinject

package di

import (
	"StockAdvisor/internal/usecase"
	"StockAdvisor/pkg/config"
	"StockAdvisor/pkg/server"

	"github.com/google/wire"
)

// analysisSet builds everything an analyze call needs.
var analysisSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvideMetrics,

	// Infrastructure clients
	ProvideKafkaProducer,
	ProvideCacheStore,

	// Repositories and services
	ProvideDecisionPublisher,
	ProvideLoader,
	ProvideMarketData,
	ProvideCompleter,
	ProvideAnalystSet,
	ProvidePool,

	// Use cases
	ProvideDispatcher,
	ProvideAggregator,
	ProvideAnalyzeUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		analysisSet,

		// Transport
		ProvideRateLimiter,
		ProvideHandlers,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeAnalyzer wires the analysis facade alone, for one-shot CLI runs.
func InitializeAnalyzer(cfg *config.Config) (*usecase.AnalyzeUseCase, func(), error) {
	wire.Build(analysisSet)
	return nil, nil, nil
}

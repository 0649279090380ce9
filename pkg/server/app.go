package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockAdvisor/pkg/config"
	xhttp "StockAdvisor/pkg/http"
	applogger "StockAdvisor/pkg/logger"
)

// Sweeper drops idle per-client state. The rate limiter implements it.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	sweeper    Sweeper
}

// New creates a new App. Infrastructure clients are closed by the caller after Run returns.
func New(cfg *config.Config, log *applogger.Logger, srv *xhttp.Server, sweeper Sweeper) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		sweeper:    sweeper,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and blocks until ctx ends, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("stock advisor started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("llm_provider", a.cfg.LLM.Provider),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
	)

	if a.sweeper != nil {
		go a.sweep(ctx)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.sweeper.Sweep(10 * time.Minute); n > 0 {
				a.log.Debug("rate limit buckets swept", applogger.Int("count", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}

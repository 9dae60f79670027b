package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/rigcheck/internal/adapters/http/api"
	"github.com/okian/rigcheck/internal/adapters/http/swagger"
	"github.com/okian/rigcheck/internal/adapters/repository"
	service "github.com/okian/rigcheck/internal/app"
	"github.com/okian/rigcheck/internal/config"
	"github.com/okian/rigcheck/internal/domain/scoring"
	"github.com/okian/rigcheck/pkg/logger"
	"github.com/okian/rigcheck/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		os.Exit(1)
	}
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Bool("admin", cfg.AdminToken != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// newService opens the configured store and seed file and builds the service.
func newService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	var store repository.Store = repository.NewMemoryStore()
	if cfg.DBPath != "" {
		s, err := repository.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		store = s
	}

	var seed []service.Option
	if cfg.SeedFile != "" {
		o, err := repository.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		seed = append(seed, service.WithSeed(o))
	}

	opts := append([]service.Option{
		service.WithStore(store),
		service.WithEngine(scoring.NewEngine(scoring.WithUnknownGameFallback(cfg.UnknownGameFallback))),
		service.WithQueueSize(cfg.HistoryQueueSize),
		service.WithWorkerCount(cfg.HistoryWorkers),
		service.WithGraphCacheTTL(cfg.GraphCacheTTL()),
		service.WithDedupeTTL(cfg.HistoryDedupeTTL()),
		service.WithPopularLimit(cfg.PopularGamesLimit),
		service.WithLogger(log.Named("service")),
	}, seed...)
	return service.New(opts...), nil
}

// newHandler registers the API and docs routes and wraps them in the
// request id, recovery and compression middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) http.Handler {
	server := api.NewServer(svc,
		api.WithAdmin(svc, cfg.AdminToken),
		api.WithServerLogger(log.Named("http")),
	)
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	server.Register(ctx, mux)
	return server.Wrap(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes gauges that only change as a side effect of
// background work.
func updateServiceMetrics(ctx context.Context, svc *service.Service) {
	st, err := svc.Stats(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("main", "stats")
		return
	}
	metrics.UpdateQueueSize(st.QueueLength)
	metrics.UpdateCatalogGames(st.Games)
	for t, n := range st.ByType {
		metrics.UpdateCatalogComponents(string(t), n)
	}
}

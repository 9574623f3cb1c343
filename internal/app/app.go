package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RechkalovAA/weblarek/internal/config"
	"github.com/RechkalovAA/weblarek/internal/event"
	handler "github.com/RechkalovAA/weblarek/internal/handler/http"
	"github.com/RechkalovAA/weblarek/internal/orderapi"
	"github.com/RechkalovAA/weblarek/internal/repository"
	redisrepo "github.com/RechkalovAA/weblarek/internal/repository/redis"
	"github.com/RechkalovAA/weblarek/internal/service"
	"github.com/RechkalovAA/weblarek/internal/view"
	"github.com/RechkalovAA/weblarek/pkg/database"
	"github.com/RechkalovAA/weblarek/pkg/health"
	"github.com/RechkalovAA/weblarek/pkg/httpclient"
	pkgkafka "github.com/RechkalovAA/weblarek/pkg/kafka"
	"github.com/RechkalovAA/weblarek/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	sessions       *service.Sessions
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// Redis and Kafka are optional: when disabled the catalog is never cached and
// analytics events are not forwarded.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	healthHandler := health.NewHandler()

	// Initialize Redis catalog cache.
	var (
		rdb   *redis.Client
		cache repository.CatalogCache
	)
	if cfg.RedisEnabled {
		rdb = database.NewRedisClient(database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		database.SetSlowCommandLogging(100*time.Millisecond, logger)
		if err := database.RegisterPoolMetrics(rdb, "storefront"); err != nil {
			logger.Warn("failed to register redis pool metrics", slog.String("error", err.Error()))
		}
		catalogCache := redisrepo.NewCatalogCache(rdb, cfg.CatalogCacheTTLDuration())
		if err := catalogCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, catalog cache degraded",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("connected to Redis",
				slog.String("addr", cfg.RedisAddr),
				slog.Int("db", cfg.RedisDB),
			)
		}
		cache = catalogCache
		healthHandler.RegisterOptional("redis", catalogCache.Ping)
	}

	// Initialize Kafka producer.
	var (
		producer  *pkgkafka.Producer
		observers []service.BusObserver
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		observers = append(observers, event.NewForwarder(producer, logger))
		healthHandler.RegisterOptional("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Create HTTP client with circuit breaker for the order service.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         time.Duration(cfg.HTTPClientTimeout) * time.Second,
		MaxRetries:      cfg.HTTPClientMaxRetries,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    3 * time.Second,
		MaxConnsPerHost: 32,
	})

	cbCfg := httpclient.DefaultCircuitBreakerConfig("weblarek-api")
	if cfg.CBMaxRequests > 0 {
		cbCfg.MaxRequests = cfg.CBMaxRequests
	}
	if cfg.CBInterval > 0 {
		cbCfg.Interval = time.Duration(cfg.CBInterval) * time.Second
	}
	if cfg.CBTimeout > 0 {
		cbCfg.Timeout = time.Duration(cfg.CBTimeout) * time.Second
	}
	if cfg.CBFailureRatio > 0 {
		cbCfg.FailureRatio = cfg.CBFailureRatio
	}
	if cfg.CBMinRequests > 0 {
		cbCfg.MinRequests = cfg.CBMinRequests
	}
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger).
		WithFallback(orderapi.CircuitOpenFallback)
	// The bundled catalog keeps the storefront usable while the API is down.
	healthHandler.RegisterOptional("order_service", cbClient.Check)
	logger.Info("circuit breaker initialized",
		slog.String("name", cbCfg.Name),
		slog.Uint64("max_requests", uint64(cbCfg.MaxRequests)),
		slog.Duration("timeout", cbCfg.Timeout),
		slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
	)

	// Build the dependency graph.
	api := orderapi.NewClient(cbClient, cfg.APIURL(), logger)
	loader := service.NewCatalogLoader(api, cache, time.Duration(cfg.FetchTimeout)*time.Second, logger)
	sessions := service.NewSessions(service.SessionDeps{
		Catalog:       loader,
		Orders:        api,
		Builder:       view.NewBuilder(cfg.CDNURL()),
		Observers:     observers,
		SubmitTimeout: time.Duration(cfg.SubmitTimeout) * time.Second,
		Logger:        logger,
	}, cfg.MaxSessions, logger)
	healthHandler.Register("sessions", sessions.CheckCapacity)
	logger.Info("readiness checks registered", slog.Any("checks", healthHandler.Names()))

	// HTTP router.
	router := handler.NewRouter(sessions, healthHandler, logger, cfg.CORSAllowedOrigins)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		sessions:       sessions,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Sessions (cancel in-flight order service calls)
// 3. Tracer (flush pending spans)
// 4. Kafka producer
// 5. Redis client
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.sessions.CloseAll()

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

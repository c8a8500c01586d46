package cli

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/inventory-simulator/internal/auth"
	"github.com/rogerio-castellano/inventory-simulator/internal/config"
	"github.com/rogerio-castellano/inventory-simulator/internal/events"
	"github.com/rogerio-castellano/inventory-simulator/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-simulator/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-simulator/internal/http/router"
	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
	"github.com/rogerio-castellano/inventory-simulator/internal/metrics"
	"github.com/rogerio-castellano/inventory-simulator/internal/redissvc"
	"github.com/rogerio-castellano/inventory-simulator/internal/repo"
	"github.com/rogerio-castellano/inventory-simulator/internal/sim"
)

// app is the fully wired service: store, journal, engine and HTTP surface.
type app struct {
	cfg       config.Config
	handler   http.Handler
	engine    *sim.Engine
	movements *repo.InMemoryMovementRepository
	limiter   *rl.Limiter
	redis     *redissvc.RedisService
	rdb       *redis.Client
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg}

	var products *repo.InMemoryProductRepository
	if cfg.SeedStore {
		products = repo.NewSeededProductRepository()
	} else {
		products = repo.NewInMemoryProductRepository()
	}
	movements := repo.NewBoundedMovementRepository(cfg.JournalMaxEntries)
	a.movements = movements

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	dispatcher := events.NewDispatcher()
	dispatcher.Subscribe(movements.Record)
	dispatcher.Subscribe(collector.Record)

	if cfg.RedisAddr != "" {
		rdb, err := redissvc.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
		a.redis = redissvc.NewRedisService(rdb, cfg.RedisChannel)
		dispatcher.Subscribe(a.redis.Record)
		logger.Logger.Info().
			Str("addr", cfg.RedisAddr).
			Str("channel", cfg.RedisChannel).
			Msg("publishing movements to redis")
	}

	a.engine = sim.New(products, sim.Config{MinDelay: cfg.SimMinDelay, MaxDelay: cfg.SimMaxDelay},
		sim.WithSink(dispatcher),
		sim.WithRecorder(collector))

	srv := handlers.NewServer(handlers.Deps{
		Products:  products,
		Movements: movements,
		Metrics:   repo.NewInMemoryMetricsRepository(products, movements),
		Engine:    a.engine,
		Sink:      dispatcher,
	})

	opts := router.Options{
		Collector:      collector,
		Gatherer:       reg,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if cfg.JWTSecret != "" {
		opts.Tokens = auth.NewTokenManager(cfg.JWTSecret)
	}
	if cfg.RateLimitRPS > 0 {
		a.limiter = rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
		opts.Limiter = a.limiter
	}
	a.handler = router.NewRouter(srv, opts)

	return a, nil
}

func (a *app) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logger.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

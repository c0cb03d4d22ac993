package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendorscore-backend/api/controllers"
	"github.com/angelmondragon/vendorscore-backend/api/routes"
	"github.com/angelmondragon/vendorscore-backend/internal/performance"
	"github.com/angelmondragon/vendorscore-backend/internal/purchaseorders"
	"github.com/angelmondragon/vendorscore-backend/internal/sequences"
	"github.com/angelmondragon/vendorscore-backend/internal/vendors"
	"github.com/angelmondragon/vendorscore-backend/pkg/config"
	"github.com/angelmondragon/vendorscore-backend/pkg/db"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
	"github.com/angelmondragon/vendorscore-backend/pkg/metrics"
	"github.com/angelmondragon/vendorscore-backend/pkg/migrate"
	"github.com/angelmondragon/vendorscore-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.AutoMigrate(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	readiness := []controllers.ReadinessCheck{{Name: "database", Pinger: dbClient}}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
	}

	allocator, err := newAllocator(cfg, redisClient)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	perfMetrics := metrics.NewPerformanceMetrics(registry)

	perfRepo := performance.NewRepository(dbClient.DB())
	aggregator, err := performance.NewAggregator(performance.AggregatorParams{
		Repo:    perfRepo,
		Logger:  logg,
		Metrics: perfMetrics,
	})
	if err != nil {
		return err
	}
	perfService, err := performance.NewService(perfRepo)
	if err != nil {
		return err
	}

	orderRepo := purchaseorders.NewRepository(dbClient.DB())
	orderService, err := purchaseorders.NewService(purchaseorders.ServiceParams{
		Repo:      orderRepo,
		Tx:        dbClient,
		Allocator: allocator,
		Hook:      aggregator,
		Metrics:   perfMetrics,
	})
	if err != nil {
		return err
	}

	vendorService, err := vendors.NewService(vendors.ServiceParams{
		Repo:      vendors.NewRepository(dbClient.DB()),
		Tx:        dbClient,
		Allocator: allocator,
		Cascade: []vendors.CascadeFunc{
			func(ctx context.Context, tx *gorm.DB, vendorID int64) error {
				return perfRepo.WithTx(tx).DeleteSnapshotsByVendor(ctx, vendorID)
			},
			func(ctx context.Context, tx *gorm.DB, vendorID int64) error {
				return orderRepo.WithTx(tx).DeleteByVendor(ctx, vendorID)
			},
		},
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"db":       dbClient.Driver(),
		"sequence": cfg.Sequence.Backend,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			metrics.NewHTTPMetrics(registry),
			readiness,
			vendorService,
			orderService,
			perfService,
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newAllocator(cfg *config.Config, redisClient *redis.Client) (sequences.Allocator, error) {
	if cfg.Sequence.UsesRedis() {
		return sequences.NewRedisAllocator(redisClient)
	}
	return sequences.NewDBAllocator(), nil
}

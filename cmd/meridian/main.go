package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-pos/meridian-pos/internal/app"
	"github.com/meridian-pos/meridian-pos/internal/auth"
	"github.com/meridian-pos/meridian-pos/internal/billing"
	"github.com/meridian-pos/meridian-pos/internal/cart"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/db"
	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
	"github.com/meridian-pos/meridian-pos/internal/reports"
	"github.com/meridian-pos/meridian-pos/internal/settings"
	"github.com/meridian-pos/meridian-pos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	redisUp := true
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisUp = false
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	// The blob store backs settings in every mode and the whole catalog
	// and invoice history unless Postgres is selected. Settings must
	// survive restarts, so the postgres driver parks them in Redis too
	// when it is reachable.
	var blobs kv.Store = kv.NewMemoryStore()
	switch {
	case cfg.StorageDriver == app.StorageRedis:
		blobs = kv.NewRedisStore(redisClient, cfg.RedisKeyPrefix)
	case cfg.StorageDriver == app.StoragePostgres && redisUp:
		blobs = kv.NewRedisStore(redisClient, cfg.RedisKeyPrefix)
	}

	var (
		catalogStore catalog.Store
		billingStore billing.Store
	)
	switch cfg.StorageDriver {
	case app.StoragePostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		catalogStore = catalog.NewPGStore(pool)
		billingStore = billing.NewPGStore(pool)
	default:
		catalogStore = catalog.NewKVStore(ctx, blobs, logger)
		billingStore = billing.NewKVStore(blobs, logger)
	}

	settingsService := settings.NewService(ctx, logger, blobs)
	catalogService := catalog.NewService(catalogStore)
	cartEngine := cart.NewEngine(logger, catalogService, settingsService)

	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(logger, billingStore, reportsCache)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewNotifier(jobClient, settingsService.Get)

	billingService := billing.NewService(logger, billingStore, catalogService, cartEngine, notifier, reportsCache)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	guard := auth.NewGuard(logger, cfg.OperatorTokenHash)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Guard:           guard,
		CatalogHandler:  catalog.NewHandler(logger, catalogService),
		CartHandler:     cart.NewHandler(logger, cartEngine),
		BillingHandler:  billing.NewHandler(logger, billingService, settingsService),
		ReportsHandler:  reports.NewHandler(logger, reportsService),
		SettingsHandler: settings.NewHandler(logger, settingsService),
		JobHandler:      jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr), slog.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

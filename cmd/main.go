package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meadowmarket/internal/app/storefront/cache"
	"meadowmarket/internal/app/storefront/config"
	"meadowmarket/internal/app/storefront/gateway"
	"meadowmarket/internal/app/storefront/handler"
	"meadowmarket/internal/app/storefront/processor"
	"meadowmarket/internal/app/storefront/service"
	"meadowmarket/internal/app/storefront/session"
	"meadowmarket/pkg/logger"
)

const serviceName = "storefront-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, "info")
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(serviceName, cfg.Log.Level)
	logger.Info().Msg("Starting Storefront Service")

	// === BACKEND GATEWAY ===

	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout)
	sessionManager := session.NewManager(cfg.JWT.Secret)

	// До первого успешного ping все сессии остаются uninitialized
	// и запросы к данным возвращают пустые значения
	if err := waitForGateway(gw); err != nil {
		logger.Fatal().Err(err).Msg("Backend gateway is not reachable")
	}
	sessionManager.SetReady()
	logger.Info().Str("gateway", cfg.Gateway.BaseURL).Msg("Backend gateway is ready")

	// === CACHE ===

	var store cache.Store
	var memoryStore *cache.MemoryStore
	var redisStore *cache.RedisStore

	switch cfg.Cache.Backend {
	case "redis":
		redisStore, err = cache.NewRedisStore(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		store = redisStore
		logger.Info().Str("addr", cfg.Redis.Address()).Msg("Using Redis query cache")
	default:
		memoryStore = cache.NewMemoryStore()
		store = memoryStore
		logger.Info().Msg("Using in-memory query cache")
	}

	var sweeper *processor.CacheSweeper
	if memoryStore != nil {
		sweeper = processor.NewCacheSweeper(memoryStore)
		if err := sweeper.Start(cfg.Cache.SweepSchedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Cache.SweepSchedule).Msg("Failed to start cache sweeper")
		}
	}

	// === KAFKA ===

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var consumer *processor.InvalidationConsumer
	if cfg.Kafka.Enabled {
		consumer = processor.NewInvalidationConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, store)
		consumer.Start(ctx)
	}

	// === SERVICES ===

	tracker := service.NewStatusTracker()
	queries := service.NewQueryService(gw, store, cfg.Cache.TTL)
	mutations := service.NewMutationService(gw, store, tracker)

	// === HTTP SERVER ===

	router := handler.NewRouter(cfg, sessionManager, queries, mutations)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// === GRACEFUL SHUTDOWN ===

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Storefront Service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancel()
	if consumer != nil {
		consumer.Stop()
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close Redis connection")
		}
	}

	logger.Info().Msg("Storefront Service stopped")
}

// waitForGateway повторяет ping gateway до успеха или исчерпания попыток
func waitForGateway(gw *gateway.Client) error {
	const attempts = 10
	var err error

	for i := 1; i <= attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = gw.Ping(ctx)
		cancel()

		if err == nil {
			return nil
		}
		logger.Warn().Err(err).Int("attempt", i).Msg("Backend gateway ping failed, retrying")
		time.Sleep(2 * time.Second)
	}
	return err
}

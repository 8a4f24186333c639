package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"walletbridge/relay/internal/config"
	"walletbridge/relay/internal/handler"
	"walletbridge/relay/internal/repository"
	"walletbridge/relay/internal/service"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Initialize key-value store (Redis or in-memory)
	var kv repository.KVStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		kv = repository.NewRedisKVStore(redisClient)
		logger.Info("using Redis key-value store")
	case "memory":
		kv = repository.NewMemoryKVStore()
		logger.Info("using in-memory key-value store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 4. Initialize pairing store and relay service
	pairings := repository.NewKVPairingStore(kv, cfg.Relay.TTL)
	relayService := service.NewRelayService(pairings, logger, cfg.Relay.IdempotentCreate)
	if cfg.Relay.IdempotentCreate {
		logger.Info("idempotent request creation enabled")
	}

	// 5. Initialize handlers and router
	relayHandler := handler.NewRelayHandler(relayService)
	systemHandler := handler.NewSystemHandler(kv, version)
	router := handler.SetupRouter(cfg, logger, relayHandler, systemHandler)

	// 6. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 7. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 8. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxrateproxy/internal/app/fxrate/cache"
	"fxrateproxy/internal/app/fxrate/config"
	"fxrateproxy/internal/app/fxrate/engine"
	"fxrateproxy/internal/app/fxrate/facade"
	"fxrateproxy/internal/app/fxrate/handler"
	"fxrateproxy/internal/app/fxrate/store"
	"fxrateproxy/pkg/logger"
)

func main() {
	// === CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init("fx-api", cfg.Log.Level)

	// === SHARED STORE CONNECTION ===
	sharedStore, err := store.New(cfg.Valkey.URI)
	if err != nil {
		log.Fatalf("Failed to connect to shared store: %v", err)
	}
	logger.Info().Msg("Connected to shared store")

	syncCtx, cancelSync := context.WithCancel(context.Background())

	subscription := sharedStore.SubscribeRatesUpdated(syncCtx)

	// === SNAPSHOT CACHE ===
	snapshot, syncJob := cache.Make(sharedStore, subscription.Notifications())
	go syncJob.Run(syncCtx)
	logger.Info().Msg("Snapshot sync job started")

	// === DERIVATION ENGINE AND FACADE ===
	eng := engine.New(snapshot)
	fac := facade.New(eng)

	// === HTTP HANDLERS AND ROUTES ===
	ratesHandler := handler.NewRatesHandler(fac)
	router := handler.SetupRoutes(ratesHandler, snapshot)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === START HTTP SERVER ===
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Msg("Starting fx-api")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	// Shutdown order matters: cancel the sync job and release the
	// subscription before releasing the store client, so neither is left
	// trying to use a closed connection.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down fx-api")

	cancelSync()
	if err := subscription.Close(); err != nil {
		logger.Warn().Err(err).Msg("error closing subscription")
	}
	if err := sharedStore.Close(); err != nil {
		logger.Warn().Err(err).Msg("error closing shared store")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("error shutting down HTTP server")
	}

	logger.Info().Msg("fx-api stopped gracefully")
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"fxrateproxy/internal/app/fxrate/config"
	"fxrateproxy/internal/app/fxrate/refresher"
	"fxrateproxy/internal/app/fxrate/store"
	"fxrateproxy/internal/app/fxrate/upstream"
	"fxrateproxy/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init("fx-refresher", cfg.Log.Level)

	upstreamClient := upstream.New(upstream.Config{
		BaseURL:    cfg.OneFrame.BaseURL,
		Token:      cfg.OneFrame.Token,
		Timeout:    cfg.OneFrame.Timeout,
		MaxRetries: cfg.OneFrame.MaxRetries,
	})

	sharedStore, err := store.New(cfg.Valkey.URI)
	if err != nil {
		log.Fatalf("Failed to connect to shared store: %v", err)
	}
	defer func() {
		if err := sharedStore.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing shared store")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OneFrame.Timeout*time.Duration(cfg.OneFrame.MaxRetries+1)+5*time.Second)
	defer cancel()

	ref := refresher.New(upstreamClient, sharedStore)

	count, err := ref.Refresh(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("refresh cycle failed")
		os.Exit(1)
	}

	logger.Info().Int("count", count).Msg("refresh cycle succeeded")
	os.Exit(0)
}

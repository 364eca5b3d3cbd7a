package main

import (
	"context"
	"log"
	"time"

	"github.com/fekuna/omnipos-community-store/config"
	"github.com/fekuna/omnipos-community-store/internal/app"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	// Seeding never publishes events or needs the listener.
	cfg.Kafka.Enabled = false

	appLogger := app.NewLogger(cfg)
	defer appLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not initialize store", zap.Error(err))
	}
	defer store.Close()

	if err := store.Seed(ctx); err != nil {
		appLogger.Fatal("Seeding failed", zap.Error(err))
	}
	appLogger.Info("Seeding completed")
}

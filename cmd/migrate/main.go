package main

import (
	"context"

	"github.com/ITyukz11/payops/internal/config"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/pkg/database"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.NewConnection(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	logger.Info("migration completed", zap.String("driver", cfg.Database.Driver))
}

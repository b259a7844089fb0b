package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"stock-api/internal/auth"
	"stock-api/internal/config"
	"stock-api/internal/logging"
	"stock-api/internal/repository/sqlite"
	"stock-api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		logrus.Fatalf("setup logger: %v", err)
	}

	ctx := context.Background()
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	stockRepo := sqlite.NewStockRepository(db)
	if err := sqlite.InitAll(ctx, userRepo, stockRepo); err != nil {
		logger.Fatalf("init repositories: %v", err)
	}

	seeder := seed.New(userRepo, stockRepo, auth.NewPasswordHasher(cfg.Auth.BcryptCost), nil, logger)
	sum, err := seeder.Run(ctx)
	if err != nil {
		logger.Fatalf("seed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"users":       sum.Users,
		"products":    sum.Products,
		"warehouses":  sum.Warehouses,
		"stock_moves": sum.StockMoves,
		"database":    cfg.Database.Path,
	}).Info("seed completed")
}

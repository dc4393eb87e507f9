// Command seed replaces the product catalog with the starter products.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/MikeMC777/cafe-reviews/internal/config"
	"github.com/MikeMC777/cafe-reviews/internal/db"
	"github.com/MikeMC777/cafe-reviews/internal/logging"
	"github.com/MikeMC777/cafe-reviews/internal/product"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, !cfg.Production())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	catalog := product.SeedCatalog()
	if err := product.NewPGRepo(pool).Replace(ctx, catalog); err != nil {
		logger.Fatal("seed catalog", zap.Error(err))
	}
	for _, p := range catalog {
		logger.Info("product", zap.Int64("id", p.ID), zap.String("name", p.Name), zap.String("price", p.Price.StringFixed(2)))
	}
	logger.Info("catalog seeded", zap.Int("products", len(catalog)))
}

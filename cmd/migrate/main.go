package main

import (
	"context"
	"flag"
	"log"

	"go-wholesale-inventory/internal/config"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/service"
	"go-wholesale-inventory/pkg/database"
	applog "go-wholesale-inventory/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	seed := flag.Bool("seed", true, "seed default privileges, roles and admin")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()
	zl := applog.New(applog.Config{
		IsDevelopment: cfg.IsDevelopment(),
		Encoding:      cfg.Logger.Encoding,
		Level:         cfg.Logger.Level,
	})
	defer zl.Sync()

	db, err := database.ConnectPostgres(cfg.Postgres, cfg.Logger.DBLevel)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	zl.Info("schema migrated", zap.Int("models", len(repository.Models)))

	if !*seed {
		return
	}
	if err := service.Seed(context.Background(), db, cfg.Seed, zl); err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}
	zl.Info("seed complete")
}

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ideagraph.backend/internal/config"
	"ideagraph.backend/internal/infrastructure/datasources/postgres"
	"ideagraph.backend/pkg/logger"
)

var (
	loadDotenv    = godotenv.Load
	loadCfg       = config.Load
	initLog       = logger.Init
	openDB        = postgres.NewConnection
	migrations    = postgres.Migrations
	runMigrations = postgres.Migrate
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ran, err := runMigrations(ctx, db, migrations())
	for _, version := range ran {
		logger.Info(ctx, "Migration applied", zap.String("version", version))
	}
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	if len(ran) == 0 {
		logger.Info(ctx, "Schema up to date", zap.String("database", cfg.Database.DBName))
	}
	return nil
}


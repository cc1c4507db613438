package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/ThiagoRGoveia/payroll-reports/internal/config"
	"github.com/ThiagoRGoveia/payroll-reports/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel)
	ctx := context.Background()

	dbManager, closeDB, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("unable to connect to database")
	}
	defer closeDB()

	logger.Info("creating time_reports and time_records tables")
	if err := database.CreateTables(ctx, dbManager); err != nil {
		logger.WithError(err).Fatal("error creating tables")
	}

	logger.Info("database setup finished successfully")
}

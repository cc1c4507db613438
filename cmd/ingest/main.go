package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/config"
	"github.com/ThiagoRGoveia/payroll-reports/internal/database"
	"github.com/ThiagoRGoveia/payroll-reports/internal/ingestion"
)

func setup(ctx context.Context) (string, *ingestion.IngestionService, *logrus.Logger, func(), error) {
	if len(os.Args) < 2 {
		return "", nil, nil, nil, fmt.Errorf("please provide the folder path as a command-line argument")
	}
	filesPath := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		return "", nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	dbManager, closeDB, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return "", nil, nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := database.CreateTables(ctx, dbManager); err != nil {
		closeDB()
		return "", nil, nil, nil, fmt.Errorf("unable to setup database: %w", err)
	}

	handler := ingestion.NewIngestionService(
		ingestion.Setup{ResultsChannelSize: cfg.ResultsChannelSize},
		ingestion.NewAsyncWorker(dbManager, logger),
		ingestion.NewFileProcessor(logger),
		*cfg,
		logger,
	)

	return filesPath, handler, logger, closeDB, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filesPath, handler, logger, cleanup, err := setup(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	logger.Info("starting ingestion process")
	summary, err := handler.Execute(ctx, filesPath)
	if err != nil {
		logger.WithError(err).Error("error during ingestion")
		return
	}

	output, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.WithError(err).Error("failed to encode ingestion summary")
		return
	}
	fmt.Println(string(output))

	logger.WithField("duration", time.Since(startTime).String()).Info("ingestion process finished")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ThiagoRGoveia/payroll-reports/internal/config"
	"github.com/ThiagoRGoveia/payroll-reports/internal/database"
	"github.com/ThiagoRGoveia/payroll-reports/internal/ingestion"
	"github.com/ThiagoRGoveia/payroll-reports/internal/server"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbManager, closeDB, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to the database")
	}
	defer closeDB()

	if err := database.CreateTables(ctx, dbManager); err != nil {
		logger.WithError(err).Fatal("failed to setup database")
	}

	uploader := ingestion.NewUploadService(dbManager, logger)
	router := server.SetupRoutes(server.NewPayrollService(dbManager, uploader, int64(cfg.MaxUploadBytes), logger))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.APIPort),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("failed to shut down server")
		}
	}()

	logger.WithField("port", cfg.APIPort).Info("server starting")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("failed to start server")
	}
	logger.Info("server stopped")
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	DatabaseURL        string
	DatabaseDriver     string
	APIPort            int
	NumParserWorkers   int
	ResultsChannelSize int
	MaxUploadBytes     int
	LogLevel           logrus.Level
}

func New() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	cfg := &Config{
		DatabaseURL:        databaseURL,
		DatabaseDriver:     DriverPostgres,
		APIPort:            8080,
		NumParserWorkers:   4,
		ResultsChannelSize: 100,
		MaxUploadBytes:     10 << 20,
		LogLevel:           logrus.InfoLevel,
	}

	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		if driver != DriverPostgres && driver != DriverSQLite {
			return nil, fmt.Errorf("invalid value for DATABASE_DRIVER: expected %q or %q, got '%s'", DriverPostgres, DriverSQLite, driver)
		}
		cfg.DatabaseDriver = driver
	}

	var err error
	cfg.APIPort, err = getEnvAsInt("API_PORT", cfg.APIPort)
	if err != nil {
		return nil, err
	}

	cfg.NumParserWorkers, err = getEnvAsInt("NUM_PARSER_WORKERS", cfg.NumParserWorkers)
	if err != nil {
		return nil, err
	}

	cfg.ResultsChannelSize, err = getEnvAsInt("RESULTS_CHANNEL_SIZE", cfg.ResultsChannelSize)
	if err != nil {
		return nil, err
	}

	cfg.MaxUploadBytes, err = getEnvAsInt("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel, err = logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid value for LOG_LEVEL: %w", err)
		}
	}

	if cfg.NumParserWorkers < 1 {
		return nil, fmt.Errorf("NUM_PARSER_WORKERS must be at least 1, got %d", cfg.NumParserWorkers)
	}

	if cfg.MaxUploadBytes < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be greater than 0, got %d", cfg.MaxUploadBytes)
	}

	return cfg, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}

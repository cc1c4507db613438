package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/config"
	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

// ErrDuplicateReport is returned when a report id has already been ingested.
var ErrDuplicateReport = errors.New("ID already exists in the database")

// DBManager is the record store behind ingestion and reporting. InsertTimeReport is
// atomic: a report and all of its records are stored together or not at all.
type DBManager interface {
	CreateTimeReportsTable(ctx context.Context) error
	CreateTimeRecordsTable(ctx context.Context) error
	IsReportAlreadyIngested(ctx context.Context, reportID int) (bool, error)
	InsertTimeReport(ctx context.Context, report *models.TimeReport) error
	GetAllTimeRecords(ctx context.Context) ([]models.TimeRecord, error)
}

// Open connects to the store selected by cfg.DatabaseDriver. The returned function
// releases the connection.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (DBManager, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteDBManager(db, logger), func() { db.Close() }, nil
	case config.DriverPostgres, "":
		dbpool, err := ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresDBManager(dbpool, logger), dbpool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// CreateTables creates the full schema. Reports must exist before records reference them.
func CreateTables(ctx context.Context, dbManager DBManager) error {
	if err := dbManager.CreateTimeReportsTable(ctx); err != nil {
		return err
	}
	return dbManager.CreateTimeRecordsTable(ctx)
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

const uniqueViolationCode = "23505"

func ConnectDB(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return dbpool, nil
}

type PostgresDBManager struct {
	dbpool *pgxpool.Pool
	logger *logrus.Logger
}

func NewPostgresDBManager(pool *pgxpool.Pool, logger *logrus.Logger) *PostgresDBManager {
	return &PostgresDBManager{dbpool: pool, logger: logger}
}

func (m *PostgresDBManager) CreateTimeReportsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS time_reports (
		id SERIAL PRIMARY KEY,
		report_id INTEGER NOT NULL UNIQUE,
		upload_id UUID NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		record_count INTEGER NOT NULL,
		uploaded_at TIMESTAMP NOT NULL
	);`

	_, err := m.dbpool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error creating time_reports table: %w", err)
	}

	return nil
}

func (m *PostgresDBManager) CreateTimeRecordsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS time_records (
		id BIGSERIAL PRIMARY KEY,
		report_id INTEGER NOT NULL REFERENCES time_reports (report_id),
		date DATE NOT NULL,
		hours_worked DOUBLE PRECISION NOT NULL CHECK (hours_worked >= 0),
		employee_id VARCHAR(255) NOT NULL,
		job_group VARCHAR(1) NOT NULL
	);`

	_, err := m.dbpool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error creating time_records table: %w", err)
	}

	return nil
}

func (m *PostgresDBManager) IsReportAlreadyIngested(ctx context.Context, reportID int) (bool, error) {
	query := `SELECT id FROM time_reports WHERE report_id = $1;`

	var id int
	err := m.dbpool.QueryRow(ctx, query, reportID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error finding time report %d: %w", reportID, err)
	}

	return true, nil
}

func (m *PostgresDBManager) InsertTimeReport(ctx context.Context, report *models.TimeReport) error {
	tx, err := m.dbpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		if rx := tx.Rollback(ctx); rx != nil && !errors.Is(rx, pgx.ErrTxClosed) {
			m.logger.WithError(rx).Warn("error rolling back transaction")
		}
	}()

	insertReport := `
	INSERT INTO time_reports (report_id, upload_id, file_name, checksum, record_count, uploaded_at)
	VALUES ($1, $2, $3, $4, $5, $6);`

	_, err = tx.Exec(ctx, insertReport, report.ReportID, report.UploadID.String(), report.FileName, report.CheckSum, len(report.Records), report.UploadedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateReport
		}
		return fmt.Errorf("error inserting time report %d: %w", report.ReportID, err)
	}

	if err := m.copyTimeRecords(ctx, tx, report.Records); err != nil {
		return fmt.Errorf("unable to copy time records of report %d: %w", report.ReportID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

func (m *PostgresDBManager) copyTimeRecords(ctx context.Context, tx pgx.Tx, records []models.TimeRecord) error {
	if len(records) == 0 {
		return nil
	}

	columnNames := []string{"report_id", "date", "hours_worked", "employee_id", "job_group"}

	copySource := pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
		record := records[i]
		return []interface{}{record.ReportID, record.Date, record.HoursWorked, record.EmployeeID, record.JobGroup}, nil
	})

	_, err := tx.CopyFrom(ctx, pgx.Identifier{"time_records"}, columnNames, copySource)
	return err
}

func (m *PostgresDBManager) GetAllTimeRecords(ctx context.Context) ([]models.TimeRecord, error) {
	query := `SELECT report_id, date, hours_worked, employee_id, job_group FROM time_records ORDER BY id;`

	rows, err := m.dbpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying time records: %w", err)
	}
	defer rows.Close()

	records := make([]models.TimeRecord, 0)
	for rows.Next() {
		var record models.TimeRecord
		if err := rows.Scan(&record.ReportID, &record.Date, &record.HoursWorked, &record.EmployeeID, &record.JobGroup); err != nil {
			return nil, fmt.Errorf("error scanning time record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over time records: %w", err)
	}

	return records, nil
}

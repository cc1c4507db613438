package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

const sqliteDateLayout = "2006-01-02"

// OpenSQLite opens a SQLite database. A single connection is kept so that every caller
// sees the same data, in-memory databases included.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to enable foreign keys: %w", err)
	}

	return db, nil
}

type SQLiteDBManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewSQLiteDBManager(db *sql.DB, logger *logrus.Logger) *SQLiteDBManager {
	return &SQLiteDBManager{db: db, logger: logger}
}

func (m *SQLiteDBManager) CreateTimeReportsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS time_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL UNIQUE,
		upload_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		checksum TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		uploaded_at DATETIME NOT NULL
	);`

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error creating time_reports table: %w", err)
	}

	return nil
}

func (m *SQLiteDBManager) CreateTimeRecordsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS time_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL REFERENCES time_reports (report_id),
		date TEXT NOT NULL,
		hours_worked REAL NOT NULL CHECK (hours_worked >= 0),
		employee_id TEXT NOT NULL,
		job_group TEXT NOT NULL
	);`

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error creating time_records table: %w", err)
	}

	return nil
}

func (m *SQLiteDBManager) IsReportAlreadyIngested(ctx context.Context, reportID int) (bool, error) {
	var id int
	err := m.db.QueryRowContext(ctx, `SELECT id FROM time_reports WHERE report_id = ?;`, reportID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error finding time report %d: %w", reportID, err)
	}

	return true, nil
}

func (m *SQLiteDBManager) InsertTimeReport(ctx context.Context, report *models.TimeReport) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		if rx := tx.Rollback(); rx != nil && !errors.Is(rx, sql.ErrTxDone) {
			m.logger.WithError(rx).Warn("error rolling back transaction")
		}
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO time_reports (report_id, upload_id, file_name, checksum, record_count, uploaded_at)
	VALUES (?, ?, ?, ?, ?, ?);`,
		report.ReportID, report.UploadID.String(), report.FileName, report.CheckSum, len(report.Records), report.UploadedAt.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateReport
		}
		return fmt.Errorf("error inserting time report %d: %w", report.ReportID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO time_records (report_id, date, hours_worked, employee_id, job_group)
	VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("error preparing time record insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range report.Records {
		_, err := stmt.ExecContext(ctx, record.ReportID, record.Date.Format(sqliteDateLayout), record.HoursWorked, record.EmployeeID, record.JobGroup)
		if err != nil {
			return fmt.Errorf("error inserting time record of report %d: %w", report.ReportID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

func (m *SQLiteDBManager) GetAllTimeRecords(ctx context.Context) ([]models.TimeRecord, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT report_id, date, hours_worked, employee_id, job_group FROM time_records ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("error querying time records: %w", err)
	}
	defer rows.Close()

	records := make([]models.TimeRecord, 0)
	for rows.Next() {
		var record models.TimeRecord
		var date string
		if err := rows.Scan(&record.ReportID, &date, &record.HoursWorked, &record.EmployeeID, &record.JobGroup); err != nil {
			return nil, fmt.Errorf("error scanning time record: %w", err)
		}

		record.Date, err = time.Parse(sqliteDateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("error parsing time record date %q: %w", date, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over time records: %w", err)
	}

	return records, nil
}

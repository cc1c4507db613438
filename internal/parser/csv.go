package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

const (
	ColumnDate        = "date"
	ColumnHoursWorked = "hours worked"
	ColumnEmployeeID  = "employee id"
	ColumnJobGroup    = "job group"

	// DateLayout is the D/M/YYYY format used by time report files. Leading zeros are optional.
	DateLayout = "2/1/2006"
)

var (
	ErrInvalidFileName = errors.New("invalid file name format")
	ErrMissingColumn   = errors.New("missing column")
)

var requiredColumns = []string{ColumnDate, ColumnHoursWorked, ColumnEmployeeID, ColumnJobGroup}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReportIDFromFileName extracts the report id from names shaped like time-report-<id>.csv.
func ReportIDFromFileName(fileName string) (int, error) {
	parts := strings.Split(filepath.Base(fileName), "-")
	if len(parts) < 3 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFileName, fileName)
	}

	reportID, err := strconv.Atoi(strings.Split(parts[2], ".")[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidFileName, fileName, err)
	}

	return reportID, nil
}

// ParseTimeRecords reads a time report CSV. Columns are located by header name. The first
// row that fails to parse or validate rejects the whole file.
func ParseTimeRecords(r io.Reader, reportID int) ([]models.TimeRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &models.AppError{ReportID: reportID, Message: "File is empty", Err: err}
		}
		return nil, &models.AppError{ReportID: reportID, Message: "Failed to read header from CSV", Err: err}
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, &models.AppError{ReportID: reportID, Line: 1, Message: "Invalid header", Err: err}
	}

	records := make([]models.TimeRecord, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &models.AppError{ReportID: reportID, Line: line, Message: "Failed to read record from CSV", Err: err}
		}

		record, err := parseRecord(row, columns, reportID)
		if err != nil {
			return nil, &models.AppError{ReportID: reportID, Line: line, Message: "Failed to parse record", Err: err}
		}

		if err := validate.Struct(record); err != nil {
			return nil, &models.AppError{ReportID: reportID, Line: line, Message: "Invalid time record", Err: validationError(err)}
		}

		records = append(records, *record)
	}

	return records, nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	return columns, nil
}

func parseRecord(row []string, columns map[string]int, reportID int) (*models.TimeRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[columns[name]])
	}

	date, err := time.Parse(DateLayout, field(ColumnDate))
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	hoursWorked, err := strconv.ParseFloat(field(ColumnHoursWorked), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid hours worked: %w", err)
	}
	if math.IsInf(hoursWorked, 0) || math.IsNaN(hoursWorked) {
		return nil, fmt.Errorf("invalid hours worked: %s", field(ColumnHoursWorked))
	}

	return &models.TimeRecord{
		ReportID:    reportID,
		Date:        date,
		HoursWorked: hoursWorked,
		EmployeeID:  field(ColumnEmployeeID),
		JobGroup:    field(ColumnJobGroup),
	}, nil
}

func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}
	sort.Strings(messages)

	return errors.New(strings.Join(messages, ", "))
}

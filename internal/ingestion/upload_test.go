package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ThiagoRGoveia/payroll-reports/internal/database"
	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
	"github.com/ThiagoRGoveia/payroll-reports/pkg/checksum"
)

const validCSV = "date,hours worked,employee id,job group\n01/11/2023,8.5,123,A\n18/11/2023,2,4,B\n"

func newTestUploadService(dbManager *MockDBManager) (*UploadService, uuid.UUID, time.Time) {
	uploadID := uuid.MustParse("6f1c7d1e-3c1a-4a53-9d8e-0d6f0d2b5b11")
	uploadedAt := time.Date(2023, 12, 1, 9, 30, 0, 0, time.UTC)

	service := NewUploadService(dbManager, newTestLogger())
	service.builder = reportBuilder{
		now:   func() time.Time { return uploadedAt },
		newID: func() uuid.UUID { return uploadID },
	}
	return service, uploadID, uploadedAt
}

func TestUploadService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("Expect: Ingest to store a valid report", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service, uploadID, uploadedAt := newTestUploadService(dbManager)

		dbManager.On("IsReportAlreadyIngested", ctx, 222).Return(false, nil).Once()
		dbManager.On("InsertTimeReport", ctx, mock.MatchedBy(func(report *models.TimeReport) bool {
			return report.ReportID == 222 && len(report.Records) == 2
		})).Return(nil).Once()

		report, err := service.Ingest(ctx, "time-report-222.csv", strings.NewReader(validCSV))

		require.NoError(t, err)
		assert.Equal(t, 222, report.ReportID)
		assert.Equal(t, uploadID, report.UploadID)
		assert.Equal(t, uploadedAt, report.UploadedAt)
		assert.Equal(t, "time-report-222.csv", report.FileName)
		assert.Equal(t, 2, report.RecordCount)
		assert.Equal(t, checksum.CalculateCheckSum([]byte(validCSV)), report.CheckSum)
		assert.Equal(t, models.TimeRecord{
			ReportID:    222,
			Date:        time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC),
			HoursWorked: 8.5,
			EmployeeID:  "123",
			JobGroup:    "A",
		}, report.Records[0])
		dbManager.AssertExpectations(t)
	})

	t.Run("Expect: Ingest to reject a non CSV file before touching the store", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service, _, _ := newTestUploadService(dbManager)

		_, err := service.Ingest(ctx, "time-report-222.txt", strings.NewReader(validCSV))

		assert.ErrorIs(t, err, ErrInvalidFileType)
		dbManager.AssertNotCalled(t, "IsReportAlreadyIngested", mock.Anything, mock.Anything)
	})

	t.Run("Expect: Ingest to reject a malformed file name", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service, _, _ := newTestUploadService(dbManager)

		_, err := service.Ingest(ctx, "report.csv", strings.NewReader(validCSV))

		assert.ErrorIs(t, err, ErrInvalidFileName)
		dbManager.AssertNotCalled(t, "IsReportAlreadyIngested", mock.Anything, mock.Anything)
	})

	t.Run("Expect: Ingest to reject a report id already ingested", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service, _, _ := newTestUploadService(dbManager)
		dbManager.On("IsReportAlreadyIngested", ctx, 222).Return(true, nil).Once()

		_, err := service.Ingest(ctx, "time-report-222.csv", strings.NewReader(validCSV))

		assert.ErrorIs(t, err, database.ErrDuplicateReport)
		dbManager.AssertNotCalled(t, "InsertTimeReport", mock.Anything, mock.Anything)
	})

	t.Run("Expect: Ingest to reject the whole file when a row is invalid", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service, _, _ := newTestUploadService(dbManager)
		dbManager.On("IsReportAlreadyIngested", ctx, 5).Return(false, nil).Once()

		content := validCSV + "2023-11-20,1,123,A\n"
		_, err := service.Ingest(ctx, "time-report-5.csv", strings.NewReader(content))

		assert.ErrorIs(t, err, ErrInvalidValues)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, 4, appErr.Line)
		dbManager.AssertNotCalled(t, "InsertTimeReport", mock.Anything, mock.Anything)
	})

	t.Run("Expect: Ingest to surface a duplicate detected while inserting", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service, _, _ := newTestUploadService(dbManager)
		dbManager.On("IsReportAlreadyIngested", ctx, 222).Return(false, nil).Once()
		dbManager.On("InsertTimeReport", ctx, mock.Anything).Return(database.ErrDuplicateReport).Once()

		_, err := service.Ingest(ctx, "time-report-222.csv", strings.NewReader(validCSV))

		assert.ErrorIs(t, err, database.ErrDuplicateReport)
		dbManager.AssertExpectations(t)
	})

	t.Run("Expect: Ingest to return store failures", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service, _, _ := newTestUploadService(dbManager)
		dbManager.On("IsReportAlreadyIngested", ctx, 222).Return(false, errors.New("connection refused")).Once()

		_, err := service.Ingest(ctx, "time-report-222.csv", strings.NewReader(validCSV))

		assert.Error(t, err)
		assert.NotErrorIs(t, err, database.ErrDuplicateReport)
		dbManager.AssertExpectations(t)
	})
}

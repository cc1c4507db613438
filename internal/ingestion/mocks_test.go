package ingestion

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// MockDBManager is a mock implementation of the DBManager interface.
type MockDBManager struct {
	mock.Mock
}

func (m *MockDBManager) CreateTimeReportsTable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBManager) CreateTimeRecordsTable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBManager) IsReportAlreadyIngested(ctx context.Context, reportID int) (bool, error) {
	args := m.Called(ctx, reportID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBManager) InsertTimeReport(ctx context.Context, report *models.TimeReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockDBManager) GetAllTimeRecords(ctx context.Context) ([]models.TimeRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeRecord), args.Error(1)
}

// MockWorker is a mock implementation of the Worker interface.
type MockWorker struct {
	mock.Mock
}

func (m *MockWorker) WithChannels(channels *models.IngestionChannels) Worker {
	m.Called(channels)
	return m
}

func (m *MockWorker) WithWaitGroups(waitGroups *models.IngestionWaitGroups) Worker {
	m.Called(waitGroups)
	return m
}

func (m *MockWorker) SetupJobDispatcherWorker(ctx context.Context, fileInfos []models.FileInfo, skipped *models.ReportSet) (Runner[func()], *sync.WaitGroup, error) {
	args := m.Called(ctx, fileInfos, skipped)
	if args.Get(0) == nil {
		return Runner[func()]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func()]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupErrorWorker() (Runner[func(*models.ReportErrorMap)], *sync.WaitGroup, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return Runner[func(*models.ReportErrorMap)]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func(*models.ReportErrorMap)]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	args := m.Called(numberOfWorkers)
	if args.Get(0) == nil {
		return Runner[func()]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func()]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupWriterWorker(ctx context.Context) (Runner[func(ingested *models.ReportSet, skipped *models.ReportSet)], *sync.WaitGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return Runner[func(ingested *models.ReportSet, skipped *models.ReportSet)]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func(ingested *models.ReportSet, skipped *models.ReportSet)]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

// MockProcessor is a mock implementation of the Processor interface.
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ScanForFiles(rootPath string) ([]models.FileInfo, error) {
	args := m.Called(rootPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FileInfo), args.Error(1)
}

func (m *MockProcessor) BuildSummary(reportErrors *models.ReportErrorMap, ingested *models.ReportSet, skipped *models.ReportSet) *models.IngestionSummary {
	args := m.Called(reportErrors, ingested, skipped)
	return args.Get(0).(*models.IngestionSummary)
}

// MockSetup is a mock implementation of the ISetup interface.
type MockSetup struct {
	mock.Mock
}

func (m *MockSetup) build() (models.SetupReturn, error) {
	args := m.Called()
	return args.Get(0).(models.SetupReturn), args.Error(1)
}

package ingestion

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/database"
	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
	"github.com/ThiagoRGoveia/payroll-reports/internal/parser"
)

// Uploader ingests a single uploaded time report file.
type Uploader interface {
	Ingest(ctx context.Context, fileName string, content io.Reader) (*models.TimeReport, error)
}

type UploadService struct {
	dbManager database.DBManager
	logger    *logrus.Logger
	builder   reportBuilder
}

func NewUploadService(dbManager database.DBManager, logger *logrus.Logger) *UploadService {
	return &UploadService{
		dbManager: dbManager,
		logger:    logger,
		builder:   newReportBuilder(),
	}
}

// Ingest validates and stores one file. The checks run in order: extension, file name,
// duplicate report id, then row contents. Nothing is stored unless every row is valid.
func (s *UploadService) Ingest(ctx context.Context, fileName string, content io.Reader) (*models.TimeReport, error) {
	if !isCSVFile(fileName) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, fileName)
	}

	reportID, err := parser.ReportIDFromFileName(fileName)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{"report_id": reportID, "file": fileName})

	exists, err := s.dbManager.IsReportAlreadyIngested(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to check report %d: %w", reportID, err)
	}
	if exists {
		log.Info("report already ingested, rejecting upload")
		return nil, database.ErrDuplicateReport
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", fileName, err)
	}

	report, err := s.builder.build(fileName, reportID, data)
	if err != nil {
		log.WithError(err).Warn("rejecting invalid time report")
		return nil, err
	}

	if err := s.dbManager.InsertTimeReport(ctx, report); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"upload_id": report.UploadID, "records": report.RecordCount}).Info("time report ingested")
	return report, nil
}

package ingestion

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
	"github.com/ThiagoRGoveia/payroll-reports/internal/parser"
)

// Processor defines the interface for the file discovery and reporting stages of a batch run.
type Processor interface {
	ScanForFiles(rootPath string) ([]models.FileInfo, error)
	BuildSummary(reportErrors *models.ReportErrorMap, ingested *models.ReportSet, skipped *models.ReportSet) *models.IngestionSummary
}

// FileProcessor discovers time report files and summarizes what happened to them.
type FileProcessor struct {
	logger *logrus.Logger
}

func NewFileProcessor(logger *logrus.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ScanForFiles walks rootPath and returns every CSV file whose name carries a report id.
// Other files are logged and skipped.
func (fp *FileProcessor) ScanForFiles(rootPath string) ([]models.FileInfo, error) {
	var fileInfos []models.FileInfo
	fp.logger.WithField("path", rootPath).Info("scanning for time report files")

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		if !isCSVFile(path) {
			fp.logger.WithField("file", path).Warn("not a CSV file, skipping")
			return nil
		}

		reportID, err := parser.ReportIDFromFileName(path)
		if err != nil {
			fp.logger.WithField("file", path).WithError(err).Warn("could not get report id from file name, skipping")
			return nil
		}

		fileInfos = append(fileInfos, models.FileInfo{Path: path, ReportID: reportID})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", rootPath, err)
	}

	fp.logger.Infof("found %d files to process", len(fileInfos))
	return fileInfos, nil
}

func (fp *FileProcessor) BuildSummary(reportErrors *models.ReportErrorMap, ingested *models.ReportSet, skipped *models.ReportSet) *models.IngestionSummary {
	reportErrors.Mu.Lock()
	failed := make(map[int][]models.AppError, len(reportErrors.Errors))
	for reportID, appErrors := range reportErrors.Errors {
		failed[reportID] = append([]models.AppError(nil), appErrors...)
	}
	reportErrors.Mu.Unlock()

	summary := &models.IngestionSummary{
		Ingested: ingested.Sorted(),
		Skipped:  skipped.Sorted(),
		Failed:   failed,
	}

	for reportID, appErrors := range failed {
		fp.logger.WithFields(logrus.Fields{"report_id": reportID, "errors": len(appErrors)}).Warn("time report failed")
	}
	fp.logger.WithFields(logrus.Fields{
		"ingested": len(summary.Ingested),
		"skipped":  len(summary.Skipped),
		"failed":   len(summary.Failed),
	}).Info("ingestion summary")

	return summary
}

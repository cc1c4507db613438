package ingestion

import (
	"bytes"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
	"github.com/ThiagoRGoveia/payroll-reports/internal/parser"
	"github.com/ThiagoRGoveia/payroll-reports/pkg/checksum"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrInvalidFileName = parser.ErrInvalidFileName
	ErrInvalidValues   = errors.New("invalid values")
)

// reportBuilder turns the raw content of a time report file into a TimeReport ready to be
// stored. Clock and id generation are injectable for tests.
type reportBuilder struct {
	now   func() time.Time
	newID func() uuid.UUID
}

func newReportBuilder() reportBuilder {
	return reportBuilder{now: time.Now, newID: uuid.New}
}

func (b reportBuilder) build(fileName string, reportID int, content []byte) (*models.TimeReport, error) {
	records, err := parser.ParseTimeRecords(bytes.NewReader(content), reportID)
	if err != nil {
		return nil, errors.Join(ErrInvalidValues, err)
	}

	return &models.TimeReport{
		ReportID:    reportID,
		UploadID:    b.newID(),
		FileName:    filepath.Base(fileName),
		CheckSum:    checksum.CalculateCheckSum(content),
		RecordCount: len(records),
		UploadedAt:  b.now().UTC(),
		Records:     records,
	}, nil
}

func isCSVFile(fileName string) bool {
	return filepath.Ext(fileName) == ".csv"
}

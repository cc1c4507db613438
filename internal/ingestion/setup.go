package ingestion

import (
	"sync"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

type ISetup interface {
	build() (models.SetupReturn, error)
}

type Setup struct {
	ResultsChannelSize int
}

// Instantiate all channels and data structures used by a batch run.
// Kept apart from the service so tests can inject their own.
func (h Setup) build() (models.SetupReturn, error) {
	size := h.ResultsChannelSize
	if size <= 0 {
		size = 100
	}

	channels := models.IngestionChannels{
		Jobs:    make(chan models.FileProcessingJob, size),
		Results: make(chan *models.TimeReport, size),
		Errors:  make(chan models.AppError, size),
	}

	var parserWg, writerWg, mainWg sync.WaitGroup
	return models.SetupReturn{
		Channels:       &channels,
		WaitGroups:     &models.IngestionWaitGroups{ParserWg: &parserWg, WriterWg: &writerWg, MainWg: &mainWg},
		ReportErrorMap: &models.ReportErrorMap{Errors: make(map[int][]models.AppError)},
		Ingested:       models.NewReportSet(),
		Skipped:        models.NewReportSet(),
	}, nil
}

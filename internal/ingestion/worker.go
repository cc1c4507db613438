package ingestion

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/database"
	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

// maxErrorsPerReport caps the errors kept per file; past that the file is malformed anyway.
const maxErrorsPerReport = 100

type Runner[T any] struct {
	Run T
}

// Worker defines the interface for the asynchronous stages of a batch run.
type Worker interface {
	WithChannels(channels *models.IngestionChannels) Worker
	WithWaitGroups(waitGroups *models.IngestionWaitGroups) Worker
	SetupJobDispatcherWorker(ctx context.Context, fileInfos []models.FileInfo, skipped *models.ReportSet) (Runner[func()], *sync.WaitGroup, error)
	SetupErrorWorker() (Runner[func(*models.ReportErrorMap)], *sync.WaitGroup, error)
	SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error)
	SetupWriterWorker(ctx context.Context) (Runner[func(ingested *models.ReportSet, skipped *models.ReportSet)], *sync.WaitGroup, error)
}

// AsyncWorker parses files concurrently and funnels every parsed report through a single
// writer goroutine, so the store only ever sees one writer.
type AsyncWorker struct {
	dbManager  database.DBManager
	logger     *logrus.Logger
	builder    reportBuilder
	channels   *models.IngestionChannels
	waitGroups *models.IngestionWaitGroups
}

func NewAsyncWorker(dbManager database.DBManager, logger *logrus.Logger) *AsyncWorker {
	return &AsyncWorker{
		dbManager: dbManager,
		logger:    logger,
		builder:   newReportBuilder(),
	}
}

func (w *AsyncWorker) WithChannels(channels *models.IngestionChannels) Worker {
	w.channels = channels
	return w
}

func (w *AsyncWorker) WithWaitGroups(waitGroups *models.IngestionWaitGroups) Worker {
	w.waitGroups = waitGroups
	return w
}

// PreprocessAndDispatchJobs sends one job per report id. Ids already in the store are marked
// skipped; later files repeating an id dispatched in this run are dropped with a warning.
func (w *AsyncWorker) PreprocessAndDispatchJobs(ctx context.Context, fileInfos []models.FileInfo, skipped *models.ReportSet) {
	defer w.waitGroups.MainWg.Done()
	defer close(w.channels.Jobs)

	dispatched := make(map[int]string, len(fileInfos))
	for _, fileInfo := range fileInfos {
		if ctx.Err() != nil {
			w.logger.WithError(ctx.Err()).Warn("dispatch cancelled")
			return
		}

		log := w.logger.WithFields(logrus.Fields{"report_id": fileInfo.ReportID, "file": fileInfo.Path})

		if firstPath, ok := dispatched[fileInfo.ReportID]; ok {
			log.WithField("first_file", firstPath).Warn("report id repeated in this run, skipping file")
			continue
		}

		exists, err := w.dbManager.IsReportAlreadyIngested(ctx, fileInfo.ReportID)
		if err != nil {
			w.channels.Errors <- models.AppError{ReportID: fileInfo.ReportID, Message: "Failed to check if report was already ingested", Err: err}
			continue
		}
		if exists {
			log.Info("report already ingested, skipping")
			skipped.Add(fileInfo.ReportID)
			continue
		}

		log.Debug("dispatching job")
		dispatched[fileInfo.ReportID] = fileInfo.Path
		w.channels.Jobs <- models.FileProcessingJob{FilePath: fileInfo.Path, ReportID: fileInfo.ReportID}
	}
}

func (w *AsyncWorker) SetupJobDispatcherWorker(ctx context.Context, fileInfos []models.FileInfo, skipped *models.ReportSet) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			w.waitGroups.MainWg.Add(1)
			go w.PreprocessAndDispatchJobs(ctx, fileInfos, skipped)
		},
	}, w.waitGroups.MainWg, nil
}

func (w *AsyncWorker) ParserWorker(workerID int) {
	defer w.waitGroups.ParserWg.Done()

	for job := range w.channels.Jobs {
		log := w.logger.WithFields(logrus.Fields{"worker": workerID, "report_id": job.ReportID, "file": job.FilePath})
		log.Debug("parser worker started job")

		content, err := os.ReadFile(job.FilePath)
		if err != nil {
			w.channels.Errors <- models.AppError{ReportID: job.ReportID, Message: "Failed to open or read file", Err: err}
			continue
		}

		report, err := w.builder.build(job.FilePath, job.ReportID, content)
		if err != nil {
			w.channels.Errors <- models.AppError{ReportID: job.ReportID, Message: "Invalid time report", Err: err}
			continue
		}

		w.channels.Results <- report
		log.Debug("parser worker finished job")
	}
}

func (w *AsyncWorker) SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			for i := 1; i <= numberOfWorkers; i++ {
				w.waitGroups.ParserWg.Add(1)
				go w.ParserWorker(i)
			}
		},
	}, w.waitGroups.ParserWg, nil
}

func (w *AsyncWorker) WriterWorker(ctx context.Context, ingested *models.ReportSet, skipped *models.ReportSet) {
	defer w.waitGroups.WriterWg.Done()

	for report := range w.channels.Results {
		log := w.logger.WithFields(logrus.Fields{"report_id": report.ReportID, "file": report.FileName})

		err := w.dbManager.InsertTimeReport(ctx, report)
		switch {
		case errors.Is(err, database.ErrDuplicateReport):
			log.Info("report already ingested, skipping")
			skipped.Add(report.ReportID)
		case err != nil:
			w.channels.Errors <- models.AppError{ReportID: report.ReportID, Message: "Failed to store time report", Err: err}
		default:
			log.WithField("records", report.RecordCount).Info("time report ingested")
			ingested.Add(report.ReportID)
		}
	}

	w.logger.Debug("writer worker finished")
}

func (w *AsyncWorker) SetupWriterWorker(ctx context.Context) (Runner[func(ingested *models.ReportSet, skipped *models.ReportSet)], *sync.WaitGroup, error) {
	return Runner[func(ingested *models.ReportSet, skipped *models.ReportSet)]{
		Run: func(ingested *models.ReportSet, skipped *models.ReportSet) {
			w.waitGroups.WriterWg.Add(1)
			go w.WriterWorker(ctx, ingested, skipped)
		},
	}, w.waitGroups.WriterWg, nil
}

func (w *AsyncWorker) ErrorWorker(reportErrors *models.ReportErrorMap) {
	defer w.waitGroups.MainWg.Done()

	for appErr := range w.channels.Errors {
		w.logger.WithField("report_id", appErr.ReportID).Error(appErr.Error())

		reportErrors.Mu.Lock()
		if len(reportErrors.Errors[appErr.ReportID]) < maxErrorsPerReport {
			reportErrors.Errors[appErr.ReportID] = append(reportErrors.Errors[appErr.ReportID], appErr)
		} else {
			w.logger.WithField("report_id", appErr.ReportID).Warn("report has too many errors, dropping")
		}
		reportErrors.Mu.Unlock()
	}
}

func (w *AsyncWorker) SetupErrorWorker() (Runner[func(*models.ReportErrorMap)], *sync.WaitGroup, error) {
	return Runner[func(*models.ReportErrorMap)]{
		Run: func(reportErrors *models.ReportErrorMap) {
			w.waitGroups.MainWg.Add(1)
			go w.ErrorWorker(reportErrors)
		},
	}, w.waitGroups.MainWg, nil
}

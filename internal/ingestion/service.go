package ingestion

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/config"
	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

type IngestionService struct {
	setupService  ISetup
	asyncWorker   Worker
	fileProcessor Processor
	config        config.Config
	logger        *logrus.Logger
}

func NewIngestionService(setupService ISetup, worker Worker, processor Processor, cfg config.Config, logger *logrus.Logger) *IngestionService {
	return &IngestionService{
		setupService:  setupService,
		asyncWorker:   worker,
		fileProcessor: processor,
		config:        cfg,
		logger:        logger,
	}
}

// Execute ingests every time report file under filesPath. Files are parsed concurrently but
// stored by a single writer. Files whose report id is already stored are skipped; a file with
// any invalid row is rejected as a whole and reported in the summary.
func (h *IngestionService) Execute(ctx context.Context, filesPath string) (*models.IngestionSummary, error) {
	// Step 0: Setup channels, wait groups and result sets.
	environment, err := h.setupService.build()
	if err != nil {
		return nil, err
	}
	channels, waitGroups, reportErrors, ingested, skipped := environment.GetValues()

	// Step 1: Find the files to process.
	fileInfos, err := h.fileProcessor.ScanForFiles(filesPath)
	if err != nil {
		h.logger.WithError(err).Error("failed to scan files")
		return nil, err
	}

	// Step 2: Wire the worker to this run. Must happen before any Setup* call.
	h.asyncWorker.WithChannels(channels).WithWaitGroups(waitGroups)

	// Step 3: Dispatch jobs, skipping reports already in the store.
	dispatcherRunner, _, err := h.asyncWorker.SetupJobDispatcherWorker(ctx, fileInfos, skipped)
	if err != nil {
		return nil, err
	}
	dispatcherRunner.Run()

	// Step 4: Collect errors from every stage. Shares MainWg with the dispatcher.
	errorRunner, mainWaitGroup, err := h.asyncWorker.SetupErrorWorker()
	if err != nil {
		return nil, err
	}
	errorRunner.Run(reportErrors)

	// Step 5: Parse files concurrently.
	parserRunner, parserWaitGroup, err := h.asyncWorker.SetupParserWorkers(h.config.NumParserWorkers)
	if err != nil {
		return nil, err
	}
	parserRunner.Run()

	// Step 6: Store parsed reports through a single writer.
	writerRunner, writerWaitGroup, err := h.asyncWorker.SetupWriterWorker(ctx)
	if err != nil {
		return nil, err
	}
	writerRunner.Run(ingested, skipped)

	// Step 7: Drain the pipeline stage by stage.
	h.logger.Debug("waiting for parser workers to finish")
	parserWaitGroup.Wait()
	close(channels.Results)

	h.logger.Debug("waiting for writer worker to finish")
	writerWaitGroup.Wait()
	close(channels.Errors)

	h.logger.Debug("waiting for error worker to finish")
	mainWaitGroup.Wait()

	return h.fileProcessor.BuildSummary(reportErrors, ingested, skipped), nil
}

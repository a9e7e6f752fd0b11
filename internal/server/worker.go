package server

import (
	"context"
	"os"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnail"
)

// WorkerApp runs thumbnail workers in their own process, consuming the
// shared Redis queue.
type WorkerApp struct {
	config *config.Config
	logger logging.Logger
	infra  *infra
	worker *thumbnail.Worker
}

func NewWorkerApp(ctx context.Context, c *config.Config) (*WorkerApp, error) {
	if c.QueueBackend == config.QueueMemory {
		return nil, errMemoryQueueStandalone
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	in, err := openInfra(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		config: c,
		logger: logger,
		infra:  in,
		worker: newWorker(in, c, logger),
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ctx, stop := signalContext(ctx)
	defer stop()
	defer w.infra.close()

	w.logger.Info(ctx, "Starting worker...", "queue", w.config.ThumbnailQueue)

	return w.worker.Run(ctx, w.infra.queue, w.config.ThumbnailWorkers)
}

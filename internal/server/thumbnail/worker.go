package thumbnail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
)

// DefaultWidths are the thumbnail widths produced when none are configured.
var DefaultWidths = []int{500, 250, 100}

// FileFinder loads file metadata by id.
type FileFinder interface {
	FindByID(ctx context.Context, id string) (*models.File, error)
}

type Worker struct {
	files   FileFinder
	storage storage.Storage
	widths  []int
	logger  logging.Logger
}

func NewWorker(files FileFinder, st storage.Storage, widths []int, logger logging.Logger) *Worker {
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Worker{
		files:   files,
		storage: st,
		widths:  widths,
		logger:  logger.With("module", "thumbnail"),
	}
}

// VariantPath is the storage location of the width-wide variant of an image
// stored at location.
func VariantPath(location string, width int) string {
	return location + "_" + strconv.Itoa(width)
}

// Handle processes one queued ThumbnailJob. Jobs that can never succeed
// (bad payload, unknown file, not an image) fail with a queue.Permanent
// error; everything else is retried by the queue.
func (w *Worker) Handle(ctx context.Context, payload []byte) error {
	var job models.ThumbnailJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return queue.Permanent(fmt.Errorf("decode job: %w", err))
	}
	if job.FileID == "" {
		return queue.Permanent(errors.New("missing fileId"))
	}
	if job.UserID == "" {
		return queue.Permanent(errors.New("missing userId"))
	}

	file, err := w.files.FindByID(ctx, job.FileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorInvalidID) {
			return queue.Permanent(fmt.Errorf("file %s: %w", job.FileID, common.ErrorNotFound))
		}
		return err
	}
	if file.Type != models.KindImage || file.LocalPath == "" {
		return queue.Permanent(fmt.Errorf("file %s is not a stored image", file.ID))
	}

	if err := w.generate(ctx, file.LocalPath); err != nil {
		return fmt.Errorf("file %s: %w", file.ID, err)
	}

	w.logger.Info(ctx, "thumbnails generated", "file_id", file.ID, "widths", w.widths)
	return nil
}

func (w *Worker) generate(ctx context.Context, location string) error {
	data, err := w.storage.Read(ctx, location)
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}

	_, formatName, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode original: %w", err)
	}
	format, err := imaging.FormatFromExtension(formatName)
	if err != nil {
		format = imaging.PNG
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode original: %w", err)
	}

	for _, width := range w.widths {
		dst := imaging.Resize(src, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, dst, format); err != nil {
			return fmt.Errorf("encode %dpx: %w", width, err)
		}
		if err := w.storage.Write(ctx, VariantPath(location, width), buf.Bytes()); err != nil {
			return fmt.Errorf("write %dpx: %w", width, err)
		}
	}
	return nil
}

// Run consumes q with the given number of concurrent workers until ctx is
// done. A worker stops after finishing its in-flight job.
func (w *Worker) Run(ctx context.Context, q queue.Queue, workers int) error {
	if workers <= 0 {
		workers = 1
	}

	w.logger.Info(ctx, "thumbnail workers started", "workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return q.Consume(gctx, w.Handle)
		})
	}

	err := g.Wait()
	w.logger.Info(ctx, "thumbnail workers stopped")
	return err
}

// Package thumbnail derives resized variants of uploaded images in the
// background. The Producer hands jobs to a queue; the Worker consumes them.
package thumbnail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
)

type Producer struct {
	queue queue.Queue
}

func NewProducer(q queue.Queue) *Producer {
	return &Producer{queue: q}
}

// Enqueue schedules job. It returns once the job is queued, not processed.
func (p *Producer) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("thumbnail: marshal job: %w", err)
	}
	return p.queue.Enqueue(ctx, payload)
}

package tasks

import (
	"context"
	"dresssenseapi/services"
	"encoding/json"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeDeleteOrphanedImage = "cleanup:delete_image"
	TypeSweepStaleItems     = "cleanup:sweep_stale"

	CleanupQueue = "cleanup"
)

// Items stuck in pending or processing longer than this are marked failed.
const StaleAfter = time.Hour

type DeleteOrphanedImagePayload struct {
	Key string `json:"key"`
}

func NewClient(brokerAddress string) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: brokerAddress})
}

func NewDeleteOrphanedImageTask(key string) (*asynq.Task, error) {
	payload, err := json.Marshal(DeleteOrphanedImagePayload{Key: key})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeleteOrphanedImage, payload), nil
}

func NewSweepStaleItemsTask() *asynq.Task {
	return asynq.NewTask(TypeSweepStaleItems, []byte{})
}

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqOrphanReporter queues the deletion of images whose catalog row is gone.
type AsynqOrphanReporter struct {
	Client Enqueuer
	Logger *zap.Logger
}

func (r *AsynqOrphanReporter) ReportOrphanedImage(ctx context.Context, key string) error {
	task, err := NewDeleteOrphanedImageTask(key)
	if err != nil {
		return err
	}
	info, err := r.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.ProcessIn(time.Minute), asynq.Queue(CleanupQueue))
	if err != nil {
		return fmt.Errorf("failed to enqueue orphan cleanup of %s: %w", key, err)
	}
	r.Logger.Info("orphan cleanup enqueued", zap.String("key", key), zap.String("task_id", info.ID))
	return nil
}

func HandleDeleteOrphanedImageTask(ctx context.Context, t *asynq.Task, objects services.ObjectStore, logger *zap.Logger) error {
	var payload DeleteOrphanedImagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Key == "" {
		return fmt.Errorf("invalid orphan cleanup payload %q: %w", t.Payload(), asynq.SkipRetry)
	}
	if err := objects.Delete(ctx, payload.Key); err != nil {
		logger.Warn("orphan cleanup failed", zap.String("key", payload.Key), zap.Error(err))
		sentry.CaptureException(err)
		return err
	}
	logger.Info("orphaned image deleted", zap.String("key", payload.Key))
	return nil
}

type StaleItemSweeper interface {
	FailStale(ctx context.Context, before time.Time, reason string) (int64, error)
}

// HandleSweepStaleItemsTask fails items whose extraction never finished, for
// example because the api process died mid-upload.
func HandleSweepStaleItemsTask(ctx context.Context, t *asynq.Task, store StaleItemSweeper, now time.Time, logger *zap.Logger) error {
	count, err := store.FailStale(ctx, now.Add(-StaleAfter), "processing did not finish")
	if err != nil {
		sentry.CaptureException(err)
		return err
	}
	if count > 0 {
		logger.Info("stale items marked failed", zap.Int64("count", count))
	}
	return nil
}

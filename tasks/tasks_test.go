package tasks

import (
	"context"
	"dresssenseapi/dbhelper"
	"dresssenseapi/models"
	"dresssenseapi/repository"
	"dresssenseapi/test"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type enqueuerMock struct {
	tasks []*asynq.Task
}

func (m *enqueuerMock) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: CleanupQueue, Type: task.Type()}, nil
}

func TestReportOrphanedImageEnqueues(t *testing.T) {
	enqueuer := &enqueuerMock{}
	reporter := &AsynqOrphanReporter{Client: enqueuer, Logger: zap.NewNop()}

	require.NoError(t, reporter.ReportOrphanedImage(context.Background(), "clothes/a.png"))
	require.Len(t, enqueuer.tasks, 1)
	assert.Equal(t, TypeDeleteOrphanedImage, enqueuer.tasks[0].Type())

	var payload DeleteOrphanedImagePayload
	require.NoError(t, json.Unmarshal(enqueuer.tasks[0].Payload(), &payload))
	assert.Equal(t, "clothes/a.png", payload.Key)
}

func TestHandleDeleteOrphanedImageTask(t *testing.T) {
	objects := test.NewObjectStoreMock()
	objects.Objects["clothes/a.png"] = []byte("png")
	task, err := NewDeleteOrphanedImageTask("clothes/a.png")
	require.NoError(t, err)

	require.NoError(t, HandleDeleteOrphanedImageTask(context.Background(), task, objects, zap.NewNop()))
	assert.NotContains(t, objects.Objects, "clothes/a.png")

	objects.DeleteErr = errors.New("throttled")
	assert.Error(t, HandleDeleteOrphanedImageTask(context.Background(), task, objects, zap.NewNop()))

	bad := asynq.NewTask(TypeDeleteOrphanedImage, []byte("{"))
	err = HandleDeleteOrphanedImageTask(context.Background(), bad, objects, zap.NewNop())
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSweepStaleItemsTask(t *testing.T) {
	db := dbhelper.SetupTestDB()
	defer dbhelper.SetupCleaner(db)()
	repo := repository.NewCatalogRepository(db)
	ctx := context.Background()
	now := time.Now()

	for id, created := range map[string]time.Time{"old": now.Add(-2 * time.Hour), "fresh": now} {
		require.NoError(t, repo.Create(ctx, &models.Clothing{
			UUIDModel:  models.UUIDModel{ID: id, CreatedAt: created},
			Status:     models.StatusPending,
			Attributes: datatypes.NewJSONType(models.DefaultAttributeSchema.Filled(models.SentinelUnknown)),
		}))
	}

	require.NoError(t, HandleSweepStaleItemsTask(ctx, NewSweepStaleItemsTask(), repo, now, zap.NewNop()))

	old, err := repo.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, old.Status)
	fresh, err := repo.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, fresh.Status)
}

package task_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	taskservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/task"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/memory"
)

func newService() *taskservice.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return taskservice.New(log, memory.New())
}

func TestCreate_Defaults(t *testing.T) {
	svc := newService()
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, taskservice.CreateInput{Title: "grade exams"})
	require.NoError(t, err)

	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, userID, task.UserID)
}

func TestCreate_TitleRequired(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), uuid.New(), taskservice.CreateInput{Title: "   "})
	assert.ErrorIs(t, err, taskservice.ErrTitleRequired)
}

func TestGet_ScopedToOwner(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, taskservice.CreateInput{Title: "prepare quiz"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), task.ID)
	assert.ErrorIs(t, err, taskservice.ErrNotFound)

	got, err := svc.Get(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestUpdate_CompletionTimestamp(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, taskservice.CreateInput{Title: "submit grades"})
	require.NoError(t, err)

	completed := "completed"
	updated, err := svc.Update(ctx, owner, task.ID, taskservice.UpdateInput{Status: &completed})
	require.NoError(t, err)

	assert.Equal(t, models.TaskCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	// moving back out of completed clears the timestamp
	pending := "pending"
	updated, err = svc.Update(ctx, owner, task.ID, taskservice.UpdateInput{Status: &pending})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestUpdate_InvalidStatus(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, taskservice.CreateInput{Title: "order toners"})
	require.NoError(t, err)

	bogus := "done-ish"
	_, err = svc.Update(ctx, owner, task.ID, taskservice.UpdateInput{Status: &bogus})
	assert.ErrorIs(t, err, taskservice.ErrInvalidStatus)
}

func TestList_FilterAndPagination(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 15; i++ {
		priority := "low"
		if i%3 == 0 {
			priority = "high"
		}
		_, err := svc.Create(ctx, owner, taskservice.CreateInput{
			Title:    "task",
			Priority: priority,
		})
		require.NoError(t, err)
	}

	tasks, pagination, err := svc.List(ctx, owner, taskservice.ListInput{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, tasks, 10)
	assert.Equal(t, 15, pagination.Total)
	assert.Equal(t, 2, pagination.Pages)

	tasks, _, err = svc.List(ctx, owner, taskservice.ListInput{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, tasks, 5)

	tasks, pagination, err = svc.List(ctx, owner, taskservice.ListInput{Priority: "high"})
	require.NoError(t, err)
	assert.Len(t, tasks, 5)
	assert.Equal(t, 5, pagination.Total)
}

func TestDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, taskservice.CreateInput{Title: "inventory check"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, task.ID))

	err = svc.Delete(ctx, owner, task.ID)
	assert.ErrorIs(t, err, taskservice.ErrNotFound)
}

func TestStats(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	owner := uuid.New()

	overdue := time.Now().UTC().Add(-48 * time.Hour)
	_, err := svc.Create(ctx, owner, taskservice.CreateInput{Title: "late report", DueDate: &overdue})
	require.NoError(t, err)

	done, err := svc.Create(ctx, owner, taskservice.CreateInput{Title: "done already", Priority: "urgent"})
	require.NoError(t, err)

	completed := "completed"
	_, err = svc.Update(ctx, owner, done.ID, taskservice.UpdateInput{Status: &completed})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.ByPriority[models.PriorityUrgent])
}

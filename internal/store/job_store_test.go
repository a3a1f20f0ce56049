package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkuiper/taskboard/internal/db"
	"github.com/dkuiper/taskboard/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func jobInput(orderNumber string) *domain.JobInput {
	return &domain.JobInput{
		OrderNumber: orderNumber,
		Hal:         "Hal 3",
		Plaats:      "Noord",
		Fase:        "F2",
		TekMerk:     "TM-118",
		Priority:    domain.PriorityNormal,
		PolDag:      2,
		Remarks:     "check welds",
	}
}

func TestJobStoreCreate(t *testing.T) {
	d := openTestDB(t)
	store := NewJobStore(d)
	ctx := context.Background()

	job, err := store.Create(ctx, jobInput("ORD-1001"))
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
	assert.Equal(t, "ORD-1001", job.OrderNumber)
	assert.Equal(t, domain.PriorityNormal, job.Priority)
	assert.Equal(t, 2, job.PolDag)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestJobStoreGetByIDPersists(t *testing.T) {
	d := openTestDB(t)
	store := NewJobStore(d)
	ctx := context.Background()

	created, err := store.Create(ctx, jobInput("ORD-1002"))
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, "ORD-1002", retrieved.OrderNumber)
}

func TestJobStoreGetByIDMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewJobStore(d)

	job, err := store.GetByID(context.Background(), 4242)
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobStoreListNewestFirst(t *testing.T) {
	d := openTestDB(t)
	store := NewJobStore(d)
	ctx := context.Background()

	first, err := store.Create(ctx, jobInput("ORD-A"))
	require.NoError(t, err)
	second, err := store.Create(ctx, jobInput("ORD-B"))
	require.NoError(t, err)

	jobs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)
}

func TestJobStoreListIncludesFullTaskTree(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	notes := NewNoteStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-1003"))
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "grind edges", Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = notes.Create(ctx, task.ID, "start at the top")
	require.NoError(t, err)

	listed, err := jobs.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Tasks, 1)
	assert.Equal(t, task.ID, listed[0].Tasks[0].ID)
	assert.Equal(t, domain.StatusPending, listed[0].Tasks[0].Status)
	require.Len(t, listed[0].Tasks[0].Notes, 1, "list carries the whole tree")
}

func TestJobStoreUpdate(t *testing.T) {
	d := openTestDB(t)
	store := NewJobStore(d)
	ctx := context.Background()

	job, err := store.Create(ctx, jobInput("ORD-1004"))
	require.NoError(t, err)

	job.Priority = domain.PriorityHigh
	job.Remarks = "rush order"
	require.NoError(t, store.Update(ctx, job))

	updated, err := store.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, "rush order", updated.Remarks)
}

func TestJobStoreUpdateMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewJobStore(d)

	err := store.Update(context.Background(), &domain.Job{ID: 999, OrderNumber: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobStoreDeleteCascades(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	photos := NewPhotoStore(d)
	notes := NewNoteStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-1005"))
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "polish frame", Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = photos.Create(ctx, &domain.Photo{
		TaskID: task.ID, Filename: "abc.jpg", Path: "/uploads/abc.jpg",
	})
	require.NoError(t, err)
	_, err = notes.Create(ctx, task.ID, "left side done")
	require.NoError(t, err)

	require.NoError(t, jobs.Delete(ctx, job.ID))

	// No residual rows may reference the deleted job anywhere down the tree.
	for _, q := range []string{
		"SELECT COUNT(*) FROM tasks WHERE job_id = ?",
		"SELECT COUNT(*) FROM photos WHERE task_id = ?",
		"SELECT COUNT(*) FROM notes WHERE task_id = ?",
	} {
		var count int
		arg := job.ID
		if q != "SELECT COUNT(*) FROM tasks WHERE job_id = ?" {
			arg = task.ID
		}
		require.NoError(t, d.QueryRow(q, arg).Scan(&count))
		assert.Zero(t, count, q)
	}
}

func TestJobStoreDeleteMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewJobStore(d)

	err := store.Delete(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

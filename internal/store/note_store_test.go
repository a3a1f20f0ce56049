package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkuiper/taskboard/internal/domain"
)

func TestNoteStoreCreateAndList(t *testing.T) {
	d := openTestDB(t)
	jobs, tasks, notes := NewJobStore(d), NewTaskStore(d), NewNoteStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-4001"))
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "note target", Status: domain.StatusPending,
	})
	require.NoError(t, err)

	first, err := notes.Create(ctx, task.ID, "started at 8:00")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "started at 8:00", first.Content)

	second, err := notes.Create(ctx, task.ID, "blocked on material")
	require.NoError(t, err)

	listed, err := notes.ListByTaskID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}

func TestNoteStoreDelete(t *testing.T) {
	d := openTestDB(t)
	jobs, tasks, notes := NewJobStore(d), NewTaskStore(d), NewNoteStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-4002"))
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "note target", Status: domain.StatusPending,
	})
	require.NoError(t, err)

	note, err := notes.Create(ctx, task.ID, "temporary")
	require.NoError(t, err)

	require.NoError(t, notes.Delete(ctx, note.ID))

	got, err := notes.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, notes.Delete(ctx, note.ID), domain.ErrNotFound)
}

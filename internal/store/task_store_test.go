package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkuiper/taskboard/internal/domain"
)

func TestTaskStoreCreateMaterializes(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-2001"))
	require.NoError(t, err)

	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID:       job.ID,
		Description: "weld support beam",
		AssignedTo:  "POL-D",
		Status:      domain.StatusPending,
	})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	require.NotNil(t, task.Job)
	assert.Equal(t, job.ID, task.Job.ID)
	assert.Empty(t, task.Photos)
	assert.Empty(t, task.Notes)
}

func TestTaskStoreGetByIDIncludesAssociations(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	photos := NewPhotoStore(d)
	notes := NewNoteStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-2002"))
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "deburr plates", Status: domain.StatusInProgress,
	})
	require.NoError(t, err)

	_, err = photos.Create(ctx, &domain.Photo{
		TaskID: task.ID, Filename: "p1.jpg", OriginalName: "front.jpg", Path: "/uploads/p1.jpg",
	})
	require.NoError(t, err)
	_, err = notes.Create(ctx, task.ID, "halfway there")
	require.NoError(t, err)

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Photos, 1)
	assert.Len(t, got.Notes, 1)
	require.NotNil(t, got.Job)
	assert.Equal(t, "ORD-2002", got.Job.OrderNumber)
}

func TestTaskStoreGetByIDMissing(t *testing.T) {
	d := openTestDB(t)
	tasks := NewTaskStore(d)

	task, err := tasks.GetByID(context.Background(), 777)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestTaskStoreListByTeam(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	ctx := context.Background()

	jobA, err := jobs.Create(ctx, jobInput("ORD-2003"))
	require.NoError(t, err)
	jobB, err := jobs.Create(ctx, jobInput("ORD-2004"))
	require.NoError(t, err)

	// Two POL-D tasks spread across jobs, one PRT-E task as noise.
	_, err = tasks.Create(ctx, &domain.TaskInput{
		JobID: jobA.ID, Description: "polish left rail", AssignedTo: "POL-D", Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, &domain.TaskInput{
		JobID: jobB.ID, Description: "polish right rail", AssignedTo: "POL-D", Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, &domain.TaskInput{
		JobID: jobA.ID, Description: "paint prep", AssignedTo: "PRT-E", Status: domain.StatusPending,
	})
	require.NoError(t, err)

	teamTasks, err := tasks.ListByTeam(ctx, "POL-D")
	require.NoError(t, err)
	require.Len(t, teamTasks, 2)
	for _, task := range teamTasks {
		assert.Equal(t, "POL-D", task.AssignedTo)
	}
}

func TestTaskStoreListNewestFirst(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-2005"))
	require.NoError(t, err)

	first, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "first", Status: domain.StatusPending,
	})
	require.NoError(t, err)
	second, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "second", Status: domain.StatusPending,
	})
	require.NoError(t, err)

	all, err := tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestTaskStoreUpdateStatus(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-2006"))
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "fit cover", Status: domain.StatusPending,
	})
	require.NoError(t, err)

	task.Status = domain.StatusCompleted
	require.NoError(t, tasks.Update(ctx, task))

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestTaskStoreDeleteCascades(t *testing.T) {
	d := openTestDB(t)
	jobs := NewJobStore(d)
	tasks := NewTaskStore(d)
	photos := NewPhotoStore(d)
	notes := NewNoteStore(d)
	ctx := context.Background()

	job, err := jobs.Create(ctx, jobInput("ORD-2007"))
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.TaskInput{
		JobID: job.ID, Description: "doomed task", Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = photos.Create(ctx, &domain.Photo{TaskID: task.ID, Filename: "x.png", Path: "/uploads/x.png"})
	require.NoError(t, err)
	_, err = notes.Create(ctx, task.ID, "bye")
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(ctx, task.ID))

	remainingPhotos, err := photos.ListByTaskID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, remainingPhotos)

	remainingNotes, err := notes.ListByTaskID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, remainingNotes)
}

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkuiper/taskboard/internal/domain"
)

func baselineTree() []*domain.Job {
	return []*domain.Job{
		{
			ID: 1,
			Tasks: []*domain.Task{
				{
					ID:     10,
					JobID:  1,
					Status: domain.StatusPending,
					Photos: []*domain.Photo{{ID: 100, TaskID: 10}},
					Notes:  []*domain.Note{{ID: 200, TaskID: 10, Content: "from server"}},
				},
			},
		},
	}
}

func cachedTree() []*domain.Job {
	return []*domain.Job{
		{
			ID: 1,
			Tasks: []*domain.Task{
				{
					ID:     10,
					JobID:  1,
					Status: domain.StatusCompleted,
					Photos: []*domain.Photo{
						{ID: 100, TaskID: 10},
						{ID: 101, TaskID: 10, Caption: "cache only"},
					},
					Notes: []*domain.Note{{ID: 201, TaskID: 10, Content: "cache only"}},
				},
			},
		},
		{ID: 9, OrderNumber: "cache-only job"},
	}
}

func TestMergeLocalDefaultsOverrideAllThree(t *testing.T) {
	merged := MergeLocal(baselineTree(), cachedTree(), DefaultMergeOptions())

	require.Len(t, merged, 1, "cache-only jobs are not resurrected")
	task := merged[0].Tasks[0]
	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Len(t, task.Photos, 2, "cache-only photo appended, shared one not duplicated")
	assert.Len(t, task.Notes, 2)
}

func TestMergeLocalStatusOnly(t *testing.T) {
	opts := MergeOptions{LocalStatus: true}
	merged := MergeLocal(baselineTree(), cachedTree(), opts)

	task := merged[0].Tasks[0]
	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Len(t, task.Photos, 1)
	assert.Len(t, task.Notes, 1)
}

func TestMergeLocalDisabledLeavesBaselineAlone(t *testing.T) {
	merged := MergeLocal(baselineTree(), cachedTree(), MergeOptions{})

	task := merged[0].Tasks[0]
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Len(t, task.Photos, 1)
	assert.Len(t, task.Notes, 1)
}

func TestMergeLocalIgnoresInvalidCachedStatus(t *testing.T) {
	cached := cachedTree()
	cached[0].Tasks[0].Status = "corrupted"

	merged := MergeLocal(baselineTree(), cached, DefaultMergeOptions())
	assert.Equal(t, domain.StatusPending, merged[0].Tasks[0].Status)
}

func TestMergeLocalSkipsUnmatchedTasks(t *testing.T) {
	cached := cachedTree()
	cached[0].Tasks[0].ID = 999

	merged := MergeLocal(baselineTree(), cached, DefaultMergeOptions())
	task := merged[0].Tasks[0]
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Len(t, task.Photos, 1)
}

package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkuiper/taskboard/internal/client"
	"github.com/dkuiper/taskboard/internal/domain"
	"github.com/dkuiper/taskboard/internal/event"
	"github.com/dkuiper/taskboard/internal/hub"
	"github.com/dkuiper/taskboard/internal/reconcile"
)

// waitForViewers blocks until the hub has registered want connections, so a
// mutation issued right after subscribing cannot slip past a viewer.
func waitForViewers(t *testing.T, h *hub.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("viewer count never reached %d (got %d)", want, h.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// clientStatusEvent builds the informational status announcement a viewer
// sends over its socket.
func clientStatusEvent(taskID int64, status domain.Status) (event.Event, error) {
	return event.New(event.TaskStatus, map[string]any{
		"taskId": taskID,
		"status": status,
	})
}

// viewer is one connected client: a subscription feeding its own state tree.
type viewer struct {
	state *reconcile.AppState
	sub   *client.Subscription
	done  chan struct{}
}

func newViewer(t *testing.T, ctx context.Context, c *client.Client) *viewer {
	t.Helper()

	jobs, err := c.ListJobs(ctx)
	require.NoError(t, err)

	sub, err := c.Subscribe(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	v := &viewer{
		state: reconcile.NewAppState(jobs),
		sub:   sub,
		done:  make(chan struct{}),
	}
	go func() {
		defer close(v.done)
		for ev := range sub.Events() {
			v.state.Apply(ev)
		}
	}()
	return v
}

// waitFor polls until the viewer's state satisfies cond.
func (v *viewer) waitFor(t *testing.T, cond func(*reconcile.AppState) bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond(v.state) {
		if time.Now().After(deadline) {
			t.Fatal("viewer state never converged")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestViewersConvergeOnEveryMutation(t *testing.T) {
	srv, h := newLiveServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	first := newViewer(t, ctx, c)
	second := newViewer(t, ctx, c)
	waitForViewers(t, h, 2)

	// Create a job: both viewers pick it up without a refetch.
	job, err := c.CreateJob(ctx, &domain.JobInput{OrderNumber: "ORD-LIVE", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	for _, v := range []*viewer{first, second} {
		v.waitFor(t, func(s *reconcile.AppState) bool {
			_, ok := s.Job(job.ID)
			return ok
		})
	}

	// Create a task and complete it.
	task, err := c.CreateTask(ctx, &domain.TaskInput{JobID: job.ID, Description: "fit panels", AssignedTo: "PL-E"})
	require.NoError(t, err)
	_, err = c.UpdateTaskStatus(ctx, task.ID, domain.StatusCompleted)
	require.NoError(t, err)
	for _, v := range []*viewer{first, second} {
		v.waitFor(t, func(s *reconcile.AppState) bool {
			got, ok := s.Task(task.ID)
			return ok && got.Status == domain.StatusCompleted
		})
	}

	// Add a note.
	note, err := c.AddNote(ctx, task.ID, "panels aligned")
	require.NoError(t, err)
	for _, v := range []*viewer{first, second} {
		v.waitFor(t, func(s *reconcile.AppState) bool {
			got, ok := s.Task(task.ID)
			if !ok {
				return false
			}
			for _, n := range got.Notes {
				if n.ID == note.ID {
					return true
				}
			}
			return false
		})
	}

	// Delete the job: the whole subtree vanishes from both viewers.
	require.NoError(t, c.DeleteJob(ctx, job.ID))
	for _, v := range []*viewer{first, second} {
		v.waitFor(t, func(s *reconcile.AppState) bool {
			_, ok := s.Job(job.ID)
			return !ok
		})
	}
	_, ok := first.state.Task(task.ID)
	assert.False(t, ok, "deleting the job removes its tasks from the tree")
}

func TestLateViewerFetchesBaselineThenFollows(t *testing.T) {
	srv, h := newLiveServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	// Mutations before the viewer exists: no backlog, so they only reach
	// it through the baseline fetch on connect.
	early, err := c.CreateJob(ctx, &domain.JobInput{OrderNumber: "ORD-EARLY"})
	require.NoError(t, err)

	v := newViewer(t, ctx, c)
	waitForViewers(t, h, 1)
	_, ok := v.state.Job(early.ID)
	require.True(t, ok, "baseline fetch covers pre-connect mutations")

	late, err := c.CreateJob(ctx, &domain.JobInput{OrderNumber: "ORD-LATE"})
	require.NoError(t, err)
	v.waitFor(t, func(s *reconcile.AppState) bool {
		_, ok := s.Job(late.ID)
		return ok
	})
}

func TestPassThroughEventsReachOtherViewers(t *testing.T) {
	srv, h := newLiveServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	job, err := c.CreateJob(ctx, &domain.JobInput{OrderNumber: "ORD-PT"})
	require.NoError(t, err)
	task, err := c.CreateTask(ctx, &domain.TaskInput{JobID: job.ID, Description: "deburr"})
	require.NoError(t, err)

	sender := newViewer(t, ctx, c)
	receiver := newViewer(t, ctx, c)
	waitForViewers(t, h, 2)

	// A viewer announces a status change without going through REST; the
	// hub re-broadcasts it and other viewers apply it locally.
	ev, err := clientStatusEvent(task.ID, domain.StatusInProgress)
	require.NoError(t, err)
	require.NoError(t, sender.sub.Send(ctx, ev))

	receiver.waitFor(t, func(s *reconcile.AppState) bool {
		got, ok := s.Task(task.ID)
		return ok && got.Status == domain.StatusInProgress
	})
}

package reconcile

import (
	"sort"
	"strings"

	"github.com/dkuiper/taskboard/internal/domain"
)

// Phase is the lifecycle of a view. A view starts Loading, becomes Ready
// once its data arrives, passes through Updating while a mutation is in
// flight, and ends in Redirected when the entity it shows no longer exists.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhaseReady      Phase = "ready"
	PhaseUpdating   Phase = "updating"
	PhaseRedirected Phase = "redirected"
)

// View carries the phase machine shared by every concrete view.
type View struct {
	phase Phase
}

func newView() View {
	return View{phase: PhaseLoading}
}

func (v *View) Phase() Phase {
	return v.phase
}

// Ready marks the initial load (or an in-flight update) as finished.
// Redirected is terminal; a redirected view never becomes ready again.
func (v *View) Ready() {
	if v.phase == PhaseRedirected {
		return
	}
	v.phase = PhaseReady
}

// BeginUpdate marks a mutation in flight. Only a ready view can update.
func (v *View) BeginUpdate() {
	if v.phase == PhaseReady {
		v.phase = PhaseUpdating
	}
}

// Redirect marks the view's subject as gone. Terminal.
func (v *View) Redirect() {
	v.phase = PhaseRedirected
}

// Dashboard lists all jobs, optionally narrowed by a free-text search and
// a team filter.
type Dashboard struct {
	View
	Search string
	Team   string
}

func NewDashboard() *Dashboard {
	return &Dashboard{View: newView()}
}

// Snapshot projects the job list for rendering: filtered, high priority
// first, newest first within a priority. The projection never mutates
// state.
func (d *Dashboard) Snapshot(s *AppState) []*domain.Job {
	jobs := s.Jobs()
	out := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if d.Search != "" && !jobMatchesSearch(job, d.Search) {
			continue
		}
		if d.Team != "" && !jobHasTeam(job, d.Team) {
			continue
		}
		out = append(out, job)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank(out[i].Priority) < priorityRank(out[j].Priority)
	})
	return out
}

func jobMatchesSearch(job *domain.Job, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{job.OrderNumber, job.Hal, job.Plaats, job.Fase, job.TekMerk, job.Remarks} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func jobHasTeam(job *domain.Job, teamID string) bool {
	for _, task := range job.Tasks {
		if task.AssignedTo == teamID {
			return true
		}
	}
	return false
}

func priorityRank(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 0
	case domain.PriorityNormal:
		return 1
	default:
		return 2
	}
}

// JobDetail shows one job with its full task tree.
type JobDetail struct {
	View
	JobID int64
}

func NewJobDetail(jobID int64) *JobDetail {
	return &JobDetail{View: newView(), JobID: jobID}
}

// Snapshot returns the job, or (nil, false) after flipping the view to
// Redirected when the job is gone (deleted underneath the viewer).
func (j *JobDetail) Snapshot(s *AppState) (*domain.Job, bool) {
	job, ok := s.Job(j.JobID)
	if !ok {
		j.Redirect()
		return nil, false
	}
	return job, true
}

// TeamView lists one team's tasks across every job, open work first.
type TeamView struct {
	View
	TeamID string
}

func NewTeamView(teamID string) *TeamView {
	return &TeamView{View: newView(), TeamID: teamID}
}

func (t *TeamView) Snapshot(s *AppState) []*domain.Task {
	var out []*domain.Task
	for _, job := range s.Jobs() {
		for _, task := range job.Tasks {
			if task.AssignedTo == t.TeamID {
				out = append(out, task)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return statusRank(out[i].Status) < statusRank(out[j].Status)
	})
	return out
}

func statusRank(s domain.Status) int {
	switch s {
	case domain.StatusInProgress:
		return 0
	case domain.StatusPending:
		return 1
	default:
		return 2
	}
}

// TaskDetail shows one task with its photos and notes.
type TaskDetail struct {
	View
	TaskID int64
}

func NewTaskDetail(taskID int64) *TaskDetail {
	return &TaskDetail{View: newView(), TaskID: taskID}
}

func (t *TaskDetail) Snapshot(s *AppState) (*domain.Task, bool) {
	task, ok := s.Task(t.TaskID)
	if !ok {
		t.Redirect()
		return nil, false
	}
	return task, true
}

// Package reconcile maintains a client's in-memory picture of the board:
// the job tree, the views projected from it, the local-cache merge, and the
// one-time legacy-cache migration.
package reconcile

import (
	"encoding/json"
	"sync"

	"github.com/dkuiper/taskboard/internal/domain"
	"github.com/dkuiper/taskboard/internal/event"
)

// AppState owns one client's denormalized tree of jobs, tasks, photos and
// notes. It is an explicit object handed to each view, never a global. The
// tree is best-effort: it mirrors the server via broadcast events and is
// never the source of truth.
type AppState struct {
	mu   sync.RWMutex
	jobs []*domain.Job
}

// NewAppState builds a state tree from a freshly fetched baseline. The
// slice is adopted, not copied; the caller hands ownership over.
func NewAppState(jobs []*domain.Job) *AppState {
	if jobs == nil {
		jobs = []*domain.Job{}
	}
	return &AppState{jobs: jobs}
}

// Jobs returns the jobs in display order (newest first, matching the
// server's list order). The slice is a copy; the entities are shared.
func (s *AppState) Jobs() []*domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Job finds a job by id.
func (s *AppState) Job(id int64) (*domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findJob(id)
}

// Task finds a task by id, searching every job.
func (s *AppState) Task(id int64) (*domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findTask(id)
}

// Apply patches the tree with one broadcast event. Application is
// idempotent: created inserts unless the id is already present, updated
// replaces or is a no-op when absent, deleted removes or is a no-op when
// absent. Malformed payloads and unknown event names are ignored; a bad
// broadcast must never corrupt local state.
func (s *AppState) Apply(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Name {
	case event.JobCreated:
		if job := decodeJob(ev.Data); job != nil {
			s.insertJob(job)
		}
	case event.JobUpdated:
		if job := decodeJob(ev.Data); job != nil {
			s.replaceJob(job)
		}
	case event.JobDeleted:
		if id, ok := decodeDeleted(ev.Data); ok {
			s.removeJob(id)
		}

	case event.TaskCreated:
		if task := decodeTask(ev.Data); task != nil {
			s.insertTask(task)
		}
	case event.TaskUpdated:
		if task := decodeTask(ev.Data); task != nil {
			s.replaceTask(task)
		}
	case event.TaskDeleted:
		if id, ok := decodeDeleted(ev.Data); ok {
			s.removeTask(id)
		}

	case event.PhotoUploaded:
		var photo domain.Photo
		if json.Unmarshal(ev.Data, &photo) == nil && photo.ID != 0 {
			s.insertPhoto(&photo)
		}
	case event.NoteAdded:
		var note domain.Note
		if json.Unmarshal(ev.Data, &note) == nil && note.ID != 0 {
			s.insertNote(&note)
		}
	case event.NoteDeleted:
		if id, ok := decodeDeleted(ev.Data); ok {
			s.removeNote(id)
		}

	case event.TaskStatusUpdated:
		// Informational pass-through from another viewer; payload shape is
		// theirs, so only well-formed ones are applied.
		var body struct {
			TaskID int64         `json:"taskId"`
			Status domain.Status `json:"status"`
		}
		if json.Unmarshal(ev.Data, &body) == nil && domain.ValidStatus(body.Status) {
			if task, ok := s.findTask(body.TaskID); ok {
				// Entities already handed out stay frozen; the tree gets a
				// fresh one, same as every other update path.
				updated := *task
				updated.Status = body.Status
				s.replaceTask(&updated)
			}
		}
	}
}

func decodeJob(data []byte) *domain.Job {
	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil || job.ID == 0 {
		return nil
	}
	return &job
}

func decodeTask(data []byte) *domain.Task {
	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil || task.ID == 0 {
		return nil
	}
	// The nested job copy would go stale immediately; the tree is the
	// context a view renders from.
	task.Job = nil
	return &task
}

func decodeDeleted(data []byte) (int64, bool) {
	var d event.Deleted
	if err := json.Unmarshal(data, &d); err != nil || d.ID == 0 {
		return 0, false
	}
	return d.ID, true
}

func (s *AppState) findJob(id int64) (*domain.Job, bool) {
	for _, job := range s.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return nil, false
}

func (s *AppState) findTask(id int64) (*domain.Task, bool) {
	for _, job := range s.jobs {
		for _, task := range job.Tasks {
			if task.ID == id {
				return task, true
			}
		}
	}
	return nil, false
}

func (s *AppState) insertJob(job *domain.Job) {
	if _, exists := s.findJob(job.ID); exists {
		return
	}
	s.jobs = append([]*domain.Job{job}, s.jobs...)
}

func (s *AppState) replaceJob(job *domain.Job) {
	for i, existing := range s.jobs {
		if existing.ID == job.ID {
			s.jobs[i] = job
			return
		}
	}
}

func (s *AppState) removeJob(id int64) {
	for i, job := range s.jobs {
		if job.ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return
		}
	}
}

func (s *AppState) insertTask(task *domain.Task) {
	if _, exists := s.findTask(task.ID); exists {
		return
	}
	// A task for an unknown job is dropped; the job's own created event
	// carries the full tree when it arrives.
	job, ok := s.findJob(task.JobID)
	if !ok {
		return
	}
	job.Tasks = append([]*domain.Task{task}, job.Tasks...)
}

func (s *AppState) replaceTask(task *domain.Task) {
	for _, job := range s.jobs {
		for i, existing := range job.Tasks {
			if existing.ID == task.ID {
				job.Tasks[i] = task
				return
			}
		}
	}
}

func (s *AppState) removeTask(id int64) {
	for _, job := range s.jobs {
		for i, task := range job.Tasks {
			if task.ID == id {
				job.Tasks = append(job.Tasks[:i], job.Tasks[i+1:]...)
				return
			}
		}
	}
}

func (s *AppState) insertPhoto(photo *domain.Photo) {
	task, ok := s.findTask(photo.TaskID)
	if !ok {
		return
	}
	for _, existing := range task.Photos {
		if existing.ID == photo.ID {
			return
		}
	}
	task.Photos = append([]*domain.Photo{photo}, task.Photos...)
}

func (s *AppState) insertNote(note *domain.Note) {
	task, ok := s.findTask(note.TaskID)
	if !ok {
		return
	}
	for _, existing := range task.Notes {
		if existing.ID == note.ID {
			return
		}
	}
	task.Notes = append([]*domain.Note{note}, task.Notes...)
}

func (s *AppState) removeNote(id int64) {
	for _, job := range s.jobs {
		for _, task := range job.Tasks {
			for i, note := range task.Notes {
				if note.ID == id {
					task.Notes = append(task.Notes[:i], task.Notes[i+1:]...)
					return
				}
			}
		}
	}
}

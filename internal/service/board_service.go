package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dkuiper/taskboard/internal/blobstore"
	"github.com/dkuiper/taskboard/internal/domain"
	"github.com/dkuiper/taskboard/internal/event"
)

// MaxPhotoSize bounds a single photo upload.
const MaxPhotoSize = 10 << 20 // 10 MiB

// jobRepository is the subset of store.JobStore that BoardService requires.
type jobRepository interface {
	Create(ctx context.Context, in *domain.JobInput) (*domain.Job, error)
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context) ([]*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id int64) error
}

// taskRepository is the subset of store.TaskStore that BoardService requires.
type taskRepository interface {
	Create(ctx context.Context, in *domain.TaskInput) (*domain.Task, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByTeam(ctx context.Context, teamID string) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

// photoRepository is the subset of store.PhotoStore that BoardService requires.
type photoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) (*domain.Photo, error)
	GetByID(ctx context.Context, id int64) (*domain.Photo, error)
	ListByTaskID(ctx context.Context, taskID int64) ([]*domain.Photo, error)
	UpdateCaption(ctx context.Context, id int64, caption string) error
	Delete(ctx context.Context, id int64) error
}

// noteRepository is the subset of store.NoteStore that BoardService requires.
type noteRepository interface {
	Create(ctx context.Context, taskID int64, content string) (*domain.Note, error)
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
	ListByTaskID(ctx context.Context, taskID int64) ([]*domain.Note, error)
	Delete(ctx context.Context, id int64) error
}

// Broadcaster fans an event out to connected viewers. Implementations must
// never fail the caller; delivery is best-effort.
type Broadcaster interface {
	Broadcast(ev event.Event)
}

// BoardService is the mutation layer: it validates input, writes through
// the entity stores, and hands every committed mutation to the broadcaster
// before returning.
type BoardService struct {
	jobs   jobRepository
	tasks  taskRepository
	photos photoRepository
	notes  noteRepository
	blobs  blobstore.BlobStore
	bcast  Broadcaster
	logger *slog.Logger
}

func NewBoardService(
	jobs jobRepository,
	tasks taskRepository,
	photos photoRepository,
	notes noteRepository,
	blobs blobstore.BlobStore,
	bcast Broadcaster,
	logger *slog.Logger,
) *BoardService {
	return &BoardService{
		jobs:   jobs,
		tasks:  tasks,
		photos: photos,
		notes:  notes,
		blobs:  blobs,
		bcast:  bcast,
		logger: logger,
	}
}

// emit broadcasts after a committed mutation. A broadcast problem must never
// fail the mutation, so marshal errors are only logged.
func (s *BoardService) emit(name event.Name, payload any) {
	ev, err := event.New(name, payload)
	if err != nil {
		s.logger.Error("failed to build broadcast event", "event", name, "error", err)
		return
	}
	s.bcast.Broadcast(ev)
}

// --- Jobs ---

func (s *BoardService) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	return s.jobs.List(ctx)
}

func (s *BoardService) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (s *BoardService) CreateJob(ctx context.Context, in *domain.JobInput) (*domain.Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	job, err := s.jobs.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.emit(event.JobCreated, job)
	return job, nil
}

func (s *BoardService) UpdateJob(ctx context.Context, id int64, update *domain.JobUpdate) (*domain.Job, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(job)
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	job, err = s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(event.JobUpdated, job)
	return job, nil
}

func (s *BoardService) DeleteJob(ctx context.Context, id int64) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(event.JobDeleted, event.Deleted{ID: id})
	return nil
}

// --- Tasks ---

func (s *BoardService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.List(ctx)
}

func (s *BoardService) ListTeamTasks(ctx context.Context, teamID string) ([]*domain.Task, error) {
	return s.tasks.ListByTeam(ctx, teamID)
}

func (s *BoardService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func (s *BoardService) CreateTask(ctx context.Context, in *domain.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &domain.ValidationError{Fields: map[string]string{"jobId": "job does not exist"}}
	}
	task, err := s.tasks.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.emit(event.TaskCreated, task)
	return task, nil
}

func (s *BoardService) UpdateTask(ctx context.Context, id int64, update *domain.TaskUpdate) (*domain.Task, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(task)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	task, err = s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(event.TaskUpdated, task)
	return task, nil
}

func (s *BoardService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(event.TaskDeleted, event.Deleted{ID: id})
	return nil
}

// --- Photos ---

// PhotoUpload carries one incoming photo file. Data may be unbounded; the
// upload is rejected once it runs past MaxPhotoSize.
type PhotoUpload struct {
	OriginalName string
	ContentType  string
	Caption      string
	Data         io.Reader
}

// countingReader tracks how many bytes pass through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// checkImageUpload enforces the allow-list on both the file extension and
// the declared content type, matching what clients are told they may send.
func checkImageUpload(up *PhotoUpload) error {
	ext := strings.ToLower(filepath.Ext(up.OriginalName))
	if !allowedImageExts[ext] {
		return &domain.UploadError{Reason: "only image files are allowed (jpeg, jpg, png, gif)"}
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(up.ContentType, ";")[0]))
	if !allowedImageTypes[declared] {
		return &domain.UploadError{Reason: "only image files are allowed (jpeg, jpg, png, gif)"}
	}
	return nil
}

// UploadPhoto validates the file, writes it to the blob store, records the
// photo entity, and broadcasts photo:uploaded.
func (s *BoardService) UploadPhoto(ctx context.Context, taskID int64, up *PhotoUpload) (*domain.Photo, error) {
	if err := checkImageUpload(up); err != nil {
		return nil, err
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// Cap the file itself, not just the request body. Reading stops one
	// byte past the limit, which is enough to tell an oversize file apart
	// from one that is exactly at it.
	body := &countingReader{r: io.LimitReader(up.Data, MaxPhotoSize+1)}
	filename, err := s.blobs.Save(ctx, up.OriginalName, body)
	if err != nil {
		return nil, fmt.Errorf("failed to save photo blob: %w", err)
	}
	if body.n > MaxPhotoSize {
		if derr := s.blobs.Delete(ctx, filename); derr != nil {
			s.logger.Error("failed to remove oversize photo blob", "filename", filename, "error", derr)
		}
		return nil, &domain.UploadError{Reason: "photo exceeds the 10 MB limit"}
	}
	s.logger.Debug("photo blob saved", "task_id", task.ID, "filename", filename)

	photo, err := s.photos.Create(ctx, &domain.Photo{
		TaskID:       taskID,
		Filename:     filename,
		OriginalName: up.OriginalName,
		Caption:      up.Caption,
		Path:         "/uploads/" + filename,
	})
	if err != nil {
		// Keep the blob store consistent with the database.
		if derr := s.blobs.Delete(ctx, filename); derr != nil {
			s.logger.Error("failed to roll back blob after create error", "filename", filename, "error", derr)
		}
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	s.emit(event.PhotoUploaded, photo)
	return photo, nil
}

func (s *BoardService) ListPhotos(ctx context.Context, taskID int64) ([]*domain.Photo, error) {
	return s.photos.ListByTaskID(ctx, taskID)
}

// UpdatePhotoCaption changes the caption, the only mutable photo field.
// Caption edits are not broadcast; only uploads are.
func (s *BoardService) UpdatePhotoCaption(ctx context.Context, id int64, caption string) (*domain.Photo, error) {
	if err := s.photos.UpdateCaption(ctx, id, caption); err != nil {
		return nil, err
	}
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, domain.ErrNotFound
	}
	return photo, nil
}

// DeletePhoto removes the photo record and makes a best-effort attempt to
// remove the blob; a stale blob is acceptable, a dangling record is not.
func (s *BoardService) DeletePhoto(ctx context.Context, id int64) error {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if photo == nil {
		return domain.ErrNotFound
	}

	if err := s.photos.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, photo.Filename); err != nil {
		s.logger.Warn("failed to delete photo blob", "filename", photo.Filename, "error", err)
	}
	return nil
}

// --- Notes ---

func (s *BoardService) AddNote(ctx context.Context, taskID int64, in *domain.NoteInput) (*domain.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	note, err := s.notes.Create(ctx, taskID, in.Content)
	if err != nil {
		return nil, err
	}
	s.emit(event.NoteAdded, note)
	return note, nil
}

func (s *BoardService) ListNotes(ctx context.Context, taskID int64) ([]*domain.Note, error) {
	return s.notes.ListByTaskID(ctx, taskID)
}

func (s *BoardService) DeleteNote(ctx context.Context, id int64) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(event.NoteDeleted, event.Deleted{ID: id})
	return nil
}

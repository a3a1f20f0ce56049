package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkuiper/taskboard/internal/domain"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, job_id, description, assigned_to, status, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	task := &domain.Task{}
	err := row.Scan(&task.ID, &task.JobID, &task.Description, &task.AssignedTo,
		&task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskStore) Create(ctx context.Context, in *domain.TaskInput) (*domain.Task, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (job_id, description, assigned_to, status)
		VALUES (?, ?, ?, ?)
	`, in.JobID, in.Description, in.AssignedTo, in.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the task with its job, photos, and notes attached, or
// (nil, nil) when the id does not resolve.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ?
	`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.attachAssociations(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns all tasks newest-first, each fully materialized.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return s.listWhere(ctx, "", nil)
}

// ListByTeam returns the tasks assigned to the given team id, across all
// jobs, newest-first.
func (s *TaskStore) ListByTeam(ctx context.Context, teamID string) ([]*domain.Task, error) {
	return s.listWhere(ctx, "WHERE assigned_to = ?", []any{teamID})
}

func (s *TaskStore) listWhere(ctx context.Context, where string, args []any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks `+where+` ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	for _, task := range tasks {
		if err := s.attachAssociations(ctx, task); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *TaskStore) attachAssociations(ctx context.Context, task *domain.Task) error {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE id = ?
	`, task.JobID)
	job, err := scanJob(row)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to get task job: %w", err)
	}
	task.Job = job

	photos := NewPhotoStore(s.db)
	task.Photos, err = photos.ListByTaskID(ctx, task.ID)
	if err != nil {
		return err
	}

	notes := NewNoteStore(s.db)
	task.Notes, err = notes.ListByTaskID(ctx, task.ID)
	if err != nil {
		return err
	}
	return nil
}

// Update writes every mutable column of task back to the row.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET description = ?, assigned_to = ?, status = ?,
			updated_at = datetime('now')
		WHERE id = ?
	`, task.Description, task.AssignedTo, task.Status, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the task; its photos and notes cascade with it.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM tasks WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

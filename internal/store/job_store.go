package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkuiper/taskboard/internal/domain"
)

type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, order_number, hal, plaats, fase, tek_merk, priority,
	pol_dag, prt_dag, prt, pl, metr, remarks, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*domain.Job, error) {
	job := &domain.Job{}
	err := row.Scan(
		&job.ID, &job.OrderNumber, &job.Hal, &job.Plaats, &job.Fase,
		&job.TekMerk, &job.Priority, &job.PolDag, &job.PrtDag, &job.Prt,
		&job.Pl, &job.Metr, &job.Remarks, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobStore) Create(ctx context.Context, in *domain.JobInput) (*domain.Job, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (order_number, hal, plaats, fase, tek_merk, priority,
			pol_dag, prt_dag, prt, pl, metr, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.OrderNumber, in.Hal, in.Plaats, in.Fase, in.TekMerk, in.Priority,
		in.PolDag, in.PrtDag, in.Prt, in.Pl, in.Metr, in.Remarks)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the job with its full task list, or (nil, nil) when the
// id does not resolve.
func (s *JobStore) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	tasks, err := s.tasksForJob(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Tasks = tasks
	return job, nil
}

// List returns all jobs newest-first, each with its full task tree. Clients
// build their entire local state from this one call, so every task carries
// its photos and notes.
func (s *JobStore) List(ctx context.Context) ([]*domain.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	for _, job := range jobs {
		tasks, err := s.tasksForJob(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		job.Tasks = tasks
	}
	return jobs, nil
}

func (s *JobStore) tasksForJob(ctx context.Context, jobID int64) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, description, assigned_to, status, created_at, updated_at
		FROM tasks WHERE job_id = ? ORDER BY created_at DESC, id DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task := &domain.Task{}
		if err := rows.Scan(&task.ID, &task.JobID, &task.Description,
			&task.AssignedTo, &task.Status, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	photos := NewPhotoStore(s.db)
	notes := NewNoteStore(s.db)
	for _, task := range tasks {
		if task.Photos, err = photos.ListByTaskID(ctx, task.ID); err != nil {
			return nil, err
		}
		if task.Notes, err = notes.ListByTaskID(ctx, task.ID); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// Update writes every mutable column of job back to the row.
func (s *JobStore) Update(ctx context.Context, job *domain.Job) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET order_number = ?, hal = ?, plaats = ?, fase = ?,
			tek_merk = ?, priority = ?, pol_dag = ?, prt_dag = ?, prt = ?,
			pl = ?, metr = ?, remarks = ?, updated_at = datetime('now')
		WHERE id = ?
	`, job.OrderNumber, job.Hal, job.Plaats, job.Fase, job.TekMerk,
		job.Priority, job.PolDag, job.PrtDag, job.Prt, job.Pl, job.Metr,
		job.Remarks, job.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
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

// Delete removes the job. Tasks, photos, and notes under it go with it via
// the schema's cascade rules.
func (s *JobStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM jobs WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
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

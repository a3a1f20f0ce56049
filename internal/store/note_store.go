package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkuiper/taskboard/internal/domain"
)

// NoteStore persists task notes. Notes have no update path on purpose:
// once written they can only be deleted.
type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) Create(ctx context.Context, taskID int64, content string) (*domain.Note, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (task_id, content) VALUES (?, ?)
	`, taskID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *NoteStore) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	note := &domain.Note{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, content, created_at FROM notes WHERE id = ?
	`, id).Scan(&note.ID, &note.TaskID, &note.Content, &note.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

func (s *NoteStore) ListByTaskID(ctx context.Context, taskID int64) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, content, created_at FROM notes WHERE task_id = ?
		ORDER BY created_at DESC, id DESC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note := &domain.Note{}
		if err := rows.Scan(&note.ID, &note.TaskID, &note.Content, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}

func (s *NoteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM notes WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
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

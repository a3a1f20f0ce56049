package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkuiper/taskboard/internal/domain"
)

type PhotoStore struct {
	db *sql.DB
}

func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

const photoColumns = `id, task_id, filename, original_name, caption, path, created_at, updated_at`

func scanPhoto(row interface{ Scan(...any) error }) (*domain.Photo, error) {
	photo := &domain.Photo{}
	err := row.Scan(&photo.ID, &photo.TaskID, &photo.Filename, &photo.OriginalName,
		&photo.Caption, &photo.Path, &photo.CreatedAt, &photo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *PhotoStore) Create(ctx context.Context, photo *domain.Photo) (*domain.Photo, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (task_id, filename, original_name, caption, path)
		VALUES (?, ?, ?, ?, ?)
	`, photo.TaskID, photo.Filename, photo.OriginalName, photo.Caption, photo.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PhotoStore) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE id = ?
	`, id)

	photo, err := scanPhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

func (s *PhotoStore) ListByTaskID(ctx context.Context, taskID int64) ([]*domain.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE task_id = ?
		ORDER BY created_at DESC, id DESC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*domain.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}

// UpdateCaption replaces the caption, the only mutable photo field.
func (s *PhotoStore) UpdateCaption(ctx context.Context, id int64, caption string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE photos SET caption = ?, updated_at = datetime('now') WHERE id = ?
	`, caption, id)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
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

func (s *PhotoStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM photos WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
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

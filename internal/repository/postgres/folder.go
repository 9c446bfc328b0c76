package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vocabflash/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// FolderRepo implements repository.FolderRepository
type FolderRepo struct {
	db *sql.DB
}

// NewFolderRepo creates a new folder repository
func NewFolderRepo(db *sql.DB) *FolderRepo {
	return &FolderRepo{db: db}
}

// CreateFolder inserts a folder; names are unique per user
func (r *FolderRepo) CreateFolder(ctx context.Context, f *domain.Folder) error {
	query := `
		INSERT INTO folders (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, f.UserID, f.Name).Scan(&f.ID, &f.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: folder %q already exists", domain.ErrInvalidInput, f.Name)
	}
	return err
}

// GetFolder returns a folder owned by the user
func (r *FolderRepo) GetFolder(ctx context.Context, userID, folderID int64) (*domain.Folder, error) {
	query := `
		SELECT f.id, f.user_id, f.name, f.created_at, COUNT(wf.word_id)
		FROM folders f
		LEFT JOIN word_folders wf ON wf.folder_id = f.id
		WHERE f.id = $1 AND f.user_id = $2
		GROUP BY f.id
	`

	var f domain.Folder
	err := r.db.QueryRowContext(ctx, query, folderID, userID).
		Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt, &f.WordCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// ListFolders returns a page of the user's folders ordered by name
func (r *FolderRepo) ListFolders(ctx context.Context, userID int64, limit, offset int) ([]domain.Folder, error) {
	query := `
		SELECT f.id, f.user_id, f.name, f.created_at, COUNT(wf.word_id)
		FROM folders f
		LEFT JOIN word_folders wf ON wf.folder_id = f.id
		WHERE f.user_id = $1
		GROUP BY f.id
		ORDER BY f.name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt, &f.WordCount); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}

	return folders, rows.Err()
}

// CountFolders returns the total number of folders of the user
func (r *FolderRepo) CountFolders(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// AddWordToFolder links a word to a folder, ignoring existing links
func (r *FolderRepo) AddWordToFolder(ctx context.Context, folderID int64, wordID int) error {
	query := `
		INSERT INTO word_folders (word_id, folder_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, wordID, folderID)
	return err
}

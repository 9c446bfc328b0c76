package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vocabflash/internal/domain"

	"github.com/lib/pq"
)

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// SaveWord inserts a new word and fills in its generated fields
func (r *WordRepo) SaveWord(ctx context.Context, w *domain.Word) error {
	if !w.Difficulty.IsValid() {
		w.Difficulty = domain.DifficultyNew
	}

	query := `
		INSERT INTO words (user_id, word, definition, article, difficulty)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, next_review
	`
	return r.db.QueryRowContext(ctx, query, w.UserID, w.Word, w.Definition, w.Article, w.Difficulty.String()).
		Scan(&w.ID, &w.CreatedAt, &w.NextReview)
}

// ListByUser returns every word of the user with its folder membership
func (r *WordRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Word, error) {
	query := `
		SELECT w.id, w.user_id, w.word, w.definition, w.article, w.created_at,
			w.difficulty, w.review_count, w.correct_count, w.last_reviewed, w.next_review,
			COALESCE(array_agg(wf.folder_id) FILTER (WHERE wf.folder_id IS NOT NULL), '{}') AS folders
		FROM words w
		LEFT JOIN word_folders wf ON wf.word_id = w.id
		WHERE w.user_id = $1
		GROUP BY w.id
		ORDER BY w.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		var (
			w            domain.Word
			difficulty   string
			lastReviewed sql.NullTime
			folders      []int64
		)
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Word, &w.Definition, &w.Article, &w.CreatedAt,
			&difficulty, &w.ReviewCount, &w.CorrectCount, &lastReviewed, &w.NextReview,
			pq.Array(&folders),
		); err != nil {
			return nil, err
		}

		w.Difficulty, err = domain.ParseDifficulty(difficulty)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", w.ID, err)
		}
		if lastReviewed.Valid {
			w.LastReviewed = &lastReviewed.Time
		}
		w.Folders = folders
		words = append(words, w)
	}

	return words, rows.Err()
}

// UpdateProgress writes the review state of a word after an answer
func (r *WordRepo) UpdateProgress(ctx context.Context, w domain.Word) error {
	query := `
		UPDATE words
		SET difficulty = $1, next_review = $2, last_reviewed = $3, review_count = $4, correct_count = $5
		WHERE id = $6 AND user_id = $7
	`

	var lastReviewed sql.NullTime
	if w.LastReviewed != nil {
		lastReviewed = sql.NullTime{Time: *w.LastReviewed, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query,
		w.Difficulty.String(), w.NextReview, lastReviewed, w.ReviewCount, w.CorrectCount, w.ID, w.UserID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("word %d: %w", w.ID, domain.ErrNotFound)
	}
	return nil
}

// CountDue returns how many words are due for quick study right now
func (r *WordRepo) CountDue(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM words
		WHERE user_id = $1
			AND (last_reviewed IS NULL OR next_review <= NOW())
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"vocabflash/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wordColumns = []string{
	"id", "user_id", "word", "definition", "article", "created_at",
	"difficulty", "review_count", "correct_count", "last_reviewed", "next_review", "folders",
}

func TestWordRepo_SaveWord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	word := &domain.Word{UserID: 123, Word: "Haus", Definition: "house", Article: "das"}

	mock.ExpectQuery("INSERT INTO words \\(user_id, word, definition, article, difficulty\\)").
		WithArgs(int64(123), "Haus", "house", "das", "new").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "next_review"}).AddRow(7, created, created))

	err = repo.SaveWord(context.Background(), word)

	assert.NoError(t, err)
	assert.Equal(t, 7, word.ID)
	assert.Equal(t, domain.DifficultyNew, word.Difficulty)
	assert.Equal(t, created, word.NextReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(wordColumns).
		AddRow(1, int64(123), "hello", "привет", "", now, "new", 0, 0, nil, now, "{}").
		AddRow(2, int64(123), "Haus", "house", "das", now, "review", 6, 5, now.Add(-time.Hour), now.Add(48*time.Hour), "{3,9}")

	mock.ExpectQuery("SELECT w.id, w.user_id, w.word, w.definition, w.article, w.created_at, w.difficulty, .* FROM words w LEFT JOIN word_folders wf ON wf.word_id = w.id WHERE w.user_id = \\$1").
		WithArgs(int64(123)).
		WillReturnRows(rows)

	words, err := repo.ListByUser(context.Background(), 123)

	require.NoError(t, err)
	require.Len(t, words, 2)

	assert.Equal(t, "hello", words[0].Word)
	assert.Equal(t, domain.DifficultyNew, words[0].Difficulty)
	assert.Nil(t, words[0].LastReviewed)
	assert.Empty(t, words[0].Folders)

	assert.Equal(t, "das Haus", words[1].DisplayWord())
	assert.Equal(t, domain.DifficultyReview, words[1].Difficulty)
	assert.Equal(t, 6, words[1].ReviewCount)
	assert.Equal(t, 5, words[1].CorrectCount)
	require.NotNil(t, words[1].LastReviewed)
	assert.Equal(t, now.Add(-time.Hour), *words[1].LastReviewed)
	assert.Equal(t, []int64{3, 9}, words[1].Folders)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListByUser_InvalidDifficulty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows(wordColumns).
		AddRow(1, int64(123), "hello", "привет", "", now, "expert", 0, 0, nil, now, "{}")

	mock.ExpectQuery("SELECT w.id").WithArgs(int64(123)).WillReturnRows(rows)

	words, err := repo.ListByUser(context.Background(), 123)

	assert.True(t, errors.Is(err, domain.ErrInvalidDifficulty))
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListByUser_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("SELECT w.id").WithArgs(int64(123)).WillReturnError(fmt.Errorf("query error"))

	words, err := repo.ListByUser(context.Background(), 123)

	assert.Error(t, err)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListByUser_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	// Wrong column type to cause scan error
	now := time.Now()
	rows := sqlmock.NewRows(wordColumns).
		AddRow("invalid", int64(123), "hello", "привет", "", now, "new", 0, 0, nil, now, "{}")

	mock.ExpectQuery("SELECT w.id").WithArgs(int64(123)).WillReturnRows(rows)

	words, err := repo.ListByUser(context.Background(), 123)

	assert.Error(t, err)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_UpdateProgress(t *testing.T) {
	reviewed := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	word := domain.Word{
		ID:           5,
		UserID:       123,
		Difficulty:   domain.DifficultyLearning,
		ReviewCount:  3,
		CorrectCount: 2,
		LastReviewed: &reviewed,
		NextReview:   reviewed.Add(72 * time.Hour),
	}

	tests := []struct {
		name         string
		affected     int64
		mockError    error
		expectedErr  error
		expectAnyErr bool
	}{
		{name: "updated", affected: 1},
		{name: "word missing", affected: 0, expectedErr: domain.ErrNotFound},
		{name: "database error", mockError: fmt.Errorf("connection reset"), expectAnyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)

			exp := mock.ExpectExec("UPDATE words SET difficulty = \\$1, next_review = \\$2, last_reviewed = \\$3, review_count = \\$4, correct_count = \\$5 WHERE id = \\$6 AND user_id = \\$7").
				WithArgs("learning", word.NextReview, reviewed, 3, 2, 5, int64(123))
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err = repo.UpdateProgress(context.Background(), word)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.expectAnyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_CountDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM words WHERE user_id = \\$1 AND \\(last_reviewed IS NULL OR next_review <= NOW\\(\\)\\)").
		WithArgs(int64(123)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	count, err := repo.CountDue(context.Background(), 123)

	assert.NoError(t, err)
	assert.Equal(t, 14, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

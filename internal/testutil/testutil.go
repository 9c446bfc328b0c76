package testutil

import (
	"time"

	"vocabflash/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
}

// NewTestWord creates a never reviewed test word
func NewTestWord(id int, userID int64, word, definition string) *domain.Word {
	now := time.Now()
	return &domain.Word{
		ID:         id,
		UserID:     userID,
		Word:       word,
		Definition: definition,
		CreatedAt:  now,
		Difficulty: domain.DifficultyNew,
		NextReview: now,
	}
}

// NewTestFolder creates a test folder
func NewTestFolder(id, userID int64, name string) *domain.Folder {
	return &domain.Folder{
		ID:        id,
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

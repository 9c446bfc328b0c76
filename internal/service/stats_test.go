package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vocabflash/internal/domain"
	"vocabflash/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendReminder(userID int64, dueCount int) error {
	args := m.Called(userID, dueCount)
	return args.Error(0)
}

func TestStatsService_Summary(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	words := []domain.Word{
		{ID: 1, Difficulty: domain.DifficultyNew, NextReview: now},
		{ID: 2, Difficulty: domain.DifficultyLearning, ReviewCount: 4, CorrectCount: 1, LastReviewed: &yesterday, NextReview: now.Add(time.Hour)},
		{ID: 3, Difficulty: domain.DifficultyReview, ReviewCount: 6, CorrectCount: 5, LastReviewed: &yesterday, NextReview: now.Add(-time.Hour)},
		{ID: 4, Difficulty: domain.DifficultyMastered, ReviewCount: 12, CorrectCount: 12, LastReviewed: &yesterday, NextReview: now.Add(30 * 24 * time.Hour)},
	}

	mockWords := new(testutil.MockWordRepository)
	mockWords.On("ListByUser", mock.Anything, int64(123)).Return(words, nil)

	service := NewStatsService(new(testutil.MockUserRepository), mockWords, testutil.NewTestLogger())
	service.now = func() time.Time { return now }

	summary, err := service.Summary(context.Background(), 123)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.ByDifficulty[domain.DifficultyNew])
	assert.Equal(t, 1, summary.ByDifficulty[domain.DifficultyMastered])
	assert.Equal(t, 0, summary.ByDifficulty[domain.DifficultyFailed])
	assert.Equal(t, 2, summary.Due)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 22, summary.Reviews)
	assert.Equal(t, 18, summary.Correct)
	assert.InDelta(t, 18.0/22.0, summary.Accuracy(), 1e-9)
	mockWords.AssertExpectations(t)
}

func TestStatsService_Summary_NoWords(t *testing.T) {
	mockWords := new(testutil.MockWordRepository)
	mockWords.On("ListByUser", mock.Anything, int64(123)).Return([]domain.Word{}, nil)

	service := NewStatsService(new(testutil.MockUserRepository), mockWords, testutil.NewTestLogger())

	summary, err := service.Summary(context.Background(), 123)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.Accuracy())
}

func TestStatsService_Summary_Error(t *testing.T) {
	mockWords := new(testutil.MockWordRepository)
	mockWords.On("ListByUser", mock.Anything, int64(123)).Return(nil, fmt.Errorf("db error"))

	service := NewStatsService(new(testutil.MockUserRepository), mockWords, testutil.NewTestLogger())

	_, err := service.Summary(context.Background(), 123)

	assert.Error(t, err)
}

func TestStatsService_SendDueReminders(t *testing.T) {
	mockUsers := new(testutil.MockUserRepository)
	mockWords := new(testutil.MockWordRepository)
	notifier := new(mockNotifier)

	mockUsers.On("ListAuthorized", mock.Anything).Return([]int64{1, 2, 3, 4}, nil)
	mockWords.On("CountDue", mock.Anything, int64(1)).Return(5, nil)
	mockWords.On("CountDue", mock.Anything, int64(2)).Return(0, nil)
	mockWords.On("CountDue", mock.Anything, int64(3)).Return(0, fmt.Errorf("db error"))
	mockWords.On("CountDue", mock.Anything, int64(4)).Return(2, nil)
	notifier.On("SendReminder", int64(1), 5).Return(nil)
	notifier.On("SendReminder", int64(4), 2).Return(fmt.Errorf("bot was blocked by the user"))

	service := NewStatsService(mockUsers, mockWords, testutil.NewTestLogger())

	sent, err := service.SendDueReminders(context.Background(), notifier)

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	notifier.AssertNotCalled(t, "SendReminder", int64(2), mock.Anything)
	mockUsers.AssertExpectations(t)
	mockWords.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestStatsService_SendDueReminders_ListError(t *testing.T) {
	mockUsers := new(testutil.MockUserRepository)
	mockUsers.On("ListAuthorized", mock.Anything).Return(nil, fmt.Errorf("db error"))

	service := NewStatsService(mockUsers, new(testutil.MockWordRepository), testutil.NewTestLogger())

	sent, err := service.SendDueReminders(context.Background(), new(mockNotifier))

	assert.Error(t, err)
	assert.Equal(t, 0, sent)
}

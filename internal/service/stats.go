package service

import (
	"context"
	"fmt"
	"time"

	"vocabflash/internal/domain"
	"vocabflash/internal/repository"
	"vocabflash/internal/srs"

	"go.uber.org/zap"
)

// Notifier delivers a due-words reminder to a user
type Notifier interface {
	SendReminder(userID int64, dueCount int) error
}

// Summary is a user's learning progress
type Summary struct {
	Total        int
	ByDifficulty map[domain.Difficulty]int
	Due          int
	Failed       int
	Reviews      int
	Correct      int
}

// Accuracy returns the lifetime share of correct answers
func (s Summary) Accuracy() float64 {
	if s.Reviews == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Reviews)
}

// StatsService handles statistics and reminders
type StatsService struct {
	userRepo repository.UserRepository
	wordRepo repository.WordRepository
	now      func() time.Time
	logger   *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(userRepo repository.UserRepository, wordRepo repository.WordRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		userRepo: userRepo,
		wordRepo: wordRepo,
		now:      time.Now,
		logger:   logger,
	}
}

// Summary computes the progress of a user over all words
func (s *StatsService) Summary(ctx context.Context, userID int64) (Summary, error) {
	words, err := s.wordRepo.ListByUser(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load words: %w", err)
	}

	now := s.now()
	summary := Summary{ByDifficulty: make(map[domain.Difficulty]int, len(domain.Difficulties()))}
	for _, w := range words {
		summary.Total++
		summary.ByDifficulty[w.Difficulty]++
		summary.Reviews += w.ReviewCount
		summary.Correct += w.CorrectCount
		if srs.IsDue(w, now) {
			summary.Due++
		}
		if srs.IsFailed(w) {
			summary.Failed++
		}
	}

	return summary, nil
}

// SendDueReminders notifies every authorized user that has due words.
// Per-user failures are logged and skipped.
func (s *StatsService) SendDueReminders(ctx context.Context, notifier Notifier) (int, error) {
	userIDs, err := s.userRepo.ListAuthorized(ctx)
	if err != nil {
		s.logger.Error("Failed to list authorized users", zap.Error(err))
		return 0, err
	}

	sent := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		due, err := s.wordRepo.CountDue(ctx, userID)
		if err != nil {
			s.logger.Warn("Failed to count due words", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		if due == 0 {
			continue
		}

		if err := notifier.SendReminder(userID, due); err != nil {
			s.logger.Warn("Failed to send reminder", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("Due reminders sent", zap.Int("users", len(userIDs)), zap.Int("sent", sent))
	return sent, nil
}

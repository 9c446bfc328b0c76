package srs

import (
	"fmt"
	"time"

	"vocabflash/internal/domain"
)

// FailedAccuracyThreshold is the accuracy below which a reviewed word
// counts as failed for the "failed" study type.
const FailedAccuracyThreshold = 0.5

// SelectCandidates filters words for a study session.
// The output keeps input order and is never longer than the input.
func SelectCandidates(words []domain.Word, cfg domain.StudyConfig, now time.Time) ([]domain.Word, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	match, err := typeFilter(cfg.StudyType, now)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Word, 0, len(words))
	for _, w := range words {
		if !inScope(w, cfg) {
			continue
		}
		if match(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// SelectDue returns words that were never reviewed or whose review date has passed.
// Used for quick study independently of any StudyConfig.
func SelectDue(words []domain.Word, now time.Time) []domain.Word {
	out := make([]domain.Word, 0, len(words))
	for _, w := range words {
		if IsDue(w, now) {
			out = append(out, w)
		}
	}
	return out
}

// IsDue reports whether w belongs in a quick study session at now
func IsDue(w domain.Word, now time.Time) bool {
	return w.LastReviewed == nil || !w.NextReview.After(now)
}

// IsFailed reports whether w has been answered and is below FailedAccuracyThreshold
func IsFailed(w domain.Word) bool {
	return w.ReviewCount > 0 && w.Accuracy() < FailedAccuracyThreshold
}

func inScope(w domain.Word, cfg domain.StudyConfig) bool {
	if cfg.FolderID == nil {
		return true
	}
	if !w.InFolder(*cfg.FolderID) {
		return false
	}
	return !excludedFromFolderPractice(w, cfg)
}

// excludedFromFolderPractice: folder practice skips words that are already mastered
func excludedFromFolderPractice(w domain.Word, cfg domain.StudyConfig) bool {
	return cfg.FolderPractice && w.Difficulty == domain.DifficultyMastered
}

func typeFilter(t domain.StudyType, now time.Time) (func(domain.Word) bool, error) {
	switch t {
	case domain.StudyAll:
		return func(domain.Word) bool { return true }, nil
	case domain.StudyReview:
		return func(w domain.Word) bool { return !w.NextReview.After(now) }, nil
	case domain.StudyNew:
		return byDifficulty(domain.DifficultyNew), nil
	case domain.StudyLearning:
		return byDifficulty(domain.DifficultyLearning), nil
	case domain.StudyMastered:
		return byDifficulty(domain.DifficultyMastered), nil
	case domain.StudyFailed:
		return IsFailed, nil
	}
	return nil, fmt.Errorf("%w: unknown study type %q", domain.ErrInvalidConfig, t)
}

func byDifficulty(d domain.Difficulty) func(domain.Word) bool {
	return func(w domain.Word) bool { return w.Difficulty == d }
}

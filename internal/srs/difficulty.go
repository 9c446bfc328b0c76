package srs

import "vocabflash/internal/domain"

const (
	// Correct answers needed to leave learning for review.
	learningToReviewCorrect = 3
	// Correct answers needed to leave review for mastered.
	reviewToMasteredCorrect = 10
)

// NextDifficulty returns the mastery state after an answer.
// newCorrectCount is the word's correct count after this answer was counted.
// A difficulty outside the five known states is returned unchanged; such
// values are rejected by domain.ParseDifficulty before they reach here.
func NextDifficulty(current domain.Difficulty, isCorrect bool, newCorrectCount int) domain.Difficulty {
	if isCorrect {
		switch current {
		case domain.DifficultyNew, domain.DifficultyFailed:
			return domain.DifficultyLearning
		case domain.DifficultyLearning:
			if newCorrectCount >= learningToReviewCorrect {
				return domain.DifficultyReview
			}
			return domain.DifficultyLearning
		case domain.DifficultyReview:
			if newCorrectCount >= reviewToMasteredCorrect {
				return domain.DifficultyMastered
			}
			return domain.DifficultyReview
		case domain.DifficultyMastered:
			return domain.DifficultyMastered
		}
		return current
	}

	// Demote by at most one step
	switch current {
	case domain.DifficultyMastered:
		return domain.DifficultyReview
	case domain.DifficultyReview:
		return domain.DifficultyLearning
	}
	return current
}

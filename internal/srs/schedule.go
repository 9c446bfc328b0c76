package srs

import (
	"time"

	"vocabflash/internal/domain"
)

const day = 24 * time.Hour

type intervalPair struct {
	correct   time.Duration
	incorrect time.Duration
}

var intervals = map[domain.Difficulty]intervalPair{
	domain.DifficultyNew:      {correct: day, incorrect: day / 2},
	domain.DifficultyLearning: {correct: 3 * day, incorrect: day},
	domain.DifficultyReview:   {correct: 7 * day, incorrect: 2 * day},
	domain.DifficultyMastered: {correct: 30 * day, incorrect: 7 * day},
	domain.DifficultyFailed:   {correct: day, incorrect: day / 2},
}

// ReviewInterval returns the delay before the next review.
// Unknown difficulties are scheduled like new words, so the next review
// still lands after the answer.
func ReviewInterval(current domain.Difficulty, isCorrect bool) time.Duration {
	p, ok := intervals[current]
	if !ok {
		p = intervals[domain.DifficultyNew]
	}
	if isCorrect {
		return p.correct
	}
	return p.incorrect
}

// NextReviewDate returns when the word becomes due again.
// current must be the difficulty before the answer was applied.
func NextReviewDate(current domain.Difficulty, isCorrect bool, now time.Time) time.Time {
	return now.Add(ReviewInterval(current, isCorrect))
}

// ApplyAnswer returns a copy of w updated for one answer at now.
// Difficulty and next review are both derived from the pre-answer snapshot.
func ApplyAnswer(w domain.Word, isCorrect bool, now time.Time) domain.Word {
	out := w
	out.Folders = append([]int64(nil), w.Folders...)

	out.ReviewCount = w.ReviewCount + 1
	out.CorrectCount = w.CorrectCount
	if isCorrect {
		out.CorrectCount++
	}
	out.Difficulty = NextDifficulty(w.Difficulty, isCorrect, out.CorrectCount)
	out.NextReview = NextReviewDate(w.Difficulty, isCorrect, now)

	reviewed := now
	out.LastReviewed = &reviewed
	return out
}

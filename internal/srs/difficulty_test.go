package srs

import (
	"testing"
	"time"

	"vocabflash/internal/domain"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name            string
		current         domain.Difficulty
		isCorrect       bool
		newCorrectCount int
		expected        domain.Difficulty
	}{
		{name: "new correct", current: domain.DifficultyNew, isCorrect: true, newCorrectCount: 1, expected: domain.DifficultyLearning},
		{name: "learning correct below threshold", current: domain.DifficultyLearning, isCorrect: true, newCorrectCount: 2, expected: domain.DifficultyLearning},
		{name: "learning correct at threshold", current: domain.DifficultyLearning, isCorrect: true, newCorrectCount: 3, expected: domain.DifficultyReview},
		{name: "review correct below threshold", current: domain.DifficultyReview, isCorrect: true, newCorrectCount: 9, expected: domain.DifficultyReview},
		{name: "review correct at threshold", current: domain.DifficultyReview, isCorrect: true, newCorrectCount: 10, expected: domain.DifficultyMastered},
		{name: "mastered correct", current: domain.DifficultyMastered, isCorrect: true, newCorrectCount: 25, expected: domain.DifficultyMastered},
		{name: "failed correct", current: domain.DifficultyFailed, isCorrect: true, newCorrectCount: 2, expected: domain.DifficultyLearning},
		{name: "new incorrect", current: domain.DifficultyNew, isCorrect: false, expected: domain.DifficultyNew},
		{name: "learning incorrect", current: domain.DifficultyLearning, isCorrect: false, newCorrectCount: 2, expected: domain.DifficultyLearning},
		{name: "review incorrect", current: domain.DifficultyReview, isCorrect: false, newCorrectCount: 5, expected: domain.DifficultyLearning},
		{name: "mastered incorrect", current: domain.DifficultyMastered, isCorrect: false, newCorrectCount: 12, expected: domain.DifficultyReview},
		{name: "failed incorrect", current: domain.DifficultyFailed, isCorrect: false, expected: domain.DifficultyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NextDifficulty(tt.current, tt.isCorrect, tt.newCorrectCount)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNextDifficulty_Totality(t *testing.T) {
	for _, d := range domain.Difficulties() {
		for _, correct := range []bool{true, false} {
			for count := 0; count <= 12; count++ {
				next := NextDifficulty(d, correct, count)
				assert.True(t, next.IsValid(), "%s/%v/%d produced %s", d, correct, count, next)
			}
		}
	}
}

func TestNextDifficulty_UnknownIsUnchanged(t *testing.T) {
	unknown := domain.Difficulty(99)

	assert.Equal(t, unknown, NextDifficulty(unknown, true, 50))
	assert.Equal(t, unknown, NextDifficulty(unknown, false, 0))
}

func TestNextDifficulty_DemotionNeverSkips(t *testing.T) {
	rank := map[domain.Difficulty]int{
		domain.DifficultyNew:      0,
		domain.DifficultyLearning: 1,
		domain.DifficultyReview:   2,
		domain.DifficultyMastered: 3,
	}

	for d, r := range rank {
		next := NextDifficulty(d, false, 20)
		assert.GreaterOrEqual(t, rank[next], r-1, "%s demoted to %s", d, next)
		assert.LessOrEqual(t, rank[next], r)
	}
	assert.Equal(t, domain.DifficultyReview, NextDifficulty(domain.DifficultyMastered, false, 0))
}

func TestApplyAnswer(t *testing.T) {
	last := t0.Add(-72 * time.Hour)
	word := domain.Word{
		ID:           7,
		Difficulty:   domain.DifficultyLearning,
		ReviewCount:  4,
		CorrectCount: 2,
		LastReviewed: &last,
		NextReview:   t0.Add(-time.Hour),
		Folders:      []int64{1},
	}

	t.Run("correct answer promotes and uses pre-answer interval", func(t *testing.T) {
		updated := ApplyAnswer(word, true, t0)

		assert.Equal(t, 5, updated.ReviewCount)
		assert.Equal(t, 3, updated.CorrectCount)
		assert.Equal(t, domain.DifficultyReview, updated.Difficulty)
		// learning+correct interval, not review+correct
		assert.Equal(t, t0.Add(3*24*time.Hour), updated.NextReview)
		assert.Equal(t, t0, *updated.LastReviewed)
	})

	t.Run("incorrect answer keeps correct count", func(t *testing.T) {
		updated := ApplyAnswer(word, false, t0)

		assert.Equal(t, 5, updated.ReviewCount)
		assert.Equal(t, 2, updated.CorrectCount)
		assert.Equal(t, domain.DifficultyLearning, updated.Difficulty)
		assert.Equal(t, t0.Add(24*time.Hour), updated.NextReview)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		updated := ApplyAnswer(word, true, t0)
		updated.Folders[0] = 99

		assert.Equal(t, 4, word.ReviewCount)
		assert.Equal(t, last, *word.LastReviewed)
		assert.Equal(t, int64(1), word.Folders[0])
	})
}

package domain

import (
	"encoding"
	"fmt"
	"time"
)

// Word represents a word-definition pair together with its review progress
type Word struct {
	ID         int
	UserID     int64
	Word       string
	Definition string
	Article    string // Optional, e.g. "der" / "die" / "das"
	CreatedAt  time.Time

	Difficulty   Difficulty
	ReviewCount  int
	CorrectCount int
	LastReviewed *time.Time // nil if never reviewed
	NextReview   time.Time

	Folders []int64
}

// InFolder reports whether the word belongs to the folder
func (w Word) InFolder(folderID int64) bool {
	for _, id := range w.Folders {
		if id == folderID {
			return true
		}
	}
	return false
}

// Accuracy returns the share of correct answers, 0 for never reviewed words
func (w Word) Accuracy() float64 {
	if w.ReviewCount == 0 {
		return 0
	}
	return float64(w.CorrectCount) / float64(w.ReviewCount)
}

// DisplayWord returns the word with its article, if any
func (w Word) DisplayWord() string {
	if w.Article == "" {
		return w.Word
	}
	return w.Article + " " + w.Word
}

// Difficulty is the mastery state of a word
type Difficulty int

const (
	DifficultyNew Difficulty = iota + 1
	DifficultyLearning
	DifficultyReview
	DifficultyMastered
	DifficultyFailed
)

var (
	difficultyNames = [...]string{
		DifficultyNew:      "new",
		DifficultyLearning: "learning",
		DifficultyReview:   "review",
		DifficultyMastered: "mastered",
		DifficultyFailed:   "failed",
	}
	difficultyByName = map[string]Difficulty{
		"new":      DifficultyNew,
		"learning": DifficultyLearning,
		"review":   DifficultyReview,
		"mastered": DifficultyMastered,
		"failed":   DifficultyFailed,
	}
)

var (
	_ fmt.Stringer             = Difficulty(0)
	_ encoding.TextMarshaler   = Difficulty(0)
	_ encoding.TextUnmarshaler = (*Difficulty)(nil)
)

// Difficulties lists all difficulty values in declaration order
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyNew, DifficultyLearning, DifficultyReview, DifficultyMastered, DifficultyFailed}
}

// IsValid reports whether d is one of the known difficulties
func (d Difficulty) IsValid() bool {
	return d >= DifficultyNew && d <= DifficultyFailed
}

func (d Difficulty) String() string {
	if d.IsValid() {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}
	return []byte(difficultyNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDifficulty converts the stored string form into a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d, ok := difficultyByName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

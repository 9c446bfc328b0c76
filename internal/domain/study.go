package domain

import "fmt"

// StudyType selects which words a study session draws from
type StudyType string

const (
	StudyAll      StudyType = "all"
	StudyNew      StudyType = "new"
	StudyLearning StudyType = "learning"
	StudyReview   StudyType = "review"
	StudyMastered StudyType = "mastered"
	StudyFailed   StudyType = "failed"
)

// StudyTypes lists the recognized study types in menu order
func StudyTypes() []StudyType {
	return []StudyType{StudyAll, StudyNew, StudyLearning, StudyReview, StudyMastered, StudyFailed}
}

// IsValid reports whether t is a recognized study type
func (t StudyType) IsValid() bool {
	switch t {
	case StudyAll, StudyNew, StudyLearning, StudyReview, StudyMastered, StudyFailed:
		return true
	}
	return false
}

// ParseStudyType converts callback or config text into a StudyType
func ParseStudyType(s string) (StudyType, error) {
	t := StudyType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStudyType, s)
	}
	return t, nil
}

// StudyConfig describes a single study session request
type StudyConfig struct {
	StudyType  StudyType
	FolderID   *int64 // nil means all words
	FolderName string // display only

	// FolderPractice excludes mastered words from a folder-scoped session.
	// Ignored when FolderID is nil.
	FolderPractice bool
}

// Validate checks that the config only uses recognized values
func (c StudyConfig) Validate() error {
	if !c.StudyType.IsValid() {
		return fmt.Errorf("%w: unknown study type %q", ErrInvalidConfig, c.StudyType)
	}
	return nil
}

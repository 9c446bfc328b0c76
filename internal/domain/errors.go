package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid study config")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidStudyType  = errors.New("invalid study type")
	ErrPersistFailure    = errors.New("failed to persist word progress")
	ErrSessionNotActive  = errors.New("study session is not in progress")
	ErrStaleAnswer       = errors.New("answer is not for the current card")
)

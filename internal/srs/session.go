package srs

import (
	"context"
	"fmt"
	"time"

	"vocabflash/internal/domain"

	"go.uber.org/zap"
)

// State is the lifecycle state of a study session
type State int

const (
	StateLoading State = iota
	StateInProgress
	StateComplete
	// StateEmpty means selection found nothing to study. It is not Complete.
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	case StateEmpty:
		return "empty"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stats holds the running counters of a session
type Stats struct {
	Correct int
	Total   int
}

// Accuracy returns Correct/Total, or 0 before the first answer
func (s Stats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// ProgressWriter persists a word's review progress after an answer
type ProgressWriter interface {
	UpdateProgress(ctx context.Context, word domain.Word) error
}

// SessionOptions configures a Session. Zero values produce defaults.
type SessionOptions struct {
	Limit    int              // zero → DefaultLimit
	Policy   Policy           // empty → PolicyWeighted
	Composer *Composer        // nil → time-seeded composer
	Now      func() time.Time // nil → time.Now
	Logger   *zap.Logger      // nil → no-op logger
}

// Session runs a single pass over an ordered set of words.
// It is not safe for concurrent use.
type Session struct {
	writer   ProgressWriter
	composer *Composer
	limit    int
	policy   Policy
	now      func() time.Time
	logger   *zap.Logger

	state        State
	config       domain.StudyConfig
	words        []domain.Word
	index        int
	stats        Stats
	lastActivity time.Time
}

// NewSession creates a session in the loading state
func NewSession(writer ProgressWriter, opts SessionOptions) *Session {
	s := &Session{
		writer:   writer,
		composer: opts.Composer,
		limit:    opts.Limit,
		policy:   opts.Policy,
		now:      opts.Now,
		logger:   opts.Logger,
		state:    StateLoading,
	}
	if s.composer == nil {
		s.composer = NewComposer(nil)
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	if s.policy == "" {
		s.policy = PolicyWeighted
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.lastActivity = s.now()
	return s
}

// Start selects and orders words for cfg and moves the session to
// StateInProgress, or to StateEmpty when nothing matches.
func (s *Session) Start(words []domain.Word, cfg domain.StudyConfig) error {
	if s.state != StateLoading {
		return fmt.Errorf("%w: session already started", domain.ErrInvalidInput)
	}

	now := s.now()
	candidates, err := SelectCandidates(words, cfg, now)
	if err != nil {
		return err
	}

	s.config = cfg
	s.begin(s.composer.ComposeOrder(candidates, now, s.limit, s.policy), now)
	return nil
}

// StartDue starts a quick study session over every due word, earliest first
func (s *Session) StartDue(words []domain.Word) error {
	if s.state != StateLoading {
		return fmt.Errorf("%w: session already started", domain.ErrInvalidInput)
	}

	now := s.now()
	s.config = domain.StudyConfig{StudyType: domain.StudyAll}
	s.begin(s.composer.ComposeOrder(SelectDue(words, now), now, s.limit, PolicyDueDate), now)
	return nil
}

func (s *Session) begin(ordered []domain.Word, now time.Time) {
	s.words = ordered
	s.index = 0
	s.stats = Stats{}
	s.lastActivity = now
	if len(ordered) == 0 {
		s.state = StateEmpty
		return
	}
	s.state = StateInProgress
}

// Current returns the word waiting for an answer
func (s *Session) Current() (domain.Word, bool) {
	if s.state != StateInProgress {
		return domain.Word{}, false
	}
	return s.words[s.index], true
}

// Answer records the answer for the current word and persists its progress.
// Counters and position only advance once the write succeeds. A failed write
// is retried once; after that ErrPersistFailure is returned and the same word
// stays current.
func (s *Session) Answer(ctx context.Context, isCorrect bool) (domain.Word, error) {
	if s.state != StateInProgress {
		return domain.Word{}, fmt.Errorf("%w: state %s", domain.ErrSessionNotActive, s.state)
	}

	now := s.now()
	updated := ApplyAnswer(s.words[s.index], isCorrect, now)

	if err := s.persist(ctx, updated); err != nil {
		return domain.Word{}, err
	}

	s.words[s.index] = updated
	s.stats.Total++
	if isCorrect {
		s.stats.Correct++
	}
	s.lastActivity = now

	s.index++
	if s.index >= len(s.words) {
		s.state = StateComplete
	}
	return updated, nil
}

func (s *Session) persist(ctx context.Context, w domain.Word) error {
	err := s.writer.UpdateProgress(ctx, w)
	if err == nil {
		return nil
	}

	s.logger.Warn("Failed to persist word progress, retrying",
		zap.Int("word_id", w.ID),
		zap.Error(err),
	)

	if err := s.writer.UpdateProgress(ctx, w); err != nil {
		return fmt.Errorf("%w: word %d: %w", domain.ErrPersistFailure, w.ID, err)
	}
	return nil
}

// State returns the lifecycle state
func (s *Session) State() State { return s.state }

// IsComplete reports whether every word has been answered
func (s *Session) IsComplete() bool { return s.state == StateComplete }

// IsEmpty reports whether the session started with nothing to study
func (s *Session) IsEmpty() bool { return s.state == StateEmpty }

// Stats returns the counters accumulated so far
func (s *Session) Stats() Stats { return s.stats }

// Config returns the study config the session was started with
func (s *Session) Config() domain.StudyConfig { return s.config }

// Position returns the 0-based index of the current word and the session length
func (s *Session) Position() (int, int) { return s.index, len(s.words) }

// LastActivity returns when the session last started or accepted an answer
func (s *Session) LastActivity() time.Time { return s.lastActivity }

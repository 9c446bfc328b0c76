package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vocabflash/internal/domain"
	"vocabflash/internal/repository"
	"vocabflash/internal/srs"

	"go.uber.org/zap"
)

// persistTimeout bounds a single progress write, retry included
const persistTimeout = 5 * time.Second

// StudyProgress is a snapshot of a user's study session
type StudyProgress struct {
	State    srs.State
	Current  domain.Word // zero unless State is StateInProgress
	Position int         // 0-based index of Current
	Total    int
	Stats    srs.Stats
	Config   domain.StudyConfig
}

// studyEntry guards one session; srs.Session itself is not goroutine safe
type studyEntry struct {
	mu      sync.Mutex
	session *srs.Session
}

// StudyService runs study sessions, one per user
type StudyService struct {
	wordRepo   repository.WordRepository
	folderRepo repository.FolderRepository
	composer   *srs.Composer
	limit      int
	policy     srs.Policy
	now        func() time.Time
	logger     *zap.Logger

	sessions   map[int64]*studyEntry
	sessionMux sync.RWMutex
}

// NewStudyService creates a new study service
func NewStudyService(
	wordRepo repository.WordRepository,
	folderRepo repository.FolderRepository,
	limit int,
	policy srs.Policy,
	logger *zap.Logger,
) *StudyService {
	return &StudyService{
		wordRepo:   wordRepo,
		folderRepo: folderRepo,
		composer:   srs.NewComposer(nil),
		limit:      limit,
		policy:     policy,
		now:        time.Now,
		logger:     logger,
		sessions:   make(map[int64]*studyEntry),
	}
}

// Start begins a new session for cfg, replacing any running one.
// An empty selection is reported through StateEmpty, not as an error.
func (s *StudyService) Start(ctx context.Context, userID int64, cfg domain.StudyConfig) (StudyProgress, error) {
	if err := cfg.Validate(); err != nil {
		return StudyProgress{}, err
	}

	if cfg.FolderID != nil {
		folder, err := s.folderRepo.GetFolder(ctx, userID, *cfg.FolderID)
		if errors.Is(err, domain.ErrNotFound) {
			return StudyProgress{}, fmt.Errorf("%w: unknown folder %d", domain.ErrInvalidConfig, *cfg.FolderID)
		}
		if err != nil {
			return StudyProgress{}, err
		}
		cfg.FolderName = folder.Name
	}

	words, err := s.wordRepo.ListByUser(ctx, userID)
	if err != nil {
		return StudyProgress{}, fmt.Errorf("load words: %w", err)
	}

	session := s.newSession()
	if err := session.Start(words, cfg); err != nil {
		return StudyProgress{}, err
	}

	s.logger.Info("Study session started",
		zap.Int64("user_id", userID),
		zap.String("study_type", string(cfg.StudyType)),
		zap.Stringer("state", session.State()),
	)

	return s.register(userID, session), nil
}

// StartDue begins a quick session over every due word
func (s *StudyService) StartDue(ctx context.Context, userID int64) (StudyProgress, error) {
	words, err := s.wordRepo.ListByUser(ctx, userID)
	if err != nil {
		return StudyProgress{}, fmt.Errorf("load words: %w", err)
	}

	session := s.newSession()
	if err := session.StartDue(words); err != nil {
		return StudyProgress{}, err
	}

	s.logger.Info("Due study session started",
		zap.Int64("user_id", userID),
		zap.Stringer("state", session.State()),
	)

	return s.register(userID, session), nil
}

// Current returns the running session of the user
func (s *StudyService) Current(userID int64) (StudyProgress, error) {
	entry, ok := s.entry(userID)
	if !ok {
		return StudyProgress{}, fmt.Errorf("%w: no session for user %d", domain.ErrSessionNotActive, userID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return snapshot(entry.session), nil
}

// Answer records the answer to the card wordID. An answer for any other
// card than the current one is rejected with ErrStaleAnswer. A finished
// session is dropped and its final snapshot returned.
func (s *StudyService) Answer(ctx context.Context, userID int64, wordID int, isCorrect bool) (StudyProgress, error) {
	entry, ok := s.entry(userID)
	if !ok {
		return StudyProgress{}, fmt.Errorf("%w: no session for user %d", domain.ErrSessionNotActive, userID)
	}

	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	entry.mu.Lock()
	if current, ok := entry.session.Current(); ok && current.ID != wordID {
		progress := snapshot(entry.session)
		entry.mu.Unlock()
		return progress, fmt.Errorf("%w: got word %d, current is %d", domain.ErrStaleAnswer, wordID, current.ID)
	}
	updated, err := entry.session.Answer(ctx, isCorrect)
	progress := snapshot(entry.session)
	entry.mu.Unlock()

	if err != nil {
		if errors.Is(err, domain.ErrPersistFailure) {
			s.logger.Error("Failed to save answer",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		return progress, err
	}

	s.logger.Debug("Answer recorded",
		zap.Int64("user_id", userID),
		zap.Int("word_id", updated.ID),
		zap.Bool("correct", isCorrect),
		zap.String("difficulty", updated.Difficulty.String()),
	)

	if progress.State == srs.StateComplete {
		s.remove(userID, entry)
		s.logger.Info("Study session completed",
			zap.Int64("user_id", userID),
			zap.Int("correct", progress.Stats.Correct),
			zap.Int("total", progress.Stats.Total),
		)
	}
	return progress, nil
}

// End drops the user's session if there is one
func (s *StudyService) End(userID int64) {
	s.sessionMux.Lock()
	defer s.sessionMux.Unlock()
	delete(s.sessions, userID)
}

// EvictIdle drops sessions without activity for longer than maxIdle and
// returns how many were dropped
func (s *StudyService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.sessionMux.Lock()
	defer s.sessionMux.Unlock()

	evicted := 0
	for userID, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.session.LastActivity().Before(cutoff)
		entry.mu.Unlock()

		if idle {
			delete(s.sessions, userID)
			evicted++
		}
	}
	return evicted
}

// ActiveSessions returns the number of running sessions
func (s *StudyService) ActiveSessions() int {
	s.sessionMux.RLock()
	defer s.sessionMux.RUnlock()
	return len(s.sessions)
}

func (s *StudyService) newSession() *srs.Session {
	return srs.NewSession(s.wordRepo, srs.SessionOptions{
		Limit:    s.limit,
		Policy:   s.policy,
		Composer: s.composer,
		Now:      s.now,
		Logger:   s.logger,
	})
}

// register stores a running session. Empty sessions are not kept, but they
// still replace whatever the user had before.
func (s *StudyService) register(userID int64, session *srs.Session) StudyProgress {
	s.sessionMux.Lock()
	defer s.sessionMux.Unlock()

	if session.State() == srs.StateInProgress {
		s.sessions[userID] = &studyEntry{session: session}
	} else {
		delete(s.sessions, userID)
	}
	return snapshot(session)
}

func (s *StudyService) entry(userID int64) (*studyEntry, bool) {
	s.sessionMux.RLock()
	defer s.sessionMux.RUnlock()
	entry, ok := s.sessions[userID]
	return entry, ok
}

// remove deletes the entry only if it is still the registered one
func (s *StudyService) remove(userID int64, entry *studyEntry) {
	s.sessionMux.Lock()
	defer s.sessionMux.Unlock()
	if s.sessions[userID] == entry {
		delete(s.sessions, userID)
	}
}

func snapshot(session *srs.Session) StudyProgress {
	position, total := session.Position()
	current, _ := session.Current()
	return StudyProgress{
		State:    session.State(),
		Current:  current,
		Position: position,
		Total:    total,
		Stats:    session.Stats(),
		Config:   session.Config(),
	}
}

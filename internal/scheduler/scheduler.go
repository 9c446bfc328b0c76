package scheduler

import (
	"context"
	"fmt"
	"time"

	"vocabflash/internal/service"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const (
	// EvictionInterval is how often idle study sessions are swept
	EvictionInterval = 10 * time.Minute

	reminderTimeout = 2 * time.Minute
)

// Reminders sends due-word reminders to every user that has some
type Reminders interface {
	SendDueReminders(ctx context.Context, notifier service.Notifier) (int, error)
}

// SessionEvicter drops study sessions idle for longer than maxIdle
type SessionEvicter interface {
	EvictIdle(maxIdle time.Duration) int
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler    *gocron.Scheduler
	reminders    Reminders
	notifier     service.Notifier
	evicter      SessionEvicter
	reminderTime string
	idleTTL      time.Duration
	logger       *zap.Logger
}

// New creates a new scheduler instance. reminderTime is HH:MM in UTC.
func New(
	reminders Reminders,
	notifier service.Notifier,
	evicter SessionEvicter,
	reminderTime string,
	idleTTL time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		reminders:    reminders,
		notifier:     notifier,
		evicter:      evicter,
		reminderTime: reminderTime,
		idleTTL:      idleTTL,
		logger:       logger,
	}
}

// Start registers all jobs and runs them in the background
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.reminderTime).Do(s.sendReminders); err != nil {
		return fmt.Errorf("schedule reminders at %q: %w", s.reminderTime, err)
	}

	if _, err := s.scheduler.Every(EvictionInterval).WaitForSchedule().Do(s.evictIdleSessions); err != nil {
		return fmt.Errorf("schedule session eviction: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()

	s.logger.Info("Scheduler started",
		zap.String("reminder_time", s.reminderTime),
		zap.Duration("idle_ttl", s.idleTTL),
	)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), reminderTimeout)
	defer cancel()

	if _, err := s.reminders.SendDueReminders(ctx, s.notifier); err != nil {
		s.logger.Error("Failed to send due reminders", zap.Error(err))
	}
}

func (s *Scheduler) evictIdleSessions() {
	if n := s.evicter.EvictIdle(s.idleTTL); n > 0 {
		s.logger.Info("Evicted idle study sessions", zap.Int("count", n))
	}
}

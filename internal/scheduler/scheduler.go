// Package scheduler runs the nightly generation for every registered user.
// Users without stored DFBnet credentials are skipped; a semaphore bounds
// how many runs execute at once so the portal is not hammered.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/generation"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

const (
	JobID   = "auto_session_creation"
	JobName = "Automatische Session-Erstellung"
)

type Scheduler struct {
	db            *database.Client
	service       *generation.Service
	hour          int
	maxConcurrent int
	logger        *slog.Logger
	now           func() time.Time

	mu       sync.Mutex
	running  bool
	nextRun  time.Time
	stopOnce sync.Once
	done     chan struct{}
}

func New(db *database.Client, service *generation.Service, hour, maxConcurrent int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:            db,
		service:       service,
		hour:          hour,
		maxConcurrent: maxConcurrent,
		logger:        logger,
		now:           time.Now,
		done:          make(chan struct{}),
	}
}

// Start launches the daily loop until the context is cancelled or Stop is
// called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.nextRun = s.nextRunTime(s.now())
	s.mu.Unlock()

	go s.loop(ctx)
	s.logger.Info("scheduler started", "next_run", s.NextRun().Format(time.RFC3339))
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		s.mu.Lock()
		wait := time.Until(s.nextRun)
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.setStopped()
			return
		case <-s.done:
			timer.Stop()
			s.setStopped()
			return
		case <-timer.C:
			s.RunAll(ctx)
			s.mu.Lock()
			s.nextRun = s.nextRunTime(s.now())
			s.mu.Unlock()
		}
	}
}

func (s *Scheduler) setStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.logger.Info("scheduler stopped")
}

// nextRunTime returns the next occurrence of the configured hour.
func (s *Scheduler) nextRunTime(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRun
}

// RunAll executes one generation run per user, at most maxConcurrent at a
// time. Users without credentials are skipped.
func (s *Scheduler) RunAll(ctx context.Context) {
	users, err := s.db.ListUsers()
	if err != nil {
		s.logger.Error("failed to list users for scheduled run", "error", err)
		return
	}

	s.logger.Info("scheduled run started", "users", len(users))

	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup
	var succeeded, skipped, failed int
	var mu sync.Mutex

	for i := range users {
		user := users[i]
		if !user.HasDFBCredentials() {
			s.logger.Info("skipping user without credentials", "user_id", user.ID)
			mu.Lock()
			skipped++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(user models.User) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if _, err := s.service.RunForUser(ctx, &user); err != nil {
				s.logger.Error("scheduled run failed", "user_id", user.ID, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}(user)
	}

	wg.Wait()
	s.logger.Info("scheduled run finished",
		"users", len(users), "succeeded", succeeded, "skipped", skipped, "failed", failed)
}

// TriggerNow starts a full run in the background, for the trigger endpoint.
func (s *Scheduler) TriggerNow(ctx context.Context) {
	go s.RunAll(context.WithoutCancel(ctx))
}

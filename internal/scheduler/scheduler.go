// Package scheduler runs the background maintenance jobs of the API server.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/season"
	"github.com/yourusername/courtside/internal/service"
)

// Scheduler manages the season refresh and cache purge jobs
type Scheduler struct {
	cron            *cron.Cron
	seasons         *season.Catalogue
	cache           *service.RatingsCache
	logger          *logrus.Logger
	audit           *logger.AuditLogger
	now             func() time.Time
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. cache may be nil.
func NewScheduler(seasons *season.Catalogue, cache *service.RatingsCache, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		seasons:         seasons,
		cache:           cache,
		logger:          log,
		audit:           logger.NewAuditLogger(log),
		now:             time.Now,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

func (s *Scheduler) addJob(name, cronExpression string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, job)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled job")
	return nil
}

// ScheduleSeasonRefresh extends the season catalogue on a cron schedule
func (s *Scheduler) ScheduleSeasonRefresh(cronExpression string) error {
	return s.addJob("season_refresh", cronExpression, func() { s.RefreshSeasons() })
}

// ScheduleCachePurge drops expired rating reports on a cron schedule
func (s *Scheduler) ScheduleCachePurge(cronExpression string) error {
	return s.addJob("cache_purge", cronExpression, func() { s.PurgeCache() })
}

// RefreshSeasons brings the catalogue up to date and reports whether a
// season was added
func (s *Scheduler) RefreshSeasons() bool {
	added := s.seasons.Refresh(s.now())
	if added {
		s.audit.LogSeasonAdded(s.seasons.Current().ID, len(s.seasons.Seasons()))
	}
	return added
}

// PurgeCache removes expired cache entries and returns how many went
func (s *Scheduler) PurgeCache() int {
	if !s.cache.Enabled() {
		return 0
	}
	before := s.cache.ItemCount()
	removed := before - s.cache.Purge()
	s.audit.LogCachePurge("expired", removed)
	return removed
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler jobs still running after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		if entry := s.cron.Entry(jobID); entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}

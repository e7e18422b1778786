// Package scheduler runs the refresher's periodic jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/service"
)

// ActualRefresher recomputes race actuals for a season
type ActualRefresher interface {
	RefreshSeason(ctx context.Context, season int) (int, error)
}

// ProjectionWarmer precomputes projections so reads hit the cache
type ProjectionWarmer interface {
	NextRound(ctx context.Context, season int) (int, error)
	ProjectRound(ctx context.Context, season, round int) (*projection.RaceProjection, error)
	ProjectChampionship(ctx context.Context, season, afterRound int) (*service.ChampionshipOutlook, error)
}

// Scheduler manages the refresher's cron jobs
type Scheduler struct {
	cron            *cron.Cron
	refresher       ActualRefresher
	warmer          ProjectionWarmer
	season          int
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler for one season
func NewScheduler(refresher ActualRefresher, warmer ProjectionWarmer, season int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		refresher:       refresher,
		warmer:          warmer,
		season:          season,
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      10 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleActualRefresh schedules recomputation of the season's race actuals
func (s *Scheduler) ScheduleActualRefresh(cronExpression string) error {
	return s.schedule("actual refresh", cronExpression, s.RefreshActuals)
}

// ScheduleProjectionWarm schedules the next round and championship projections
func (s *Scheduler) ScheduleProjectionWarm(cronExpression string) error {
	return s.schedule("projection warm", cronExpression, s.WarmProjections)
}

func (s *Scheduler) schedule(name, cronExpression string, job func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		if err := job(ctx); err != nil {
			s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"schedule": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// RefreshActuals recomputes every round's actual for the configured season
func (s *Scheduler) RefreshActuals(ctx context.Context) error {
	start := time.Now()
	derived, err := s.refresher.RefreshSeason(ctx, s.season)
	if err != nil {
		return fmt.Errorf("failed to refresh actuals: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"season":      s.season,
		"derived":     derived,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Actuals refreshed")
	return nil
}

// WarmProjections projects the next round and the championship outlook
func (s *Scheduler) WarmProjections(ctx context.Context) error {
	next, err := s.warmer.NextRound(ctx, s.season)
	if err != nil {
		return fmt.Errorf("failed to find next round: %w", err)
	}
	if next == 0 {
		s.logger.WithField("season", s.season).Debug("Season complete, nothing to warm")
		return nil
	}

	if _, err := s.warmer.ProjectRound(ctx, s.season, next); err != nil {
		return fmt.Errorf("failed to project round %d: %w", next, err)
	}
	if _, err := s.warmer.ProjectChampionship(ctx, s.season, next-1); err != nil {
		return fmt.Errorf("failed to project championship: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"season": s.season,
		"round":  next,
	}).Info("Projections warmed")
	return nil
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

// Stop gracefully stops the scheduler, waiting for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
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

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
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
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

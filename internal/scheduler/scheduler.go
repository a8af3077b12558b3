// Package scheduler runs automated race meetings on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/service"
)

// MeetingRunner runs one race over the available horses
type MeetingRunner interface {
	RunMeeting(ctx context.Context, raceType models.RaceType, seed int64) (*service.RaceReport, error)
}

// Scheduler manages scheduled race meetings
type Scheduler struct {
	cron            *cron.Cron
	runner          MeetingRunner
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	raceTimeout     time.Duration
	// SeedFunc picks each meeting's seed
	SeedFunc func() int64
}

// NewScheduler creates a new scheduler
func NewScheduler(runner MeetingRunner, logger *logrus.Logger) *Scheduler {
	log := logger.WithField("component", "scheduler")
	// a meeting still running when the next tick fires skips that tick
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
	)
	return &Scheduler{
		cron:            c,
		runner:          runner,
		logger:          log,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		raceTimeout:     5 * time.Minute,
		SeedFunc:        func() int64 { return time.Now().UnixNano() },
	}
}

// ScheduleMeetings schedules a race of raceType on every tick of the cron
// expression
func (s *Scheduler) ScheduleMeetings(cronExpression string, raceType models.RaceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if raceType == "" {
		raceType = models.RaceTypeStandard
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.raceTimeout)
		defer cancel()
		s.runMeeting(ctx, raceType)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"schedule":  cronExpression,
		"race_type": raceType,
	}).Info("Scheduled race meetings")

	return nil
}

func (s *Scheduler) runMeeting(ctx context.Context, raceType models.RaceType) {
	seed := s.SeedFunc()
	log := s.logger.WithFields(logrus.Fields{"seed": seed, "race_type": raceType})
	log.Info("Starting scheduled meeting")

	report, err := s.runner.RunMeeting(ctx, raceType, seed)
	if err != nil {
		log.WithError(err).Error("Scheduled meeting failed")
		return
	}
	log.WithFields(logrus.Fields{
		"race_id": report.Race.ID,
		"ticks":   report.Ticks,
		"rookies": len(report.Rookies),
	}).Info("Scheduled meeting completed")
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
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop waits for a running meeting to finish, up to the graceful timeout
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
		return fmt.Errorf("scheduler stop timed out: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled meeting
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

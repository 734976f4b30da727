/**
 * @description
 * Cron scheduler setup for the maintenance jobs.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Schedules carries the cron expressions for each job.
type Schedules struct {
	PendingReminder string
	DormancySweep   string
	Reconcile       string
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron      *cron.Cron
	jobs      *Jobs
	logger    *slog.Logger
	schedules Schedules
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(jobs *Jobs, logger *slog.Logger, schedules Schedules) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:      c,
		jobs:      jobs,
		logger:    logger,
		schedules: schedules,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.schedules.PendingReminder, s.jobs.RemindPendingRequests); err != nil {
		s.logger.Error("failed to schedule pending request reminder", "error", err)
	} else {
		s.logger.Info("scheduled pending request reminder", "schedule", s.schedules.PendingReminder)
	}

	if _, err := s.cron.AddFunc(s.schedules.DormancySweep, s.jobs.SweepDormantCurrencyAccounts); err != nil {
		s.logger.Error("failed to schedule dormancy sweep", "error", err)
	} else {
		s.logger.Info("scheduled dormancy sweep", "schedule", s.schedules.DormancySweep)
	}

	if _, err := s.cron.AddFunc(s.schedules.Reconcile, s.jobs.ReconcileFailedPersists); err != nil {
		s.logger.Error("failed to schedule persist reconciliation", "error", err)
	} else {
		s.logger.Info("scheduled persist reconciliation", "schedule", s.schedules.Reconcile)
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

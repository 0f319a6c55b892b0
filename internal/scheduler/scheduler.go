// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cloudhost/hostcms/internal/store"
)

// Default maintenance settings.
const (
	DefaultCompactSchedule = "0 3 * * *" // daily at 03:00
	DefaultEventRetention  = 30 * 24 * time.Hour
)

// Scheduler runs store maintenance on a cron schedule: compacting the
// persisted database image and pruning old audit events.
type Scheduler struct {
	store          *store.Store
	cron           *cron.Cron
	logger         *slog.Logger
	schedule       string
	eventRetention time.Duration
}

// New creates a scheduler for the given store.
func New(st *store.Store, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:          st,
		cron:           cron.New(),
		logger:         logger,
		schedule:       DefaultCompactSchedule,
		eventRetention: DefaultEventRetention,
	}
}

// SetSchedule overrides the maintenance cron expression. Must be called
// before Start.
func (s *Scheduler) SetSchedule(spec string) {
	s.schedule = spec
}

// SetEventRetention overrides how long audit events are kept. Must be
// called before Start.
func (s *Scheduler) SetEventRetention(d time.Duration) {
	s.eventRetention = d
}

// Start registers the maintenance job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.runMaintenance(); err != nil {
			s.logger.Error("maintenance run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to
// finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes one maintenance pass immediately, outside the cron
// schedule.
func (s *Scheduler) RunNow() error {
	return s.runMaintenance()
}

func (s *Scheduler) runMaintenance() error {
	ctx := context.Background()

	pruned, err := s.store.PruneEvents(ctx, s.eventRetention)
	if err != nil {
		return err
	}

	if err := s.store.Compact(ctx); err != nil {
		return err
	}

	s.logger.Info("maintenance completed", "events_pruned", pruned)
	return nil
}

/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

// Package cron runs compatibility checks on a cron schedule.
package cron

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
)

// Scheduler is an interface for cron scheduling operations.
type Scheduler interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
	Start()
	Stop()
}

// RealScheduler wraps robfig/cron for production use.
type RealScheduler struct {
	*cron.Cron
}

// NewRealScheduler creates a scheduler that skips a run while the previous
// one is still in progress.
func NewRealScheduler() *RealScheduler {
	return &RealScheduler{
		Cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Stop stops the scheduler and waits for running jobs to finish.
func (r *RealScheduler) Stop() {
	ctx := r.Cron.Stop()
	<-ctx.Done()
}

// Check is a single scheduled run.
type Check func(ctx context.Context) error

// Watch runs check once, then on every tick of spec until ctx is done.
// Check errors are logged and do not stop the schedule.
func Watch(ctx context.Context, s Scheduler, spec string, check Check, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	run := func() {
		if err := check(ctx); err != nil {
			logger.ErrorContext(ctx, "Scheduled check failed", "schedule", spec, "error", err)
		}
	}

	if _, err := s.AddFunc(spec, run); err != nil {
		return errors.Wrapf(err, "invalid schedule %q", spec)
	}

	run()

	s.Start()
	logger.InfoContext(ctx, "Watching", "schedule", spec)

	<-ctx.Done()
	s.Stop()

	return nil
}

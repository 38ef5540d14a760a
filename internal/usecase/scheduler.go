package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler reruns a job on a cron schedule until the context ends.
// Runs never overlap: the next activation is computed after the job returns.
type Scheduler struct {
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewScheduler parses a standard cron expression or descriptor such as
// "0 6 * * *" or "@every 6h". An empty spec runs the job exactly once.
func NewScheduler(spec string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{logger: logger}
	if spec == "" {
		return s, nil
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	s.schedule = schedule
	return s, nil
}

// Run executes job immediately and then at every activation of the schedule.
// A failed run is logged and the schedule continues. Cancellation ends Run without error.
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error) error {
	if job == nil {
		return nil
	}
	if s.schedule == nil {
		return job(ctx)
	}

	for {
		if err := job(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.warn("scheduled run failed", "error", err)
		}

		next := s.schedule.Next(time.Now())
		s.debug("next run scheduled", "at", next)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (s *Scheduler) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Scheduler) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// IsCancelled reports whether err comes from an interrupted run.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

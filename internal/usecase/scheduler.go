package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
)

// Scheduler wires the interval driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring cycles.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: log}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	return s.driver.Start(ctx, func(trigger time.Time) {
		s.RunOnce(ctx, trigger)
	})
}

// RunOnce executes a single cycle and logs its result. Errors never escape:
// the next scheduled cycle retries.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) CycleReport {
	s.log(slog.LevelInfo, "starting cycle", "trigger", trigger.UTC().Format(time.RFC3339))

	report, err := s.pipeline.RunCycle(ctx)
	switch {
	case err == nil:
		s.log(slog.LevelInfo, "cycle finished",
			"found", report.Found,
			"new", report.New,
			"delivered", report.Delivered,
			"failed", report.Failed,
			"rate_limited", report.RateLimited,
			"saved", report.Saved,
		)
	case errors.Is(err, ErrCycleInProgress):
		s.log(slog.LevelWarn, "cycle skipped", "reason", err)
	case errors.Is(err, domain.ErrFetch):
		s.log(slog.LevelError, "scrape error", "kind", "fetch", "error", err)
	case errors.Is(err, domain.ErrPersistence):
		s.log(slog.LevelError, "cannot save seen topics, duplicates may be sent after restart",
			"kind", "persistence", "new", report.New, "error", err)
	default:
		s.log(slog.LevelError, "cycle failed", "error", err)
	}

	return report
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) log(level slog.Level, msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Log(context.Background(), level, msg, args...)
	}
}

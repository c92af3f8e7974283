package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsCuration/internal/ports"
)

// Scheduler wires the ticker driver with the intake job.
type Scheduler struct {
	driver ports.Scheduler
	intake *Intake
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring intake runs.
func NewScheduler(driver ports.Scheduler, intake *Intake, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, intake: intake, logger: logger}
}

// Start registers intake with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.intake == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.intake.Run(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled intake failed", "trigger", trigger, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

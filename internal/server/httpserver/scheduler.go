package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/glitchidea/sitebuilder/internal/logfields"
)

// Scheduler wraps gocron for the periodic site rebuild.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts down the scheduler, waiting for a running rebuild.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleRebuild runs rebuild every interval. A rebuild still running when the
// next tick fires causes that tick to be skipped. Returns the job ID.
func (s *Scheduler) ScheduleRebuild(ctx context.Context, interval time.Duration, rebuild RebuildFunc) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { executeRebuild(ctx, rebuild) }),
		gocron.WithName("site-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return job.ID().String(), nil
}

// executeRebuild is called by gocron on every tick.
func executeRebuild(ctx context.Context, rebuild RebuildFunc) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	slog.Info("Executing scheduled rebuild")
	if err := rebuild(ctx); err != nil {
		slog.Error("Scheduled rebuild failed", logfields.Error(err), logfields.Elapsed(time.Since(start)))
		return
	}
	slog.Info("Scheduled rebuild finished", logfields.Elapsed(time.Since(start)))
}

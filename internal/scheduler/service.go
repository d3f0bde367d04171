package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"hot100/internal/pipeline"
)

// StageRunner runs one pipeline stage
type StageRunner interface {
	Run(ctx context.Context, stage pipeline.Stage) error
}

// Service runs the whole pipeline on a cron schedule
type Service struct {
	runner   StageRunner
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

// NewService creates a new scheduler service. timeout bounds each run; zero
// means unbounded.
func NewService(runner StageRunner, schedule string, timeout time.Duration) *Service {
	return &Service{
		runner:   runner,
		schedule: schedule,
		timeout:  timeout,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Expression resolves a schedule name onto a six-field cron expression.
// Anything other than a known name is taken as an expression itself.
func Expression(schedule string) string {
	switch strings.ToLower(strings.TrimSpace(schedule)) {
	case "", "daily":
		// 06:00 UTC, after the overnight posts settle
		return "0 0 6 * * *"
	case "hourly":
		return "0 0 * * * *"
	case "weekly":
		return "0 0 6 * * MON"
	}
	return schedule
}

// Start begins the scheduled runs
func (s *Service) Start() error {
	expr := Expression(s.schedule)
	if _, err := s.cron.AddFunc(expr, s.runOnce); err != nil {
		return fmt.Errorf("invalid run schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	slog.Info("Scheduler started", "schedule", expr)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}

// Next returns the time of the next scheduled run, or zero before Start
func (s *Service) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Service) runOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Info("Starting scheduled chart run")
	if err := s.runner.Run(ctx, pipeline.StageAll); err != nil {
		slog.Error("Scheduled chart run failed", "error", err, "duration", time.Since(start))
		return
	}
	slog.Info("Scheduled chart run finished", "duration", time.Since(start))
}

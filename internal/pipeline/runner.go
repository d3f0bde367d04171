// Package pipeline runs the daily chart stages. Each stage reads the latest
// dated tables the previous stages wrote and writes its own for today.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hot100/internal/config"
	"hot100/internal/repositories"
	"hot100/internal/services"
	"hot100/internal/storage"
)

// Stage names one step of the run
type Stage string

const (
	StageReddit  Stage = "reddit"
	StageSpotify Stage = "spotify"
	StageYouTube Stage = "youtube"
	StageMerge   Stage = "merge"
	StageCharts  Stage = "charts"
	StageAll     Stage = "all"
)

// Stages lists the individual stages in run order
var Stages = []Stage{StageReddit, StageSpotify, StageYouTube, StageMerge, StageCharts}

// ParseStage maps a command word onto a stage
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if stage == StageAll {
		return stage, nil
	}
	for _, known := range Stages {
		if stage == known {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// Deps are the collaborators a run uses. Nil platforms are not configured;
// a nil Archive disables run archiving.
type Deps struct {
	Store   storage.Storage
	Posts   services.PostSource
	Catalog services.CatalogService
	Videos  services.VideoService
	Archive repositories.ChartRepository
}

// Options tune a run
type Options struct {
	Pipeline    *config.PipelineConfig
	Concurrency int
	CallTimeout time.Duration

	// Now returns the run time; defaults to time.Now
	Now func() time.Time
}

// Runner executes stages against its dependencies
type Runner struct {
	deps        Deps
	cfg         *config.PipelineConfig
	concurrency int
	callTimeout time.Duration
	now         func() time.Time
}

// NewRunner creates a runner. Missing options fall back to the defaults.
func NewRunner(deps Deps, opts Options) *Runner {
	cfg := opts.Pipeline
	if cfg == nil {
		cfg = config.DefaultPipelineConfig()
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		deps:        deps,
		cfg:         cfg,
		concurrency: concurrency,
		callTimeout: opts.CallTimeout,
		now:         now,
	}
}

// Run executes one stage, or every stage in order for StageAll. StageAll
// skips the video stage when no video platform is configured.
func (r *Runner) Run(ctx context.Context, stage Stage) error {
	if stage != StageAll {
		return r.runStage(ctx, stage)
	}

	for _, s := range Stages {
		if s == StageYouTube && r.deps.Videos == nil {
			slog.Warn("Skipping stage, platform not configured", "stage", s)
			continue
		}
		if err := r.runStage(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage) error {
	start := time.Now()
	slog.Info("Stage started", "stage", stage, "run_date", r.runDate().Format(time.DateOnly))

	var err error
	switch stage {
	case StageReddit:
		err = r.RunReddit(ctx)
	case StageSpotify:
		err = r.RunSpotify(ctx)
	case StageYouTube:
		err = r.RunYouTube(ctx)
	case StageMerge:
		err = r.RunMerge(ctx)
	case StageCharts:
		err = r.RunCharts(ctx)
	default:
		err = fmt.Errorf("unknown stage %q", stage)
	}
	if err != nil {
		slog.Error("Stage failed", "stage", stage, "error", err)
		return fmt.Errorf("stage %s: %w", stage, err)
	}

	slog.Info("Stage finished", "stage", stage, "duration", time.Since(start))
	return nil
}

// runDate is today's date at midnight UTC
func (r *Runner) runDate() time.Time {
	y, m, d := r.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *Runner) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.callTimeout)
}

func notConfigured(platform string) error {
	return fmt.Errorf("%s is not configured", platform)
}

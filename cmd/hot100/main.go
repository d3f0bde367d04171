package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"hot100/internal/app"
	"hot100/internal/config"
	"hot100/internal/pipeline"
	"hot100/internal/storage"
)

func usage() {
	names := make([]string, 0, len(pipeline.Stages)+1)
	for _, s := range pipeline.Stages {
		names = append(names, string(s))
	}
	names = append(names, string(pipeline.StageAll))
	fmt.Fprintf(os.Stderr, "usage: hot100 <%s>\n", strings.Join(names, "|"))
}

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		usage()
		os.Exit(2)
	}
	stage, err := pipeline.ParseStage(os.Args[1])
	if err != nil {
		slog.Error("Invalid stage", "error", err)
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, config.GetPipelineConfig())
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	err = a.Runner.Run(ctx, stage)
	a.Close(context.Background())

	if errors.Is(err, storage.ErrNoInput) {
		slog.Error("Run aborted, an earlier stage has not produced its table yet", "stage", stage, "error", err)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Run failed", "stage", stage, "error", err)
		os.Exit(1)
	}
	slog.Info("Run finished", "stage", stage)
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hot100/internal/app"
	"hot100/internal/config"
	"hot100/internal/handlers"
	"hot100/internal/scheduler"
)

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

	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, config.GetPipelineConfig())
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	// Scheduled runs are opt-in
	if cfg.RunSchedule != "" {
		sched := scheduler.NewService(a.Runner, cfg.RunSchedule, 2*time.Hour)
		if err := sched.Start(); err != nil {
			slog.Error("Failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
		slog.Info("Next chart run", "at", sched.Next())
	}

	router := gin.New()
	router.Use(gin.Recovery())
	charts := handlers.NewChartHandler(a.Store, a.Archive, a.Pipeline.LookbackDays).
		WithHealthCheck("cache", a.Cache)
	if a.Spotify != nil {
		charts.WithHealthCheck("spotify", a.Spotify)
	}
	charts.RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Chart server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}

// Package app wires configuration into the storage, cache, platform clients
// and run archive shared by the pipeline command and the chart server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"hot100/internal/cache"
	"hot100/internal/config"
	"hot100/internal/models"
	"hot100/internal/pipeline"
	"hot100/internal/repositories"
	"hot100/internal/services"
	"hot100/internal/storage"
)

// App holds the long-lived collaborators of one process
type App struct {
	Config   *config.Config
	Pipeline *config.PipelineConfig
	Store    storage.Storage
	Cache    cache.Cache
	Archive  repositories.ChartRepository
	Runner   *pipeline.Runner

	// Spotify is the raw catalog client, nil when the platform is disabled
	Spotify *services.SpotifyService

	db *models.Database
}

// New builds the application from cfg. Platforms without credentials are
// left unconfigured; the archive is only opened when MONGODB_URL is set.
func New(ctx context.Context, cfg *config.Config, pipelineCfg *config.PipelineConfig) (*App, error) {
	if pipelineCfg == nil {
		pipelineCfg = config.DefaultPipelineConfig()
	}

	store, err := storage.Open(ctx, cfg.DataDir, cfg.AzureStorageAccount, cfg.AzureContainer)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	lookupCache, err := cache.New(cfg.ValkeyURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	a := &App{
		Config:   cfg,
		Pipeline: pipelineCfg,
		Store:    store,
		Cache:    lookupCache,
	}

	if cfg.MongodbURL != "" {
		db, err := models.NewDatabase(ctx, cfg.MongodbURL, cfg.MongodbDatabase)
		if err != nil {
			lookupCache.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.CreateIndexes(ctx); err != nil {
			slog.Warn("Failed to create indexes", "error", err)
		}
		a.db = db
		a.Archive = repositories.NewCachedChartRepository(repositories.NewMongoChartRepository(db), lookupCache)
	}

	a.Runner = pipeline.NewRunner(a.deps(), pipeline.Options{
		Pipeline:    pipelineCfg,
		Concurrency: cfg.LookupConcurrency,
		CallTimeout: cfg.CallTimeout,
	})

	slog.Info("Application initialized",
		"data_dir", cfg.DataDir,
		"azure", cfg.AzureStorageAccount != "",
		"valkey", cfg.ValkeyURL != "",
		"archive", a.Archive != nil,
		"reddit", cfg.IsEnabled("reddit"),
		"spotify", cfg.IsEnabled("spotify"),
		"youtube", cfg.IsEnabled("youtube"))

	return a, nil
}

// deps builds the enabled platform clients. Interfaces stay nil for the
// disabled ones so the runner can tell them apart.
func (a *App) deps() pipeline.Deps {
	deps := pipeline.Deps{
		Store:   a.Store,
		Archive: a.Archive,
	}

	if p, ok := a.Config.GetPlatformConfig("reddit"); ok && p.Enabled {
		deps.Posts = services.NewRedditService(p.ClientID, p.ClientSecret, p.UserAgent)
	}
	if p, ok := a.Config.GetPlatformConfig("spotify"); ok && p.Enabled {
		a.Spotify = services.NewSpotifyService(p.ClientID, p.ClientSecret)
		deps.Catalog = services.NewCachedCatalog(a.Spotify, a.Cache)
	}
	if p, ok := a.Config.GetPlatformConfig("youtube"); ok && p.Enabled {
		deps.Videos = services.NewCachedVideos(services.NewYouTubeService(p.APIKey), a.Cache)
	}
	return deps
}

// Close releases the cache and database connections
func (a *App) Close(ctx context.Context) {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			slog.Warn("Failed to close cache", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(ctx); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
}

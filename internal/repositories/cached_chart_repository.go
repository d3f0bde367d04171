package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hot100/internal/cache"
	"hot100/internal/models"
)

// cachedChartRepository wraps a ChartRepository with caching
type cachedChartRepository struct {
	repository ChartRepository
	cache      cache.Cache
}

// NewCachedChartRepository creates a new cached run archive
func NewCachedChartRepository(repository ChartRepository, c cache.Cache) ChartRepository {
	return &cachedChartRepository{
		repository: repository,
		cache:      c,
	}
}

// Cache key generators
func runDateKey(date string) string { return cache.Key("run", date) }
func latestRunKey() string          { return cache.Key("run", "latest") }
func runDatesKey() string           { return cache.Key("run", "dates") }

// Cache TTL constants
const (
	runCacheTTL      = 1 * time.Hour
	negativeCacheTTL = 5 * time.Minute
)

// SaveRun saves to the repository, then drops every entry the run can change
func (r *cachedChartRepository) SaveRun(ctx context.Context, run *models.ChartRun) error {
	if err := r.repository.SaveRun(ctx, run); err != nil {
		return err
	}

	for _, key := range []string{runDateKey(run.RunDate), latestRunKey(), runDatesKey()} {
		if err := r.cache.Delete(ctx, key); err != nil {
			slog.Error("Failed to invalidate chart run cache", "key", key, "error", err)
		}
	}
	return nil
}

// FindRun checks cache first, then repository
func (r *cachedChartRepository) FindRun(ctx context.Context, runDate string) (*models.ChartRun, error) {
	return r.cachedRun(ctx, runDateKey(runDate), func() (*models.ChartRun, error) {
		return r.repository.FindRun(ctx, runDate)
	})
}

// LatestRun checks cache first, then repository
func (r *cachedChartRepository) LatestRun(ctx context.Context) (*models.ChartRun, error) {
	return r.cachedRun(ctx, latestRunKey(), func() (*models.ChartRun, error) {
		return r.repository.LatestRun(ctx)
	})
}

// ListRunDates caches only the unlimited listing
func (r *cachedChartRepository) ListRunDates(ctx context.Context, limit int) ([]string, error) {
	if limit > 0 {
		return r.repository.ListRunDates(ctx, limit)
	}

	var dates []string
	if found, err := cache.GetJSON(ctx, r.cache, runDatesKey(), &dates); err == nil && found {
		return dates, nil
	}

	dates, err := r.repository.ListRunDates(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, r.cache, runDatesKey(), dates, runCacheTTL); err != nil {
		slog.Error("Failed to cache run dates", "error", err)
	}
	return dates, nil
}

func (r *cachedChartRepository) cachedRun(ctx context.Context, key string, load func() (*models.ChartRun, error)) (*models.ChartRun, error) {
	data, err := r.cache.Get(ctx, key)
	if err == nil && data != nil {
		// Negative cache marker
		if string(data) == "null" {
			return nil, nil
		}
		var run models.ChartRun
		if err := json.Unmarshal(data, &run); err == nil {
			return &run, nil
		}
		slog.Error("Failed to decode chart run from cache", "key", key)
		// Delete corrupted cache entry
		r.cache.Delete(ctx, key)
	}

	run, err := load()
	if err != nil {
		return nil, err
	}

	ttl := runCacheTTL
	if run == nil {
		ttl = negativeCacheTTL
	}
	if err := cache.SetJSON(ctx, r.cache, key, run, ttl); err != nil {
		slog.Error("Failed to cache chart run", "key", key, "error", err)
	}
	return run, nil
}

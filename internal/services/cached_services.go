package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hot100/internal/cache"
	"hot100/internal/models"
)

// Cache TTL constants
const (
	lookupCacheTTL   = 24 * time.Hour
	negativeCacheTTL = 1 * time.Hour // For not-found and empty results
)

// lookupEntry is the cached form of one lookup
type lookupEntry[T any] struct {
	Value    T    `json:"value"`
	NotFound bool `json:"not_found,omitempty"`
}

// cachedLookup serves key from c or calls fetch and stores the outcome.
// Cache failures are logged and never fail the lookup.
func cachedLookup[T any](ctx context.Context, c cache.Cache, platform, operation, key string, fetch func() (T, error), empty func(T) bool) (T, error) {
	var entry lookupEntry[T]
	found, err := cache.GetJSON(ctx, c, key, &entry)
	if err != nil {
		slog.Warn("Cache read failed", "key", key, "error", err)
	}
	if found {
		if entry.NotFound {
			var zero T
			return zero, &PlatformError{Platform: platform, Operation: operation, Message: "cached miss", Err: ErrNotFound}
		}
		return entry.Value, nil
	}

	value, err := fetch()
	if err != nil {
		if IsNotFound(err) {
			storeLookup(ctx, c, key, lookupEntry[T]{NotFound: true}, negativeCacheTTL)
		}
		return value, err
	}

	ttl := lookupCacheTTL
	if empty != nil && empty(value) {
		ttl = negativeCacheTTL
	}
	storeLookup(ctx, c, key, lookupEntry[T]{Value: value}, ttl)

	return value, nil
}

func storeLookup[T any](ctx context.Context, c cache.Cache, key string, entry lookupEntry[T], ttl time.Duration) {
	if err := cache.SetJSON(ctx, c, key, entry, ttl); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
}

// CachedCatalog wraps a CatalogService with caching
type CachedCatalog struct {
	catalog CatalogService
	cache   cache.Cache
}

// NewCachedCatalog creates a new cached catalog service
func NewCachedCatalog(catalog CatalogService, c cache.Cache) *CachedCatalog {
	return &CachedCatalog{catalog: catalog, cache: c}
}

// SearchTracks checks cache first, then the catalog
func (c *CachedCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]TrackInfo, error) {
	key := cache.Key("spotify", "search", "track", strconv.Itoa(limit), strings.ToLower(query))
	return cachedLookup(ctx, c.cache, "spotify", "search", key,
		func() ([]TrackInfo, error) { return c.catalog.SearchTracks(ctx, query, limit) },
		func(v []TrackInfo) bool { return len(v) == 0 })
}

// GetTrack checks cache first, then the catalog
func (c *CachedCatalog) GetTrack(ctx context.Context, trackID string) (*TrackInfo, error) {
	key := cache.Key("spotify", "track", trackID)
	return cachedLookup(ctx, c.cache, "spotify", "get_track", key,
		func() (*TrackInfo, error) { return c.catalog.GetTrack(ctx, trackID) },
		nil)
}

// GetAudioFeatures checks cache first, then the catalog
func (c *CachedCatalog) GetAudioFeatures(ctx context.Context, trackID string) (*AudioFeatures, error) {
	key := cache.Key("spotify", "features", trackID)
	return cachedLookup(ctx, c.cache, "spotify", "get_audio_features", key,
		func() (*AudioFeatures, error) { return c.catalog.GetAudioFeatures(ctx, trackID) },
		nil)
}

// SearchArtists checks cache first, then the catalog
func (c *CachedCatalog) SearchArtists(ctx context.Context, query string, limit int) ([]models.ArtistRecord, error) {
	key := cache.Key("spotify", "search", "artist", strconv.Itoa(limit), strings.ToLower(query))
	return cachedLookup(ctx, c.cache, "spotify", "search_artist", key,
		func() ([]models.ArtistRecord, error) { return c.catalog.SearchArtists(ctx, query, limit) },
		func(v []models.ArtistRecord) bool { return len(v) == 0 })
}

// CachedVideos wraps a VideoService with caching
type CachedVideos struct {
	videos VideoService
	cache  cache.Cache
}

// NewCachedVideos creates a new cached video service
func NewCachedVideos(videos VideoService, c cache.Cache) *CachedVideos {
	return &CachedVideos{videos: videos, cache: c}
}

// GetVideo checks cache first, then the video platform
func (c *CachedVideos) GetVideo(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	key := cache.Key("youtube", "video", videoID)
	return cachedLookup(ctx, c.cache, "youtube", "get_video", key,
		func() (*models.VideoRecord, error) { return c.videos.GetVideo(ctx, videoID) },
		func(v *models.VideoRecord) bool { return v == nil })
}

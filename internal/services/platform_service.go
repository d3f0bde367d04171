package services

import (
	"context"
	"errors"
	"strconv"

	"hot100/internal/models"
)

// ErrNotFound marks a lookup the platform answered with no result
var ErrNotFound = errors.New("not found")

// PostSource yields hot posts from a subreddit
type PostSource interface {
	// HotPosts returns up to limit posts in listing order
	HotPosts(ctx context.Context, subreddit string, limit int) ([]models.Post, error)
}

// CatalogService is the catalog platform (tracks, audio features, artists)
type CatalogService interface {
	// SearchTracks runs a free-text track search, best match first
	SearchTracks(ctx context.Context, query string, limit int) ([]TrackInfo, error)

	// GetTrack fetches one track by its catalog ID
	GetTrack(ctx context.Context, trackID string) (*TrackInfo, error)

	// GetAudioFeatures fetches the raw audio features of one track
	GetAudioFeatures(ctx context.Context, trackID string) (*AudioFeatures, error)

	// SearchArtists runs a free-text artist search, best match first
	SearchArtists(ctx context.Context, query string, limit int) ([]models.ArtistRecord, error)
}

// VideoService is the video-metadata platform
type VideoService interface {
	// GetVideo returns nil, nil when the platform has no such video
	GetVideo(ctx context.Context, videoID string) (*models.VideoRecord, error)
}

// TrackInfo represents track information from the catalog
type TrackInfo struct {
	ExternalID string   `json:"external_id"`
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album,omitempty"`
	DurationMs int      `json:"duration_ms,omitempty"`

	ReleaseDate string `json:"release_date,omitempty"`
	Explicit    bool   `json:"explicit,omitempty"`
	Popularity  int    `json:"popularity,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// PrimaryArtist returns the first credited artist
func (t *TrackInfo) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// AudioFeatures is the raw (un-normalized) feature payload of a track
type AudioFeatures struct {
	Vector        models.FeatureVector `json:"vector"`
	Key           int                  `json:"key"`
	Mode          int                  `json:"mode"`
	TimeSignature int                  `json:"time_signature"`
	DurationMs    int                  `json:"duration_ms"`
}

// ToCatalogRecord combines track metadata and audio features into a record
// with display-normalized features
func (t *TrackInfo) ToCatalogRecord(features *AudioFeatures) models.CatalogRecord {
	record := models.CatalogRecord{
		CatalogID:     t.ExternalID,
		Title:         t.Title,
		PrimaryArtist: t.PrimaryArtist(),
		ReleaseDate:   t.ReleaseDate,
		ReleaseYear:   releaseYear(t.ReleaseDate),
		Explicit:      t.Explicit,
		Popularity:    t.Popularity,
		ArtworkURL:    t.ImageURL,
		PreviewURL:    t.PreviewURL,
		DurationMs:    t.DurationMs,
		Key:           -1,
	}

	if features != nil {
		record.Features = features.Vector.Normalized()
		record.Key = features.Key
		record.Mode = features.Mode
		record.TimeSignature = features.TimeSignature
		if record.DurationMs == 0 {
			record.DurationMs = features.DurationMs
		}
	}

	return record
}

// releaseYear reads the year from YYYY, YYYY-MM or YYYY-MM-DD dates
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// PlatformError represents an error from a platform service
type PlatformError struct {
	Platform  string
	Operation string
	Message   string
	URL       string
	Err       error
}

func (e *PlatformError) Error() string {
	msg := e.Platform + " " + e.Operation + " failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += " (URL: " + e.URL + ")"
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the platform has no such item
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

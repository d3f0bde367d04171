// Package tables reads and writes the dated CSV tables each stage produces.
package tables

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"hot100/internal/storage"
)

// Stage table names
const (
	RedditPosts     = "reddit_top_150_songs"
	CatalogRaw      = "spotify_raw_data"
	CatalogNotFound = "spotify_not_found"
	ArtistData      = "spotify_artist_data"
	ArtistNotFound  = "spotify_artists_not_found"
	VideoData       = "youtube_video_data"
	SongData        = "song_data"
	CatalogTop      = "spotify_top_100_songs"
	CatalogExtremes = "spotify_extremes"
	ChartReddit     = "chart_reddit"
	ChartCatalog    = "chart_spotify"
	ChartVideo      = "chart_youtube"
	VideoPlaylists  = "youtube_playlists"
)

// DefaultLookback is how many days back the latest table is searched for
const DefaultLookback = 365

const (
	fileExtension = ".csv"
	dateLayout    = time.DateOnly
)

var fileDateRegex = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})\.csv$`)

// FileName is the object name of a table for one run date
func FileName(name string, date time.Time) string {
	return name + "_" + date.Format(dateLayout) + fileExtension
}

// ParseFileName splits an object name into table name and run date
func ParseFileName(file string) (string, time.Time, bool) {
	loc := fileDateRegex.FindStringSubmatchIndex(file)
	if loc == nil {
		return "", time.Time{}, false
	}
	date, err := time.Parse(dateLayout, file[loc[2]:loc[3]])
	if err != nil {
		return "", time.Time{}, false
	}
	return file[:loc[0]], date, true
}

// LatestDate returns the newest run date of table name among files, ignoring
// dates after now or more than lookbackDays before it
func LatestDate(files []string, name string, now time.Time, lookbackDays int) (time.Time, bool) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookback
	}
	today := truncateDay(now)
	oldest := today.AddDate(0, 0, -lookbackDays)

	var latest time.Time
	found := false
	for _, f := range files {
		table, date, ok := ParseFileName(f)
		if !ok || table != name {
			continue
		}
		if date.After(today) || date.Before(oldest) {
			continue
		}
		if !found || date.After(latest) {
			latest, found = date, true
		}
	}
	return latest, found
}

// Write encodes rows and stores them as the table for date
func Write[T any](ctx context.Context, store storage.Storage, name string, date time.Time, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := store.Store(ctx, FileName(name, date), data); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

// Read loads the table for date. A missing table is ErrNoInput.
func Read[T any](ctx context.Context, store storage.Storage, name string, date time.Time) ([]T, error) {
	file := FileName(name, date)
	data, err := store.Retrieve(ctx, file)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", file, storage.ErrNoInput)
	}
	if err != nil {
		return nil, err
	}

	var rows []T
	if len(strings.TrimSpace(string(data))) == 0 {
		return rows, nil
	}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return rows, nil
}

// ReadLatest loads the newest table called name within the lookback window
func ReadLatest[T any](ctx context.Context, store storage.Storage, name string, now time.Time, lookbackDays int) ([]T, time.Time, error) {
	date, err := Latest(ctx, store, name, now, lookbackDays)
	if err != nil {
		return nil, time.Time{}, err
	}
	rows, err := Read[T](ctx, store, name, date)
	return rows, date, err
}

// Latest finds the newest run date of table name in store
func Latest(ctx context.Context, store storage.Storage, name string, now time.Time, lookbackDays int) (time.Time, error) {
	files, err := store.List(ctx, name+"_")
	if err != nil {
		return time.Time{}, err
	}
	date, ok := LatestDate(files, name, now, lookbackDays)
	if !ok {
		return time.Time{}, fmt.Errorf("%s: %w", name, storage.ErrNoInput)
	}
	return date, nil
}

// RunDates lists the distinct run dates of table name, newest first
func RunDates(ctx context.Context, store storage.Storage, name string) ([]time.Time, error) {
	files, err := store.List(ctx, name+"_")
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for i := len(files) - 1; i >= 0; i-- {
		if table, date, ok := ParseFileName(files[i]); ok && table == name {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package pipeline

import (
	"context"
	"log/slog"

	"hot100/internal/format"
	"hot100/internal/tables"
)

// RunCharts renders the published charts, the feature extremes and the
// video playlist links from the latest song tables
func (r *Runner) RunCharts(ctx context.Context) error {
	songRows, err := readLatest[tables.SongRow](ctx, r, tables.SongData, true)
	if err != nil {
		return err
	}
	topRows, err := readLatest[tables.SongRow](ctx, r, tables.CatalogTop, true)
	if err != nil {
		return err
	}

	songs := tables.Songs(songRows)
	top := tables.Songs(topRows)
	date := r.runDate()

	extremes := format.Extremes(top)
	extremeRows := make([]tables.ExtremeRow, len(extremes))
	for i, e := range extremes {
		extremeRows[i] = tables.NewExtremeRow(e)
	}
	if err := tables.Write(ctx, r.deps.Store, tables.CatalogExtremes, date, extremeRows); err != nil {
		return err
	}

	reddit := format.RedditChart(songs, r.cfg.ChartSize)
	if err := tables.Write(ctx, r.deps.Store, tables.ChartReddit, date, reddit); err != nil {
		return err
	}
	catalog := format.CatalogChart(songs, r.cfg.ChartSize)
	if err := tables.Write(ctx, r.deps.Store, tables.ChartCatalog, date, catalog); err != nil {
		return err
	}
	video := format.VideoChart(songs, r.cfg.ChartSize)
	if err := tables.Write(ctx, r.deps.Store, tables.ChartVideo, date, video); err != nil {
		return err
	}

	links := format.WatchVideosLinks(format.VideoIDs(songs), r.cfg.PlaylistChunkSize)
	playlists := make([]tables.PlaylistRow, len(links))
	for i, link := range links {
		playlists[i] = tables.PlaylistRow{Part: i + 1, URL: link}
	}
	if err := tables.Write(ctx, r.deps.Store, tables.VideoPlaylists, date, playlists); err != nil {
		return err
	}

	slog.Info("Charts written",
		"reddit_rows", len(reddit),
		"catalog_rows", len(catalog),
		"video_rows", len(video),
		"extremes", len(extremeRows),
		"playlists", len(playlists))
	return nil
}

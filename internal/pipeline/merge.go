package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hot100/internal/merge"
	"hot100/internal/models"
	"hot100/internal/storage"
	"hot100/internal/tables"
)

// RunMerge joins posts, catalog, artist and video data into the ranked song
// table. Posts and catalog candidates are required; missing artist or video
// tables leave those parts empty.
func (r *Runner) RunMerge(ctx context.Context) error {
	posts, err := r.readPosts(ctx)
	if err != nil {
		return err
	}

	catalogRows, err := readLatest[tables.CatalogRow](ctx, r, tables.CatalogRaw, true)
	if err != nil {
		return err
	}
	artistRows, err := readLatest[tables.ArtistRow](ctx, r, tables.ArtistData, false)
	if err != nil {
		return err
	}
	videoRows, err := readLatest[tables.VideoRow](ctx, r, tables.VideoData, false)
	if err != nil {
		return err
	}

	in := merge.Input{Posts: posts}
	for _, row := range catalogRows {
		in.Catalog = append(in.Catalog, row.Match())
	}
	for _, row := range artistRows {
		in.Artists = append(in.Artists, row.Match())
	}
	for _, row := range videoRows {
		in.Videos = append(in.Videos, row.Video())
	}

	songs := merge.Merge(in, merge.Options{
		PostLimit:  r.cfg.PostBatchSize,
		VideoLimit: r.cfg.VideoQuota,
	})
	run := models.NewChartRun(r.runDate().Format(time.DateOnly), songs)

	top := run.CatalogSongs()
	if len(top) > r.cfg.CatalogChartSize {
		top = top[:r.cfg.CatalogChartSize]
	}
	slog.Info("Merged song table", "rows", len(songs), "catalog_rows", len(top))

	date := r.runDate()
	if err := tables.Write(ctx, r.deps.Store, tables.SongData, date, tables.SongRows(songs)); err != nil {
		return err
	}
	if err := tables.Write(ctx, r.deps.Store, tables.CatalogTop, date, tables.SongRows(top)); err != nil {
		return err
	}

	r.archive(ctx, run)
	return nil
}

// archive stores the run when an archive is configured. Failures are logged;
// the dated tables stay the source of truth.
func (r *Runner) archive(ctx context.Context, run *models.ChartRun) {
	if r.deps.Archive == nil {
		return
	}

	missing, err := readLatest[tables.NotFoundRow](ctx, r, tables.CatalogNotFound, false)
	if err != nil {
		slog.Warn("Failed to read not-found list for archive", "error", err)
	}
	for _, row := range missing {
		run.NotFound = append(run.NotFound, models.NotFound{PostID: row.PostID, Artist: row.Artist, Song: row.Song})
	}

	if err := r.deps.Archive.SaveRun(ctx, run); err != nil {
		slog.Error("Failed to archive chart run", "run_date", run.RunDate, "error", err)
		return
	}
	slog.Info("Archived chart run", "run_date", run.RunDate, "songs", len(run.Songs))
}

// readLatest loads the newest table called name. When required is false a
// missing table is logged and read as empty.
func readLatest[T any](ctx context.Context, r *Runner, name string, required bool) ([]T, error) {
	rows, date, err := tables.ReadLatest[T](ctx, r.deps.Store, name, r.now(), r.cfg.LookbackDays)
	if errors.Is(err, storage.ErrNoInput) && !required {
		slog.Warn("Optional input table missing", "table", name)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded table", "table", name, "rows", len(rows), "date", date.Format(time.DateOnly))
	return rows, nil
}

package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hot100/internal/models"
	"hot100/internal/services"
	"hot100/internal/tables"
)

// RunYouTube fetches metadata for the linked videos of the top posts, up to
// the daily quota
func (r *Runner) RunYouTube(ctx context.Context) error {
	if r.deps.Videos == nil {
		return notConfigured("youtube")
	}

	posts, err := r.readPosts(ctx)
	if err != nil {
		return err
	}

	ids := QuotaVideoIDs(posts, r.cfg.VideoQuota)
	found := make([]*models.VideoRecord, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			found[i] = r.fetchVideo(gctx, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([]tables.VideoRow, 0, len(ids))
	for _, v := range found {
		if v != nil {
			rows = append(rows, tables.NewVideoRow(*v))
		}
	}
	slog.Info("Video lookups complete", "requested", len(ids), "found", len(rows))

	return tables.Write(ctx, r.deps.Store, tables.VideoData, r.runDate(), rows)
}

// fetchVideo returns nil when the lookup fails, times out or finds nothing
func (r *Runner) fetchVideo(ctx context.Context, id string) *models.VideoRecord {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	video, err := r.deps.Videos.GetVideo(callCtx, id)
	switch {
	case err != nil && services.IsNotFound(err):
		slog.Info("Video not found", "video_id", id)
	case err != nil:
		slog.Warn("Video lookup failed", "video_id", id, "error", err)
	case video == nil:
		slog.Info("Video not found", "video_id", id)
	}
	if err != nil {
		return nil
	}
	return video
}

// QuotaVideoIDs returns the video IDs linked by the first limit video posts,
// in post order, without repeats
func QuotaVideoIDs(posts []models.ParsedPost, limit int) []string {
	var ids []string
	seen := make(map[string]bool)
	linked := 0
	for _, p := range posts {
		if limit > 0 && linked >= limit {
			break
		}
		id := p.Link.VideoID()
		if id == "" {
			continue
		}
		linked++
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

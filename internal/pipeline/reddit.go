package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"hot100/internal/links"
	"hot100/internal/models"
	"hot100/internal/normalize"
	"hot100/internal/services"
	"hot100/internal/tables"
)

// RunReddit scrapes each subreddit, parses the media posts and keeps the
// highest-scored batch
func (r *Runner) RunReddit(ctx context.Context) error {
	if r.deps.Posts == nil {
		return notConfigured("reddit")
	}

	var parsed []models.ParsedPost
	for _, sub := range r.cfg.Subreddits {
		posts, err := r.deps.Posts.HotPosts(ctx, sub, r.cfg.ScrapeLimit)
		if err != nil {
			slog.Warn("Skipping subreddit", "subreddit", sub, "error", err)
			continue
		}

		media := services.SelectMediaPosts(posts, r.cfg.MediaPostCap)
		kept := 0
		for _, p := range media {
			if pp, ok := ParsePost(p); ok {
				parsed = append(parsed, pp)
				kept++
			}
		}
		slog.Info("Scraped subreddit", "subreddit", sub, "posts", len(posts), "media_posts", len(media), "kept", kept)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	parsed = TopPosts(parsed, r.cfg.PostBatchSize)

	rows := make([]tables.PostRow, len(parsed))
	for i, p := range parsed {
		rows[i] = tables.NewPostRow(p)
	}
	return tables.Write(ctx, r.deps.Store, tables.RedditPosts, r.runDate(), rows)
}

// ParsePost normalizes both titles and extracts the media link. Posts whose
// link cannot be parsed, or that link an unsupported provider, are skipped.
func ParsePost(p models.Post) (models.ParsedPost, bool) {
	link, err := links.Extract(p.RawMedia)
	if err != nil {
		slog.Warn("Skipping post with unparseable media", "post_id", p.ID, "error", err)
		return models.ParsedPost{}, false
	}
	if link.Excluded() {
		slog.Debug("Skipping post from unsupported provider", "post_id", p.ID)
		return models.ParsedPost{}, false
	}

	return models.ParsedPost{
		Post:       p,
		PostTitle:  normalize.ParseTitle(p.Title),
		MediaTitle: normalize.ParseTitle(p.MediaTitle),
		Link:       link,
	}, true
}

// TopPosts orders posts by score, highest first, and keeps at most limit
func TopPosts(posts []models.ParsedPost, limit int) []models.ParsedPost {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Post.Score > posts[j].Post.Score
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

func (r *Runner) readPosts(ctx context.Context) ([]models.ParsedPost, error) {
	rows, date, err := tables.ReadLatest[tables.PostRow](ctx, r.deps.Store, tables.RedditPosts, r.now(), r.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded posts", "rows", len(rows), "date", date.Format("2006-01-02"))

	posts := make([]models.ParsedPost, len(rows))
	for i, row := range rows {
		posts[i] = row.ParsedPost()
	}
	return posts, nil
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hot100/internal/matching"
	"hot100/internal/models"
	"hot100/internal/tables"
)

// catalogResult is everything looked up for one post
type catalogResult struct {
	resolution     *matching.Resolution
	artist         *models.ArtistMatch
	artistNotFound *models.NotFound
}

// RunSpotify resolves every post against the catalog and writes the
// candidates, the artists and both not-found lists
func (r *Runner) RunSpotify(ctx context.Context) error {
	if r.deps.Catalog == nil {
		return notConfigured("spotify")
	}

	posts, err := r.readPosts(ctx)
	if err != nil {
		return err
	}

	results, err := r.resolveCatalog(ctx, posts)
	if err != nil {
		return err
	}

	var (
		raw            []tables.CatalogRow
		notFound       []tables.NotFoundRow
		artists        []tables.ArtistRow
		artistNotFound []tables.NotFoundRow
	)
	for _, res := range results {
		for _, c := range res.resolution.Candidates {
			raw = append(raw, tables.NewCatalogRow(c))
		}
		if !res.resolution.Resolved() {
			notFound = append(notFound, tables.NewNotFoundRow(res.resolution.NotFound()))
		}
		if res.artist != nil {
			artists = append(artists, tables.NewArtistRow(*res.artist))
		}
		if res.artistNotFound != nil {
			artistNotFound = append(artistNotFound, tables.NewNotFoundRow(*res.artistNotFound))
		}
	}

	slog.Info("Catalog lookups complete",
		"posts", len(posts),
		"candidates", len(raw),
		"not_found", len(notFound),
		"artists", len(artists),
		"artists_not_found", len(artistNotFound))

	date := r.runDate()
	if err := tables.Write(ctx, r.deps.Store, tables.CatalogRaw, date, raw); err != nil {
		return err
	}
	if err := tables.Write(ctx, r.deps.Store, tables.CatalogNotFound, date, notFound); err != nil {
		return err
	}
	if err := tables.Write(ctx, r.deps.Store, tables.ArtistData, date, artists); err != nil {
		return err
	}
	return tables.Write(ctx, r.deps.Store, tables.ArtistNotFound, date, artistNotFound)
}

// resolveCatalog runs the per-post lookups with bounded concurrency. Results
// keep the order of posts.
func (r *Runner) resolveCatalog(ctx context.Context, posts []models.ParsedPost) ([]catalogResult, error) {
	matcher := matching.NewMatcher(r.deps.Catalog, r.callTimeout)
	results := make([]catalogResult, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, post := range posts {
		i, post := i, post
		g.Go(func() error {
			res := matcher.Resolve(gctx, post)
			artist, missing := matcher.ResolveArtist(gctx, post, res.Match)
			results[i] = catalogResult{resolution: res, artist: artist, artistNotFound: missing}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkTerminal(results); err != nil {
		return nil, err
	}
	return results, nil
}

// checkTerminal fails when a resolution stopped before RESOLVED or NOT_FOUND
func checkTerminal(results []catalogResult) error {
	for _, res := range results {
		if !res.resolution.State.Terminal() {
			return fmt.Errorf("resolution of post %s stopped at %s", res.resolution.PostID, res.resolution.State)
		}
	}
	return nil
}

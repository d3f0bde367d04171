// Package matching resolves parsed posts to catalog records and artists,
// and picks one record per post when several candidates compete.
package matching

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hot100/internal/links"
	"hot100/internal/models"
	"hot100/internal/services"
)

// Resolution is the outcome of resolving one post
type Resolution struct {
	PostID   string
	Identity models.IdentityKey
	State    State
	Trail    []State

	// Queries issued on the search path, in order
	Queries []string

	// Candidates holds every record found, in query order
	Candidates []models.CatalogMatch

	// Match is the chosen candidate once the post is resolved
	Match *models.CatalogMatch
	Score int
}

// Resolved reports whether a catalog record was chosen
func (r *Resolution) Resolved() bool {
	return r.State == StateResolved && r.Match != nil
}

// NotFound returns the not-found entry for an unresolved post
func (r *Resolution) NotFound() models.NotFound {
	artist, song := r.Identity.PostArtist, r.Identity.PostSong
	if artist == "" && song == "" {
		artist, song = r.Identity.MediaArtist, r.Identity.MediaSong
	}
	return models.NotFound{PostID: r.PostID, Artist: artist, Song: song}
}

// Matcher resolves posts against a catalog
type Matcher struct {
	catalog     services.CatalogService
	callTimeout time.Duration
}

// NewMatcher creates a matcher. Every catalog call is bounded by callTimeout
// when it is positive.
func NewMatcher(catalog services.CatalogService, callTimeout time.Duration) *Matcher {
	return &Matcher{catalog: catalog, callTimeout: callTimeout}
}

// DirectID returns the catalog track ID carried by the post's own link, or ""
func DirectID(post models.ParsedPost) string {
	if post.Link.Source != models.SourceSpotify {
		return ""
	}
	if post.Link.PlatformID != "" {
		return post.Link.PlatformID
	}
	return links.SpotifyTrackID(post.Link.DirectLink)
}

// Queries returns the search queries for a post: the post-title pair, then
// the media-title pair. Missing pairs and repeats are left out.
func Queries(post models.ParsedPost) []string {
	var queries []string
	for _, title := range []models.ParsedTitle{post.PostTitle, post.MediaTitle} {
		if !title.HasArtistSong() {
			continue
		}
		q := title.Song + " " + title.Artist
		duplicate := false
		for _, prev := range queries {
			if strings.EqualFold(prev, q) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			queries = append(queries, q)
		}
	}
	return queries
}

// Resolve walks one post through the resolution states. A post with a
// direct track ID never triggers a search. Failed or timed out calls count
// as no result for that call.
func (m *Matcher) Resolve(ctx context.Context, post models.ParsedPost) *Resolution {
	r := &Resolution{
		PostID:   post.Post.ID,
		Identity: post.Identity(),
		State:    StateUnresolved,
		Trail:    []State{StateUnresolved},
	}

	var ids []string
	if id := DirectID(post); id != "" {
		r.advance(StateDirectIDFound)
		ids = []string{id}
	} else {
		r.advance(StateSearched)
		r.Queries = Queries(post)
		ids = m.search(ctx, r.PostID, r.Queries)
	}

	for _, id := range ids {
		record, ok := m.fetchRecord(ctx, r.PostID, id)
		if !ok {
			continue
		}
		r.Candidates = append(r.Candidates, models.CatalogMatch{
			PostID:     r.PostID,
			Identity:   r.Identity,
			SpotifyURL: post.Link.SpotifyLink(),
			Record:     record,
		})
	}

	switch len(r.Candidates) {
	case 0:
		r.advance(StateNoMatch)
		r.advance(StateNotFound)
		slog.Info("Post not found on catalog", "post_id", r.PostID, "queries", len(r.Queries))
	case 1:
		r.advance(StateSingleMatch)
		r.Match = &r.Candidates[0]
		r.Score = MatchScore(*r.Match)
		r.advance(StateResolved)
	default:
		r.advance(StateMultiMatch)
		best, score := Best(r.Candidates)
		r.Match = &r.Candidates[best]
		r.Score = score
		r.advance(StateDisambiguated)
		r.advance(StateResolved)
		slog.Debug("Disambiguated catalog candidates",
			"post_id", r.PostID,
			"candidates", len(r.Candidates),
			"chosen", r.Match.Record.CatalogID,
			"score", score)
	}

	return r
}

// search returns the first result's ID for each query, skipping repeats
func (m *Matcher) search(ctx context.Context, postID string, queries []string) []string {
	var ids []string
	seen := make(map[string]bool)

	for _, q := range queries {
		callCtx, cancel := m.callContext(ctx)
		tracks, err := m.catalog.SearchTracks(callCtx, q, 1)
		cancel()
		if err != nil {
			logLookupFailure("Catalog search failed", err, "post_id", postID, "query", q)
			continue
		}
		if len(tracks) == 0 || tracks[0].ExternalID == "" {
			continue
		}

		id := tracks[0].ExternalID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// fetchRecord loads track metadata and audio features for one ID.
// Missing features leave the record without a feature vector.
func (m *Matcher) fetchRecord(ctx context.Context, postID, trackID string) (models.CatalogRecord, bool) {
	callCtx, cancel := m.callContext(ctx)
	track, err := m.catalog.GetTrack(callCtx, trackID)
	cancel()
	if err != nil || track == nil {
		logLookupFailure("Catalog track lookup failed", err, "post_id", postID, "track_id", trackID)
		return models.CatalogRecord{}, false
	}

	callCtx, cancel = m.callContext(ctx)
	features, err := m.catalog.GetAudioFeatures(callCtx, trackID)
	cancel()
	if err != nil {
		logLookupFailure("Audio features lookup failed", err, "post_id", postID, "track_id", trackID)
		features = nil
	}

	return track.ToCatalogRecord(features), true
}

// ArtistQuery is the artist name searched for a post: the chosen catalog
// record's primary artist, else the artist parsed from the post title
func ArtistQuery(post models.ParsedPost, match *models.CatalogMatch) string {
	if match != nil && match.Record.PrimaryArtist != "" {
		return match.Record.PrimaryArtist
	}
	return post.PostTitle.Artist
}

// ResolveArtist searches the catalog for the post's artist and takes the
// first result. Returns the not-found entry instead when nothing matches;
// both are nil when the post has no artist to search for.
func (m *Matcher) ResolveArtist(ctx context.Context, post models.ParsedPost, match *models.CatalogMatch) (*models.ArtistMatch, *models.NotFound) {
	query := ArtistQuery(post, match)
	if query == "" {
		return nil, nil
	}

	callCtx, cancel := m.callContext(ctx)
	artists, err := m.catalog.SearchArtists(callCtx, query, 1)
	cancel()
	if err != nil || len(artists) == 0 {
		if err != nil {
			logLookupFailure("Artist search failed", err, "post_id", post.Post.ID, "artist", query)
		}
		return nil, &models.NotFound{PostID: post.Post.ID, Artist: query}
	}

	return &models.ArtistMatch{
		PostID:   post.Post.ID,
		Identity: post.Identity(),
		Artist:   artists[0],
	}, nil
}

func (m *Matcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.callTimeout)
}

// logLookupFailure logs not-found at info and everything else at warn
func logLookupFailure(msg string, err error, args ...any) {
	if err == nil || services.IsNotFound(err) {
		slog.Info(msg, append(args, "reason", "not found")...)
		return
	}
	slog.Warn(msg, append(args, "error", err)...)
}

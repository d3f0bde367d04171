// Package merge joins posts with their catalog, artist and video lookups
// into the ranked song table.
package merge

import (
	"reflect"
	"sort"

	"hot100/internal/matching"
	"hot100/internal/models"
)

// Default row caps
const (
	DefaultPostLimit  = 150
	DefaultVideoLimit = 100
)

// Input is everything the merge consumes. Each slice is read-only.
type Input struct {
	Posts   []models.ParsedPost
	Catalog []models.CatalogMatch
	Artists []models.ArtistMatch
	Videos  []models.VideoRecord
}

// Options caps the merged table
type Options struct {
	PostLimit  int
	VideoLimit int
}

func (o Options) withDefaults() Options {
	if o.PostLimit <= 0 {
		o.PostLimit = DefaultPostLimit
	}
	if o.VideoLimit <= 0 {
		o.VideoLimit = DefaultVideoLimit
	}
	return o
}

// Merge builds the song table: one row per parsed identity, ranked by post
// score descending, at most PostLimit rows of which at most VideoLimit carry
// video metadata. Rows without a catalog, artist or video match are kept
// with those parts nil.
func Merge(in Input, opts Options) []models.MergedSong {
	opts = opts.withDefaults()

	catalog := ResolveCatalog(in.Catalog)
	catalogByKey := make(map[models.IdentityKey]models.CatalogRecord, len(catalog))
	for _, m := range catalog {
		if _, ok := catalogByKey[m.Identity]; !ok {
			catalogByKey[m.Identity] = m.Record
		}
	}

	artistByKey := make(map[models.IdentityKey]models.ArtistRecord, len(in.Artists))
	for _, a := range in.Artists {
		if _, ok := artistByKey[a.Identity]; !ok {
			artistByKey[a.Identity] = a.Artist
		}
	}

	rows := joinRows(in.Posts, catalog, catalogByKey, artistByKey)
	rows = uniqueRows(rows)
	SortByScore(rows)

	if len(rows) > opts.PostLimit {
		rows = rows[:opts.PostLimit]
	}

	attachVideos(rows, in.Videos, opts.VideoLimit)
	return rows
}

// ResolveCatalog reduces candidate matches to at most one per post: exact
// duplicates go first, then repeats of the same (title, artist) pair keeping
// the highest-scored post's, then competing candidates for one post are
// disambiguated. Candidates are considered in post score order.
func ResolveCatalog(candidates []models.CatalogMatch) []models.CatalogMatch {
	ordered := append([]models.CatalogMatch(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Identity.Score > ordered[j].Identity.Score
	})

	ordered = DedupExact(ordered)
	ordered = DedupPairs(ordered)
	return matching.Disambiguate(ordered)
}

// DedupExact drops candidates identical to an earlier one
func DedupExact(candidates []models.CatalogMatch) []models.CatalogMatch {
	out := make([]models.CatalogMatch, 0, len(candidates))
	for _, c := range candidates {
		duplicate := false
		for _, kept := range out {
			if reflect.DeepEqual(kept, c) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, c)
		}
	}
	return out
}

type pairKey struct {
	title  string
	artist string
}

// DedupPairs keeps the first candidate for each catalog (title, artist) pair
func DedupPairs(candidates []models.CatalogMatch) []models.CatalogMatch {
	seen := make(map[pairKey]bool, len(candidates))
	out := make([]models.CatalogMatch, 0, len(candidates))
	for _, c := range candidates {
		key := pairKey{title: c.Record.Title, artist: c.Record.PrimaryArtist}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// joinRows is a full outer join of posts and catalog matches on the parsed
// identity. Excluded posts never produce a row.
func joinRows(posts []models.ParsedPost, catalog []models.CatalogMatch, catalogByKey map[models.IdentityKey]models.CatalogRecord, artistByKey map[models.IdentityKey]models.ArtistRecord) []models.MergedSong {
	rows := make([]models.MergedSong, 0, len(posts))
	seen := make(map[models.IdentityKey]bool, len(posts))

	for _, p := range posts {
		if p.Link.Excluded() {
			continue
		}
		key := p.Identity()
		seen[key] = true
		rows = append(rows, newRow(p, catalogByKey, artistByKey))
	}

	// Catalog rows with no matching post keep whatever the identity carries
	for _, m := range catalog {
		if seen[m.Identity] {
			continue
		}
		seen[m.Identity] = true
		rows = append(rows, newRow(postFromIdentity(m.PostID, m.Identity), catalogByKey, artistByKey))
	}

	return rows
}

func newRow(p models.ParsedPost, catalogByKey map[models.IdentityKey]models.CatalogRecord, artistByKey map[models.IdentityKey]models.ArtistRecord) models.MergedSong {
	row := models.MergedSong{ParsedPost: p}
	key := p.Identity()
	if record, ok := catalogByKey[key]; ok {
		r := record
		row.Catalog = &r
	}
	if artist, ok := artistByKey[key]; ok {
		a := artist
		row.Artist = &a
	}
	return row
}

func postFromIdentity(postID string, key models.IdentityKey) models.ParsedPost {
	return models.ParsedPost{
		Post: models.Post{
			ID:         postID,
			Title:      key.Title,
			MediaTitle: key.MediaTitle,
			Score:      key.Score,
		},
		PostTitle:  models.ParsedTitle{Artist: key.PostArtist, Song: key.PostSong},
		MediaTitle: models.ParsedTitle{Artist: key.MediaArtist, Song: key.MediaSong},
	}
}

// uniqueRows keeps the first row for each (post artist, post song, post id)
func uniqueRows(rows []models.MergedSong) []models.MergedSong {
	seen := make(map[models.SongKey]bool, len(rows))
	out := make([]models.MergedSong, 0, len(rows))
	for i := range rows {
		key := rows[i].Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rows[i])
	}
	return out
}

// SortByScore orders rows by post score, highest first. The sort is stable,
// so sorting an already sorted table changes nothing.
func SortByScore(rows []models.MergedSong) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Post.Score > rows[j].Post.Score
	})
}

// attachVideos left-joins video metadata by video ID onto the first limit
// rows that link a video. A video ID the platform did not return leaves the
// row with no video.
func attachVideos(rows []models.MergedSong, videos []models.VideoRecord, limit int) {
	byID := make(map[string]models.VideoRecord, len(videos))
	for _, v := range videos {
		if _, ok := byID[v.PlatformID]; !ok {
			byID[v.PlatformID] = v
		}
	}

	linked := 0
	for i := range rows {
		if linked >= limit {
			return
		}
		id := rows[i].Link.VideoID()
		if id == "" {
			continue
		}
		linked++
		if video, ok := byID[id]; ok {
			v := video
			rows[i].Video = &v
		}
	}
}

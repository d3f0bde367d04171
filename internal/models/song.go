package models

import (
	"time"
)

const CurrentSchemaVersion = 1

// MergedSong is one ranked chart row: a post joined with everything the
// catalog and video platforms returned for it
type MergedSong struct {
	ParsedPost `bson:",inline"`

	// Enrichment (nil when the platform had no match)
	Catalog *CatalogRecord `json:"catalog,omitempty" bson:"catalog,omitempty"`
	Artist  *ArtistRecord  `json:"artist,omitempty" bson:"artist,omitempty"`
	Video   *VideoRecord   `json:"video,omitempty" bson:"video,omitempty"`
}

// SongKey uniquely identifies a merged row within a run
type SongKey struct {
	PostArtist string
	PostSong   string
	PostID     string
}

// Key returns the row's unique key
func (s *MergedSong) Key() SongKey {
	return SongKey{
		PostArtist: s.PostTitle.Artist,
		PostSong:   s.PostTitle.Song,
		PostID:     s.Post.ID,
	}
}

// HasCatalog reports whether the song was found on the catalog platform
func (s *MergedSong) HasCatalog() bool {
	return s.Catalog != nil && s.Catalog.CatalogID != ""
}

// HasVideo reports whether video metadata was found for the song
func (s *MergedSong) HasVideo() bool {
	return s.Video != nil && s.Video.PlatformID != ""
}

// ChartRun is the archived output of one pipeline run
type ChartRun struct {
	RunDate       string       `bson:"run_date" json:"run_date"`
	SchemaVersion int          `bson:"schema_version" json:"schema_version"`
	Songs         []MergedSong `bson:"songs" json:"songs"`
	NotFound      []NotFound   `bson:"not_found,omitempty" json:"not_found,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewChartRun creates a new ChartRun with default values
func NewChartRun(runDate string, songs []MergedSong) *ChartRun {
	now := time.Now()
	return &ChartRun{
		RunDate:       runDate,
		SchemaVersion: CurrentSchemaVersion,
		Songs:         songs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CatalogSongs returns the rows found on the catalog platform, in rank order
func (r *ChartRun) CatalogSongs() []MergedSong {
	var out []MergedSong
	for i := range r.Songs {
		if r.Songs[i].HasCatalog() {
			out = append(out, r.Songs[i])
		}
	}
	return out
}

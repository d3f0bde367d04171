package models

import (
	"math"
	"time"
)

// Feature names one dimension of a catalog track's audio feature vector
type Feature string

const (
	FeatureDanceability     Feature = "danceability"
	FeatureEnergy           Feature = "energy"
	FeatureLoudness         Feature = "loudness"
	FeatureSpeechiness      Feature = "speechiness"
	FeatureAcousticness     Feature = "acousticness"
	FeatureInstrumentalness Feature = "instrumentalness"
	FeatureLiveness         Feature = "liveness"
	FeatureValence          Feature = "valence"
	FeatureTempo            Feature = "tempo"
)

// Features lists the nine dimensions in display order
var Features = []Feature{
	FeatureDanceability,
	FeatureEnergy,
	FeatureLoudness,
	FeatureSpeechiness,
	FeatureAcousticness,
	FeatureInstrumentalness,
	FeatureLiveness,
	FeatureValence,
	FeatureTempo,
}

// IsNativeScale reports whether the feature keeps its native unit (decibels, BPM)
// instead of being rescaled from 0-1 to 0-100.
func (f Feature) IsNativeScale() bool {
	return f == FeatureLoudness || f == FeatureTempo
}

// FeatureVector maps each named feature to its value
type FeatureVector map[Feature]float64

// Normalized returns a copy with the unit-interval features rescaled to 0-100 and
// rounded to two decimals. Native-scale features are copied unchanged.
func (v FeatureVector) Normalized() FeatureVector {
	out := make(FeatureVector, len(v))
	for feature, value := range v {
		if feature.IsNativeScale() {
			out[feature] = value
			continue
		}
		out[feature] = math.Round(value*100*100) / 100
	}
	return out
}

// CatalogRecord is a canonical track on the catalog platform
type CatalogRecord struct {
	CatalogID     string        `json:"catalog_id" bson:"catalog_id"`
	Title         string        `json:"title" bson:"title"`
	PrimaryArtist string        `json:"primary_artist" bson:"primary_artist"`
	Features      FeatureVector `json:"features" bson:"features"`
	ReleaseDate   string        `json:"release_date" bson:"release_date"`
	ReleaseYear   int           `json:"release_year,omitempty" bson:"release_year,omitempty"`
	Explicit      bool          `json:"explicit" bson:"explicit"`
	Popularity    int           `json:"popularity" bson:"popularity"`
	ArtworkURL    string        `json:"artwork_url,omitempty" bson:"artwork_url,omitempty"`
	PreviewURL    string        `json:"preview_url,omitempty" bson:"preview_url,omitempty"`
	DurationMs    int           `json:"duration_ms,omitempty" bson:"duration_ms,omitempty"`
	Key           int           `json:"key" bson:"key"`
	Mode          int           `json:"mode" bson:"mode"`
	TimeSignature int           `json:"time_signature,omitempty" bson:"time_signature,omitempty"`
}

// TrackURL returns the public link for the record
func (r CatalogRecord) TrackURL() string {
	if r.CatalogID == "" {
		return ""
	}
	return "https://open.spotify.com/track/" + r.CatalogID
}

// ArtistRecord is the catalog's view of a track's primary artist
type ArtistRecord struct {
	Name          string   `json:"name" bson:"name"`
	Genres        []string `json:"genres,omitempty" bson:"genres,omitempty"`
	Popularity    int      `json:"popularity" bson:"popularity"`
	FollowerCount int64    `json:"follower_count" bson:"follower_count"`
}

// VideoRecord is video metadata from the video platform
type VideoRecord struct {
	PlatformID   string    `json:"platform_id" bson:"platform_id"`
	Title        string    `json:"title" bson:"title"`
	Channel      string    `json:"channel" bson:"channel"`
	PublishedAt  time.Time `json:"published_at" bson:"published_at"`
	Duration     string    `json:"duration" bson:"duration"`
	ViewCount    int64     `json:"view_count" bson:"view_count"`
	LikeCount    *int64    `json:"like_count,omitempty" bson:"like_count,omitempty"`
	CommentCount *int64    `json:"comment_count,omitempty" bson:"comment_count,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
	Tags         []string  `json:"tags,omitempty" bson:"tags,omitempty"`
}

// CatalogMatch is one candidate catalog record found for a post
type CatalogMatch struct {
	PostID     string        `json:"post_id" bson:"post_id"`
	Identity   IdentityKey   `json:"identity" bson:"identity"`
	SpotifyURL string        `json:"spotify_url,omitempty" bson:"spotify_url,omitempty"`
	Record     CatalogRecord `json:"record" bson:"record"`
}

// ArtistMatch is the artist record resolved for a post
type ArtistMatch struct {
	PostID   string       `json:"post_id" bson:"post_id"`
	Identity IdentityKey  `json:"identity" bson:"identity"`
	Artist   ArtistRecord `json:"artist" bson:"artist"`
}

// NotFound records a post or artist the catalog could not resolve
type NotFound struct {
	PostID string `json:"post_id,omitempty" bson:"post_id,omitempty"`
	Artist string `json:"artist" bson:"artist"`
	Song   string `json:"song,omitempty" bson:"song,omitempty"`
}

package models

import (
	"strings"
	"time"
)

// Post is a single music recommendation scraped from a subreddit
type Post struct {
	ID          string    `json:"id" bson:"id"`
	Subreddit   string    `json:"subreddit" bson:"subreddit"`
	Title       string    `json:"title" bson:"title"`
	MediaTitle  string    `json:"media_title" bson:"media_title"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Score       int       `json:"score" bson:"score"`
	UpvoteRatio float64   `json:"upvote_ratio" bson:"upvote_ratio"`
	Over18      bool      `json:"over_18" bson:"over_18"`

	// RawMedia is the attached oEmbed payload, nil when the post has none
	RawMedia *RawMedia `json:"raw_media,omitempty" bson:"-"`
}

// RawMedia is the typed form of the media object the post source attaches to a post
type RawMedia struct {
	Type   string      `json:"type"`
	OEmbed MediaOEmbed `json:"oembed"`
}

// MediaOEmbed holds the oEmbed fields used for link extraction
type MediaOEmbed struct {
	ProviderURL  string `json:"provider_url"`
	ProviderName string `json:"provider_name"`
	Title        string `json:"title"`
	HTML         string `json:"html"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// ParsedTitle is the artist/song split and genre tags derived from one title field
type ParsedTitle struct {
	Artist string   `json:"artist,omitempty" bson:"artist,omitempty"`
	Song   string   `json:"song,omitempty" bson:"song,omitempty"`
	Genres []string `json:"genres,omitempty" bson:"genres,omitempty"`
}

// HasArtistSong reports whether both halves of the split are present
func (p ParsedTitle) HasArtistSong() bool {
	return p.Artist != "" && p.Song != ""
}

// GenreList returns the genres comma-joined for display
func (p ParsedTitle) GenreList() string {
	return strings.Join(p.Genres, ", ")
}

// LinkSource identifies the platform a post's media points at
type LinkSource string

const (
	SourceSpotify    LinkSource = "spotify"
	SourceYouTube    LinkSource = "youtube"
	SourceSoundCloud LinkSource = "soundcloud"
	SourceBandcamp   LinkSource = "bandcamp"
	SourceOther      LinkSource = "other"
)

// MediaLink is the canonical link recovered from a post's media payload.
// A link with Source == SourceOther carries no link fields.
type MediaLink struct {
	Source     LinkSource `json:"source" bson:"source"`
	DirectLink string     `json:"direct_link,omitempty" bson:"direct_link,omitempty"`
	EmbedLink  string     `json:"embed_link,omitempty" bson:"embed_link,omitempty"`
	PlatformID string     `json:"platform_id,omitempty" bson:"platform_id,omitempty"`
}

// Excluded reports whether rows carrying this link are dropped downstream
func (l MediaLink) Excluded() bool {
	return l.Source == SourceOther || l.Source == ""
}

// SpotifyLink returns the direct link when the media is a Spotify track
func (l MediaLink) SpotifyLink() string {
	if l.Source != SourceSpotify {
		return ""
	}
	return l.DirectLink
}

// VideoID returns the YouTube video ID when the media is a YouTube video
func (l MediaLink) VideoID() string {
	if l.Source != SourceYouTube {
		return ""
	}
	return l.PlatformID
}

// ParsedPost is a post after normalization and link extraction
type ParsedPost struct {
	Post       Post        `json:"post" bson:"post"`
	PostTitle  ParsedTitle `json:"post_title" bson:"post_title"`
	MediaTitle ParsedTitle `json:"media_title" bson:"media_title"`
	Link       MediaLink   `json:"link" bson:"link"`
}

// Identity returns the composite parsed-identity key of the post
func (p ParsedPost) Identity() IdentityKey {
	return IdentityKey{
		PostArtist:  p.PostTitle.Artist,
		PostSong:    p.PostTitle.Song,
		Score:       p.Post.Score,
		Title:       p.Post.Title,
		MediaTitle:  p.Post.MediaTitle,
		MediaArtist: p.MediaTitle.Artist,
		MediaSong:   p.MediaTitle.Song,
	}
}

// IdentityKey joins independently fetched datasets back to the post they came from
type IdentityKey struct {
	PostArtist  string
	PostSong    string
	Score       int
	Title       string
	MediaTitle  string
	MediaArtist string
	MediaSong   string
}

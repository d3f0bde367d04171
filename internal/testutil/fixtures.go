package testutil

import (
	"fmt"
	"time"

	"hot100/internal/models"
)

// Test data constants
const (
	TestSubreddit = "listentothis"
	TestTrackID1  = "4iV5W9uYEdYUVa79Axb7Rh"
	TestTrackID2  = "1301WleyT98MSxVHPZCA6M"
	TestVideoID1  = "dQw4w9WgXcQ"
	TestVideoID2  = "9bZkp7q19f0"
)

// TestTime is the fixed creation time of built posts
var TestTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// PostBuilder provides a fluent interface for creating parsed posts
type PostBuilder struct {
	post models.ParsedPost
}

// NewPostBuilder creates a post with a parsed "artist - song" title and no link
func NewPostBuilder(id, artist, song string) *PostBuilder {
	title := artist + " - " + song
	return &PostBuilder{
		post: models.ParsedPost{
			Post: models.Post{
				ID:          id,
				Subreddit:   TestSubreddit,
				Title:       title,
				MediaTitle:  title,
				CreatedAt:   TestTime,
				Score:       100,
				UpvoteRatio: 0.95,
			},
			PostTitle:  models.ParsedTitle{Artist: artist, Song: song},
			MediaTitle: models.ParsedTitle{Artist: artist, Song: song},
			Link:       models.MediaLink{Source: models.SourceBandcamp, EmbedLink: "https://bandcamp.com/EmbeddedPlayer/track=" + id + "/"},
		},
	}
}

// WithScore sets the upvote score
func (b *PostBuilder) WithScore(score int) *PostBuilder {
	b.post.Post.Score = score
	return b
}

// WithGenres sets the post-title genres
func (b *PostBuilder) WithGenres(genres ...string) *PostBuilder {
	b.post.PostTitle.Genres = genres
	return b
}

// WithMediaTitle replaces the media title and its parsed split
func (b *PostBuilder) WithMediaTitle(title, artist, song string) *PostBuilder {
	b.post.Post.MediaTitle = title
	b.post.MediaTitle = models.ParsedTitle{Artist: artist, Song: song}
	return b
}

// WithSpotifyTrack links the post to a Spotify track
func (b *PostBuilder) WithSpotifyTrack(trackID string) *PostBuilder {
	b.post.Link = models.MediaLink{
		Source:     models.SourceSpotify,
		DirectLink: "https://open.spotify.com/track/" + trackID,
		PlatformID: trackID,
	}
	return b
}

// WithYouTubeVideo links the post to a YouTube video
func (b *PostBuilder) WithYouTubeVideo(videoID string) *PostBuilder {
	b.post.Link = models.MediaLink{
		Source:     models.SourceYouTube,
		DirectLink: "https://www.youtube.com/watch?v=" + videoID,
		PlatformID: videoID,
	}
	return b
}

// WithLinkSource sets the link source and clears the link fields
func (b *PostBuilder) WithLinkSource(source models.LinkSource) *PostBuilder {
	b.post.Link = models.MediaLink{Source: source}
	return b
}

// Build returns the constructed post
func (b *PostBuilder) Build() models.ParsedPost {
	return b.post
}

// Song returns the post as a merged row without enrichment
func (b *PostBuilder) Song() models.MergedSong {
	return models.MergedSong{ParsedPost: b.post}
}

// TestFeatures returns a full feature vector with every unit feature at v
func TestFeatures(v float64) models.FeatureVector {
	return models.FeatureVector{
		models.FeatureDanceability:     v,
		models.FeatureEnergy:           v,
		models.FeatureLoudness:         -6,
		models.FeatureSpeechiness:      v,
		models.FeatureAcousticness:     v,
		models.FeatureInstrumentalness: v,
		models.FeatureLiveness:         v,
		models.FeatureValence:          v,
		models.FeatureTempo:            120,
	}
}

// TestRecord creates a catalog record with features
func TestRecord(trackID, artist, song string) models.CatalogRecord {
	return models.CatalogRecord{
		CatalogID:     trackID,
		Title:         song,
		PrimaryArtist: artist,
		Features:      TestFeatures(0.5),
		ReleaseDate:   "2023-06-02",
		ReleaseYear:   2023,
		Popularity:    60,
		ArtworkURL:    "https://i.scdn.co/image/" + trackID,
		DurationMs:    200000,
		Key:           0,
		Mode:          1,
		TimeSignature: 4,
	}
}

// TestVideo creates a video record with every counter present
func TestVideo(videoID string) models.VideoRecord {
	likes, comments := int64(2500), int64(120)
	return models.VideoRecord{
		PlatformID:   videoID,
		Title:        fmt.Sprintf("Video %s", videoID),
		Channel:      "Test Channel",
		PublishedAt:  TestTime,
		Duration:     "PT3M20S",
		ViewCount:    125000,
		LikeCount:    &likes,
		CommentCount: &comments,
		ThumbnailURL: "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg",
	}
}

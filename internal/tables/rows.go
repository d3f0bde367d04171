package tables

import (
	"strconv"
	"strings"
	"time"

	"hot100/internal/format"
	"hot100/internal/models"
)

const listSeparator = ", "

// IdentityColumns carry the parsed identity every stage joins on
type IdentityColumns struct {
	PostArtist  string `csv:"post_artist"`
	PostSong    string `csv:"post_song"`
	Score       int    `csv:"score"`
	Title       string `csv:"title"`
	MediaTitle  string `csv:"media_title"`
	MediaArtist string `csv:"media_artist"`
	MediaSong   string `csv:"media_song"`
}

func identityColumns(k models.IdentityKey) IdentityColumns {
	return IdentityColumns{
		PostArtist:  k.PostArtist,
		PostSong:    k.PostSong,
		Score:       k.Score,
		Title:       k.Title,
		MediaTitle:  k.MediaTitle,
		MediaArtist: k.MediaArtist,
		MediaSong:   k.MediaSong,
	}
}

// Identity returns the identity the columns describe
func (c IdentityColumns) Identity() models.IdentityKey {
	return models.IdentityKey{
		PostArtist:  c.PostArtist,
		PostSong:    c.PostSong,
		Score:       c.Score,
		Title:       c.Title,
		MediaTitle:  c.MediaTitle,
		MediaArtist: c.MediaArtist,
		MediaSong:   c.MediaSong,
	}
}

// PostRow is one parsed post
type PostRow struct {
	PostID    string `csv:"post_id"`
	Subreddit string `csv:"subreddit"`
	IdentityColumns
	CreatedAt   string  `csv:"created_at"`
	UpvoteRatio float64 `csv:"upvote_ratio"`
	PostGenres  string  `csv:"post_genres"`
	MediaGenres string  `csv:"media_genres"`
	LinkSource  string  `csv:"link_source"`
	DirectLink  string  `csv:"direct_link"`
	EmbedLink   string  `csv:"embed_link"`
	PlatformID  string  `csv:"platform_id"`
}

// NewPostRow flattens a parsed post
func NewPostRow(p models.ParsedPost) PostRow {
	row := PostRow{
		PostID:          p.Post.ID,
		Subreddit:       p.Post.Subreddit,
		IdentityColumns: identityColumns(p.Identity()),
		UpvoteRatio:     p.Post.UpvoteRatio,
		PostGenres:      strings.Join(p.PostTitle.Genres, listSeparator),
		MediaGenres:     strings.Join(p.MediaTitle.Genres, listSeparator),
		LinkSource:      string(p.Link.Source),
		DirectLink:      p.Link.DirectLink,
		EmbedLink:       p.Link.EmbedLink,
		PlatformID:      p.Link.PlatformID,
	}
	if !p.Post.CreatedAt.IsZero() {
		row.CreatedAt = p.Post.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// ParsedPost rebuilds the parsed post
func (r PostRow) ParsedPost() models.ParsedPost {
	return models.ParsedPost{
		Post: models.Post{
			ID:          r.PostID,
			Subreddit:   r.Subreddit,
			Title:       r.Title,
			MediaTitle:  r.MediaTitle,
			CreatedAt:   parseTime(r.CreatedAt),
			Score:       r.Score,
			UpvoteRatio: r.UpvoteRatio,
		},
		PostTitle:  models.ParsedTitle{Artist: r.PostArtist, Song: r.PostSong, Genres: splitList(r.PostGenres)},
		MediaTitle: models.ParsedTitle{Artist: r.MediaArtist, Song: r.MediaSong, Genres: splitList(r.MediaGenres)},
		Link: models.MediaLink{
			Source:     models.LinkSource(r.LinkSource),
			DirectLink: r.DirectLink,
			EmbedLink:  r.EmbedLink,
			PlatformID: r.PlatformID,
		},
	}
}

// CatalogColumns carry one catalog record
type CatalogColumns struct {
	CatalogID        string  `csv:"catalog_id"`
	CatalogSong      string  `csv:"catalog_song"`
	CatalogArtist    string  `csv:"catalog_artist"`
	HasFeatures      bool    `csv:"has_features"`
	Danceability     float64 `csv:"danceability"`
	Energy           float64 `csv:"energy"`
	Loudness         float64 `csv:"loudness"`
	Speechiness      float64 `csv:"speechiness"`
	Acousticness     float64 `csv:"acousticness"`
	Instrumentalness float64 `csv:"instrumentalness"`
	Liveness         float64 `csv:"liveness"`
	Valence          float64 `csv:"valence"`
	Tempo            float64 `csv:"tempo"`
	Key              int     `csv:"key"`
	Mode             int     `csv:"mode"`
	TimeSignature    int     `csv:"time_signature"`
	DurationMs       int     `csv:"duration_ms"`
	ReleaseDate      string  `csv:"release_date"`
	ReleaseYear      int     `csv:"release_year"`
	Explicit         bool    `csv:"explicit"`
	Popularity       int     `csv:"popularity"`
	ArtworkURL       string  `csv:"artwork_url"`
	PreviewURL       string  `csv:"preview_url"`
}

func (c *CatalogColumns) feature(f models.Feature) *float64 {
	switch f {
	case models.FeatureDanceability:
		return &c.Danceability
	case models.FeatureEnergy:
		return &c.Energy
	case models.FeatureLoudness:
		return &c.Loudness
	case models.FeatureSpeechiness:
		return &c.Speechiness
	case models.FeatureAcousticness:
		return &c.Acousticness
	case models.FeatureInstrumentalness:
		return &c.Instrumentalness
	case models.FeatureLiveness:
		return &c.Liveness
	case models.FeatureValence:
		return &c.Valence
	case models.FeatureTempo:
		return &c.Tempo
	}
	return nil
}

func catalogColumns(r models.CatalogRecord) CatalogColumns {
	c := CatalogColumns{
		CatalogID:     r.CatalogID,
		CatalogSong:   r.Title,
		CatalogArtist: r.PrimaryArtist,
		HasFeatures:   len(r.Features) > 0,
		Key:           r.Key,
		Mode:          r.Mode,
		TimeSignature: r.TimeSignature,
		DurationMs:    r.DurationMs,
		ReleaseDate:   r.ReleaseDate,
		ReleaseYear:   r.ReleaseYear,
		Explicit:      r.Explicit,
		Popularity:    r.Popularity,
		ArtworkURL:    r.ArtworkURL,
		PreviewURL:    r.PreviewURL,
	}
	for f, v := range r.Features {
		if p := c.feature(f); p != nil {
			*p = v
		}
	}
	return c
}

// Record rebuilds the catalog record
func (c CatalogColumns) Record() models.CatalogRecord {
	r := models.CatalogRecord{
		CatalogID:     c.CatalogID,
		Title:         c.CatalogSong,
		PrimaryArtist: c.CatalogArtist,
		ReleaseDate:   c.ReleaseDate,
		ReleaseYear:   c.ReleaseYear,
		Explicit:      c.Explicit,
		Popularity:    c.Popularity,
		ArtworkURL:    c.ArtworkURL,
		PreviewURL:    c.PreviewURL,
		DurationMs:    c.DurationMs,
		Key:           c.Key,
		Mode:          c.Mode,
		TimeSignature: c.TimeSignature,
	}
	if c.HasFeatures {
		r.Features = make(models.FeatureVector, len(models.Features))
		for _, f := range models.Features {
			r.Features[f] = *c.feature(f)
		}
	}
	return r
}

// CatalogRow is one catalog candidate found for a post
type CatalogRow struct {
	PostID     string `csv:"post_id"`
	SpotifyURL string `csv:"spotify_url"`
	IdentityColumns
	CatalogColumns
}

// NewCatalogRow flattens a catalog match
func NewCatalogRow(m models.CatalogMatch) CatalogRow {
	return CatalogRow{
		PostID:          m.PostID,
		SpotifyURL:      m.SpotifyURL,
		IdentityColumns: identityColumns(m.Identity),
		CatalogColumns:  catalogColumns(m.Record),
	}
}

// Match rebuilds the catalog match
func (r CatalogRow) Match() models.CatalogMatch {
	return models.CatalogMatch{
		PostID:     r.PostID,
		Identity:   r.Identity(),
		SpotifyURL: r.SpotifyURL,
		Record:     r.Record(),
	}
}

// ArtistColumns carry one artist record
type ArtistColumns struct {
	ArtistName       string `csv:"artist_name"`
	ArtistGenres     string `csv:"artist_genres"`
	ArtistPopularity int    `csv:"artist_popularity"`
	FollowerCount    int64  `csv:"follower_count"`
}

func artistColumns(a models.ArtistRecord) ArtistColumns {
	return ArtistColumns{
		ArtistName:       a.Name,
		ArtistGenres:     strings.Join(a.Genres, listSeparator),
		ArtistPopularity: a.Popularity,
		FollowerCount:    a.FollowerCount,
	}
}

// Artist rebuilds the artist record
func (c ArtistColumns) Artist() models.ArtistRecord {
	return models.ArtistRecord{
		Name:          c.ArtistName,
		Genres:        splitList(c.ArtistGenres),
		Popularity:    c.ArtistPopularity,
		FollowerCount: c.FollowerCount,
	}
}

// ArtistRow is the artist resolved for a post
type ArtistRow struct {
	PostID string `csv:"post_id"`
	IdentityColumns
	ArtistColumns
}

// NewArtistRow flattens an artist match
func NewArtistRow(m models.ArtistMatch) ArtistRow {
	return ArtistRow{
		PostID:          m.PostID,
		IdentityColumns: identityColumns(m.Identity),
		ArtistColumns:   artistColumns(m.Artist),
	}
}

// Match rebuilds the artist match
func (r ArtistRow) Match() models.ArtistMatch {
	return models.ArtistMatch{PostID: r.PostID, Identity: r.Identity(), Artist: r.Artist()}
}

// NotFoundRow is a post or artist the catalog could not resolve
type NotFoundRow struct {
	PostID string `csv:"post_id"`
	Artist string `csv:"artist"`
	Song   string `csv:"song"`
}

// NewNotFoundRow flattens a not-found entry
func NewNotFoundRow(n models.NotFound) NotFoundRow {
	return NotFoundRow{PostID: n.PostID, Artist: n.Artist, Song: n.Song}
}

// VideoRow is one video's metadata
type VideoRow struct {
	VideoID      string `csv:"video_id"`
	VideoTitle   string `csv:"video_title"`
	Channel      string `csv:"channel"`
	PublishedAt  string `csv:"published_at"`
	Duration     string `csv:"duration"`
	ViewCount    int64  `csv:"view_count"`
	LikeCount    string `csv:"like_count"`
	CommentCount string `csv:"comment_count"`
	ThumbnailURL string `csv:"thumbnail_url"`
	Tags         string `csv:"tags"`
}

// NewVideoRow flattens a video record. Hidden counters stay empty.
func NewVideoRow(v models.VideoRecord) VideoRow {
	row := VideoRow{
		VideoID:      v.PlatformID,
		VideoTitle:   v.Title,
		Channel:      v.Channel,
		Duration:     v.Duration,
		ViewCount:    v.ViewCount,
		LikeCount:    formatOptional(v.LikeCount),
		CommentCount: formatOptional(v.CommentCount),
		ThumbnailURL: v.ThumbnailURL,
		Tags:         strings.Join(v.Tags, listSeparator),
	}
	if !v.PublishedAt.IsZero() {
		row.PublishedAt = v.PublishedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// Video rebuilds the video record
func (r VideoRow) Video() models.VideoRecord {
	return models.VideoRecord{
		PlatformID:   r.VideoID,
		Title:        r.VideoTitle,
		Channel:      r.Channel,
		PublishedAt:  parseTime(r.PublishedAt),
		Duration:     r.Duration,
		ViewCount:    r.ViewCount,
		LikeCount:    parseOptional(r.LikeCount),
		CommentCount: parseOptional(r.CommentCount),
		ThumbnailURL: r.ThumbnailURL,
		Tags:         splitList(r.Tags),
	}
}

// SongRow is one row of the merged song table
type SongRow struct {
	Rank int `csv:"rank"`
	PostRow
	HasCatalog bool `csv:"has_catalog"`
	CatalogColumns
	HasArtist bool `csv:"has_artist"`
	ArtistColumns
	HasVideo bool `csv:"has_video"`
	VideoRow
}

// NewSongRow flattens a merged song at its rank
func NewSongRow(rank int, s models.MergedSong) SongRow {
	row := SongRow{Rank: rank, PostRow: NewPostRow(s.ParsedPost)}
	if s.Catalog != nil {
		row.HasCatalog = true
		row.CatalogColumns = catalogColumns(*s.Catalog)
	}
	if s.Artist != nil {
		row.HasArtist = true
		row.ArtistColumns = artistColumns(*s.Artist)
	}
	if s.Video != nil {
		row.HasVideo = true
		row.VideoRow = NewVideoRow(*s.Video)
	}
	return row
}

// Song rebuilds the merged song
func (r SongRow) Song() models.MergedSong {
	s := models.MergedSong{ParsedPost: r.ParsedPost()}
	if r.HasCatalog {
		c := r.Record()
		s.Catalog = &c
	}
	if r.HasArtist {
		a := r.Artist()
		s.Artist = &a
	}
	if r.HasVideo {
		v := r.Video()
		s.Video = &v
	}
	return s
}

// SongRows flattens a ranked song table
func SongRows(songs []models.MergedSong) []SongRow {
	rows := make([]SongRow, len(songs))
	for i, s := range songs {
		rows[i] = NewSongRow(i+1, s)
	}
	return rows
}

// Songs rebuilds a ranked song table
func Songs(rows []SongRow) []models.MergedSong {
	songs := make([]models.MergedSong, len(rows))
	for i, r := range rows {
		songs[i] = r.Song()
	}
	return songs
}

// ExtremeRow is one feature's lowest and highest track
type ExtremeRow struct {
	Feature    string  `csv:"feature" json:"feature"`
	MaxTrack   string  `csv:"max_track" json:"max_track"`
	MaxValue   float64 `csv:"max_value" json:"max_value"`
	MaxLink    string  `csv:"max_link" json:"max_link"`
	MaxArtwork string  `csv:"max_artwork" json:"max_artwork"`
	MinTrack   string  `csv:"min_track" json:"min_track"`
	MinValue   float64 `csv:"min_value" json:"min_value"`
	MinLink    string  `csv:"min_link" json:"min_link"`
	MinArtwork string  `csv:"min_artwork" json:"min_artwork"`
}

// NewExtremeRow flattens a feature extreme
func NewExtremeRow(e format.Extreme) ExtremeRow {
	return ExtremeRow{
		Feature:    string(e.Feature),
		MaxTrack:   e.Max.Track,
		MaxValue:   e.Max.Value,
		MaxLink:    e.Max.Link,
		MaxArtwork: e.Max.Artwork,
		MinTrack:   e.Min.Track,
		MinValue:   e.Min.Value,
		MinLink:    e.Min.Link,
		MinArtwork: e.Min.Artwork,
	}
}

// PlaylistRow is one anonymous video playlist link
type PlaylistRow struct {
	Part int    `csv:"part" json:"part"`
	URL  string `csv:"url" json:"url"`
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatOptional(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func parseOptional(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

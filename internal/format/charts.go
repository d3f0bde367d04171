package format

import (
	"strconv"

	"hot100/internal/models"
)

// DefaultChartSize is the number of rows in each published chart
const DefaultChartSize = 100

// ChartRow is one row of the overall and catalog charts
type ChartRow struct {
	Rank             int    `csv:"rank" json:"rank"`
	Artwork          string `csv:"artwork" json:"artwork"`
	Link             string `csv:"link" json:"link"`
	Artist           string `csv:"artist" json:"artist"`
	Song             string `csv:"song" json:"song"`
	Genres           string `csv:"reddit_genres" json:"reddit_genres"`
	Upvotes          string `csv:"reddit_upvotes" json:"reddit_upvotes"`
	UpvoteRatio      string `csv:"upvote_ratio" json:"upvote_ratio"`
	SongPopularity   string `csv:"song_popularity" json:"song_popularity"`
	ArtistPopularity string `csv:"artist_popularity" json:"artist_popularity"`
	Followers        string `csv:"artist_followers" json:"artist_followers"`
	FollowersExact   string `csv:"artist_followers_exact" json:"artist_followers_exact"`
	Released         string `csv:"released" json:"released"`
	Duration         string `csv:"duration" json:"duration"`
	Key              string `csv:"key" json:"key"`
	Mode             string `csv:"mode" json:"mode"`
	Explicit         string `csv:"explicit" json:"explicit"`
}

// VideoChartRow is one row of the video chart
type VideoChartRow struct {
	Rank       int    `csv:"rank" json:"rank"`
	Thumbnail  string `csv:"thumbnail" json:"thumbnail"`
	Link       string `csv:"link" json:"link"`
	Title      string `csv:"video_title" json:"video_title"`
	Channel    string `csv:"channel" json:"channel"`
	Genres     string `csv:"reddit_genres" json:"reddit_genres"`
	Upvotes    string `csv:"reddit_upvotes" json:"reddit_upvotes"`
	Views      string `csv:"views" json:"views"`
	ViewsExact string `csv:"views_exact" json:"views_exact"`
	Likes      string `csv:"likes" json:"likes"`
	Comments   string `csv:"comments" json:"comments"`
	Duration   string `csv:"duration" json:"duration"`
	Published  string `csv:"published" json:"published"`
}

// RedditChart is the top rows of the ranked song table.
// Rank is the row's position in that table.
func RedditChart(songs []models.MergedSong, size int) []ChartRow {
	return chartRows(songs, size, func(*models.MergedSong) bool { return true })
}

// CatalogChart is the top ranked rows that were found on the catalog
func CatalogChart(songs []models.MergedSong, size int) []ChartRow {
	return chartRows(songs, size, (*models.MergedSong).HasCatalog)
}

func chartRows(songs []models.MergedSong, size int, keep func(*models.MergedSong) bool) []ChartRow {
	if size <= 0 {
		size = DefaultChartSize
	}

	var rows []ChartRow
	for i := range songs {
		if len(rows) >= size {
			break
		}
		s := &songs[i]
		if !keep(s) {
			continue
		}
		rows = append(rows, chartRow(i+1, s))
	}
	return rows
}

func chartRow(rank int, s *models.MergedSong) ChartRow {
	row := ChartRow{
		Rank:             rank,
		Artwork:          Missing,
		Link:             Missing,
		Artist:           orMissing(s.PostTitle.Artist),
		Song:             orMissing(s.PostTitle.Song),
		Genres:           orMissing(s.PostTitle.GenreList()),
		Upvotes:          HumanCount(int64(s.Post.Score)),
		UpvoteRatio:      PercentLabel(s.Post.UpvoteRatio),
		SongPopularity:   Missing,
		ArtistPopularity: Missing,
		Followers:        Missing,
		FollowersExact:   Missing,
		Released:         Missing,
		Duration:         Missing,
		Key:              Missing,
		Mode:             Missing,
		Explicit:         Missing,
	}

	if s.HasCatalog() {
		c := s.Catalog
		row.Artwork = orMissing(c.ArtworkURL)
		row.Link = c.TrackURL()
		row.Artist = orMissing(c.PrimaryArtist)
		row.Song = orMissing(c.Title)
		row.SongPopularity = strconv.Itoa(c.Popularity)
		row.Released = orMissing(c.ReleaseDate)
		row.Explicit = ExplicitLabel(c.Explicit)
		if c.DurationMs > 0 {
			row.Duration = FormatMillis(c.DurationMs)
		}
		// key and mode come with the audio features
		if c.Features != nil {
			row.Key = orMissing(KeyName(c.Key))
			row.Mode = orMissing(ModeName(c.Mode))
		}
	}
	if s.Artist != nil {
		row.ArtistPopularity = strconv.Itoa(s.Artist.Popularity)
		row.Followers = HumanCount(s.Artist.FollowerCount)
		row.FollowersExact = ExactCount(s.Artist.FollowerCount)
	}
	return row
}

// VideoChart is the top ranked rows that carry video metadata
func VideoChart(songs []models.MergedSong, size int) []VideoChartRow {
	if size <= 0 {
		size = DefaultChartSize
	}

	var rows []VideoChartRow
	for i := range songs {
		if len(rows) >= size {
			break
		}
		s := &songs[i]
		if !s.HasVideo() {
			continue
		}
		v := s.Video
		rows = append(rows, VideoChartRow{
			Rank:       i + 1,
			Thumbnail:  orMissing(v.ThumbnailURL),
			Link:       orMissing(s.Link.DirectLink),
			Title:      orMissing(v.Title),
			Channel:    orMissing(v.Channel),
			Genres:     orMissing(s.PostTitle.GenreList()),
			Upvotes:    HumanCount(int64(s.Post.Score)),
			Views:      HumanCount(v.ViewCount),
			ViewsExact: ExactCount(v.ViewCount),
			Likes:      OptionalCount(v.LikeCount),
			Comments:   OptionalCount(v.CommentCount),
			Duration:   orMissing(VideoDuration(v.Duration)),
			Published:  orMissing(PublishDate(v.PublishedAt)),
		})
	}
	return rows
}

// VideoIDs returns the linked video IDs of the rows carrying video metadata, in rank order
func VideoIDs(songs []models.MergedSong) []string {
	var ids []string
	for i := range songs {
		if songs[i].HasVideo() {
			ids = append(ids, songs[i].Video.PlatformID)
		}
	}
	return ids
}

package format

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hot100/internal/models"
)

func song(id string, score int) models.MergedSong {
	return models.MergedSong{
		ParsedPost: models.ParsedPost{
			Post:      models.Post{ID: id, Score: score},
			PostTitle: models.ParsedTitle{Artist: "Post Artist " + id, Song: "Post Song " + id, Genres: []string{"pop", "r&b"}},
			Link:      models.MediaLink{Source: models.SourceYouTube, DirectLink: "https://www.youtube.com/watch?v=" + id, PlatformID: id},
		},
	}
}

func withCatalog(s models.MergedSong, features models.FeatureVector) models.MergedSong {
	s.Catalog = &models.CatalogRecord{
		CatalogID:     "cat-" + s.Post.ID,
		Title:         "Song " + s.Post.ID,
		PrimaryArtist: "Artist " + s.Post.ID,
		Popularity:    55,
		ReleaseDate:   "2021-05-01",
		ArtworkURL:    "https://i.scdn.co/" + s.Post.ID,
		Features:      features,
	}
	return s
}

func TestRedditChart(t *testing.T) {
	plain := song("a", 1256)
	plain.Post.UpvoteRatio = 0.975
	found := withCatalog(song("b", 10), models.FeatureVector{models.FeatureEnergy: 80})
	found.Catalog.DurationMs = 215_000
	found.Catalog.Key = 1
	found.Catalog.Mode = 0
	found.Catalog.Explicit = true
	found.Artist = &models.ArtistRecord{Popularity: 61, FollowerCount: 2_500_000}

	rows := RedditChart([]models.MergedSong{plain, found}, 100)

	require.Len(t, rows, 2)
	assert.Equal(t, ChartRow{
		Rank:             1,
		Artwork:          Missing,
		Link:             Missing,
		Artist:           "Post Artist a",
		Song:             "Post Song a",
		Genres:           "pop, r&b",
		Upvotes:          "1.26K",
		UpvoteRatio:      "97.5%",
		SongPopularity:   Missing,
		ArtistPopularity: Missing,
		Followers:        Missing,
		FollowersExact:   Missing,
		Released:         Missing,
		Duration:         Missing,
		Key:              Missing,
		Mode:             Missing,
		Explicit:         Missing,
	}, rows[0])

	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "Artist b", rows[1].Artist)
	assert.Equal(t, "https://open.spotify.com/track/cat-b", rows[1].Link)
	assert.Equal(t, "55", rows[1].SongPopularity)
	assert.Equal(t, "61", rows[1].ArtistPopularity)
	assert.Equal(t, "2.5M", rows[1].Followers)
	assert.Equal(t, "2,500,000", rows[1].FollowersExact)
	assert.Equal(t, "2021-05-01", rows[1].Released)
	assert.Equal(t, "03:35", rows[1].Duration)
	assert.Equal(t, "C#/Db", rows[1].Key)
	assert.Equal(t, "minor", rows[1].Mode)
	assert.Equal(t, "Explicit", rows[1].Explicit)
	assert.Equal(t, "0%", rows[1].UpvoteRatio)
}

func TestChartRow_CatalogWithoutFeatures(t *testing.T) {
	noFeatures := withCatalog(song("a", 5), nil)
	noFeatures.Catalog.Key = -1

	rows := CatalogChart([]models.MergedSong{noFeatures}, 100)

	require.Len(t, rows, 1)
	assert.Equal(t, Missing, rows[0].Key)
	assert.Equal(t, Missing, rows[0].Mode)
	assert.Equal(t, Missing, rows[0].Duration)
	assert.Equal(t, "Clean", rows[0].Explicit)
}

func TestCatalogChart_OnlyFoundRowsKeepRank(t *testing.T) {
	songs := []models.MergedSong{
		song("a", 30),
		withCatalog(song("b", 20), nil),
		withCatalog(song("c", 10), nil),
	}

	rows := CatalogChart(songs, 1)

	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Rank)
	assert.Equal(t, "Song b", rows[0].Song)
}

func TestChart_SizeCap(t *testing.T) {
	var songs []models.MergedSong
	for i := 0; i < 120; i++ {
		songs = append(songs, song(fmt.Sprint(i), 120-i))
	}
	assert.Len(t, RedditChart(songs, 0), DefaultChartSize)
	assert.Len(t, RedditChart(songs, 10), 10)
}

func TestVideoChart(t *testing.T) {
	likes := int64(42)
	withVideo := song("v", 7)
	withVideo.Video = &models.VideoRecord{
		PlatformID:   "v",
		Title:        "Video",
		Channel:      "Channel",
		PublishedAt:  time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:     "PT4M5S",
		ViewCount:    1_234_567,
		LikeCount:    &likes,
		ThumbnailURL: "https://i.ytimg.com/v.jpg",
	}

	rows := VideoChart([]models.MergedSong{song("none", 9), withVideo}, 100)

	require.Len(t, rows, 1)
	assert.Equal(t, VideoChartRow{
		Rank:       2,
		Thumbnail:  "https://i.ytimg.com/v.jpg",
		Link:       "https://www.youtube.com/watch?v=v",
		Title:      "Video",
		Channel:    "Channel",
		Genres:     "pop, r&b",
		Upvotes:    "7",
		Views:      "1.23M",
		ViewsExact: "1,234,567",
		Likes:      "42",
		Comments:   Missing,
		Duration:   "00:04:05",
		Published:  "2022-01-02",
	}, rows[0])
}

func TestExtremes(t *testing.T) {
	songs := []models.MergedSong{
		withCatalog(song("a", 3), models.FeatureVector{models.FeatureEnergy: 80, models.FeatureTempo: 128.6}),
		song("no-catalog", 2),
		withCatalog(song("b", 2), models.FeatureVector{models.FeatureEnergy: 20, models.FeatureTempo: 90.2}),
		withCatalog(song("c", 1), models.FeatureVector{models.FeatureEnergy: 80, models.FeatureTempo: 90.2}),
	}

	extremes := Extremes(songs)

	require.Len(t, extremes, 2)
	assert.Equal(t, models.FeatureEnergy, extremes[0].Feature)
	assert.Equal(t, "Song a - Artist a", extremes[0].Max.Track, "ties go to the first row")
	assert.Equal(t, 80.0, extremes[0].Max.Value)
	assert.Equal(t, "Song b - Artist b", extremes[0].Min.Track)
	assert.Equal(t, "https://open.spotify.com/track/cat-b", extremes[0].Min.Link)
	assert.Equal(t, "https://i.scdn.co/b", extremes[0].Min.Artwork)

	assert.Equal(t, models.FeatureTempo, extremes[1].Feature)
	assert.Equal(t, 128.0, extremes[1].Max.Value)
	assert.Equal(t, 90.0, extremes[1].Min.Value)
	assert.Equal(t, "Song b - Artist b", extremes[1].Min.Track)
}

func TestExtremes_Empty(t *testing.T) {
	assert.Empty(t, Extremes(nil))
	assert.Empty(t, Extremes([]models.MergedSong{song("a", 1)}))
}

func TestWatchVideosLinks(t *testing.T) {
	ids := []string{"a", "b", "", "a", "c"}

	links := WatchVideosLinks(ids, 2)

	assert.Equal(t, []string{
		"http://www.youtube.com/watch_videos?video_ids=a,b",
		"http://www.youtube.com/watch_videos?video_ids=c",
	}, links)
	assert.Empty(t, WatchVideosLinks(nil, 50))

	many := make([]string, 120)
	for i := range many {
		many[i] = fmt.Sprintf("v%d", i)
	}
	assert.Len(t, WatchVideosLinks(many, 0), 3)
}

func TestVideoIDs(t *testing.T) {
	a := song("a", 2)
	a.Video = &models.VideoRecord{PlatformID: "a"}
	assert.Equal(t, []string{"a"}, VideoIDs([]models.MergedSong{a, song("b", 1)}))
}

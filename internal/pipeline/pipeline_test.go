package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hot100/internal/config"
	"hot100/internal/format"
	"hot100/internal/matching"
	"hot100/internal/models"
	"hot100/internal/services"
	"hot100/internal/storage"
	"hot100/internal/tables"
	"hot100/internal/testutil"
)

var runTime = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func runDay() time.Time {
	return time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
}

func spotifyPost(id, title string, score int, trackID string) models.Post {
	return models.Post{
		ID:         id,
		Title:      title,
		MediaTitle: title,
		Score:      score,
		CreatedAt:  testutil.TestTime,
		RawMedia: &models.RawMedia{OEmbed: models.MediaOEmbed{
			ProviderURL: "https://spotify.com",
			HTML:        `<iframe src="https://open.spotify.com/embed/track/` + trackID + `?utm_source=oembed"></iframe>`,
		}},
	}
}

func youtubePost(id, title string, score int, videoID string) models.Post {
	return models.Post{
		ID:         id,
		Title:      title,
		MediaTitle: title,
		Score:      score,
		CreatedAt:  testutil.TestTime,
		RawMedia: &models.RawMedia{OEmbed: models.MediaOEmbed{
			ProviderURL: "https://www.youtube.com/",
			URL:         "https://www.youtube.com/watch?v=" + videoID,
		}},
	}
}

func otherPost(id string, score int) models.Post {
	return models.Post{
		ID:    id,
		Title: "Someone - Something",
		Score: score,
		RawMedia: &models.RawMedia{OEmbed: models.MediaOEmbed{
			ProviderURL: "https://vimeo.com/",
			HTML:        `<iframe src="https://player.vimeo.com/video/1"></iframe>`,
		}},
	}
}

func testPipelineConfig() *config.PipelineConfig {
	cfg := config.DefaultPipelineConfig()
	cfg.Subreddits = []string{"music", "listentothis"}
	return cfg
}

func newTestRunner(deps Deps) *Runner {
	return NewRunner(deps, Options{
		Pipeline:    testPipelineConfig(),
		Concurrency: 2,
		CallTimeout: time.Second,
		Now:         func() time.Time { return runTime },
	})
}

func writePosts(t *testing.T, store storage.Storage, posts ...models.ParsedPost) {
	rows := make([]tables.PostRow, len(posts))
	for i, p := range posts {
		rows[i] = tables.NewPostRow(p)
	}
	require.NoError(t, tables.Write(context.Background(), store, tables.RedditPosts, runDay(), rows))
}

func TestParseStage(t *testing.T) {
	for _, word := range []string{"reddit", "spotify", "youtube", "merge", "charts", "all", " Spotify "} {
		_, err := ParseStage(word)
		assert.NoError(t, err, word)
	}
	_, err := ParseStage("deploy")
	assert.Error(t, err)
}

func TestParsePost(t *testing.T) {
	pp, ok := ParsePost(spotifyPost("p1", "Artist A - Song A [Pop]", 10, "trk1"))
	require.True(t, ok)
	assert.Equal(t, "Artist A", pp.PostTitle.Artist)
	assert.Equal(t, "Song A", pp.PostTitle.Song)
	assert.Equal(t, []string{"pop"}, pp.PostTitle.Genres)
	assert.Equal(t, models.SourceSpotify, pp.Link.Source)
	assert.Equal(t, "trk1", pp.Link.PlatformID)

	_, ok = ParsePost(otherPost("p2", 10))
	assert.False(t, ok, "unsupported providers are dropped")

	_, ok = ParsePost(models.Post{ID: "p3"})
	assert.False(t, ok, "posts without media are skipped")

	broken := youtubePost("p4", "A - B", 1, "x")
	broken.RawMedia.OEmbed.URL = "https://youtu.be/abc"
	_, ok = ParsePost(broken)
	assert.False(t, ok, "unparseable links are skipped")
}

func TestTopPosts(t *testing.T) {
	posts := []models.ParsedPost{
		testutil.NewPostBuilder("a", "A", "1").WithScore(5).Build(),
		testutil.NewPostBuilder("b", "B", "2").WithScore(50).Build(),
		testutil.NewPostBuilder("c", "C", "3").WithScore(5).Build(),
		testutil.NewPostBuilder("d", "D", "4").WithScore(20).Build(),
	}

	top := TopPosts(posts, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Post.ID)
	assert.Equal(t, "d", top[1].Post.ID)
	assert.Equal(t, "a", top[2].Post.ID, "equal scores keep input order")
}

func TestQuotaVideoIDs(t *testing.T) {
	posts := []models.ParsedPost{
		testutil.NewPostBuilder("a", "A", "1").WithYouTubeVideo("v1").Build(),
		testutil.NewPostBuilder("b", "B", "2").WithSpotifyTrack("t1").Build(),
		testutil.NewPostBuilder("c", "C", "3").WithYouTubeVideo("v1").Build(),
		testutil.NewPostBuilder("d", "D", "4").WithYouTubeVideo("v2").Build(),
		testutil.NewPostBuilder("e", "E", "5").WithYouTubeVideo("v3").Build(),
	}

	assert.Equal(t, []string{"v1", "v2"}, QuotaVideoIDs(posts, 3))
	assert.Equal(t, []string{"v1", "v2", "v3"}, QuotaVideoIDs(posts, 0))
}

func TestRunReddit(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStorage()
	source := &services.MockPostSource{}

	nsfw := youtubePost("p6", "Artist F - Song F", 900, "vidF")
	nsfw.Over18 = true

	source.On("HotPosts", mock.Anything, "music", 500).Return([]models.Post{
		spotifyPost("p1", "Artist A - Song A", 300, "trk1"),
		youtubePost("p2", "Artist B - Song B [Rock]", 200, "vidB"),
		otherPost("p3", 500),
		{ID: "p4", Title: "Text post", Score: 1000},
		nsfw,
	}, nil)
	source.On("HotPosts", mock.Anything, "listentothis", 500).Return([]models.Post{
		youtubePost("p5", "Artist C - Song C", 250, "vidC"),
	}, nil)

	runner := newTestRunner(Deps{Store: store, Posts: source})
	require.NoError(t, runner.Run(ctx, StageReddit))

	rows, err := tables.Read[tables.PostRow](ctx, store, tables.RedditPosts, runDay())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"p1", "p5", "p2"}, []string{rows[0].PostID, rows[1].PostID, rows[2].PostID})
	assert.Equal(t, "rock", rows[2].PostGenres)
	source.AssertExpectations(t)
}

func TestRunReddit_SubredditFailureIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStorage()
	source := &services.MockPostSource{}

	source.On("HotPosts", mock.Anything, "music", 500).Return(nil, errors.New("503"))
	source.On("HotPosts", mock.Anything, "listentothis", 500).Return([]models.Post{
		youtubePost("p5", "Artist C - Song C", 250, "vidC"),
	}, nil)

	runner := newTestRunner(Deps{Store: store, Posts: source})
	require.NoError(t, runner.Run(ctx, StageReddit))

	rows, err := tables.Read[tables.PostRow](ctx, store, tables.RedditPosts, runDay())
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestRunSpotify_KeepsPostOrder(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStorage()
	catalog := &services.MockCatalogService{}

	var posts []models.ParsedPost
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("trk%02d", i)
		posts = append(posts, testutil.NewPostBuilder(fmt.Sprintf("p%02d", i), "Artist", "Song "+id).WithSpotifyTrack(id).Build())
		catalog.On("GetTrack", mock.Anything, id).Return(&services.TrackInfo{ExternalID: id, Title: "Song " + id, Artists: []string{"Artist"}}, nil)
		catalog.On("GetAudioFeatures", mock.Anything, id).Return(&services.AudioFeatures{Vector: testutil.TestFeatures(0.5)}, nil)
	}
	catalog.On("SearchArtists", mock.Anything, "Artist", 1).Return([]models.ArtistRecord{{Name: "Artist"}}, nil)
	writePosts(t, store, posts...)

	runner := NewRunner(Deps{Store: store, Catalog: catalog}, Options{
		Pipeline:    testPipelineConfig(),
		Concurrency: 4,
		Now:         func() time.Time { return runTime },
	})
	require.NoError(t, runner.Run(ctx, StageSpotify))

	raw, err := tables.Read[tables.CatalogRow](ctx, store, tables.CatalogRaw, runDay())
	require.NoError(t, err)
	require.Len(t, raw, 12)
	for i, row := range raw {
		assert.Equal(t, fmt.Sprintf("p%02d", i), row.PostID)
		assert.Equal(t, fmt.Sprintf("trk%02d", i), row.CatalogID)
	}
	catalog.AssertNotCalled(t, "SearchTracks", mock.Anything, mock.Anything, mock.Anything)

	artists, err := tables.Read[tables.ArtistRow](ctx, store, tables.ArtistData, runDay())
	require.NoError(t, err)
	assert.Len(t, artists, 12)
}

func TestCheckTerminal(t *testing.T) {
	done := []catalogResult{
		{resolution: &matching.Resolution{PostID: "p1", State: matching.StateResolved}},
		{resolution: &matching.Resolution{PostID: "p2", State: matching.StateNotFound}},
	}
	assert.NoError(t, checkTerminal(done))

	stuck := append(done, catalogResult{resolution: &matching.Resolution{PostID: "p3", State: matching.StateMultiMatch}})
	err := checkTerminal(stuck)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post p3 stopped at MULTI_MATCH")
}

func TestRun_PlatformNotConfigured(t *testing.T) {
	runner := newTestRunner(Deps{Store: testutil.NewMemStorage()})

	for _, stage := range []Stage{StageReddit, StageSpotify, StageYouTube} {
		err := runner.Run(context.Background(), stage)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	}
}

func TestRun_MissingInputIsFatal(t *testing.T) {
	runner := newTestRunner(Deps{
		Store:   testutil.NewMemStorage(),
		Catalog: &services.MockCatalogService{},
		Videos:  &services.MockVideoService{},
	})

	for _, stage := range []Stage{StageSpotify, StageYouTube, StageMerge, StageCharts} {
		err := runner.Run(context.Background(), stage)
		assert.ErrorIs(t, err, storage.ErrNoInput, stage)
	}
}

func TestRunMerge_VideoTableOptional(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStorage()

	post := testutil.NewPostBuilder("p1", "Artist A", "Song A").WithSpotifyTrack("trk1").Build()
	writePosts(t, store, post)
	require.NoError(t, tables.Write(ctx, store, tables.CatalogRaw, runDay(), []tables.CatalogRow{
		tables.NewCatalogRow(models.CatalogMatch{PostID: "p1", Identity: post.Identity(), Record: testutil.TestRecord("trk1", "Artist A", "Song A")}),
	}))

	runner := newTestRunner(Deps{Store: store})
	require.NoError(t, runner.Run(ctx, StageMerge))

	rows, err := tables.Read[tables.SongRow](ctx, store, tables.SongData, runDay())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].HasCatalog)
	assert.False(t, rows[0].HasVideo)
	assert.False(t, rows[0].HasArtist)
}

func TestRun_All(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStorage()
	source := &services.MockPostSource{}
	catalog := &services.MockCatalogService{}
	videos := &services.MockVideoService{}
	archive := &testutil.MockChartRepository{}

	source.On("HotPosts", mock.Anything, "music", 500).Return([]models.Post{
		spotifyPost("p1", "Artist A - Song A [Pop]", 300, "trk1"),
		youtubePost("p2", "Artist B - Song B", 200, "vidB"),
		otherPost("p3", 500),
	}, nil)
	source.On("HotPosts", mock.Anything, "listentothis", 500).Return([]models.Post{
		youtubePost("p5", "Artist C - Song C", 100, "vidC"),
	}, nil)

	catalog.On("GetTrack", mock.Anything, "trk1").Return(&services.TrackInfo{
		ExternalID: "trk1", Title: "Song A", Artists: []string{"Artist A"}, Popularity: 70, ReleaseDate: "2023-01-01",
		DurationMs: 215_000, Explicit: true,
	}, nil)
	catalog.On("GetAudioFeatures", mock.Anything, "trk1").Return(&services.AudioFeatures{Vector: testutil.TestFeatures(0.5), Key: 2, Mode: 1}, nil)
	catalog.On("SearchTracks", mock.Anything, "Song B Artist B", 1).Return([]services.TrackInfo{{ExternalID: "trkB"}}, nil)
	catalog.On("GetTrack", mock.Anything, "trkB").Return(&services.TrackInfo{
		ExternalID: "trkB", Title: "Song B", Artists: []string{"Artist B"}, Popularity: 40,
	}, nil)
	catalog.On("GetAudioFeatures", mock.Anything, "trkB").Return(nil, services.NotFoundError("spotify", "get_audio_features"))
	catalog.On("SearchTracks", mock.Anything, "Song C Artist C", 1).Return([]services.TrackInfo{}, nil)
	catalog.On("SearchArtists", mock.Anything, "Artist A", 1).Return([]models.ArtistRecord{{Name: "Artist A", Popularity: 50, FollowerCount: 1000}}, nil)
	catalog.On("SearchArtists", mock.Anything, "Artist B", 1).Return([]models.ArtistRecord{}, nil)
	catalog.On("SearchArtists", mock.Anything, "Artist C", 1).Return(nil, errors.New("timeout"))

	video := testutil.TestVideo("vidB")
	videos.On("GetVideo", mock.Anything, "vidB").Return(&video, nil)
	videos.On("GetVideo", mock.Anything, "vidC").Return(nil, nil)

	testutil.ExpectSaveRun(archive, nil)

	runner := newTestRunner(Deps{Store: store, Posts: source, Catalog: catalog, Videos: videos, Archive: archive})
	require.NoError(t, runner.Run(ctx, StageAll))

	for _, name := range []string{
		tables.RedditPosts, tables.CatalogRaw, tables.CatalogNotFound, tables.ArtistData,
		tables.ArtistNotFound, tables.VideoData, tables.SongData, tables.CatalogTop,
		tables.CatalogExtremes, tables.ChartReddit, tables.ChartCatalog, tables.ChartVideo,
		tables.VideoPlaylists,
	} {
		assert.Contains(t, store.Names(), tables.FileName(name, runDay()))
	}

	songRows, err := tables.Read[tables.SongRow](ctx, store, tables.SongData, runDay())
	require.NoError(t, err)
	songs := tables.Songs(songRows)
	require.Len(t, songs, 3)
	assert.Equal(t, "p1", songs[0].Post.ID)
	assert.Equal(t, "trk1", songs[0].Catalog.CatalogID)
	assert.Equal(t, "Artist A", songs[0].Artist.Name)
	assert.Equal(t, "p2", songs[1].Post.ID)
	assert.Equal(t, "trkB", songs[1].Catalog.CatalogID)
	assert.Nil(t, songs[1].Catalog.Features, "missing features keep the track")
	assert.Equal(t, "vidB", songs[1].Video.PlatformID)
	assert.Equal(t, "p5", songs[2].Post.ID)
	assert.Nil(t, songs[2].Catalog)
	assert.Nil(t, songs[2].Video)

	notFound, err := tables.Read[tables.NotFoundRow](ctx, store, tables.CatalogNotFound, runDay())
	require.NoError(t, err)
	assert.Equal(t, []tables.NotFoundRow{{PostID: "p5", Artist: "Artist C", Song: "Song C"}}, notFound)

	artistsMissing, err := tables.Read[tables.NotFoundRow](ctx, store, tables.ArtistNotFound, runDay())
	require.NoError(t, err)
	assert.Len(t, artistsMissing, 2)

	extremes, err := tables.Read[tables.ExtremeRow](ctx, store, tables.CatalogExtremes, runDay())
	require.NoError(t, err)
	assert.Len(t, extremes, len(models.Features))

	catalogChart, err := tables.Read[tables.SongRow](ctx, store, tables.CatalogTop, runDay())
	require.NoError(t, err)
	assert.Len(t, catalogChart, 2)

	published, err := tables.Read[format.ChartRow](ctx, store, tables.ChartCatalog, runDay())
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "03:35", published[0].Duration)
	assert.Equal(t, "D", published[0].Key)
	assert.Equal(t, "major", published[0].Mode)
	assert.Equal(t, "Explicit", published[0].Explicit)
	assert.Equal(t, "1,000", published[0].FollowersExact)
	assert.Equal(t, format.Missing, published[1].Key, "no features, no key")
	assert.Equal(t, "Clean", published[1].Explicit)

	playlists, err := tables.Read[tables.PlaylistRow](ctx, store, tables.VideoPlaylists, runDay())
	require.NoError(t, err)
	assert.Equal(t, []tables.PlaylistRow{{Part: 1, URL: "http://www.youtube.com/watch_videos?video_ids=vidB"}}, playlists)

	archive.AssertCalled(t, "SaveRun", mock.Anything, mock.MatchedBy(func(run *models.ChartRun) bool {
		return run.RunDate == "2024-03-10" && len(run.Songs) == 3 && len(run.NotFound) == 1
	}))
	source.AssertExpectations(t)
	catalog.AssertExpectations(t)
	videos.AssertExpectations(t)
}

func TestRun_AllSkipsUnconfiguredVideos(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStorage()
	source := &services.MockPostSource{}
	catalog := &services.MockCatalogService{}

	source.On("HotPosts", mock.Anything, mock.Anything, 500).Return([]models.Post{
		youtubePost("p2", "Artist B - Song B", 200, "vidB"),
	}, nil)
	catalog.On("SearchTracks", mock.Anything, mock.Anything, 1).Return([]services.TrackInfo{}, nil)
	catalog.On("SearchArtists", mock.Anything, mock.Anything, 1).Return([]models.ArtistRecord{}, nil)

	runner := newTestRunner(Deps{Store: store, Posts: source, Catalog: catalog})
	require.NoError(t, runner.Run(ctx, StageAll))

	assert.NotContains(t, store.Names(), tables.FileName(tables.VideoData, runDay()))
	assert.Contains(t, store.Names(), tables.FileName(tables.ChartVideo, runDay()))
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hot100/internal/models"
)

// newSpotifyTestServer serves the token endpoint and the given API routes
func newSpotifyTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var tokenCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"bearer","expires_in":3600}`))
	})
	for path, handler := range routes {
		h := handler
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &tokenCalls
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSpotifyService_SearchTracks(t *testing.T) {
	var gotQuery, gotType string
	server, tokenCalls := newSpotifyTestServer(t, map[string]http.HandlerFunc{
		"/v1/search": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotType = r.URL.Query().Get("type")
			writeJSON(w, map[string]any{
				"tracks": map[string]any{
					"items": []map[string]any{{
						"id":          "t1",
						"name":        "Song Y",
						"artists":     []map[string]any{{"name": "Artist X"}, {"name": "Z"}},
						"album":       map[string]any{"name": "Album", "release_date": "2021-05-07", "images": []map[string]any{{"url": "https://img/large", "width": 640}}},
						"duration_ms": 215000,
						"explicit":    true,
						"popularity":  71,
					}},
				},
			})
		},
	})

	svc := newSpotifyService("id", "secret", server.URL+"/token", server.URL+"/v1")

	tracks, err := svc.SearchTracks(context.Background(), "Artist X Song Y", 1)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	assert.Equal(t, "Artist X Song Y", gotQuery)
	assert.Equal(t, "track", gotType)
	assert.Equal(t, "t1", tracks[0].ExternalID)
	assert.Equal(t, "Artist X", tracks[0].PrimaryArtist())
	assert.Equal(t, "https://open.spotify.com/track/t1", tracks[0].URL)
	assert.Equal(t, "https://img/large", tracks[0].ImageURL)
	assert.True(t, tracks[0].Explicit)

	// Token is reused across calls
	_, err = svc.SearchTracks(context.Background(), "again", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(tokenCalls))
}

func TestSpotifyService_GetTrack_NotFound(t *testing.T) {
	server, _ := newSpotifyTestServer(t, map[string]http.HandlerFunc{
		"/v1/tracks/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	svc := newSpotifyService("id", "secret", server.URL+"/token", server.URL+"/v1")

	track, err := svc.GetTrack(context.Background(), "missing")

	assert.Nil(t, track)
	assert.True(t, IsNotFound(err))
	var platformErr *PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, "get_track", platformErr.Operation)
}

func TestSpotifyService_GetAudioFeatures(t *testing.T) {
	server, _ := newSpotifyTestServer(t, map[string]http.HandlerFunc{
		"/v1/audio-features/t1": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{
				"id": "t1", "danceability": 0.7354, "energy": 0.5, "loudness": -6.1,
				"speechiness": 0.04, "acousticness": 0.2, "instrumentalness": 0.0,
				"liveness": 0.1, "valence": 0.6, "tempo": 120.5,
				"key": 5, "mode": 1, "time_signature": 4, "duration_ms": 200000,
			})
		},
		"/v1/audio-features/empty": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{})
		},
	})
	svc := newSpotifyService("id", "secret", server.URL+"/token", server.URL+"/v1")

	features, err := svc.GetAudioFeatures(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, features.Vector, len(models.Features))
	assert.Equal(t, 0.7354, features.Vector[models.FeatureDanceability])
	assert.Equal(t, 5, features.Key)
	assert.Equal(t, 4, features.TimeSignature)

	_, err = svc.GetAudioFeatures(context.Background(), "empty")
	assert.True(t, IsNotFound(err))
}

func TestSpotifyService_SearchArtists(t *testing.T) {
	server, _ := newSpotifyTestServer(t, map[string]http.HandlerFunc{
		"/v1/search": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "artist", r.URL.Query().Get("type"))
			writeJSON(w, map[string]any{
				"artists": map[string]any{
					"items": []map[string]any{{
						"name":       "Artist X",
						"genres":     []string{"indie rock", "shoegaze"},
						"popularity": 55,
						"followers":  map[string]any{"total": 123456},
					}},
				},
			})
		},
	})
	svc := newSpotifyService("id", "secret", server.URL+"/token", server.URL+"/v1")

	artists, err := svc.SearchArtists(context.Background(), "Artist X", 1)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, models.ArtistRecord{
		Name:          "Artist X",
		Genres:        []string{"indie rock", "shoegaze"},
		Popularity:    55,
		FollowerCount: 123456,
	}, artists[0])
}

func TestSpotifyService_ServerError(t *testing.T) {
	server, _ := newSpotifyTestServer(t, map[string]http.HandlerFunc{
		"/v1/search": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	svc := newSpotifyService("id", "secret", server.URL+"/token", server.URL+"/v1")

	_, err := svc.SearchTracks(context.Background(), "q", 1)

	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "status 500")
}

func TestSpotifyService_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	svc := newSpotifyService("id", "bad", server.URL+"/token", server.URL+"/v1")

	err := svc.Health(context.Background())

	var platformErr *PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, "auth", platformErr.Operation)
}

func TestTrackInfo_ToCatalogRecord(t *testing.T) {
	track := &TrackInfo{
		ExternalID:  "t1",
		Title:       "Song Y",
		Artists:     []string{"Artist X", "Z"},
		ReleaseDate: "2019-03",
		Popularity:  40,
	}
	features := &AudioFeatures{
		Vector: models.FeatureVector{
			models.FeatureDanceability: 0.7354,
			models.FeatureTempo:        98.2,
		},
		Key:        2,
		DurationMs: 180000,
	}

	record := track.ToCatalogRecord(features)

	assert.Equal(t, "t1", record.CatalogID)
	assert.Equal(t, "Artist X", record.PrimaryArtist)
	assert.Equal(t, 2019, record.ReleaseYear)
	assert.InDelta(t, 73.54, record.Features[models.FeatureDanceability], 1e-9)
	assert.Equal(t, 98.2, record.Features[models.FeatureTempo])
	assert.Equal(t, 180000, record.DurationMs)
	assert.Equal(t, 2, record.Key)

	bare := track.ToCatalogRecord(nil)
	assert.Equal(t, -1, bare.Key)
	assert.Nil(t, bare.Features)
}

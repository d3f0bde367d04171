package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"

	"hot100/internal/models"
)

// Spotify API endpoints
const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyAPIURL   = "https://api.spotify.com/v1"
)

// SpotifyService implements CatalogService against the Spotify Web API
type SpotifyService struct {
	client *resty.Client
	apiURL string
	token  *appToken
}

// NewSpotifyService creates a new Spotify service using app-only credentials
func NewSpotifyService(clientID, clientSecret string) *SpotifyService {
	return newSpotifyService(clientID, clientSecret, spotifyTokenURL, spotifyAPIURL)
}

func newSpotifyService(clientID, clientSecret, tokenURL, apiURL string) *SpotifyService {
	tokenSource := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	client := resty.New().
		SetTimeout(10 * time.Second)

	return &SpotifyService{
		client: client,
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  newAppToken("spotify", tokenSource, ""),
	}
}

// SearchTracks searches for tracks on Spotify
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]TrackInfo, error) {
	var result spotifySearchResult
	if err := s.get(ctx, "search", "/search", map[string]string{
		"q":     query,
		"type":  "track",
		"limit": strconv.Itoa(clampLimit(limit)),
	}, &result); err != nil {
		return nil, err
	}

	tracks := make([]TrackInfo, 0, len(result.Tracks.Items))
	for i := range result.Tracks.Items {
		tracks = append(tracks, convertSpotifyTrack(&result.Tracks.Items[i]))
	}
	return tracks, nil
}

// GetTrack fetches track details from Spotify API
func (s *SpotifyService) GetTrack(ctx context.Context, trackID string) (*TrackInfo, error) {
	var track spotifyTrack
	if err := s.get(ctx, "get_track", "/tracks/"+trackID, nil, &track); err != nil {
		return nil, err
	}
	info := convertSpotifyTrack(&track)
	return &info, nil
}

// GetAudioFeatures fetches the audio features of a track
func (s *SpotifyService) GetAudioFeatures(ctx context.Context, trackID string) (*AudioFeatures, error) {
	var raw spotifyAudioFeatures
	if err := s.get(ctx, "get_audio_features", "/audio-features/"+trackID, nil, &raw); err != nil {
		return nil, err
	}
	if raw.ID == "" {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "get_audio_features",
			Message:   "no features for track " + trackID,
			Err:       ErrNotFound,
		}
	}

	return &AudioFeatures{
		Vector: models.FeatureVector{
			models.FeatureDanceability:     raw.Danceability,
			models.FeatureEnergy:           raw.Energy,
			models.FeatureLoudness:         raw.Loudness,
			models.FeatureSpeechiness:      raw.Speechiness,
			models.FeatureAcousticness:     raw.Acousticness,
			models.FeatureInstrumentalness: raw.Instrumentalness,
			models.FeatureLiveness:         raw.Liveness,
			models.FeatureValence:          raw.Valence,
			models.FeatureTempo:            raw.Tempo,
		},
		Key:           raw.Key,
		Mode:          raw.Mode,
		TimeSignature: raw.TimeSignature,
		DurationMs:    raw.DurationMs,
	}, nil
}

// SearchArtists searches for artists on Spotify
func (s *SpotifyService) SearchArtists(ctx context.Context, query string, limit int) ([]models.ArtistRecord, error) {
	var result spotifySearchResult
	if err := s.get(ctx, "search_artist", "/search", map[string]string{
		"q":     query,
		"type":  "artist",
		"limit": strconv.Itoa(clampLimit(limit)),
	}, &result); err != nil {
		return nil, err
	}

	artists := make([]models.ArtistRecord, 0, len(result.Artists.Items))
	for _, a := range result.Artists.Items {
		artists = append(artists, models.ArtistRecord{
			Name:          a.Name,
			Genres:        a.Genres,
			Popularity:    a.Popularity,
			FollowerCount: a.Followers.Total,
		})
	}
	return artists, nil
}

// Health checks that an app token can be obtained
func (s *SpotifyService) Health(ctx context.Context) error {
	_, err := s.token.get(ctx)
	return err
}

func (s *SpotifyService) get(ctx context.Context, operation, path string, params map[string]string, result any) error {
	token, err := s.token.get(ctx)
	if err != nil {
		return err
	}

	url := s.apiURL + path
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(params).
		SetResult(result).
		Get(url)
	if err != nil {
		return &PlatformError{
			Platform:  "spotify",
			Operation: operation,
			Message:   "request failed",
			URL:       url,
			Err:       err,
		}
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return &PlatformError{
			Platform:  "spotify",
			Operation: operation,
			URL:       url,
			Err:       ErrNotFound,
		}
	case http.StatusUnauthorized:
		s.token.invalidate()
	}

	return &PlatformError{
		Platform:  "spotify",
		Operation: operation,
		Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		URL:       url,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 1
	}
	if limit > 50 {
		return 50 // Spotify API limit
	}
	return limit
}

// convertSpotifyTrack converts Spotify API response to TrackInfo
func convertSpotifyTrack(track *spotifyTrack) TrackInfo {
	artists := make([]string, len(track.Artists))
	for i, artist := range track.Artists {
		artists[i] = artist.Name
	}

	// Largest image first in the API response
	var imageURL string
	if len(track.Album.Images) > 0 {
		imageURL = track.Album.Images[0].URL
	}

	return TrackInfo{
		ExternalID:  track.ID,
		URL:         "https://open.spotify.com/track/" + track.ID,
		Title:       track.Name,
		Artists:     artists,
		Album:       track.Album.Name,
		DurationMs:  track.DurationMs,
		ReleaseDate: track.Album.ReleaseDate,
		Explicit:    track.Explicit,
		Popularity:  track.Popularity,
		ImageURL:    imageURL,
		PreviewURL:  track.PreviewURL,
	}
}

// Spotify API response structures
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	DurationMs int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	PreviewURL string          `json:"preview_url"`
}

type spotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  struct {
		Total int64 `json:"total"`
	} `json:"followers"`
}

type spotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type spotifySearchResult struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
	Artists struct {
		Items []spotifyArtist `json:"items"`
	} `json:"artists"`
}

type spotifyAudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
	TimeSignature    int     `json:"time_signature"`
	DurationMs       int     `json:"duration_ms"`
}

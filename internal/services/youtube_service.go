package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"hot100/internal/models"
)

const youtubeAPIURL = "https://www.googleapis.com/youtube/v3"

// YouTubeService implements VideoService with a Data API key
type YouTubeService struct {
	client *resty.Client
	apiURL string
	apiKey string
}

// NewYouTubeService creates a new YouTube service
func NewYouTubeService(apiKey string) *YouTubeService {
	return newYouTubeService(apiKey, youtubeAPIURL)
}

func newYouTubeService(apiKey, apiURL string) *YouTubeService {
	return &YouTubeService{
		client: resty.New().SetTimeout(10 * time.Second),
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
	}
}

// GetVideo fetches snippet, duration and statistics for one video
func (y *YouTubeService) GetVideo(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	url := y.apiURL + "/videos"
	var result youtubeVideoList
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,contentDetails,statistics",
			"id":   videoID,
			"key":  y.apiKey,
		}).
		SetResult(&result).
		Get(url)
	if err != nil {
		return nil, &PlatformError{
			Platform:  "youtube",
			Operation: "get_video",
			Message:   "request failed",
			URL:       url,
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &PlatformError{
			Platform:  "youtube",
			Operation: "get_video",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
			URL:       url,
		}
	}

	// Removed or private videos come back as an empty item list
	if len(result.Items) == 0 {
		return nil, nil
	}

	return result.Items[0].toRecord(), nil
}

// YouTube API response structures
type youtubeVideoList struct {
	Items []youtubeVideo `json:"items"`
}

type youtubeVideo struct {
	ID      string `json:"id"`
	Snippet struct {
		PublishedAt  time.Time `json:"publishedAt"`
		Title        string    `json:"title"`
		ChannelTitle string    `json:"channelTitle"`
		Tags         []string  `json:"tags"`
		Thumbnails   map[string]struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

func (v youtubeVideo) toRecord() *models.VideoRecord {
	record := &models.VideoRecord{
		PlatformID:   v.ID,
		Title:        v.Snippet.Title,
		Channel:      v.Snippet.ChannelTitle,
		PublishedAt:  v.Snippet.PublishedAt,
		Duration:     v.ContentDetails.Duration,
		ThumbnailURL: thumbnailURL(v.Snippet.Thumbnails),
		Tags:         v.Snippet.Tags,
		LikeCount:    optionalCount(v.Statistics.LikeCount),
		CommentCount: optionalCount(v.Statistics.CommentCount),
	}
	if views := optionalCount(v.Statistics.ViewCount); views != nil {
		record.ViewCount = *views
	}
	return record
}

// thumbnailURL prefers the high size
func thumbnailURL(thumbs map[string]struct {
	URL string `json:"url"`
}) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

// optionalCount parses a statistics counter; hidden counters are absent
func optionalCount(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

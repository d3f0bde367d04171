package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"hot100/internal/models"
)

// Reddit API endpoints
const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL   = "https://oauth.reddit.com"

	// Listing page size cap
	redditPageLimit = 100
)

// RedditService implements PostSource with app-only OAuth
type RedditService struct {
	client    *resty.Client
	apiURL    string
	userAgent string
	token     *appToken
}

// NewRedditService creates a new Reddit service
func NewRedditService(clientID, clientSecret, userAgent string) *RedditService {
	return newRedditService(clientID, clientSecret, userAgent, redditTokenURL, redditAPIURL)
}

func newRedditService(clientID, clientSecret, userAgent, tokenURL, apiURL string) *RedditService {
	tokenSource := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &RedditService{
		client:    resty.New().SetTimeout(30 * time.Second),
		apiURL:    strings.TrimRight(apiURL, "/"),
		userAgent: userAgent,
		token:     newAppToken("reddit", tokenSource, userAgent),
	}
}

// HotPosts pages through a subreddit's hot listing until limit posts are read
func (r *RedditService) HotPosts(ctx context.Context, subreddit string, limit int) ([]models.Post, error) {
	posts := make([]models.Post, 0, limit)
	after := ""

	for len(posts) < limit {
		page := limit - len(posts)
		if page > redditPageLimit {
			page = redditPageLimit
		}

		listing, err := r.fetchHot(ctx, subreddit, page, after)
		if err != nil {
			return nil, err
		}

		for _, child := range listing.Data.Children {
			posts = append(posts, child.Data.toPost())
		}

		after = listing.Data.After
		if after == "" || len(listing.Data.Children) == 0 {
			break
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *RedditService) fetchHot(ctx context.Context, subreddit string, limit int, after string) (*redditListing, error) {
	token, err := r.token.get(ctx)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"limit":    strconv.Itoa(limit),
		"raw_json": "1",
	}
	if after != "" {
		params["after"] = after
	}

	url := fmt.Sprintf("%s/r/%s/hot", r.apiURL, subreddit)
	var listing redditListing
	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("User-Agent", r.userAgent).
		SetQueryParams(params).
		SetResult(&listing).
		Get(url)
	if err != nil {
		return nil, &PlatformError{
			Platform:  "reddit",
			Operation: "hot",
			Message:   "request failed",
			URL:       url,
			Err:       err,
		}
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &listing, nil
	case http.StatusNotFound:
		return nil, &PlatformError{Platform: "reddit", Operation: "hot", URL: url, Err: ErrNotFound}
	case http.StatusUnauthorized:
		r.token.invalidate()
	}

	return nil, &PlatformError{
		Platform:  "reddit",
		Operation: "hot",
		Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		URL:       url,
	}
}

// SelectMediaPosts keeps safe-for-work posts that carry media, up to limit,
// in listing order
func SelectMediaPosts(posts []models.Post, limit int) []models.Post {
	selected := make([]models.Post, 0, limit)
	for _, p := range posts {
		if len(selected) >= limit {
			break
		}
		if p.Over18 || p.RawMedia == nil {
			continue
		}
		selected = append(selected, p)
	}
	return selected
}

// Reddit API response structures
type redditListing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string     `json:"kind"`
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string           `json:"id"`
	Subreddit   string           `json:"subreddit"`
	Title       string           `json:"title"`
	CreatedUTC  float64          `json:"created_utc"`
	Score       int              `json:"score"`
	UpvoteRatio float64          `json:"upvote_ratio"`
	Over18      bool             `json:"over_18"`
	Media       *models.RawMedia `json:"media"`
}

func (p redditPost) toPost() models.Post {
	post := models.Post{
		ID:          p.ID,
		Subreddit:   p.Subreddit,
		Title:       p.Title,
		CreatedAt:   time.Unix(int64(p.CreatedUTC), 0).UTC(),
		Score:       p.Score,
		UpvoteRatio: p.UpvoteRatio,
		Over18:      p.Over18,
		RawMedia:    p.Media,
	}
	if p.Media != nil {
		post.MediaTitle = p.Media.OEmbed.Title
	}
	return post
}

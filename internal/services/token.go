package services

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// appToken caches an app-only client-credentials token
type appToken struct {
	platform    string
	source      *clientcredentials.Config
	httpClient  *http.Client
	accessToken string
	expiry      time.Time
	mu          sync.RWMutex
}

func newAppToken(platform string, source *clientcredentials.Config, userAgent string) *appToken {
	t := &appToken{platform: platform, source: source}
	if userAgent != "" {
		t.httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: userAgentTransport{userAgent: userAgent, base: http.DefaultTransport},
		}
	}
	return t
}

// get returns a valid access token, refreshing it when expired
func (t *appToken) get(ctx context.Context) (string, error) {
	t.mu.RLock()
	if t.accessToken != "" && time.Now().Before(t.expiry) {
		token := t.accessToken
		t.mu.RUnlock()
		return token, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if t.accessToken != "" && time.Now().Before(t.expiry) {
		return t.accessToken, nil
	}

	if t.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, t.httpClient)
	}

	token, err := t.source.Token(ctx)
	if err != nil {
		return "", &PlatformError{
			Platform:  t.platform,
			Operation: "auth",
			Message:   "failed to get access token",
			Err:       err,
		}
	}

	t.accessToken = token.AccessToken
	t.expiry = token.Expiry
	if t.expiry.IsZero() {
		t.expiry = time.Now().Add(time.Hour)
	}

	slog.Info("Access token refreshed", "platform", t.platform, "expires_at", t.expiry)

	return t.accessToken, nil
}

func (t *appToken) invalidate() {
	t.mu.Lock()
	t.accessToken = ""
	t.mu.Unlock()
}

type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (u userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", u.userAgent)
	return u.base.RoundTrip(req)
}

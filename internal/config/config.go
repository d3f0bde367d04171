package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AuthMethod represents the way a platform client authenticates
type AuthMethod string

const (
	AuthMethodOAuth2 AuthMethod = "oauth2"
	AuthMethodAPIKey AuthMethod = "api_key"
)

// PlatformConfig represents configuration for a single external platform
type PlatformConfig struct {
	Name       string     `json:"name"`
	Enabled    bool       `json:"enabled"`
	AuthMethod AuthMethod `json:"auth_method"`

	// OAuth2 client credentials (Spotify, Reddit)
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	TokenURL     string `json:"token_url,omitempty"`

	// API key (YouTube)
	APIKey string `json:"api_key,omitempty"`

	BaseURL   string `json:"base_url,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Config holds all configuration for the pipeline and the chart server
type Config struct {
	// Server settings
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`

	// Storage
	DataDir             string `envconfig:"DATA_DIR" default:"data"`
	AzureStorageAccount string `envconfig:"AZURE_STORAGE_ACCOUNT"`
	AzureContainer      string `envconfig:"AZURE_STORAGE_CONTAINER" default:"charts"`
	MongodbURL          string `envconfig:"MONGODB_URL"`
	MongodbDatabase     string `envconfig:"MONGODB_DATABASE" default:"hot100"`
	ValkeyURL           string `envconfig:"VALKEY_URL"`

	// Platform credentials
	RedditClientID      string `envconfig:"REDDIT_CLIENT_ID"`
	RedditClientSecret  string `envconfig:"REDDIT_CLIENT_SECRET"`
	RedditUserAgent     string `envconfig:"REDDIT_USER_AGENT" default:"scrape-songs/0.0.1"`
	SpotifyClientID     string `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	YouTubeAPIKey       string `envconfig:"YOUTUBE_API_KEY"`

	// Runtime
	RunSchedule       string        `envconfig:"RUN_SCHEDULE"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	CallTimeout       time.Duration `envconfig:"CALL_TIMEOUT" default:"10s"`
	LookupConcurrency int           `envconfig:"LOOKUP_CONCURRENCY" default:"4"`

	Platforms map[string]*PlatformConfig `json:"-"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.LookupConcurrency < 1 {
		return nil, fmt.Errorf("LOOKUP_CONCURRENCY must be >= 1, got %d", cfg.LookupConcurrency)
	}
	if cfg.CallTimeout <= 0 {
		return nil, fmt.Errorf("CALL_TIMEOUT must be positive, got %s", cfg.CallTimeout)
	}

	cfg.Platforms = make(map[string]*PlatformConfig)
	cfg.loadBuiltinPlatforms()

	return &cfg, nil
}

// loadBuiltinPlatforms enables each platform whose credentials are present
func (c *Config) loadBuiltinPlatforms() {
	if c.RedditClientID != "" && c.RedditClientSecret != "" {
		c.Platforms["reddit"] = &PlatformConfig{
			Name:         "reddit",
			Enabled:      true,
			AuthMethod:   AuthMethodOAuth2,
			ClientID:     c.RedditClientID,
			ClientSecret: c.RedditClientSecret,
			TokenURL:     "https://www.reddit.com/api/v1/access_token",
			BaseURL:      "https://oauth.reddit.com",
			UserAgent:    c.RedditUserAgent,
		}
	}

	if c.SpotifyClientID != "" && c.SpotifyClientSecret != "" {
		c.Platforms["spotify"] = &PlatformConfig{
			Name:         "spotify",
			Enabled:      true,
			AuthMethod:   AuthMethodOAuth2,
			ClientID:     c.SpotifyClientID,
			ClientSecret: c.SpotifyClientSecret,
			TokenURL:     "https://accounts.spotify.com/api/token",
			BaseURL:      "https://api.spotify.com/v1",
		}
	}

	if c.YouTubeAPIKey != "" {
		c.Platforms["youtube"] = &PlatformConfig{
			Name:       "youtube",
			Enabled:    true,
			AuthMethod: AuthMethodAPIKey,
			APIKey:     c.YouTubeAPIKey,
			BaseURL:    "https://www.googleapis.com/youtube/v3",
		}
	}
}

// GetPlatformConfig returns configuration for a specific platform
func (c *Config) GetPlatformConfig(platform string) (*PlatformConfig, bool) {
	config, exists := c.Platforms[platform]
	return config, exists
}

// IsEnabled checks if a platform is enabled
func (c *Config) IsEnabled(platform string) bool {
	config, exists := c.GetPlatformConfig(platform)
	return exists && config.Enabled
}

// RequirePlatform returns the platform config or an error naming the missing credentials
func (c *Config) RequirePlatform(platform string) (*PlatformConfig, error) {
	if config, ok := c.GetPlatformConfig(platform); ok && config.Enabled {
		return config, nil
	}
	switch platform {
	case "reddit":
		return nil, fmt.Errorf("reddit is not configured: set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET")
	case "spotify":
		return nil, fmt.Errorf("spotify is not configured: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET")
	case "youtube":
		return nil, fmt.Errorf("youtube is not configured: set YOUTUBE_API_KEY")
	}
	return nil, fmt.Errorf("platform %s not configured", platform)
}

// ValidatePlatformConfig validates a platform configuration
func ValidatePlatformConfig(config *PlatformConfig) error {
	if config.Name == "" {
		return fmt.Errorf("platform name cannot be empty")
	}

	switch config.AuthMethod {
	case AuthMethodOAuth2:
		if config.ClientID == "" || config.ClientSecret == "" {
			return fmt.Errorf("OAuth2 requires client_id and client_secret")
		}
		if config.TokenURL == "" {
			return fmt.Errorf("OAuth2 requires token_url")
		}
	case AuthMethodAPIKey:
		if config.APIKey == "" {
			return fmt.Errorf("API key authentication requires api_key")
		}
	default:
		return fmt.Errorf("unsupported auth method: %s", config.AuthMethod)
	}

	if config.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

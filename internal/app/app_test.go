package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hot100/internal/config"
	"hot100/internal/pipeline"
	"hot100/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DataDir:           t.TempDir(),
		LookupConcurrency: 2,
		CallTimeout:       time.Second,
		Platforms:         map[string]*config.PlatformConfig{},
	}
}

func TestNew_LocalOnly(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Cache)
	assert.Nil(t, a.Archive)
	assert.Equal(t, config.DefaultPipelineConfig(), a.Pipeline)

	deps := a.deps()
	assert.Nil(t, deps.Posts)
	assert.Nil(t, deps.Catalog)
	assert.Nil(t, deps.Videos)
	assert.Nil(t, deps.Archive)
	assert.Nil(t, a.Spotify)
}

func TestNew_UnconfiguredStageFails(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close(ctx)

	err = a.Runner.Run(ctx, pipeline.StageReddit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reddit is not configured")
}

func TestDeps_EnabledPlatformsAreCached(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Platforms["reddit"] = &config.PlatformConfig{Name: "reddit", Enabled: true, ClientID: "id", ClientSecret: "secret"}
	cfg.Platforms["spotify"] = &config.PlatformConfig{Name: "spotify", Enabled: true, ClientID: "id", ClientSecret: "secret"}
	cfg.Platforms["youtube"] = &config.PlatformConfig{Name: "youtube", Enabled: false, APIKey: "key"}

	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close(ctx)

	deps := a.deps()
	assert.IsType(t, &services.RedditService{}, deps.Posts)
	assert.IsType(t, &services.CachedCatalog{}, deps.Catalog)
	assert.Nil(t, deps.Videos)
	assert.NotNil(t, a.Spotify)
}

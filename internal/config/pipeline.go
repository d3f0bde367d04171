package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// PipelineConfig holds the batch sizes and source settings of a chart run
type PipelineConfig struct {
	// Subreddits scraped, in the order their posts are concatenated
	Subreddits []string `toml:"subreddits"`

	// Hot posts read per subreddit before filtering
	ScrapeLimit int `toml:"scrape_limit"`

	// Media posts kept per subreddit, in listing order
	MediaPostCap int `toml:"media_post_cap"`

	// Post-level rows kept after ranking by score
	PostBatchSize int `toml:"post_batch_size"`

	// Rows kept in the catalog top list
	CatalogChartSize int `toml:"catalog_chart_size"`

	// Video lookups allowed per run
	VideoQuota int `toml:"video_quota"`

	// Rows in each published chart
	ChartSize int `toml:"chart_size"`

	// Video IDs per anonymous playlist link
	PlaylistChunkSize int `toml:"playlist_chunk_size"`

	// How far back the latest dated table is searched for, in days
	LookbackDays int `toml:"lookback_days"`
}

// DefaultPipelineConfig returns the built-in run settings
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Subreddits:        []string{"music", "listentothis"},
		ScrapeLimit:       500,
		MediaPostCap:      150,
		PostBatchSize:     150,
		CatalogChartSize:  100,
		VideoQuota:        100,
		ChartSize:         100,
		PlaylistChunkSize: 50,
		LookbackDays:      365,
	}
}

var (
	pipelineCfg     *PipelineConfig
	pipelineCfgOnce sync.Once
)

// GetPipelineConfig loads the pipeline config from TOML once.
// PIPELINE_CONFIG_PATH wins over the well-known locations; defaults fill any
// key the file leaves out.
func GetPipelineConfig() *PipelineConfig {
	pipelineCfgOnce.Do(func() {
		pipelineCfg = LoadPipelineConfig(os.Getenv("PIPELINE_CONFIG_PATH"))
	})
	return pipelineCfg
}

// LoadPipelineConfig reads path, or the first existing candidate path when
// path is empty, merged over the defaults
func LoadPipelineConfig(path string) *PipelineConfig {
	cfg := DefaultPipelineConfig()

	paths := candidatePipelineConfigPaths()
	if path != "" {
		paths = []string{path}
	}

	for _, p := range paths {
		fileCfg, err := loadPipelineConfigFromPath(p)
		if err != nil {
			slog.Warn("Ignoring unreadable pipeline config", "path", p, "error", err)
			continue
		}
		if fileCfg != nil {
			mergePipelineConfig(cfg, fileCfg)
			slog.Debug("Loaded pipeline config", "path", p)
			break
		}
	}

	return cfg
}

func loadPipelineConfigFromPath(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg PipelineConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func mergePipelineConfig(base, override *PipelineConfig) {
	if override == nil || base == nil {
		return
	}
	if len(override.Subreddits) > 0 {
		base.Subreddits = override.Subreddits
	}
	mergePositive(&base.ScrapeLimit, override.ScrapeLimit)
	mergePositive(&base.MediaPostCap, override.MediaPostCap)
	mergePositive(&base.PostBatchSize, override.PostBatchSize)
	mergePositive(&base.CatalogChartSize, override.CatalogChartSize)
	mergePositive(&base.VideoQuota, override.VideoQuota)
	mergePositive(&base.ChartSize, override.ChartSize)
	mergePositive(&base.PlaylistChunkSize, override.PlaylistChunkSize)
	mergePositive(&base.LookbackDays, override.LookbackDays)
}

func mergePositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// candidatePipelineConfigPaths returns common locations to auto-discover the pipeline config
func candidatePipelineConfigPaths() []string {
	paths := []string{
		"pipeline.toml",
		filepath.Join("config", "pipeline.toml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "hot100", "pipeline.toml"))
	}

	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "hot100", "pipeline.toml"))
	}

	paths = append(paths, filepath.Join(string(os.PathSeparator), "etc", "hot100", "pipeline.toml"))
	return paths
}

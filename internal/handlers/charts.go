package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hot100/internal/format"
	"hot100/internal/repositories"
	"hot100/internal/storage"
	"hot100/internal/tables"
)

// chartTables maps the public chart names onto their tables
var chartTables = map[string]string{
	"reddit":  tables.ChartReddit,
	"spotify": tables.ChartCatalog,
	"youtube": tables.ChartVideo,
}

// TableResponse is one dated table
type TableResponse[T any] struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Rows []T    `json:"rows"`
}

// RunsResponse lists archived run dates
type RunsResponse struct {
	Dates []string `json:"dates"`
}

// HealthChecker is a dependency /health reports on
type HealthChecker interface {
	Health(ctx context.Context) error
}

type namedCheck struct {
	name    string
	checker HealthChecker
}

const healthTimeout = 5 * time.Second

// ChartHandler serves the published tables read-only
type ChartHandler struct {
	store        storage.Storage
	archive      repositories.ChartRepository
	lookbackDays int
	checks       []namedCheck
	now          func() time.Time
}

// NewChartHandler creates a new chart handler. archive may be nil.
func NewChartHandler(store storage.Storage, archive repositories.ChartRepository, lookbackDays int) *ChartHandler {
	return &ChartHandler{
		store:        store,
		archive:      archive,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// WithHealthCheck adds a dependency to the /health report
func (h *ChartHandler) WithHealthCheck(name string, checker HealthChecker) *ChartHandler {
	h.checks = append(h.checks, namedCheck{name: name, checker: checker})
	return h
}

// RegisterRoutes mounts the handler's routes
func (h *ChartHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/charts/:name", h.GetChart)
		v1.GET("/extremes", h.GetExtremes)
		v1.GET("/playlists", h.GetPlaylists)
		v1.GET("/runs", h.ListRuns)
		v1.GET("/runs/:date", h.GetRun)
	}
}

// Health handles GET /health. Any failing check turns the response into a 503.
func (h *ChartHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.checker.Health(ctx); err != nil {
			slog.Warn("Health check failed", "check", check.name, "error", err)
			checks[check.name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[check.name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":  status,
		"archive": h.archive != nil,
		"checks":  checks,
	})
}

// GetChart handles GET /api/v1/charts/:name
func (h *ChartHandler) GetChart(c *gin.Context) {
	name := c.Param("name")
	table, ok := chartTables[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown chart: " + name})
		return
	}

	if name == "youtube" {
		serveTable[format.VideoChartRow](c, h, table)
		return
	}
	serveTable[format.ChartRow](c, h, table)
}

// GetExtremes handles GET /api/v1/extremes
func (h *ChartHandler) GetExtremes(c *gin.Context) {
	serveTable[tables.ExtremeRow](c, h, tables.CatalogExtremes)
}

// GetPlaylists handles GET /api/v1/playlists
func (h *ChartHandler) GetPlaylists(c *gin.Context) {
	serveTable[tables.PlaylistRow](c, h, tables.VideoPlaylists)
}

// ListRuns handles GET /api/v1/runs. Without an archive the dates come from
// the song_data tables in storage.
func (h *ChartHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	var (
		dates []string
		err   error
	)
	if h.archive != nil {
		dates, err = h.archive.ListRunDates(c.Request.Context(), limit)
	} else {
		dates, err = h.storedRunDates(c.Request.Context(), limit)
	}
	if err != nil {
		slog.Error("Failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, RunsResponse{Dates: dates})
}

func (h *ChartHandler) storedRunDates(ctx context.Context, limit int) ([]string, error) {
	days, err := tables.RunDates(ctx, h.store, tables.SongData)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}

	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Format(time.DateOnly))
	}
	return dates, nil
}

// GetRun handles GET /api/v1/runs/:date
func (h *ChartHandler) GetRun(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run archive is not configured"})
		return
	}

	date := c.Param("date")
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	run, err := h.archive.FindRun(c.Request.Context(), date)
	if err != nil {
		slog.Error("Failed to find run", "run_date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// serveTable writes the table for ?date=, or the latest one
func serveTable[T any](c *gin.Context, h *ChartHandler, name string) {
	ctx := c.Request.Context()

	var (
		rows []T
		date time.Time
		err  error
	)
	if raw := c.Query("date"); raw != "" {
		date, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		rows, err = tables.Read[T](ctx, h.store, name, date)
	} else {
		rows, date, err = tables.ReadLatest[T](ctx, h.store, name, h.now(), h.lookbackDays)
	}

	if errors.Is(err, storage.ErrNoInput) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No table available: " + name})
		return
	}
	if err != nil {
		slog.Error("Failed to read table", "table", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read table"})
		return
	}

	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, TableResponse[T]{
		Name: name,
		Date: date.Format(time.DateOnly),
		Rows: rows,
	})
}

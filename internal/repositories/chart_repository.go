package repositories

import (
	"context"

	"hot100/internal/models"
)

// ChartRepository archives one ChartRun per run date
type ChartRepository interface {
	// SaveRun inserts the run or replaces the one stored for its date
	SaveRun(ctx context.Context, run *models.ChartRun) error

	// FindRun returns the run for a date, or nil when none is stored
	FindRun(ctx context.Context, runDate string) (*models.ChartRun, error)

	// LatestRun returns the newest run, or nil when the archive is empty
	LatestRun(ctx context.Context) (*models.ChartRun, error)

	// ListRunDates returns stored run dates, newest first
	ListRunDates(ctx context.Context, limit int) ([]string, error)
}

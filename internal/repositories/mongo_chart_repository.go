package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hot100/internal/models"
)

// mongoChartRepository implements ChartRepository using MongoDB
type mongoChartRepository struct {
	collection *mongo.Collection
}

// NewMongoChartRepository creates a new MongoDB-backed run archive
func NewMongoChartRepository(db *models.Database) ChartRepository {
	return &mongoChartRepository{
		collection: db.DB.Collection(models.ChartRunsCollection),
	}
}

// SaveRun upserts the document for the run's date. created_at is kept from
// the first save.
func (r *mongoChartRepository) SaveRun(ctx context.Context, run *models.ChartRun) error {
	if run.RunDate == "" {
		return fmt.Errorf("run date is required")
	}

	now := time.Now()
	run.SchemaVersion = models.CurrentSchemaVersion
	run.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"schema_version": run.SchemaVersion,
			"songs":          run.Songs,
			"not_found":      run.NotFound,
			"updated_at":     run.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"run_date": run.RunDate}, update, opts); err != nil {
		return fmt.Errorf("failed to save chart run %s: %w", run.RunDate, err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	return nil
}

// FindRun finds the run stored for a date
func (r *mongoChartRepository) FindRun(ctx context.Context, runDate string) (*models.ChartRun, error) {
	return r.findOne(ctx, bson.M{"run_date": runDate}, nil)
}

// LatestRun finds the run with the newest date
func (r *mongoChartRepository) LatestRun(ctx context.Context) (*models.ChartRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "run_date", Value: -1}})
	return r.findOne(ctx, bson.M{}, opts)
}

// ListRunDates lists stored run dates, newest first
func (r *mongoChartRepository) ListRunDates(ctx context.Context, limit int) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "run_date", Value: -1}}).
		SetProjection(bson.M{"run_date": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list run dates: %w", err)
	}
	defer cursor.Close(ctx)

	dates := []string{}
	for cursor.Next(ctx) {
		var doc struct {
			RunDate string `bson:"run_date"`
		}
		if err := cursor.Decode(&doc); err != nil {
			slog.Error("Failed to decode run date", "error", err)
			continue
		}
		dates = append(dates, doc.RunDate)
	}

	return dates, cursor.Err()
}

func (r *mongoChartRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.ChartRun, error) {
	var run models.ChartRun
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&run)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&run)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find chart run: %w", err)
	}

	upgradeSchema(&run)
	return &run, nil
}

// upgradeSchema brings documents written by older versions up to date in memory
func upgradeSchema(run *models.ChartRun) {
	if run.SchemaVersion >= models.CurrentSchemaVersion {
		return
	}
	slog.Debug("Upgrading chart run schema", "run_date", run.RunDate, "from", run.SchemaVersion)
	run.SchemaVersion = models.CurrentSchemaVersion
}

package migrations

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Runner walks a collection and applies a job document by document
type Runner struct {
	db *mongo.Database
}

// NewRunner creates a new Runner
func NewRunner(db *mongo.Database) *Runner {
	return &Runner{db: db}
}

// Run applies job to every matching document. With dryRun set nothing is
// written and Migrated counts what would have changed.
func (r *Runner) Run(ctx context.Context, job Job, dryRun bool) (*Result, error) {
	result := &Result{Job: job.Name(), DryRun: dryRun}
	collection := r.db.Collection(job.Collection())

	cursor, err := collection.Find(ctx, job.Selector())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query %s: %w", job.Name(), job.Collection(), err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			slog.Error("Migration: Failed to decode document", "error", err, "job", job.Name())
			result.Failed++
			continue
		}
		result.Scanned++

		if !job.NeedsMigration(doc) {
			result.Skipped++
			continue
		}

		set, err := job.Migrate(doc)
		if errors.Is(err, ErrSkip) {
			result.Skipped++
			continue
		}
		if err != nil {
			slog.Error("Migration: Failed to migrate document", "error", err, "job", job.Name(), "id", doc["_id"])
			result.Failed++
			continue
		}

		if dryRun {
			result.Migrated++
			continue
		}

		// The selector in the filter keeps a concurrent or repeated run from writing twice
		filter := bson.M{"_id": doc["_id"]}
		for k, v := range job.Selector() {
			filter[k] = v
		}
		res, err := collection.UpdateOne(ctx, filter, bson.M{"$set": set})
		if err != nil {
			slog.Error("Migration: Failed to update document", "error", err, "job", job.Name(), "id", doc["_id"])
			result.Failed++
			continue
		}
		if res.ModifiedCount == 0 {
			result.Skipped++
			continue
		}
		result.Migrated++
	}
	if err := cursor.Err(); err != nil {
		return result, fmt.Errorf("%s: cursor failed: %w", job.Name(), err)
	}

	slog.Info("Migration finished", "job", job.Name(), "dryRun", dryRun,
		"scanned", result.Scanned, "migrated", result.Migrated, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// Package migrations holds idempotent batch jobs over the collections.
// Each job states which documents it applies to; the runner re-checks that
// selector on every write, so running a job twice changes nothing the second time.
package migrations

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrSkip tells the runner to leave a document alone
var ErrSkip = errors.New("skip document")

// Job is one batch migration
type Job interface {
	Name() string
	Collection() string
	// Selector matches exactly the documents NeedsMigration accepts
	Selector() bson.M
	NeedsMigration(doc bson.M) bool
	// Migrate returns the fields to $set on doc
	Migrate(doc bson.M) (bson.M, error)
}

// Result summarizes one run of a job
type Result struct {
	Job      string `json:"job"`
	DryRun   bool   `json:"dryRun"`
	Scanned  int    `json:"scanned"`
	Migrated int    `json:"migrated"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

func isBlank(doc bson.M, field string) bool {
	v, ok := doc[field]
	if !ok || v == nil {
		return true
	}
	s, isString := v.(string)
	return isString && s == ""
}

func blankSelector(field string) bson.M {
	// $in with null also matches a missing field
	return bson.M{field: bson.M{"$in": bson.A{nil, ""}}}
}

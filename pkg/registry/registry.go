// Package registry records completed generation runs.
//
// Every batch ends with a [Run] summary (images created vs requested,
// dropped elements, seed, timing) so partial failures stay observable
// after the process exits. Stores are append-mostly: the CLI writes one
// record per batch and reads them back for `runs list` and `runs show`.
//
// Two backends are provided: [FileStore] keeps one JSON document per run
// under the user data dir, [MongoStore] writes to a `runs` collection.
// Registry failures are reported to the caller but are expected to be
// logged rather than fail the batch.
package registry

import (
	"context"
	"sort"
	"time"
)

// Run is the persisted summary of one generation batch.
type Run struct {
	ID              string    `json:"id" bson:"_id"`
	Mode            string    `json:"mode" bson:"mode"`
	Canvases        []string  `json:"canvases" bson:"canvases"`
	ImagesCreated   int       `json:"images_created" bson:"images_created"`
	ImagesRequested int       `json:"images_requested" bson:"images_requested"`
	Dropped         int       `json:"dropped" bson:"dropped"`
	Seed            uint64    `json:"seed" bson:"seed"`
	StartedAt       time.Time `json:"started_at" bson:"started_at"`
	FinishedAt      time.Time `json:"finished_at" bson:"finished_at"`
	DurationMS      int64     `json:"duration_ms" bson:"duration_ms"`
}

// Store persists run records.
type Store interface {
	// Save writes a run record.
	Save(ctx context.Context, run Run) error

	// List returns runs sorted by start time, newest first.
	// A limit <= 0 returns all runs.
	List(ctx context.Context, limit int) ([]Run, error)

	// Get returns a run by ID, or nil if it does not exist.
	Get(ctx context.Context, id string) (*Run, error)

	// Close releases backend resources.
	Close() error
}

// sortNewestFirst orders runs by start time descending.
func sortNewestFirst(runs []Run) {
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
}

// Package storage persists layout jobs created through the HTTP API.
//
// [MemoryStore] keeps jobs in process and is used by tests and the
// single-binary server; [MongoStore] keeps them in a MongoDB collection so
// that several server replicas can share them.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cardsheet/pkg/align"
	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/layout"
)

// Job is one packed layout with everything derived from it.
type Job struct {
	ID        string          `json:"id" bson:"_id"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	Settings  layout.Settings `json:"settings" bson:"settings"`
	Back      string          `json:"back,omitempty" bson:"back,omitempty"`
	Front     layout.Layout   `json:"front" bson:"front"`
	// BackLayout is nil when no back image was given.
	BackLayout *layout.Layout `json:"back_layout,omitempty" bson:"back_layout,omitempty"`
	Stats      layout.Stats   `json:"stats" bson:"stats"`
	Alignment  *align.Result  `json:"alignment,omitempty" bson:"alignment,omitempty"`
}

// NewJob stamps a fresh ID and creation time on j.
func NewJob(j Job) Job {
	j.ID = uuid.NewString()
	j.CreatedAt = time.Now().UTC()
	return j
}

// Store persists jobs.
type Store interface {
	Save(ctx context.Context, job Job) error
	// Get returns a LAYOUT_NOT_FOUND error for unknown IDs.
	Get(ctx context.Context, id string) (Job, error)
	// Delete returns a LAYOUT_NOT_FOUND error for unknown IDs.
	Delete(ctx context.Context, id string) error
	// List returns up to limit jobs, newest first. A limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Job, error)
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
}

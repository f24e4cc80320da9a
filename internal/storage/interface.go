// Package storage persists Pipeline Orchestrator batch-job records: the
// input citations, the resulting Resolutions, and job lifecycle timestamps
// (spec.md §6's CLI/API surface takes --job-id; this is the store behind
// that surface). Persistence of user-facing report *files* is explicitly
// out of scope (spec.md §1) — this package stores job metadata and
// Resolution results as structured records, not rendered report artifacts.
package storage

import (
	"context"
	"time"

	"github.com/legalaudit/crvc/pkg/models"
)

// JobStatus is the lifecycle state of a batch resolution job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is one batch run of the Pipeline Orchestrator.
type Job struct {
	ID          string               `json:"id" bson:"id"`
	Status      JobStatus            `json:"status" bson:"status"`
	Citations   []string             `json:"citations" bson:"citations"`
	Resolutions []*models.Resolution `json:"resolutions,omitempty" bson:"resolutions,omitempty"`
	Error       string               `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	StartedAt   *time.Time           `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// JobFilter narrows ListJobs.
type JobFilter struct {
	Status JobStatus
	Limit  int
	Offset int
}

// Store is the persistence interface for batch jobs. Concrete backends
// (memory, SQLite, PostgreSQL, MongoDB) all satisfy this same small
// surface; callers select one at construction time based on configuration,
// never at a call site.
type Store interface {
	SaveJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	UpdateJob(ctx context.Context, job *Job) error
	ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error)
	DeleteJob(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}

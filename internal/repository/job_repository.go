// Package repository adds a thin business-logic layer above internal/storage,
// the way the teacher's case/judge repositories wrapped Storage CRUD: a
// JobRepository owns ID generation and status-transition bookkeeping so
// callers (cmd/kite-worker, the API handlers) never touch storage.Job fields
// directly.
package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/legalaudit/crvc/internal/storage"
	"github.com/legalaudit/crvc/pkg/errors"
	"github.com/legalaudit/crvc/pkg/models"
)

// JobRepository manages the lifecycle of batch resolution jobs.
type JobRepository struct {
	store storage.Store
}

func NewJobRepository(store storage.Store) *JobRepository {
	return &JobRepository{store: store}
}

// Create persists a new pending job for the given citation batch.
func (r *JobRepository) Create(ctx context.Context, citations []string) (*storage.Job, error) {
	if len(citations) == 0 {
		return nil, errors.ResolutionError("job requires at least one citation", nil)
	}
	job := &storage.Job{
		ID:        newJobID(),
		Status:    storage.JobStatusPending,
		Citations: citations,
		CreatedAt: time.Now(),
	}
	if err := r.store.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *JobRepository) Get(ctx context.Context, id string) (*storage.Job, error) {
	return r.store.GetJob(ctx, id)
}

func (r *JobRepository) List(ctx context.Context, filter storage.JobFilter) ([]*storage.Job, error) {
	return r.store.ListJobs(ctx, filter)
}

// MarkRunning transitions a job to running and stamps StartedAt.
func (r *JobRepository) MarkRunning(ctx context.Context, job *storage.Job) error {
	now := time.Now()
	job.Status = storage.JobStatusRunning
	job.StartedAt = &now
	return r.store.UpdateJob(ctx, job)
}

// Complete stores the batch's Resolutions and marks the job finished.
func (r *JobRepository) Complete(ctx context.Context, job *storage.Job, resolutions []*models.Resolution) error {
	now := time.Now()
	job.Resolutions = resolutions
	job.Status = storage.JobStatusCompleted
	job.CompletedAt = &now
	return r.store.UpdateJob(ctx, job)
}

// Fail marks a job failed with the given error, preserving any partial results.
func (r *JobRepository) Fail(ctx context.Context, job *storage.Job, cause error) error {
	now := time.Now()
	job.Status = storage.JobStatusFailed
	job.Error = cause.Error()
	job.CompletedAt = &now
	return r.store.UpdateJob(ctx, job)
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	return r.store.DeleteJob(ctx, id)
}

func newJobID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "job_" + hex.EncodeToString(buf)
}

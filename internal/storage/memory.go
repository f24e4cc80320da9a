package storage

import (
	"context"
	"sync"

	"github.com/legalaudit/crvc/pkg/errors"
)

// MemoryStore is an in-memory Store, used by tests and single-process runs.
type MemoryStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (ms *MemoryStore) SaveJob(ctx context.Context, job *Job) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[job.ID]; exists {
		return errors.StorageError("job already exists", errors.ErrAlreadyExists)
	}
	ms.jobs[job.ID] = job
	return nil
}

func (ms *MemoryStore) GetJob(ctx context.Context, id string) (*Job, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	job, ok := ms.jobs[id]
	if !ok {
		return nil, errors.StorageError("job not found", errors.ErrNotFound)
	}
	return job, nil
}

func (ms *MemoryStore) UpdateJob(ctx context.Context, job *Job) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[job.ID]; !exists {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	ms.jobs[job.ID] = job
	return nil
}

func (ms *MemoryStore) ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var results []*Job
	for _, job := range ms.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		results = append(results, job)
	}

	start := filter.Offset
	if start > len(results) {
		start = len(results)
	}
	end := start + filter.Limit
	if filter.Limit == 0 || end > len(results) {
		end = len(results)
	}
	return results[start:end], nil
}

func (ms *MemoryStore) DeleteJob(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[id]; !exists {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	delete(ms.jobs, id)
	return nil
}

func (ms *MemoryStore) Ping(ctx context.Context) error { return nil }
func (ms *MemoryStore) Close() error                   { return nil }

// Clear removes all jobs, used between test cases.
func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.jobs = make(map[string]*Job)
}

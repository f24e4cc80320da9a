package integration

import (
	"context"
	"testing"
	"time"

	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/queue"
	"github.com/legalaudit/crvc/internal/repository"
	"github.com/legalaudit/crvc/internal/resolver"
	"github.com/legalaudit/crvc/internal/storage"
	"github.com/legalaudit/crvc/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJobRepositoryLifecycle exercises the full job store round trip a
// resolve job goes through: created, marked running, then completed with
// its Resolutions attached.
func TestJobRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()

	store := storage.NewMemoryStore()
	defer store.Close()

	jobs := repository.NewJobRepository(store)

	job, err := jobs.Create(ctx, []string{"[2019] UKSC 20"})
	require.NoError(t, err, "Failed to create job")
	assert.Equal(t, storage.JobStatusPending, job.Status)

	err = jobs.MarkRunning(ctx, job)
	require.NoError(t, err)

	fetched, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.JobStatusRunning, fetched.Status)
}

// TestResolveJobQueueWorkerFlow enqueues a resolve job and runs it through
// the worker pool's JobHandler end-to-end against an in-memory queue/store.
func TestResolveJobQueueWorkerFlow(t *testing.T) {
	ctx := context.Background()

	jobStore := storage.NewMemoryStore()
	defer jobStore.Close()

	q := queue.NewMemoryQueue()
	defer q.Close()

	logger := observability.NewLogger("debug", "json")
	metrics := observability.NewMetrics()

	jobs := repository.NewJobRepository(jobStore)
	record, err := jobs.Create(ctx, []string{"[2019] UKSC 20"})
	require.NoError(t, err)

	policy := compliance.NewPolicy()
	rateLimiter := fetcher.NewSourceRateLimiter(time.Minute)
	contentStore := store.New(t.TempDir())
	f := fetcher.New(policy, rateLimiter, contentStore)
	r := resolver.New(policy, rateLimiter, f)
	orchestrator := pipeline.New(r)

	handler := worker.NewResolveHandler(orchestrator, jobs, logger, metrics, nil, nil)

	queuedJob := queue.NewJob(worker.ResolveJobType, map[string]interface{}{
		"job_id": record.ID,
	})
	require.NoError(t, q.Enqueue(ctx, queuedJob))

	dequeued, err := q.Dequeue(ctx)
	require.NoError(t, err)

	require.NoError(t, handler(ctx, dequeued))

	completed, err := jobs.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.JobStatusCompleted, completed.Status)
	require.Len(t, completed.Resolutions, 1)
	assert.Equal(t, "[2019] UKSC 20", completed.Resolutions[0].CitationText)
}

// TestWorkerPoolDrainsQueue verifies a worker pool dequeues every enqueued
// job, leaving the queue empty, and then stops within its timeout.
func TestWorkerPoolDrainsQueue(t *testing.T) {
	ctx := context.Background()

	jobStore := storage.NewMemoryStore()
	defer jobStore.Close()

	q := queue.NewMemoryQueue()
	defer q.Close()

	logger := observability.NewLogger("debug", "json")
	metrics := observability.NewMetrics()
	jobs := repository.NewJobRepository(jobStore)

	policy := compliance.NewPolicy()
	rateLimiter := fetcher.NewSourceRateLimiter(time.Minute)
	contentStore := store.New(t.TempDir())
	f := fetcher.New(policy, rateLimiter, contentStore)
	r := resolver.New(policy, rateLimiter, f)
	orchestrator := pipeline.New(r)

	handler := worker.NewResolveHandler(orchestrator, jobs, logger, metrics, nil, nil)

	const jobCount = 5
	for i := 0; i < jobCount; i++ {
		record, err := jobs.Create(ctx, []string{"[2019] UKSC 20"})
		require.NoError(t, err)
		require.NoError(t, q.Enqueue(ctx, queue.NewJob(worker.ResolveJobType, map[string]interface{}{
			"job_id": record.ID,
		})))
	}

	pool := worker.NewPool(worker.PoolConfig{}, q, handler)
	require.NoError(t, pool.Start(3))

	deadline := time.After(10 * time.Second)
	for {
		depth, err := q.GetDepth(ctx)
		require.NoError(t, err)
		if depth == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("jobs did not drain within timeout")
		case <-time.After(50 * time.Millisecond):
		}
	}

	require.NoError(t, pool.Stop(5*time.Second))
}

// TestMetricsCollection checks that recording a resolve-job worker metric
// directly on Metrics does not panic; it does not run the worker handler.
func TestMetricsCollection(t *testing.T) {
	metrics := observability.NewMetrics()
	metrics.RecordWorkerJob("job-1", string(worker.ResolveJobType), "completed", 10*time.Millisecond)
}

// Package batch runs CRVC batch jobs (resolve, verify, export) on a fixed
// worker pool, the way the teacher's BatchProcessor ran case-ingestion jobs:
// a buffered channel, N goroutines pulling from it, and a results channel
// the caller drains. internal/pipeline.Orchestrator already bounds
// per-citation concurrency inside one resolve job (spec.md §4.9); this
// package bounds how many such jobs run at once.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/legalaudit/crvc/internal/export"
	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/verifier"
	"github.com/legalaudit/crvc/pkg/models"
)

// BatchJob represents a unit of asynchronous work submitted to the processor.
type BatchJob struct {
	ID          string                 `json:"id"`
	Type        BatchJobType           `json:"type"`
	Status      BatchJobStatus         `json:"status"`
	Input       interface{}            `json:"input"`
	Output      interface{}            `json:"output,omitempty"`
	Error       string                 `json:"error,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Progress    *BatchJobProgress      `json:"progress,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// BatchJobType is the closed set of operations the processor runs.
type BatchJobType string

const (
	// BatchJobTypeResolve runs the Pipeline Orchestrator over a citation batch.
	BatchJobTypeResolve BatchJobType = "resolve"
	// BatchJobTypeVerify checks a batch of (claim, judgment) pairs.
	BatchJobTypeVerify BatchJobType = "verify"
	// BatchJobTypeExport renders a completed batch's Resolutions to a report format.
	BatchJobTypeExport BatchJobType = "export"
)

type BatchJobStatus string

const (
	BatchJobStatusPending   BatchJobStatus = "pending"
	BatchJobStatusRunning   BatchJobStatus = "running"
	BatchJobStatusCompleted BatchJobStatus = "completed"
	BatchJobStatusFailed    BatchJobStatus = "failed"
	BatchJobStatusCancelled BatchJobStatus = "cancelled"
)

// BatchJobProgress tracks the progress of a batch job.
type BatchJobProgress struct {
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	Percent   float64 `json:"percent"`
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	JobID    string         `json:"job_id"`
	Status   BatchJobStatus `json:"status"`
	Output   interface{}    `json:"output,omitempty"`
	Error    error          `json:"error,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// ResolveInput is the BatchJob.Input shape for BatchJobTypeResolve.
type ResolveInput struct {
	Requests       []pipeline.Request
	FetchJudgments bool
}

// VerifyInput is the BatchJob.Input shape for BatchJobTypeVerify.
type VerifyInput struct {
	Claims []VerifyClaim
}

type VerifyClaim struct {
	ClaimText        string
	CitationText     string
	Judgment         *models.Judgment
	ResolutionStatus models.ResolutionStatus
}

// ExportInput is the BatchJob.Input shape for BatchJobTypeExport.
type ExportInput struct {
	Bundle export.Bundle
	Format export.ExportFormat
}

// BatchProcessor runs submitted jobs on a fixed worker pool.
type BatchProcessor struct {
	workers      int
	orchestrator *pipeline.Orchestrator
	queue        chan BatchJob
	results      chan BatchResult
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewBatchProcessor creates a new batch processor backed by orchestrator for
// BatchJobTypeResolve jobs.
func NewBatchProcessor(workers int, orchestrator *pipeline.Orchestrator) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	bp := &BatchProcessor{
		workers:      workers,
		orchestrator: orchestrator,
		queue:        make(chan BatchJob, 1000),
		results:      make(chan BatchResult, 1000),
		ctx:          ctx,
		cancel:       cancel,
	}

	bp.startWorkers()
	return bp
}

func (bp *BatchProcessor) startWorkers() {
	for i := 0; i < bp.workers; i++ {
		bp.wg.Add(1)
		go bp.worker(i)
	}
}

func (bp *BatchProcessor) worker(id int) {
	defer bp.wg.Done()

	for {
		select {
		case <-bp.ctx.Done():
			return
		case job, ok := <-bp.queue:
			if !ok {
				return
			}
			result := bp.processJob(job)
			select {
			case bp.results <- result:
			case <-bp.ctx.Done():
				return
			}
		}
	}
}

func (bp *BatchProcessor) processJob(job BatchJob) BatchResult {
	startTime := time.Now()

	var output interface{}
	var err error

	switch job.Type {
	case BatchJobTypeResolve:
		output, err = bp.processResolveJob(job)
	case BatchJobTypeVerify:
		output, err = bp.processVerifyJob(job)
	case BatchJobTypeExport:
		output, err = bp.processExportJob(job)
	default:
		err = fmt.Errorf("unknown batch job type: %s", job.Type)
	}

	status := BatchJobStatusCompleted
	if err != nil {
		status = BatchJobStatusFailed
	}

	return BatchResult{
		JobID:    job.ID,
		Status:   status,
		Output:   output,
		Error:    err,
		Duration: time.Since(startTime),
	}
}

func (bp *BatchProcessor) processResolveJob(job BatchJob) (interface{}, error) {
	input, ok := job.Input.(ResolveInput)
	if !ok {
		return nil, fmt.Errorf("invalid resolve job input")
	}
	resolutions := bp.orchestrator.ResolveMany(bp.ctx, input.Requests, pipeline.Options{
		FetchJudgments: input.FetchJudgments,
	})
	return resolutions, nil
}

func (bp *BatchProcessor) processVerifyJob(job BatchJob) (interface{}, error) {
	input, ok := job.Input.(VerifyInput)
	if !ok {
		return nil, fmt.Errorf("invalid verify job input")
	}
	results := make([]*models.Verification, len(input.Claims))
	for i, claim := range input.Claims {
		results[i] = verifier.Verify(claim.ClaimText, claim.CitationText, claim.Judgment, claim.ResolutionStatus)
	}
	return results, nil
}

func (bp *BatchProcessor) processExportJob(job BatchJob) (interface{}, error) {
	input, ok := job.Input.(ExportInput)
	if !ok {
		return nil, fmt.Errorf("invalid export job input")
	}
	var buf bytes.Buffer
	exporter := export.NewExporter(input.Format, &buf)
	if err := exporter.Export(input.Bundle); err != nil {
		return nil, fmt.Errorf("rendering export: %w", err)
	}
	return map[string]interface{}{
		"format":  string(input.Format),
		"content": buf.String(),
	}, nil
}

// SubmitJob submits a batch job for processing.
func (bp *BatchProcessor) SubmitJob(job BatchJob) error {
	job.CreatedAt = time.Now()
	job.Status = BatchJobStatusPending

	select {
	case bp.queue <- job:
		return nil
	case <-bp.ctx.Done():
		return fmt.Errorf("batch processor is shutting down")
	}
}

// GetResults returns the results channel.
func (bp *BatchProcessor) GetResults() <-chan BatchResult {
	return bp.results
}

// Shutdown gracefully shuts down the batch processor.
func (bp *BatchProcessor) Shutdown() {
	bp.cancel()
	close(bp.queue)
	bp.wg.Wait()
	close(bp.results)
}

// BatchJobManager tracks submitted jobs by ID for status polling.
type BatchJobManager struct {
	jobs      map[string]*BatchJob
	mu        sync.RWMutex
	processor *BatchProcessor
	seq       int64
}

func NewBatchJobManager(workers int, orchestrator *pipeline.Orchestrator) *BatchJobManager {
	return &BatchJobManager{
		jobs:      make(map[string]*BatchJob),
		processor: NewBatchProcessor(workers, orchestrator),
	}
}

func (bjm *BatchJobManager) CreateJob(jobType BatchJobType, input interface{}) (*BatchJob, error) {
	bjm.mu.Lock()
	bjm.seq++
	id := fmt.Sprintf("batch_%d", bjm.seq)
	bjm.mu.Unlock()

	job := &BatchJob{
		ID:        id,
		Type:      jobType,
		Status:    BatchJobStatusPending,
		Input:     input,
		CreatedAt: time.Now(),
		Progress:  &BatchJobProgress{},
		Metadata:  make(map[string]interface{}),
	}

	bjm.mu.Lock()
	bjm.jobs[job.ID] = job
	bjm.mu.Unlock()

	if err := bjm.processor.SubmitJob(*job); err != nil {
		return nil, err
	}
	return job, nil
}

func (bjm *BatchJobManager) GetJob(jobID string) (*BatchJob, bool) {
	bjm.mu.RLock()
	defer bjm.mu.RUnlock()
	job, ok := bjm.jobs[jobID]
	return job, ok
}

func (bjm *BatchJobManager) ListJobs() []*BatchJob {
	bjm.mu.RLock()
	defer bjm.mu.RUnlock()

	jobs := make([]*BatchJob, 0, len(bjm.jobs))
	for _, job := range bjm.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

func (bjm *BatchJobManager) CancelJob(jobID string) error {
	bjm.mu.Lock()
	defer bjm.mu.Unlock()

	job, ok := bjm.jobs[jobID]
	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if job.Status == BatchJobStatusRunning || job.Status == BatchJobStatusPending {
		job.Status = BatchJobStatusCancelled
		now := time.Now()
		job.CompletedAt = &now
	}
	return nil
}

func (bjm *BatchJobManager) Shutdown() {
	bjm.processor.Shutdown()
}

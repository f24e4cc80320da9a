package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/legalaudit/crvc/internal/events"
	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/queue"
	"github.com/legalaudit/crvc/internal/repository"
	"github.com/legalaudit/crvc/internal/websocket"
	"github.com/legalaudit/crvc/pkg/models"
)

// ResolveJobType is the queue.JobType the CRVC worker understands: a batch
// of citations dequeued from the job queue and run through the Pipeline
// Orchestrator, with results persisted back onto the originating
// storage.Job record (spec.md §6's async job contract).
const ResolveJobType queue.JobType = "resolve"

// NewResolveHandler returns a JobHandler that resolves the citation batch
// named by a queue.Job's payload and writes the outcome onto the matching
// JobRepository record, the way the teacher's job handler wrote scrape
// results back onto its Storage-backed job rows. emitter and bus may both
// be nil, in which case no WebSocket progress events or event-bus/webhook
// notifications are published (SPEC_FULL.md §6.4/§6.5 are then simply
// inert, not broken).
func NewResolveHandler(orchestrator *pipeline.Orchestrator, jobs *repository.JobRepository, logger *observability.Logger, metrics *observability.Metrics, emitter *websocket.EventEmitter, bus *events.Bus) JobHandler {
	return func(ctx context.Context, job *queue.Job) error {
		jobID, _ := job.Payload["job_id"].(string)
		if jobID == "" {
			return fmt.Errorf("resolve job payload missing job_id")
		}

		record, err := jobs.Get(ctx, jobID)
		if err != nil {
			return fmt.Errorf("loading job %s: %w", jobID, err)
		}

		if err := jobs.MarkRunning(ctx, record); err != nil {
			logger.WithField("job_id", jobID).Warn("failed to mark job running")
		}

		fetchJudgments, _ := job.Payload["fetch_judgments"].(bool)
		requests := make([]pipeline.Request, len(record.Citations))
		for i, citation := range record.Citations {
			requests[i] = pipeline.Request{CitationText: citation}
		}

		if emitter != nil {
			emitter.EmitResolutionStarted(jobID, len(requests))
		}
		if bus != nil {
			bus.Publish(events.ResolutionStartedEvent(jobID, len(requests)))
		}

		opts := pipeline.Options{FetchJudgments: fetchJudgments}
		opts.Progress = func(index int, res *models.Resolution) {
			if emitter != nil {
				emitter.EmitResolutionProgress(jobID, index, res.CitationText, res.Status, len(res.Candidates))
			}
			if bus != nil {
				bus.Publish(events.ResolutionItemDoneEvent(jobID, index, res))
			}
		}

		start := time.Now()
		resolutions := orchestrator.ResolveMany(ctx, requests, opts)
		metrics.RecordWorkerJob(jobID, string(ResolveJobType), "completed", time.Since(start))

		if err := jobs.Complete(ctx, record, resolutions); err != nil {
			if emitter != nil {
				emitter.EmitResolutionError(jobID, err.Error())
			}
			if bus != nil {
				bus.Publish(events.ResolutionFailedEvent(jobID, err))
			}
			return fmt.Errorf("saving job %s results: %w", jobID, err)
		}

		resolved := countResolved(resolutions)
		if emitter != nil {
			emitter.EmitResolutionComplete(jobID, resolved, len(resolutions)-resolved, time.Since(start).Seconds())
		}
		if bus != nil {
			bus.Publish(events.ResolutionCompleteEvent(jobID, resolved, len(resolutions)-resolved, time.Since(start)))
		}

		logger.WithField("job_id", jobID).WithField("resolved", resolved).Info("resolve job completed")
		return nil
	}
}

func countResolved(resolutions []*models.Resolution) int {
	n := 0
	for _, r := range resolutions {
		if r.Status == models.ResolutionResolved {
			n++
		}
	}
	return n
}

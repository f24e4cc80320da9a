package events

import (
	"time"

	"github.com/legalaudit/crvc/pkg/models"
)

// EventType represents the type of event
type EventType string

const (
	// Resolution events (spec.md §4.9's fan-out, one per batch and per item)
	EventResolutionStarted  EventType = "resolution.started"
	EventResolutionItemDone EventType = "resolution.item_done"
	EventResolutionComplete EventType = "resolution.complete"
	EventResolutionFailed   EventType = "resolution.failed"

	// Verification events
	EventVerificationComplete EventType = "verification.complete"
	EventHallucinationFound   EventType = "hallucination.found"

	// Citation events
	EventCitationExtracted EventType = "citation.extracted"

	// Worker events
	EventWorkerStarted EventType = "worker.started"
	EventWorkerStopped EventType = "worker.stopped"
	EventJobQueued     EventType = "job.queued"
	EventJobCompleted  EventType = "job.completed"
	EventJobFailed     EventType = "job.failed"
)

// Event represents a system event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent creates a new event
func NewEvent(eventType EventType, source string, data map[string]interface{}) *Event {
	return &Event{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	}
}

// ResolutionStartedEvent creates a resolution batch started event.
func ResolutionStartedEvent(jobID string, citationCount int) *Event {
	return NewEvent(EventResolutionStarted, "pipeline", map[string]interface{}{
		"job_id":         jobID,
		"citation_count": citationCount,
	})
}

// ResolutionItemDoneEvent creates a per-citation completion event within a batch.
func ResolutionItemDoneEvent(jobID string, index int, res *models.Resolution) *Event {
	return NewEvent(EventResolutionItemDone, "pipeline", map[string]interface{}{
		"job_id":          jobID,
		"index":           index,
		"citation_text":   res.CitationText,
		"status":          string(res.Status),
		"candidate_count": len(res.Candidates),
	})
}

// ResolutionCompleteEvent creates a resolution batch completed event.
func ResolutionCompleteEvent(jobID string, resolved, unresolvable int, duration time.Duration) *Event {
	return NewEvent(EventResolutionComplete, "pipeline", map[string]interface{}{
		"job_id":           jobID,
		"resolved":         resolved,
		"unresolvable":     unresolvable,
		"duration_ms":      duration.Milliseconds(),
	})
}

// ResolutionFailedEvent creates a resolution batch failure event.
func ResolutionFailedEvent(jobID string, err error) *Event {
	return NewEvent(EventResolutionFailed, "pipeline", map[string]interface{}{
		"job_id": jobID,
		"error":  err.Error(),
	})
}

// VerificationCompleteEvent creates a claim/judgment verification result event.
func VerificationCompleteEvent(citationText string, v *models.Verification) *Event {
	return NewEvent(EventVerificationComplete, "verifier", map[string]interface{}{
		"citation_text": citationText,
		"outcome":       string(v.Outcome),
		"confidence":    v.Confidence,
		"category":      string(v.Category),
	})
}

// HallucinationFoundEvent creates an event for a non-trivial hallucination category.
func HallucinationFoundEvent(citationText string, category models.HallucinationCategory) *Event {
	return NewEvent(EventHallucinationFound, "verifier", map[string]interface{}{
		"citation_text": citationText,
		"category":      string(category),
	})
}

// CitationExtractedEvent creates a citation extraction event.
func CitationExtractedEvent(source string, citationCount int) *Event {
	return NewEvent(EventCitationExtracted, "citation-extractor", map[string]interface{}{
		"source":         source,
		"citation_count": citationCount,
	})
}

// WorkerStartedEvent creates a worker started event
func WorkerStartedEvent(workerID string) *Event {
	return NewEvent(EventWorkerStarted, "worker-pool", map[string]interface{}{
		"worker_id": workerID,
	})
}

// WorkerStoppedEvent creates a worker stopped event
func WorkerStoppedEvent(workerID string) *Event {
	return NewEvent(EventWorkerStopped, "worker-pool", map[string]interface{}{
		"worker_id": workerID,
	})
}

// JobQueuedEvent creates a job queued event
func JobQueuedEvent(jobID string, jobType string) *Event {
	return NewEvent(EventJobQueued, "queue", map[string]interface{}{
		"job_id":   jobID,
		"job_type": jobType,
	})
}

// JobCompletedEvent creates a job completed event
func JobCompletedEvent(jobID string, duration time.Duration) *Event {
	return NewEvent(EventJobCompleted, "worker", map[string]interface{}{
		"job_id":      jobID,
		"duration_ms": duration.Milliseconds(),
	})
}

// JobFailedEvent creates a job failed event
func JobFailedEvent(jobID string, err error) *Event {
	return NewEvent(EventJobFailed, "worker", map[string]interface{}{
		"job_id": jobID,
		"error":  err.Error(),
	})
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405.000000000")
}

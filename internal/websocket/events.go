package websocket

import (
	"github.com/legalaudit/crvc/pkg/models"
)

// EventEmitter handles emitting WebSocket events
type EventEmitter struct {
	server *Server
}

// NewEventEmitter creates a new event emitter
func NewEventEmitter(server *Server) *EventEmitter {
	return &EventEmitter{
		server: server,
	}
}

// EmitResolutionStarted emits an event when a batch resolution job starts.
func (e *EventEmitter) EmitResolutionStarted(jobID string, citationCount int) {
	msg := NewMessage(MessageTypeResolutionStarted, map[string]interface{}{
		"job_id":         jobID,
		"citation_count": citationCount,
		"status":         "started",
	})

	e.server.BroadcastToRoom("resolution:"+jobID, msg)
	e.server.BroadcastToRoom("resolution:all", msg)
}

// EmitResolutionProgress emits per-citation progress as the Pipeline
// Orchestrator fans out (SPEC_FULL.md §6.4): citation index, its resolved
// status, and how many candidate URLs were found for it.
func (e *EventEmitter) EmitResolutionProgress(jobID string, index int, citationText string, status models.ResolutionStatus, candidateCount int) {
	msg := NewMessage(MessageTypeResolutionProgress, map[string]interface{}{
		"job_id":          jobID,
		"index":           index,
		"citation_text":   citationText,
		"status":          string(status),
		"candidate_count": candidateCount,
	})

	e.server.BroadcastToRoom("resolution:"+jobID, msg)
	e.server.BroadcastToRoom("resolution:all", msg)
}

// EmitResolutionComplete emits an event when a batch resolution job finishes.
func (e *EventEmitter) EmitResolutionComplete(jobID string, resolved, unresolvable int, duration float64) {
	msg := NewMessage(MessageTypeResolutionComplete, map[string]interface{}{
		"job_id":           jobID,
		"resolved":         resolved,
		"unresolvable":     unresolvable,
		"duration_seconds": duration,
		"status":           "completed",
	})

	e.server.BroadcastToRoom("resolution:"+jobID, msg)
	e.server.BroadcastToRoom("resolution:all", msg)
}

// EmitResolutionError emits an error event for a batch resolution job.
func (e *EventEmitter) EmitResolutionError(jobID, errorMsg string) {
	msg := NewMessage(MessageTypeResolutionError, map[string]interface{}{
		"job_id": jobID,
		"error":  errorMsg,
		"status": "failed",
	})

	e.server.BroadcastToRoom("resolution:"+jobID, msg)
	e.server.BroadcastToRoom("resolution:all", msg)
}

// EmitVerificationComplete emits a single claim/judgment verification result.
func (e *EventEmitter) EmitVerificationComplete(citationText string, v *models.Verification) {
	msg := NewMessage(MessageTypeVerificationComplete, map[string]interface{}{
		"citation_text": citationText,
		"outcome":       string(v.Outcome),
		"confidence":    v.Confidence,
		"category":      string(v.Category),
	})

	e.server.BroadcastToRoom("verification:all", msg)
	e.server.BroadcastToRoom("citation:"+citationText, msg)
}

// EmitHallucinationAlert emits an alert when a verification outcome
// classifies as a non-trivial hallucination category.
func (e *EventEmitter) EmitHallucinationAlert(citationText string, category models.HallucinationCategory) {
	msg := NewMessage(MessageTypeHallucinationAlert, map[string]interface{}{
		"citation_text": citationText,
		"category":      string(category),
	})

	e.server.BroadcastToRoom("alerts:hallucination", msg)
	e.server.BroadcastToRoom("alerts:all", msg)
}

// EmitWorkerStatus emits worker pool status updates
func (e *EventEmitter) EmitWorkerStatus(activeWorkers, totalWorkers, queueSize int) {
	msg := NewMessage(MessageTypeWorkerStatus, map[string]interface{}{
		"active_workers": activeWorkers,
		"total_workers":  totalWorkers,
		"queue_size":     queueSize,
		"utilization":    float64(activeWorkers) / float64(totalWorkers),
	})

	e.server.BroadcastToRoom("workers:all", msg)
}

// EmitQueueUpdate emits job queue updates
func (e *EventEmitter) EmitQueueUpdate(pending, running, completed, failed int) {
	msg := NewMessage(MessageTypeQueueUpdate, map[string]interface{}{
		"pending":   pending,
		"running":   running,
		"completed": completed,
		"failed":    failed,
		"total":     pending + running,
	})

	e.server.BroadcastToRoom("queue:all", msg)
}

// EmitSystemAlert emits system-level alerts
func (e *EventEmitter) EmitSystemAlert(severity, component, message string) {
	msg := NewMessage(MessageTypeSystemAlert, map[string]interface{}{
		"severity":  severity,
		"component": component,
		"message":   message,
	})

	e.server.BroadcastToRoom("alerts:system", msg)
	e.server.BroadcastToRoom("alerts:all", msg)
}

// EmitMetricUpdate emits metric updates
func (e *EventEmitter) EmitMetricUpdate(metricName string, value float64, labels map[string]string) {
	msg := NewMessage(MessageTypeMetricUpdate, map[string]interface{}{
		"metric": metricName,
		"value":  value,
		"labels": labels,
	})

	e.server.BroadcastToRoom("metrics:all", msg)
	e.server.BroadcastToRoom("metrics:"+metricName, msg)
}

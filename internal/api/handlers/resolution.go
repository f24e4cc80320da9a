package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/queue"
	"github.com/legalaudit/crvc/internal/repository"
	"github.com/legalaudit/crvc/internal/events"
	"github.com/legalaudit/crvc/internal/storage"
	"github.com/legalaudit/crvc/internal/verifier"
	"github.com/legalaudit/crvc/internal/websocket"
	"github.com/legalaudit/crvc/internal/worker"
	"github.com/legalaudit/crvc/pkg/models"
)

// ResolutionHandler exposes the CRVC Resolver/Pipeline Orchestrator over
// HTTP, replacing the teacher's Case/Judge CRUD surface with the citation
// resolve operation spec.md §6 describes as the CLI/API's one job.
type ResolutionHandler struct {
	orchestrator *pipeline.Orchestrator
	jobs         *repository.JobRepository
	jobQueue     queue.Queue
	logger       *observability.Logger
	emitter      *websocket.EventEmitter
	bus          *events.Bus
}

func NewResolutionHandler(orchestrator *pipeline.Orchestrator, jobs *repository.JobRepository, jobQueue queue.Queue, logger *observability.Logger, emitter *websocket.EventEmitter, bus *events.Bus) *ResolutionHandler {
	return &ResolutionHandler{orchestrator: orchestrator, jobs: jobs, jobQueue: jobQueue, logger: logger, emitter: emitter, bus: bus}
}

// ResolveRequest is the body of POST /api/v1/resolve.
type ResolveRequest struct {
	Citations      []CitationInput `json:"citations" validate:"required,min=1"`
	FetchJudgments bool            `json:"fetch_judgments"`
}

// CitationInput pairs a raw citation string with an optional case name hint
// the caller already knows (spec.md §4.1's citation/case-name pairing).
type CitationInput struct {
	Text     string `json:"text" validate:"required"`
	CaseName string `json:"case_name,omitempty"`
}

// Resolve handles POST /api/v1/resolve: resolve a batch of citations
// synchronously and return their Resolutions inline.
func (h *ResolutionHandler) Resolve(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Citations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "at least one citation is required"})
	}

	requests := make([]pipeline.Request, len(req.Citations))
	for i, ci := range req.Citations {
		requests[i] = pipeline.Request{CitationText: ci.Text, CaseName: ci.CaseName}
	}

	opts := pipeline.Options{FetchJudgments: req.FetchJudgments}
	if h.emitter != nil {
		requestID := c.Locals("requestid")
		jobID, _ := requestID.(string)
		if jobID == "" {
			jobID = "sync"
		}
		h.emitter.EmitResolutionStarted(jobID, len(requests))
		opts.Progress = func(index int, res *models.Resolution) {
			h.emitter.EmitResolutionProgress(jobID, index, res.CitationText, res.Status, len(res.Candidates))
		}
	}

	results := h.orchestrator.ResolveMany(c.Context(), requests, opts)

	if h.emitter != nil {
		requestID := c.Locals("requestid")
		jobID, _ := requestID.(string)
		if jobID == "" {
			jobID = "sync"
		}
		resolved := 0
		for _, r := range results {
			if r.Status == models.ResolutionResolved {
				resolved++
			}
		}
		h.emitter.EmitResolutionComplete(jobID, resolved, len(results)-resolved, 0)
	}

	return c.JSON(fiber.Map{"resolutions": results})
}

// CreateJobRequest is the body of POST /api/v1/jobs.
type CreateJobRequest struct {
	Citations      []string `json:"citations" validate:"required,min=1"`
	FetchJudgments bool     `json:"fetch_judgments"`
}

// CreateJob handles POST /api/v1/jobs: enqueue an asynchronous batch job
// and return its ID immediately. The handler records the job and enqueues a
// worker.ResolveJobType queue job; internal/worker's resolve handler runs the
// resolution out of band.
func (h *ResolutionHandler) CreateJob(c *fiber.Ctx) error {
	var req CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	job, err := h.jobs.Create(c.Context(), req.Citations)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("failed to create job")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create job"})
	}

	queued := queue.NewJob(worker.ResolveJobType, map[string]interface{}{
		"job_id":          job.ID,
		"fetch_judgments": req.FetchJudgments,
	})
	if err := h.jobQueue.Enqueue(c.Context(), queued); err != nil {
		h.logger.WithField("job_id", job.ID).WithField("error", err.Error()).Error("failed to enqueue job")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to enqueue job"})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// GetJob handles GET /api/v1/jobs/:id.
func (h *ResolutionHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}

// ListJobs handles GET /api/v1/jobs.
func (h *ResolutionHandler) ListJobs(c *fiber.Ctx) error {
	filter := storage.JobFilter{
		Status: storage.JobStatus(c.Query("status")),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	jobs, err := h.jobs.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list jobs"})
	}
	return c.JSON(fiber.Map{"data": jobs, "limit": filter.Limit, "offset": filter.Offset})
}

// VerifyRequest is the body of POST /api/v1/verify: check a textual claim
// against a judgment already attached to a Resolution.
type VerifyRequest struct {
	ClaimText        string                  `json:"claim_text" validate:"required"`
	Judgment         *models.Judgment        `json:"judgment" validate:"required"`
	Citation         string                  `json:"citation"`
	ResolutionStatus models.ResolutionStatus `json:"resolution_status"`
}

// Verify handles POST /api/v1/verify.
func (h *ResolutionHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ResolutionStatus == "" {
		req.ResolutionStatus = models.ResolutionResolved
	}
	result := verifier.Verify(req.ClaimText, req.Citation, req.Judgment, req.ResolutionStatus)

	if h.emitter != nil {
		h.emitter.EmitVerificationComplete(req.Citation, result)
		if result.Category != models.HallucinationNone {
			h.emitter.EmitHallucinationAlert(req.Citation, result.Category)
		}
	}
	if h.bus != nil {
		h.bus.Publish(events.VerificationCompleteEvent(req.Citation, result))
		if result.Category != models.HallucinationNone {
			h.bus.Publish(events.HallucinationFoundEvent(req.Citation, result.Category))
		}
	}

	return c.JSON(result)
}

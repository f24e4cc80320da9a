package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/storage"
)

// StatsHandler reports batch job throughput.
type StatsHandler struct {
	store  storage.Store
	logger *observability.Logger
}

func NewStatsHandler(store storage.Store, logger *observability.Logger) *StatsHandler {
	return &StatsHandler{store: store, logger: logger}
}

// GetStats handles GET /api/v1/stats, counting jobs per lifecycle status.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	ctx := c.Context()
	counts := fiber.Map{}
	for _, status := range []storage.JobStatus{
		storage.JobStatusPending, storage.JobStatusRunning,
		storage.JobStatusCompleted, storage.JobStatusFailed, storage.JobStatusCancelled,
	} {
		jobs, err := h.store.ListJobs(ctx, storage.JobFilter{Status: status})
		if err != nil {
			h.logger.WithField("error", err.Error()).Warn("failed to list jobs for stats")
			continue
		}
		counts[string(status)] = len(jobs)
	}
	return c.JSON(fiber.Map{"jobs_by_status": counts})
}

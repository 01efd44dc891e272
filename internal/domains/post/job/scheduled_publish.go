package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"cms-backend/internal/domains/post"
	"cms-backend/pkg/logger"
)

// ScheduledPublishHandler runs the scheduled-publish cycle when the
// recurring task fires. The cycle itself is idempotent, so overlapping
// runs from multiple worker instances are safe.
type ScheduledPublishHandler struct {
	service post.Service
}

func NewScheduledPublishHandler(service post.Service) *ScheduledPublishHandler {
	return &ScheduledPublishHandler{service: service}
}

// ProcessTask is the asynq entrypoint. A per-item failure never reaches
// here; only a failure to select the batch surfaces, and asynq retries the
// whole (idempotent) cycle.
func (h *ScheduledPublishHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	logger.Debug("scheduled publish cycle starting")

	if err := h.service.RunScheduledPublishCycle(ctx); err != nil {
		return fmt.Errorf("scheduled publish cycle: %w", err)
	}
	return nil
}

package post

import (
	"context"

	"github.com/google/uuid"
)

// Service is the lifecycle engine: it owns the draft/scheduled/published
// state machine, delegates storage to the Repository and keeps the cache
// layer coherent with every transition.
type Service interface {
	CreateDraft(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*Post, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*Post, error)
	Update(ctx context.Context, id, userID uuid.UUID, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Publish(ctx context.Context, id, userID uuid.UUID) (*Post, error)
	Schedule(ctx context.Context, id, userID uuid.UUID, req SchedulePostRequest) (*Post, error)
	ListOwned(ctx context.Context, authorID uuid.UUID, page, limit int) (*ListResult, error)
	ListRevisions(ctx context.Context, id, userID uuid.UUID) ([]Revision, error)

	// Public read path, served through the cache.
	ListPublished(ctx context.Context, page, limit int) (*ListResult, error)
	GetPublished(ctx context.Context, id uuid.UUID) (*Post, error)

	// RunScheduledPublishCycle promotes all due scheduled posts. It is
	// idempotent and safe to run concurrently from multiple workers.
	RunScheduledPublishCycle(ctx context.Context) error
}

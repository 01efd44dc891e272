package post

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the transactional data-access contract for posts and their
// revisions. Every mutating method runs inside a single transaction scoped
// to that one logical operation.
type Repository interface {
	// Create inserts a draft, assigning a unique slug inside the insert
	// transaction (base, base-1, base-2, ... probe).
	Create(ctx context.Context, authorID uuid.UUID, title, content string) (*Post, error)

	// FindByID returns any post regardless of status.
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindPublishedByID returns a post only if it is published.
	FindPublishedByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// ListByAuthor pages an author's posts, most recently updated first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]Post, int, error)

	// ListPublished pages published posts, most recently published first.
	ListPublished(ctx context.Context, page, limit int) ([]Post, int, error)

	// Update applies a content edit: it records a revision from the row
	// state read at transaction start, applies the new values, and
	// reassigns the slug when the title changed (timestamp suffix on
	// collision with another post). Returns the updated post and the
	// pre-edit status.
	Update(ctx context.Context, id, editorID uuid.UUID, title, content *string) (*Post, Status, error)

	// Delete removes the post and its revisions, returning the status the
	// post had.
	Delete(ctx context.Context, id uuid.UUID) (Status, error)

	// MarkPublished performs the draft -> published transition as a
	// conditional update; ErrInvalidState when the row is no longer a draft.
	MarkPublished(ctx context.Context, id uuid.UUID) (*Post, error)

	// MarkScheduled performs the draft -> scheduled transition as a
	// conditional update; ErrInvalidState when the row is no longer a draft.
	MarkScheduled(ctx context.Context, id uuid.UUID, when time.Time) (*Post, error)

	// FindDueScheduled returns the ids of posts with status scheduled and
	// scheduled_for in the past.
	FindDueScheduled(ctx context.Context) ([]uuid.UUID, error)

	// ClaimAndPublish atomically claims one due post: it updates the row
	// only if status is still scheduled and scheduled_for has passed.
	// Returns false when a concurrent claim won; that is not an error.
	ClaimAndPublish(ctx context.Context, id uuid.UUID) (bool, error)

	// ListRevisions returns a post's revisions, newest first.
	ListRevisions(ctx context.Context, postID uuid.UUID) ([]Revision, error)
}

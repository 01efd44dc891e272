package post

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// Post is the content unit moving through draft, scheduled and published
// states. published is terminal: PublishedAt is set exactly once and never
// cleared by later edits.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Content      string     `json:"content"`
	Status       Status     `json:"status"`
	AuthorID     uuid.UUID  `json:"author_id"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Revision is an immutable snapshot of a post's title and content taken
// immediately before an edit.
type Revision struct {
	ID                uuid.UUID `json:"revision_id"`
	PostID            uuid.UUID `json:"post_id"`
	TitleSnapshot     string    `json:"title_snapshot"`
	ContentSnapshot   string    `json:"content_snapshot"`
	RevisionAuthor    string    `json:"revision_author"`
	RevisionTimestamp time.Time `json:"revision_timestamp"`
}

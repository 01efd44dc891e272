// Package shared holds task type and queue names used by both the API and
// worker processes.
package shared

const (
	// TypeScheduledPublish promotes due scheduled posts to published.
	TypeScheduledPublish = "posts:scheduled_publish"

	// QueuePosts is the asynq queue for post lifecycle tasks.
	QueuePosts = "posts"
)

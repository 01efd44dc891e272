package post

import "errors"

var (
	// ErrPostNotFound means the referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrNotOwner means the principal does not own the post.
	ErrNotOwner = errors.New("not authorized to access this post")

	// ErrInvalidState means the transition is not permitted from the
	// post's current status.
	ErrInvalidState = errors.New("transition not allowed from current status")

	// ErrInvalidTime means a schedule time is not strictly in the future.
	ErrInvalidTime = errors.New("scheduled_for must be a future date and time")
)

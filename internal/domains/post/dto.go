package post

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreatePostRequest creates a new draft.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500).Error("title must be between 1 and 500 characters"),
		),
	)
}

// UpdatePostRequest edits title and/or content. Nil fields are left
// untouched; an update with neither field is a no-op.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("title must not be empty"),
			validation.Length(1, 500).Error("title must be between 1 and 500 characters"),
		),
	)
}

// IsEmpty reports whether the request changes nothing.
func (r UpdatePostRequest) IsEmpty() bool {
	return r.Title == nil && r.Content == nil
}

// SchedulePostRequest moves a draft to scheduled at the given time.
// Whether the time is in the future is a lifecycle rule, checked by the
// service, not input validation.
type SchedulePostRequest struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

func (r SchedulePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ScheduledFor, validation.Required.Error("scheduled_for is required")),
	)
}

// Pagination is returned with every list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListResult bundles a page of posts with its pagination. It is also the
// unit stored in the published-list cache.
type ListResult struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes the derived TotalPages field.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

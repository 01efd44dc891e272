package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cms-backend/internal/domains/post"
	"cms-backend/internal/shared/middleware"
	"cms-backend/internal/shared/response"
	"cms-backend/pkg/logger"
)

// PostHandler serves the authenticated write surface of the post domain.
type PostHandler struct {
	service post.Service
}

func NewPostHandler(service post.Service) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req post.CreatePostRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.service.CreateDraft(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// List handles GET /posts, the author's own posts.
func (h *PostHandler) List(c *gin.Context) {
	page, limit, ok := paginationParams(c)
	if !ok {
		return
	}

	result, err := h.service.ListOwned(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Posts, paginationMeta(result.Pagination))
}

// Get handles GET /posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	p, err := h.service.GetOwned(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// Update handles PUT /posts/:id.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req post.UpdatePostRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		handleError(c, err)
		return
	}

	response.NoContent(c)
}

// Publish handles POST /posts/:id/publish, draft to published.
func (h *PostHandler) Publish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	published, err := h.service.Publish(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, published)
}

// Schedule handles POST /posts/:id/schedule, draft to scheduled.
func (h *PostHandler) Schedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req post.SchedulePostRequest
	if !bindAndValidate(c, &req) {
		return
	}

	scheduled, err := h.service.Schedule(c.Request.Context(), id, middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, scheduled)
}

// ListRevisions handles GET /posts/:id/revisions, newest first.
func (h *PostHandler) ListRevisions(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	revisions, err := h.service.ListRevisions(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	if revisions == nil {
		revisions = []post.Revision{}
	}
	response.Success(c, http.StatusOK, revisions)
}

// handleError maps domain errors to stable HTTP codes.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, post.ErrPostNotFound):
		response.NotFound(c, "Post not found")
	case errors.Is(err, post.ErrNotOwner):
		response.Forbidden(c, "Not authorized to access this post")
	case errors.Is(err, post.ErrInvalidState):
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_STATE", err.Error())
	case errors.Is(err, post.ErrInvalidTime):
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_TIME", err.Error())
	default:
		logger.Error("post request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
}

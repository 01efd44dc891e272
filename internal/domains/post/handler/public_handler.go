package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cms-backend/internal/domains/post"
	"cms-backend/internal/shared/response"
)

// PublicHandler serves the unauthenticated, cache-backed read path.
type PublicHandler struct {
	service post.Service
}

func NewPublicHandler(service post.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// ListPublished handles GET /published/posts.
func (h *PublicHandler) ListPublished(c *gin.Context) {
	page, limit, ok := paginationParams(c)
	if !ok {
		return
	}

	result, err := h.service.ListPublished(c.Request.Context(), page, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Posts, paginationMeta(result.Pagination))
}

// GetPublished handles GET /published/posts/:id.
func (h *PublicHandler) GetPublished(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	p, err := h.service.GetPublished(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

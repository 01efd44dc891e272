package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cms-backend/internal/config"
	"cms-backend/internal/domains/post"
	"cms-backend/internal/domains/search/repository"
	"cms-backend/internal/shared/response"
	"cms-backend/pkg/logger"
)

// SearchHandler serves GET /search over published posts.
type SearchHandler struct {
	repo       *repository.SearchRepository
	pagination config.PaginationConfig
}

func NewSearchHandler(repo *repository.SearchRepository, pagination config.PaginationConfig) *SearchHandler {
	return &SearchHandler{repo: repo, pagination: pagination}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.BadRequest(c, "q is required")
		return
	}

	page := intQueryDefault(c, "page", 1)
	limit := intQueryDefault(c, "limit", h.pagination.DefaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = h.pagination.DefaultLimit
	}
	if limit > h.pagination.MaxLimit {
		limit = h.pagination.MaxLimit
	}

	posts, total, err := h.repo.Search(c.Request.Context(), query, page, limit)
	if err != nil {
		logger.Error("search failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}

	if posts == nil {
		posts = []post.Post{}
	}
	meta := post.NewPagination(page, limit, total)
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{
		Page:       meta.Page,
		Limit:      meta.Limit,
		Total:      meta.Total,
		TotalPages: meta.TotalPages,
	})
}

func intQueryDefault(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

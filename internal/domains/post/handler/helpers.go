package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cms-backend/internal/domains/post"
	"cms-backend/internal/shared/response"
)

// validatable is implemented by every request DTO.
type validatable interface {
	Validate() error
}

// bindAndValidate parses the JSON body and runs DTO validation. Reports
// false after writing the error response.
func bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, 400, "VALIDATION_ERROR", "Validation failed", err)
		return false
	}
	return true
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Post not found")
		return uuid.Nil, false
	}
	return id, true
}

// paginationParams parses optional page/limit query parameters. Bounds
// clamping happens in the service; here only the syntax is checked.
func paginationParams(c *gin.Context) (page, limit int, ok bool) {
	page, ok = intQuery(c, "page", 1)
	if !ok {
		return 0, 0, false
	}
	limit, ok = intQuery(c, "limit", 0)
	if !ok {
		return 0, 0, false
	}
	return page, limit, true
}

func intQuery(c *gin.Context, name string, defaultValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		response.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return value, true
}

func paginationMeta(p post.Pagination) *response.Meta {
	return &response.Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

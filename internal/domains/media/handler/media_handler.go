package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cms-backend/internal/domains/media/service"
	"cms-backend/internal/shared/response"
	"cms-backend/pkg/logger"
)

// MediaHandler serves POST /media/upload.
type MediaHandler struct {
	service *service.MediaService
}

func NewMediaHandler(service *service.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded")
		return
	}
	if fileHeader.Size > service.MaxUploadSize {
		response.BadRequest(c, service.ErrFileTooLarge.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Upload failed")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadSize+1))
	if err != nil {
		response.BadRequest(c, "Upload failed")
		return
	}

	result, err := h.service.Upload(
		c.Request.Context(),
		data,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Filename,
	)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) || errors.Is(err, service.ErrUnsupportedType) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("media upload failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}

	response.Success(c, http.StatusCreated, result)
}

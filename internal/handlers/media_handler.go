package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/anonto42/connectly/backend/internal/media"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

var uploadFolders = map[string]bool{"posts": true, "messages": true}

// MediaHandler accepts file uploads and returns their public URL
type MediaHandler struct {
	uploader media.Uploader
	maxBytes int64
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(uploader media.Uploader, maxBytes int64) *MediaHandler {
	return &MediaHandler{uploader: uploader, maxBytes: maxBytes}
}

// RegisterMediaRoutes registers upload routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/media/upload", h.Upload)
}

// Upload stores the multipart "file" field and responds with its URL
func (h *MediaHandler) Upload(c echo.Context) error {
	if _, err := currentIdentity(c); err != nil {
		return err
	}

	folder := c.QueryParam("folder")
	if folder == "" {
		folder = "posts"
	}
	if !uploadFolders[folder] {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown upload folder")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file")
	}
	if fh.Size > h.maxBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds %d bytes", h.maxBytes))
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable file")
	}
	defer src.Close()

	body, err := io.ReadAll(io.LimitReader(src, h.maxBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable file")
	}
	if int64(len(body)) > h.maxBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds %d bytes", h.maxBytes))
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(body).String()
	}

	url, err := h.uploader.Upload(c.Request().Context(), folder, body, contentType)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}

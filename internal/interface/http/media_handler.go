package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/pkg/response"
)

const maxUploadBytes = 25 << 20

type MediaHandler struct {
	Svc    *app.MediaService
	Logger *logrus.Logger
}

func NewMediaHandler(svc *app.MediaService, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{Svc: svc, Logger: logger}
}

// Upload stores a file in the caller's folder and returns its public URL.
// The folder form field picks the destination; unknown folders land in misc.
func (h *MediaHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	if len(data) > maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}

	url, err := h.Svc.Upload(c.Request.Context(), actorFromCtx(c),
		c.PostForm("folder"), header.Filename, header.Header.Get("Content-Type"), bytes.NewReader(data))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "file uploaded")
}

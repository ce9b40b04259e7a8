package handler

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
	"github.com/noah-isme/course-portal-api/pkg/response"
	"github.com/noah-isme/course-portal-api/pkg/storage"
)

type downloadVerifier interface {
	Verify(token string) (storage.Grant, error)
}

type fileOpener interface {
	Open(rel string) (*os.File, error)
}

// AttachmentHandler streams uploaded course files behind signed tokens.
type AttachmentHandler struct {
	verifier downloadVerifier
	files    fileOpener
	logger   *zap.Logger
}

// NewAttachmentHandler creates a new handler.
func NewAttachmentHandler(verifier downloadVerifier, files fileOpener, logger *zap.Logger) *AttachmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentHandler{verifier: verifier, files: files, logger: logger}
}

// Download godoc
// @Summary Download an uploaded attachment
// @Tags Attachments
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attachments/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "download token required"))
		return
	}
	grant, err := h.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "download link expired"))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download token"))
		return
	}

	file, err := h.files.Open(grant.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "attachment not found"))
			return
		}
		h.logger.Error("open attachment", zap.String("course_id", grant.CourseID), zap.String("attachment_id", grant.AttachmentID), zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open attachment"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat attachment"))
		return
	}

	name := filepath.Base(grant.Path)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "private, no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	})
}

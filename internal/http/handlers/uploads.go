package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/cvwatch"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/http/middlewares"
)

type DocumentUploader interface {
	UploadCV(ctx context.Context, userID, filename string, file io.Reader) (gateway.UploadResult, error)
	UploadJD(ctx context.Context, userID, filename string, file io.Reader) (gateway.UploadResult, error)
	CVStatus(ctx context.Context, userID string) (gateway.CVStatusResult, error)
}

// UploadsHandler owns the CV and JD submission endpoints plus CV status
// reads. Document constraints are checked here before anything reaches the
// backend; the backend enforces its own limits independently.
type UploadsHandler struct {
	backend  DocumentUploader
	watcher  *cvwatch.Watcher
	maxBytes int64
	log      *slog.Logger
}

func NewUploadsHandler(backend DocumentUploader, watcher *cvwatch.Watcher, maxBytes int64, log *slog.Logger) *UploadsHandler {
	return &UploadsHandler{
		backend:  backend,
		watcher:  watcher,
		maxBytes: maxBytes,
		log:      log,
	}
}

// UploadCV accepts the document, hands it to the backend and reports
// pending; the page then subscribes to CVStatusStream.
func (h *UploadsHandler) UploadCV(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)

	header, ok := h.acceptDocument(ctx)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		RespondInternal(ctx, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	cctx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	if _, err := h.backend.UploadCV(cctx, userID, header.Filename, file); err != nil {
		h.respondUploadError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"status": string(cvwatch.StatusPending),
	})
}

// UploadJD is single shot: the JD pipeline's completion is not tracked
// client-side at all once submitted.
func (h *UploadsHandler) UploadJD(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)

	header, ok := h.acceptDocument(ctx)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		RespondInternal(ctx, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	cctx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	res, err := h.backend.UploadJD(cctx, userID, header.Filename, file)
	if err != nil {
		h.respondUploadError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"id":     res.ID,
		"status": res.Status,
	})
}

// CVStatusOnce answers the initial page-load query: no run yet reads as
// none, any other failure as error.
func (h *UploadsHandler) CVStatusOnce(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	status := cvwatch.Resolve(h.backend.CVStatus(cctx, userID))

	ctx.JSON(http.StatusOK, gin.H{
		"status": string(status),
	})
}

// CVStatusStream streams status updates over SSE until the run reaches a
// terminal state. The watcher is tied to the request context, so a closed
// tab cancels the timer rather than leaking it.
func (h *UploadsHandler) CVStatusStream(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)

	run := h.watcher.Start(ctx.Request.Context(), userID)
	defer run.Stop()

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-store")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Flush()

	for status := range run.Updates() {
		ctx.SSEvent("status", gin.H{"status": string(status)})
		ctx.Writer.Flush()
	}
}

// acceptDocument validates the multipart file: one document format, size
// capped. Rejections never reach the backend. Not a security boundary.
func (h *UploadsHandler) acceptDocument(ctx *gin.Context) (*multipart.FileHeader, bool) {
	header, err := ctx.FormFile("file")
	if err != nil {
		RespondBadRequest(ctx, "A file is required", nil)
		return nil, false
	}

	if filepath.Ext(strings.ToLower(header.Filename)) != ".pdf" {
		RespondBadRequest(ctx, "Only PDF documents are accepted", nil)
		return nil, false
	}

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/pdf") {
		RespondBadRequest(ctx, "Only PDF documents are accepted", nil)
		return nil, false
	}

	if header.Size > h.maxBytes {
		RespondError(ctx, http.StatusRequestEntityTooLarge, "file_too_large",
			"The file exceeds the 10 MB limit", nil)
		return nil, false
	}

	return header, true
}

func (h *UploadsHandler) respondUploadError(ctx *gin.Context, err error) {
	var apiErr *gateway.APIError

	switch {
	case errors.Is(err, gateway.ErrNotFound):
		RespondNotFound(ctx, "User not found")

	case errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden:
		RespondForbidden(ctx, apiErr.Message)

	case errors.As(err, &apiErr) && apiErr.Status < 500:
		RespondBadRequest(ctx, apiErr.Message, nil)

	default:
		h.log.Error("upload failed", "err", err)
		RespondBadGateway(ctx, "The upload could not be processed")
	}
}

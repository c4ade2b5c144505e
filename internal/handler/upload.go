package handler

import (
	"log/slog"
	"net/http"
)

// BlobReader is the slice of the blob store this handler needs.
type BlobReader interface {
	Read(name string) ([]byte, error)
}

// UploadHandler serves stored image blobs back to clients.
//
// We read through the blob store rather than mounting an http.FileServer on
// the upload directory: the store owns name sanitization, so a crafted path
// in the URL can never escape it, and unknown names map onto the same 404
// shape as every other not-found in the API.
type UploadHandler struct {
	blobs  BlobReader
	logger *slog.Logger
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(blobs BlobReader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{blobs: blobs, logger: logger}
}

// HandleFetch returns the raw bytes of a stored blob.
//
// HTTP: GET /uploads/{name}
//
// Every stored blob is a normalized JPEG, so the content type is fixed.
func (h *UploadHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	data, err := h.blobs.Read(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := w.Write(data); err != nil {
		h.logger.Debug("failed to write blob response", slog.String("error", err.Error()))
	}
}

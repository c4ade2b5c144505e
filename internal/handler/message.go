package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/ims-chat/internal/apperror"
	"github.com/sakif/ims-chat/internal/model"
)

// Messenger is the slice of the message service this handler needs.
type Messenger interface {
	Send(ctx context.Context, sender, receiver, text string, imageData []byte) (*model.Message, error)
	Inbox(ctx context.Context, username string) ([]model.InboxEntry, error)
}

// MessageHandler serves sending and inbox polling.
type MessageHandler struct {
	messages       Messenger
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewMessageHandler creates a MessageHandler. maxUploadBytes caps the /send
// request body (base64 image included).
func NewMessageHandler(messages Messenger, maxUploadBytes int64, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messages:       messages,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// InboxResponse wraps the inbox entries in the client envelope.
type InboxResponse struct {
	Status   string             `json:"status"`
	Messages []model.InboxEntry `json:"messages"`
}

// HandleSend accepts a message for store-and-forward delivery.
//
// HTTP: POST /send, form fields "sender", "receiver", optional "message",
// optional "image" (base64-encoded).
//
// TRANSPORT VS PAYLOAD DECODING:
// Undoing the base64 transport encoding is this handler's job; deciding
// whether the resulting bytes are a decodable image is the normalizer's.
// Both failure modes surface to the client as the same decode_error class,
// because from the client's point of view the payload is broken either way.
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, apperror.ValidationFailed("image", "request body too large"))
			return
		}
		writeError(w, apperror.ValidationFailed("body", "malformed form body"))
		return
	}

	var imageData []byte
	if b64 := r.FormValue("image"); b64 != "" {
		var err error
		imageData, err = base64.StdEncoding.DecodeString(b64)
		if err != nil {
			writeError(w, apperror.DecodeFailed("image is not valid base64"))
			return
		}
	}

	_, err := h.messages.Send(r.Context(),
		r.FormValue("sender"),
		r.FormValue("receiver"),
		r.FormValue("message"),
		imageData,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusOK)
}

// HandleInbox returns the latest messages addressed to a username.
//
// HTTP: GET /inbox?username=<name>
//
// The entries arrive newest-first, capped at the service's fixed page size.
// An empty inbox is a 200 with an empty messages array, not an error.
func (h *MessageHandler) HandleInbox(w http.ResponseWriter, r *http.Request) {
	entries, err := h.messages.Inbox(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, InboxResponse{
		Status:   "ok",
		Messages: entries,
	})
}

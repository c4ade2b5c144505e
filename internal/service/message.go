package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/ims-chat/internal/apperror"
	"github.com/sakif/ims-chat/internal/model"
	"github.com/sakif/ims-chat/internal/repository"
)

const (
	// InboxLimit is the fixed page size of the inbox view. The inbox is a
	// "latest N" window, not a paginated scan — polling clients re-fetch it.
	InboxLimit = 20

	// UploadURLPrefix is where stored blobs are served from. Inbox entries
	// carry prefix+name; the URL itself is never persisted.
	UploadURLPrefix = "/uploads/"
)

// ImageNormalizer turns raw image bytes into a stored blob reference.
// Implemented by imaging.Normalizer; mocked in tests.
type ImageNormalizer interface {
	Normalize(raw []byte, sender, receiver string) (string, error)
}

// MessageService handles sending and inbox queries.
type MessageService struct {
	messages repository.MessageRepository
	images   ImageNormalizer
	logger   *slog.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(messages repository.MessageRepository, images ImageNormalizer, logger *slog.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		images:   images,
		logger:   logger,
	}
}

// Send validates and persists one message from sender to receiver.
//
// CONTENT RULES:
// sender and receiver must be non-empty after trimming; at least one of
// text (non-empty after trimming) or imageData must be supplied. Receivers
// do not have to be registered — sending is deliberately permissive.
//
// IMAGE PATH:
// imageData, when present, is normalized and stored FIRST; only then is the
// row appended. A decode failure therefore persists nothing at all. The
// opposite window exists too: if the append fails after the blob write, an
// orphan blob remains on disk. No row references it so it is unreachable;
// we accept that narrow window rather than spanning a transaction across
// the two stores.
func (s *MessageService) Send(ctx context.Context, sender, receiver, text string, imageData []byte) (*model.Message, error) {
	sender = strings.TrimSpace(sender)
	receiver = strings.TrimSpace(receiver)
	text = strings.TrimSpace(text)

	if sender == "" {
		return nil, apperror.ValidationFailed("sender", "sender is required")
	}
	if receiver == "" {
		return nil, apperror.ValidationFailed("receiver", "receiver is required")
	}
	if text == "" && len(imageData) == 0 {
		return nil, apperror.ValidationFailed("message", "message text or image is required")
	}

	msg := &model.Message{
		Sender:   sender,
		Receiver: receiver,
	}
	if text != "" {
		msg.Text = &text
	}

	if len(imageData) > 0 {
		ref, err := s.images.Normalize(imageData, sender, receiver)
		if err != nil {
			// ErrDecode is a payload fault the client must fix; anything
			// else is a storage fault worth an operator-visible log line.
			if !isDecodeErr(err) {
				s.logger.Error("failed to store image",
					slog.String("sender", sender),
					slog.String("receiver", receiver),
					slog.String("error", err.Error()),
				)
			}
			return nil, err
		}
		msg.ImageRef = &ref
	}

	if err := s.messages.Append(ctx, msg); err != nil {
		s.logger.Error("failed to append message",
			slog.String("sender", sender),
			slog.String("receiver", receiver),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("sending message: %w", err)
	}

	s.logger.Info("message sent",
		slog.Int64("id", msg.ID),
		slog.String("sender", sender),
		slog.String("receiver", receiver),
		slog.Bool("hasImage", msg.ImageRef != nil),
	)

	return msg, nil
}

// Inbox returns the latest-N view for username, with blob references
// resolved to fetchable URLs. Resolution is a pure mapping done per query;
// a message without an image never gets a URL fabricated for it.
func (s *MessageService) Inbox(ctx context.Context, username string) ([]model.InboxEntry, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}

	messages, err := s.messages.ListForReceiver(ctx, username, InboxLimit)
	if err != nil {
		s.logger.Error("failed to list inbox",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing inbox: %w", err)
	}

	entries := make([]model.InboxEntry, 0, len(messages))
	for _, m := range messages {
		entry := model.InboxEntry{
			Sender:    m.Sender,
			Message:   m.Text,
			Timestamp: m.CreatedAt,
		}
		if m.ImageRef != nil {
			url := UploadURLPrefix + *m.ImageRef
			entry.ImageURL = &url
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func isDecodeErr(err error) bool {
	return errors.Is(err, apperror.ErrDecode)
}

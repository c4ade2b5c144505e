// Package repository declares the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/ims-chat/internal/model"
)

// UserRepository records known usernames.
type UserRepository interface {
	// Register inserts the username if absent. It reports whether a new row
	// was created; registering an existing username is NOT an error — the
	// created flag is the only difference between the two outcomes.
	Register(ctx context.Context, username string) (created bool, err error)
}

// MessageRepository is the durable, append-only message log.
type MessageRepository interface {
	// Append persists msg, assigning its ID and CreatedAt. The given struct
	// is updated in place with the assigned values.
	Append(ctx context.Context, msg *model.Message) error

	// ListForReceiver returns up to limit messages addressed to receiver,
	// newest first. Equal timestamps order by descending ID (reverse
	// insertion order). An empty result is a nil/empty slice, not an error.
	ListForReceiver(ctx context.Context, receiver string, limit int) ([]model.Message, error)
}

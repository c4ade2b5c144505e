package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/ims-chat/internal/model"
	"github.com/sakif/ims-chat/internal/repository"
)

// compile-time check that *DB implements repository.MessageRepository
var _ repository.MessageRepository = (*DB)(nil)

// Append persists a new message row.
//
// IDENTITY AND TIMESTAMP ARE STORE-ASSIGNED:
// The caller supplies sender/receiver/content only. The ID comes from
// SQLite's AUTOINCREMENT (atomic even under concurrent appends, so identity
// assignment is serializable without any locking on our side) and CreatedAt
// is taken here, in UTC, at insert time — never from the caller. Both are
// written back into msg so the caller sees the canonical row.
func (db *DB) Append(ctx context.Context, msg *model.Message) error {
	msg.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO messages (sender, receiver, message, image_path, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.Sender,
		msg.Receiver,
		nullable(msg.Text),
		nullable(msg.ImageRef),
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: appending message %s -> %s: %w", msg.Sender, msg.Receiver, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading message id: %w", err)
	}
	msg.ID = id

	return nil
}

// ListForReceiver returns the latest-N view of receiver's inbox.
//
// ORDERING:
// created_at DESC puts newest first; the id DESC tie-break makes the order
// deterministic when several rows carry the same timestamp (bursts within
// the clock's granularity window) — the later-inserted row sorts first.
// Repeated polls over an unchanged log therefore always see the same order.
func (db *DB) ListForReceiver(ctx context.Context, receiver string, limit int) ([]model.Message, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, sender, receiver, message, image_path, created_at
		 FROM messages
		 WHERE receiver = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		receiver,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing messages for %q: %w", receiver, err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0, limit)
	for rows.Next() {
		var (
			m         model.Message
			text      sql.NullString
			imagePath sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Sender, &m.Receiver, &text, &imagePath, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning message row: %w", err)
		}
		if text.Valid {
			m.Text = &text.String
		}
		if imagePath.Valid {
			m.ImageRef = &imagePath.String
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating messages: %w", err)
	}

	return messages, nil
}

// nullable maps a *string to its driver value: nil → NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

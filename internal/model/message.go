package model

import "time"

// Message is one stored chat message. Rows are immutable: created once,
// read many times, never updated or deleted.
//
// WHY POINTER FIELDS FOR Text AND ImageRef?
// Both are optional, and "absent" must be distinguishable from "empty
// string". A *string is nil when the field was never supplied; this maps
// directly to NULL in the messages table and to null in JSON output.
// Invariant: at least one of the two is non-nil.
type Message struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Text      *string   `json:"message"`   // nil = no text body
	ImageRef  *string   `json:"imageRef"`  // nil = no image; otherwise a blob name
	CreatedAt time.Time `json:"timestamp"` // assigned by the store at insert time (UTC)
}

// InboxEntry is the client-facing view of a message: the stored blob
// reference is resolved to a fetchable URL at query time (URLs are never
// persisted), and the receiver is implied by the query.
type InboxEntry struct {
	Sender    string    `json:"sender"`
	Message   *string   `json:"message"`
	ImageURL  *string   `json:"image_url"`
	Timestamp time.Time `json:"timestamp"`
}

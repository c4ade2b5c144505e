// Package model defines the data structures shared across the application.
package model

// User is a registered username. The registry exists purely to assert
// uniqueness — there are no other attributes per user, and messages are
// deliberately allowed to reference usernames that were never registered.
//
// WHY ID int64?
// The ID comes from SQLite's AUTOINCREMENT rowid, which is a 64-bit integer.
// We keep the native width instead of truncating to int.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"` // case-sensitive, trimmed, non-empty
}

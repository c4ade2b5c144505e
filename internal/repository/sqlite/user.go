package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/ims-chat/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Register inserts the username if it is not already present.
//
// INSERT OR IGNORE:
// The UNIQUE constraint on username turns a duplicate insert into a no-op
// instead of an error. RowsAffected then tells the two outcomes apart:
// 1 row affected → newly created, 0 rows → already existed. Both are
// success; the caller decides what to do with the distinction (the service
// only logs it).
//
// The username is stored exactly as given — registration is case-sensitive
// and the service layer has already trimmed it.
func (db *DB) Register(ctx context.Context, username string) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (username) VALUES (?)`,
		username,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: registering user %q: %w", username, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return affected > 0, nil
}

// Package blob stores named, immutable binary objects in a flat directory.
//
// The store's one security-relevant job is to keep caller-influenced names
// from ever escaping the directory: every name is sanitized before use, on
// write AND on read, so a name like "../../etc/passwd" can only ever address
// a file inside the upload directory.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/ims-chat/internal/apperror"
)

// Store is a filesystem-backed blob store rooted at a single directory.
type Store struct {
	root string
}

// NewStore creates the root directory if needed and returns a Store over it.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: creating store directory %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Write persists data under name (sanitized). Blobs are immutable in
// practice — names are generated fresh per write — so an existing file is
// simply overwritten, which makes retries of the same write harmless.
func (s *Store) Write(name string, data []byte) (string, error) {
	name = SanitizeName(name)
	if name == "" {
		return "", fmt.Errorf("blob: name sanitized to empty")
	}
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return "", fmt.Errorf("blob: writing %s: %w", name, err)
	}
	return name, nil
}

// Read returns the bytes stored under name, or apperror.ErrNotFound if no
// such blob exists. The name is re-sanitized so adversarial fetch requests
// cannot read outside the store.
func (s *Store) Read(name string) ([]byte, error) {
	clean := SanitizeName(name)
	if clean == "" || clean != name {
		// A name we would never have generated cannot name a stored blob.
		return nil, apperror.NotFound("blob", name)
	}
	data, err := os.ReadFile(filepath.Join(s.root, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NotFound("blob", name)
		}
		return nil, fmt.Errorf("blob: reading %s: %w", name, err)
	}
	return data, nil
}

// SanitizeName reduces an arbitrary string to a filesystem-safe storage key:
// only ASCII letters, digits, '.', '-' and '_' survive; everything else
// (path separators, NUL bytes, control characters, spaces) is dropped.
// Leading dots are stripped so no name is hidden or a ".." component, and
// the result is capped at 255 bytes to stay under common filename limits.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if len(out) > 255 {
		out = out[len(out)-255:]
	}
	return out
}

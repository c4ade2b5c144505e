// Package imaging normalizes inbound images into bounded JPEG blobs.
//
// Every stored image goes through the same pipeline: sniff → decode → scale
// to fit 240×320 (never enlarging) → re-encode as JPEG at quality 70 → write
// to the blob store under a generated, collision-proof name. Clients always
// fetch back a small JPEG regardless of what they uploaded.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	// Register the decoders we accept. image.Decode dispatches on the magic
	// bytes, so registering a format is all that's needed to support it.
	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/xid"

	"github.com/sakif/ims-chat/internal/apperror"
	"github.com/sakif/ims-chat/internal/blob"
)

// Bounding box and encoding parameters for stored images.
const (
	MaxWidth    = 240
	MaxHeight   = 320
	JPEGQuality = 70
)

// BlobWriter is the slice of the blob store the normalizer needs.
type BlobWriter interface {
	Write(name string, data []byte) (string, error)
}

// Normalizer decodes, rescales and re-encodes images, storing the result.
type Normalizer struct {
	blobs BlobWriter
}

// NewNormalizer returns a Normalizer writing into blobs.
func NewNormalizer(blobs BlobWriter) *Normalizer {
	return &Normalizer{blobs: blobs}
}

// Normalize processes raw image bytes and returns the generated blob name.
//
// FAILURE MODEL:
// Anything wrong with the payload itself — not an image at all, or a
// truncated/corrupt stream — comes back as apperror.ErrDecode, never as a
// raw codec error. A blob-store write failure propagates as-is: that is an
// operational fault the caller may retry, not a payload fault.
//
// No blob is written unless decoding and re-encoding both succeeded.
func (n *Normalizer) Normalize(raw []byte, sender, receiver string) (string, error) {
	// Sniffing first gives a much better error than image.Decode's generic
	// "unknown format" when someone posts, say, a PDF.
	mtype := mimetype.Detect(raw)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperror.DecodeFailed(fmt.Sprintf("payload is %s, not an image", mtype.String()))
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", apperror.DecodeFailed("image data could not be decoded")
	}

	scaled := fit(src, MaxWidth, MaxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("imaging: encoding jpeg: %w", err)
	}

	name, err := n.blobs.Write(generateName(sender, receiver), buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("imaging: storing blob: %w", err)
	}

	return name, nil
}

// generateName builds the storage key for a normalized image.
//
// WHY xid AND NOT A TIMESTAMP?
// A coarse clock reading collides when the same pair sends twice inside one
// tick. An xid embeds a second-resolution timestamp (so names still sort by
// creation time) plus machine ID, PID and a monotonic per-process counter —
// near-simultaneous sends from the same pair always get distinct names.
//
// The sender/receiver parts are sanitized here and the full name is
// sanitized again inside the store; adversarial usernames degrade to fewer
// characters, never to a path.
func generateName(sender, receiver string) string {
	return fmt.Sprintf("%s_%s_%s.jpg",
		blob.SanitizeName(sender),
		blob.SanitizeName(receiver),
		xid.New().String(),
	)
}

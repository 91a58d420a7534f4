package ports

import "context"

// AttachmentStore persists uploaded binary content and returns a stable,
// retrievable URL. Implementations degrade to an inline-encoded reference
// rather than failing the caller when the backend is unreachable.
type AttachmentStore interface {
	Store(ctx context.Context, content []byte, filename, contentType string) (string, error)
}

package driven

import "context"

// FileStore persists raw uploaded bytes.
// Backed by a directory on local disk.
type FileStore interface {
	// Save writes content under a unique name derived from filename and
	// returns the storage path.
	Save(ctx context.Context, filename string, content []byte) (string, error)

	// Read returns the stored bytes for a path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}

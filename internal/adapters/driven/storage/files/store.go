// Package files provides a disk-backed store for raw uploaded files.
package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FileStore = (*Store)(nil)

// Store keeps uploaded files under a single directory, each saved under
// a unique name so uploads never clobber each other.
type Store struct {
	dir string
}

// NewStore creates a file store rooted at dir, creating it if needed.
// If dir is empty, defaults to ~/.docchat/data/uploads.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".docchat", "data", "uploads")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes content under a unique name derived from filename and
// returns the storage path.
func (s *Store) Save(_ context.Context, filename string, content []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: filename is empty", domain.ErrInvalidInput)
	}

	name := uniqueName(filename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// Read returns the stored bytes for a path.
func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return content, nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (s *Store) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// uniqueName prefixes the sanitised filename with a fresh UUID.
func uniqueName(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, string(filepath.Separator), "_")
	return uuid.New().String() + "_" + base
}

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore saves uploaded images on the local filesystem. Stored names are
// prefixed with a random id so distinct uploads with the same original
// filename never collide.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a store
// rooted at it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the uploaded content to disk and returns the stored filename.
// The returned name is the stable reference persisted with the point.
func (s *LocalStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.New().String()[:8] + "-" + sanitizeName(originalName)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Remove the partial file; the caller sees the write as failed.
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}

// Dir returns the directory the store writes into, for static serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

// sanitizeName strips any path components and whitespace from a client
// supplied filename.
func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}
	return name
}

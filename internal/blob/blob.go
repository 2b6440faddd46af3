// Package blob stores uploaded file bytes on the local filesystem.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/keepsakeapp/keepsake-server/internal/id"
)

// Storage manages uploaded file bytes under a base directory.
// Files are sharded into date directories (2026/08/31/) so no single
// directory grows unbounded. Stored names are random; the original filename
// lives only in the database.
type Storage struct {
	basePath string
}

// NewStorage creates a Storage rooted at {basePath}/uploads.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "uploads")
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}

	return &Storage{basePath: storagePath}, nil
}

// Save streams the reader to disk and returns the relative storage path and
// the number of bytes written. The byte count is authoritative; callers must
// never trust a client-declared size instead.
func (s *Storage) Save(r io.Reader, originalName string) (string, int64, error) {
	name, err := id.Generate("blob")
	if err != nil {
		return "", 0, fmt.Errorf("generate blob name: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	relPath := filepath.Join(time.Now().UTC().Format("2006/01/02"), name+ext)
	fullPath := filepath.Join(s.basePath, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("create shard directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("create blob file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("close blob: %w", err)
	}

	return relPath, written, nil
}

// Open opens a stored blob for reading. The caller closes it.
func (s *Storage) Open(relPath string) (*os.File, error) {
	f, err := os.Open(s.FullPath(relPath))
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Delete removes a stored blob. Deleting a missing blob is not an error.
func (s *Storage) Delete(relPath string) error {
	if err := os.Remove(s.FullPath(relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// FullPath resolves a stored relative path to an absolute filesystem path.
func (s *Storage) FullPath(relPath string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(relPath))
}

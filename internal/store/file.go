package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileBackend keeps each document in <dir>/<name>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

// Load reads the whole file.
func (b *FileBackend) Load(_ context.Context, name string) ([]byte, error) {
	body, err := os.ReadFile(b.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	return body, err
}

// Save writes to a temp file in the same directory and renames it over the
// old one, so readers never see a half-written document.
func (b *FileBackend) Save(_ context.Context, name string, body []byte) error {
	tmp := filepath.Join(b.dir, "."+name+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, body, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, b.path(name)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }

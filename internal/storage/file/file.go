// Package file persists each key as one file under a directory.
package file

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
)

// Adapter implements storage.Adapter on the local filesystem. Set writes to a
// temporary file in the same directory and renames it over the target, so a
// reader sees either the old or the new value.
type Adapter struct {
	dir string
	mu  sync.Mutex
}

// New returns an adapter rooted at dir, creating it if needed.
func New(dir string) (*Adapter, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &Adapter{dir: dir}, nil
}

// Get reads the file for key.
func (a *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the file for key.
func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tmp, err := os.CreateTemp(a.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, a.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Ping verifies the directory is still present.
func (a *Adapter) Ping(_ context.Context) error {
	info, err := os.Stat(a.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", a.dir)
	}
	return nil
}

// path hex-encodes key so arbitrary prefixes map to safe file names.
func (a *Adapter) path(key string) string {
	return filepath.Join(a.dir, hex.EncodeToString([]byte(key))+".json")
}

// api/db/blob.go
package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore holds team photo binaries. The datastore only keeps the key.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// DiskBlobStore is a local filesystem implementation used when no object
// store is configured.
type DiskBlobStore struct {
	dir string
}

func NewDiskBlobStore(dir string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskBlobStore{dir: dir}, nil
}

func (s *DiskBlobStore) path(key string) (string, error) {
	// Keys are server-generated UUIDs; reject anything that could escape
	// the blob directory.
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *DiskBlobStore) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *DiskBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *DiskBlobStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

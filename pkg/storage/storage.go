// Package storage is the filesystem abstraction used by the catalogue
// import and export commands. Two drivers exist: "local" (default) and
// "s3", which works with AWS S3 and S3-compatible stores such as MinIO.
//
//	m, _ := storage.NewManager(ctx)
//	err := m.Disk("").Put(ctx, "exports/products.json", r)
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/pkg/logger"
)

// ErrNotExist is returned by Get when path is absent.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is one storage backend. Paths are slash-separated and relative.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	// Files lists every file under directory, recursively.
	Files(ctx context.Context, directory string) ([]string, error)
	// URL is where the file can be fetched from.
	URL(path string) string
}

// Manager holds the configured disks.
type Manager struct {
	mu    sync.RWMutex
	disks map[string]Disk
	def   string
}

// NewManager boots the local disk, plus the S3 disk when S3_BUCKET is set.
func NewManager(ctx context.Context) (*Manager, error) {
	local, err := NewLocalDisk(config.StorageLocalRoot())
	if err != nil {
		return nil, err
	}

	m := &Manager{disks: map[string]Disk{"local": local}, def: config.StorageDefault()}

	if bucket := config.StorageS3Bucket(); bucket != "" {
		s3d, err := NewS3Disk(ctx, S3Options{
			Bucket:   bucket,
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.disks["s3"] = s3d
		}
	}

	return m, nil
}

// Register adds or replaces a disk.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disks == nil {
		m.disks = make(map[string]Disk)
	}
	m.disks[name] = d
}

// Use returns the named disk; an empty name selects STORAGE_DISK.
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		name = m.def
	}
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

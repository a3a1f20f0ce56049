// Package localcache is a small file-backed key/value store for client-side
// state, one file per key. It is the durable cache a client keeps between
// sessions, including legacy data written by older releases.
package localcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Well-known keys. DataKey and BackupKey belong to the legacy cache format;
// SnapshotKey holds the viewer's own persisted tree and must stay distinct
// so a snapshot is never mistaken for unmigrated legacy data.
const (
	DataKey     = "appData"
	BackupKey   = "appData_backup"
	SnapshotKey = "boardState"
)

type Cache struct {
	dir string
}

func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Get returns the value for key, or (nil, nil) when the key is absent.
func (c *Cache) Get(key string) ([]byte, error) {
	path, err := c.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %q: %w", key, err)
	}
	return data, nil
}

// Put stores value under key, replacing any previous value. The write goes
// through a temp file and rename so a crash never leaves a torn value.
func (c *Cache) Put(key string, value []byte) error {
	path, err := c.keyPath(key)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit cache key %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (c *Cache) Remove(key string) error {
	path, err := c.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache key %q: %w", key, err)
	}
	return nil
}

// Rename moves the value at oldKey to newKey, replacing whatever newKey
// held. It fails when oldKey is absent.
func (c *Cache) Rename(oldKey, newKey string) error {
	oldPath, err := c.keyPath(oldKey)
	if err != nil {
		return err
	}
	newPath, err := c.keyPath(newKey)
	if err != nil {
		return err
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to rename cache key %q to %q: %w", oldKey, newKey, err)
	}
	return nil
}

// keyPath maps a key to its backing file, rejecting anything that could
// escape the cache directory.
func (c *Cache) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(c.dir, key+".json"), nil
}

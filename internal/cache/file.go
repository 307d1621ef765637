package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// FileCache persists JSON-encoded values, one file per key, so reports
// survive between runs.
type FileCache[V any] struct {
	fs  afero.Fs
	dir string
	ttl time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

type fileEntry[V any] struct {
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewFileCache creates a file-based cache rooted at dir on fsys.
func NewFileCache[V any](fsys afero.Fs, dir string, ttl time.Duration) (*FileCache[V], error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	return &FileCache[V]{
		fs:  fsys,
		dir: dir,
		ttl: ttl,
	}, nil
}

func (c *FileCache[V]) Get(key string) (V, bool, error) {
	var zero V
	path := c.keyPath(key)

	data, err := afero.ReadFile(c.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		c.misses.Add(1)
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	var entry fileEntry[V]
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		c.misses.Add(1)
		return zero, false, nil
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = c.fs.Remove(path)
		c.misses.Add(1)
		return zero, false, nil
	}

	c.hits.Add(1)
	return entry.Value, true, nil
}

func (c *FileCache[V]) Set(key string, value V) error {
	entry := fileEntry[V]{Value: value}
	if c.ttl > 0 {
		entry.ExpiresAt = time.Now().Add(c.ttl)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return afero.WriteFile(c.fs, c.keyPath(key), data, 0o600)
}

func (c *FileCache[V]) Delete(key string) error {
	err := c.fs.Remove(c.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache[V]) Clear() error {
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			if err := c.fs.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *FileCache[V]) Stats() Stats {
	entries, _ := afero.ReadDir(c.fs, c.dir)
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: len(entries),
	}
}

func (c *FileCache[V]) keyPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Cleanup removes expired entries.
func (c *FileCache[V]) Cleanup() error {
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(c.dir, entry.Name())
		data, err := afero.ReadFile(c.fs, path)
		if err != nil {
			continue
		}

		var fe fileEntry[json.RawMessage]
		if err := json.Unmarshal(data, &fe); err != nil {
			continue
		}

		if !fe.ExpiresAt.IsZero() && now.After(fe.ExpiresAt) {
			_ = c.fs.Remove(path)
		}
	}

	return nil
}

package movies

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Snapshot is one loaded, immutable dataset together with its identity.
type Snapshot struct {
	ID       string
	Path     string
	LoadedAt time.Time
	Dataset  *Dataset

	modTime time.Time
	size    int64
}

// Cache holds one snapshot per source path. A snapshot is reused until the
// file's modification time or size changes, or until it is invalidated.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Snapshot
	opts    []LoadOption
	logger  *slog.Logger
	now     func() time.Time
}

// NewCache returns an empty cache; opts are passed to every Load.
func NewCache(logger *slog.Logger, opts ...LoadOption) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: map[string]*Snapshot{},
		opts:    append([]LoadOption{WithLogger(logger)}, opts...),
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the current snapshot for path, loading it when absent or stale.
func (c *Cache) Get(path string) (*Snapshot, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	fi, statErr := os.Stat(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.entries[key]; ok && statErr == nil &&
		s.modTime.Equal(fi.ModTime()) && s.size == fi.Size() {
		return s, nil
	}
	if statErr != nil {
		delete(c.entries, key)
		return nil, &DataSourceError{Path: path, Op: "stat", Err: statErr}
	}
	ds, err := Load(key, c.opts...)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{
		ID:       uuid.NewString(),
		Path:     key,
		LoadedAt: c.now(),
		Dataset:  ds,
		modTime:  fi.ModTime(),
		size:     fi.Size(),
	}
	c.entries[key] = s
	c.logger.Debug("dataset snapshot created", slog.String("id", s.ID), slog.String("path", key))
	return s, nil
}

// Invalidate drops the snapshot for path so the next Get reloads it.
func (c *Cache) Invalidate(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if ok {
		c.logger.Info("dataset snapshot invalidated", slog.String("path", key))
	}
}

// Len reports how many snapshots are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Watch invalidates the snapshot of path whenever the file is written,
// replaced or removed. It blocks until ctx is done. The parent directory is
// watched so editors that save via rename are observed.
func (c *Cache) Watch(ctx context.Context, path string) error {
	key, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(key)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(key), err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != key {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				c.Invalidate(key)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error", slog.String("path", key), slog.Any("error", err))
		}
	}
}

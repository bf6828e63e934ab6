package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
	"TopicWatcher/internal/seen"
)

// JSONFileStore keeps the seen set as an indented JSON array of keys.
type JSONFileStore struct {
	path   string
	logger *slog.Logger
}

var _ ports.SeenStore = (*JSONFileStore)(nil)

// NewJSONFileStore binds the store to a snapshot path.
func NewJSONFileStore(path string, log *slog.Logger) *JSONFileStore {
	return &JSONFileStore{path: path, logger: log}
}

// Path returns the snapshot location.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load reads the snapshot. A missing, unreadable or corrupt file yields an
// empty set; it never returns an error.
func (s *JSONFileStore) Load(_ context.Context) (*seen.Set, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.info("no previous state found, starting fresh", "path", s.path)
		} else {
			s.warn("cannot read seen snapshot, starting fresh", "path", s.path, "error", err)
		}
		return seen.New(), nil
	}

	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		s.warn("seen snapshot is corrupt, starting fresh", "path", s.path, "error", err)
		return seen.New(), nil
	}

	set := seen.New(keys...)
	s.info("loaded seen topics", "path", s.path, "count", set.Len())
	return set, nil
}

// Save replaces the snapshot atomically: the keys are written to a temp
// file in the same directory, synced, then renamed over the target.
func (s *JSONFileStore) Save(_ context.Context, set *seen.Set) error {
	keys := set.Keys()
	payload, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal snapshot: %v", domain.ErrPersistence, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", domain.ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write temp file: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync temp file: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close temp file: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %v", domain.ErrPersistence, s.path, err)
	}

	s.info("saved seen topics", "path", s.path, "count", len(keys))
	return nil
}

func (s *JSONFileStore) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *JSONFileStore) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

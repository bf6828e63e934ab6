package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
	"TopicWatcher/internal/seen"
)

const (
	seenTable    = "seen_topics"
	insertBatch  = 500
	sqliteDriver = "sqlite"
)

// SQLiteStore persists seen keys as rows; saves only ever insert.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.SeenStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (or creates) the database at path and ensures the schema.
func OpenSQLiteStore(ctx context.Context, path string, log *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS seen_topics (
			topic_key  TEXT PRIMARY KEY,
			first_seen DATETIME NOT NULL
		)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db, logger: log}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads every stored key. Query failures degrade to an empty set.
func (s *SQLiteStore) Load(ctx context.Context) (*seen.Set, error) {
	rows, err := sq.Select("topic_key").From(seenTable).RunWith(s.db).QueryContext(ctx)
	if err != nil {
		s.warn("cannot query seen topics, starting fresh", "error", err)
		return seen.New(), nil
	}

	set := seen.New()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			_ = rows.Close()
			s.warn("cannot scan seen topic, starting fresh", "error", err)
			return seen.New(), nil
		}
		set.Add(key)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		s.warn("seen topics iteration failed, starting fresh", "error", rowsErr)
		return seen.New(), nil
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("%w: close rows: %v", domain.ErrPersistence, closeErr)
	}

	s.info("loaded seen topics", "count", set.Len())
	return set, nil
}

// Save inserts every key of set that is not stored yet.
func (s *SQLiteStore) Save(ctx context.Context, set *seen.Set) error {
	keys := set.Keys()
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for start := 0; start < len(keys); start += insertBatch {
		end := start + insertBatch
		if end > len(keys) {
			end = len(keys)
		}

		insert := sq.Insert(seenTable).Columns("topic_key", "first_seen")
		for _, key := range keys[start:end] {
			insert = insert.Values(key, now)
		}
		insert = insert.Suffix("ON CONFLICT(topic_key) DO NOTHING")

		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("%w: insert keys: %v", domain.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}

	s.info("saved seen topics", "count", len(keys))
	return nil
}

func (s *SQLiteStore) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *SQLiteStore) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

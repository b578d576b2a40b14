// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryPath opens an in-memory database private to the returned Store.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS votes (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT    NOT NULL,
	participant_id  INTEGER NOT NULL,
	statement_id    INTEGER NOT NULL,
	value           INTEGER NOT NULL CHECK (value IN (-1, 0, 1)),
	created_at      INTEGER NOT NULL,
	UNIQUE(conversation_id, participant_id, statement_id, created_at)
);
CREATE INDEX IF NOT EXISTS idx_votes_conv_created ON votes(conversation_id, created_at);

CREATE TABLE IF NOT EXISTS statements (
	conversation_id TEXT    NOT NULL,
	statement_id    INTEGER NOT NULL,
	is_meta         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (conversation_id, statement_id)
);

CREATE TABLE IF NOT EXISTS extremity (
	conversation_id TEXT    NOT NULL,
	statement_id    INTEGER NOT NULL,
	extremity       REAL    NOT NULL,
	PRIMARY KEY (conversation_id, statement_id)
);

CREATE TABLE IF NOT EXISTS priorities (
	conversation_id TEXT    NOT NULL,
	statement_id    INTEGER NOT NULL,
	priority        INTEGER NOT NULL,
	version         INTEGER NOT NULL,
	computed_at     INTEGER NOT NULL,
	PRIMARY KEY (conversation_id, statement_id)
);
`

// Store is a SQLite-backed conversation store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // writers exclusive, readers shared
}

// Open opens (creating if needed) the database at path and applies the
// schema. MemoryPath selects a uniquely named in-memory database limited to
// one connection; file databases use WAL journaling.
func Open(path string) (*Store, error) {
	dsn := path
	if path == MemoryPath {
		dsn = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if path != MemoryPath {
		if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: enable WAL: %w", err)
		}
		if _, err = db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: busy timeout: %w", err)
		}
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Close()
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// execer is the subset of *sql.Tx used by write callbacks.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// write runs fn inside a transaction under the write lock.
func (s *Store) write(ctx context.Context, op string, fn func(execer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: %s: %w", op, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return fmt.Errorf("store: %s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: %s: %w", op, err)
	}

	return nil
}

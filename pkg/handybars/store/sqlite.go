package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS entries (
		namespace TEXT NOT NULL,
		name TEXT NOT NULL,
		sequence INTEGER NOT NULL,
		updated_at TEXT NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (namespace, name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_namespace_sequence
		ON entries(namespace, sequence)`,
}

// SQLiteStore persists entries to a SQLite database file.
// It is suitable for single-process use such as the CLI.
type SQLiteStore struct {
	db     *sql.DB
	retry  RetryConfig
	mu     sync.RWMutex
	closed bool
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithRetry sets the retry policy for writes. The default is DefaultRetry.
func WithRetry(cfg RetryConfig) SQLiteOption {
	return func(s *SQLiteStore) {
		s.retry = cfg
	}
}

// NewSQLiteStore opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	s := &SQLiteStore{db: db, retry: DefaultRetry}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, namespace, name string, data []byte) error {
	if err := validateKey(namespace, name); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	updatedAt := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.exec(ctx, `
		INSERT INTO entries (namespace, name, sequence, updated_at, data)
		VALUES (
			?, ?,
			COALESCE((SELECT MAX(sequence) FROM entries WHERE namespace = ?), 0) + 1,
			?, ?
		)
		ON CONFLICT(namespace, name) DO UPDATE SET
			sequence = (SELECT MAX(sequence) FROM entries WHERE namespace = excluded.namespace) + 1,
			updated_at = excluded.updated_at,
			data = excluded.data
	`, namespace, name, namespace, updatedAt, data)
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", namespace, name, err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, namespace, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM entries WHERE namespace = ? AND name = ?`,
		namespace, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", namespace, name, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, namespace string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, sequence, updated_at, LENGTH(data)
		FROM entries
		WHERE namespace = ?
		ORDER BY sequence
	`, namespace)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		info := Info{Namespace: namespace}
		var updatedAt string
		if err := rows.Scan(&info.Name, &info.Sequence, &updatedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan entry info: %w", err)
		}
		info.Timestamp, _ = time.Parse(time.RFC3339Nano, updatedAt)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return infos, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, namespace, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.exec(ctx,
		`DELETE FROM entries WHERE namespace = ? AND name = ?`,
		namespace, name,
	); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, name, err)
	}
	return nil
}

// DeleteNamespace implements Store.
func (s *SQLiteStore) DeleteNamespace(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.exec(ctx, `DELETE FROM entries WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("delete namespace %s: %w", namespace, err)
	}
	return nil
}

// exec runs a write statement under the retry policy.
func (s *SQLiteStore) exec(ctx context.Context, query string, args ...any) error {
	return withRetry(ctx, s.retry, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

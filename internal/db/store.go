package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Joseda-hg/focuspal/internal/kv"
	"github.com/Joseda-hg/focuspal/internal/model"
)

// Store is the sqlite-backed kv.Store. Every Set also leaves a history row
// per key.
type Store struct {
	DB  *sql.DB
	Now func() time.Time
}

var _ kv.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Get(ctx context.Context, keys ...string) (kv.Values, error) {
	query := "SELECT key, value FROM kv"
	args := make([]any, 0, len(keys))
	if len(keys) > 0 {
		placeholders := make([]string, 0, len(keys))
		for _, key := range keys {
			placeholders = append(placeholders, "?")
			args = append(args, key)
		}
		query += " WHERE key IN (" + strings.Join(placeholders, ",") + ")"
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(kv.Values, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) Set(ctx context.Context, values kv.Values) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for key, value := range values {
		if !json.Valid(value) {
			return fmt.Errorf("%w: %s", kv.ErrInvalidValue, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := formatTime(s.now())
	for _, key := range keys {
		value := string(values[key])
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO history (key, event_type, details, created_at) VALUES (?, ?, ?, ?)",
			key, "set", formatSetDetails(values[key]), now,
		); err != nil {
			return fmt.Errorf("add history %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// ListHistory returns the writes recorded for key, oldest first. An empty key
// lists every write.
func (s *Store) ListHistory(ctx context.Context, key string) ([]model.HistoryEntry, error) {
	query := "SELECT id, key, event_type, details, created_at FROM history"
	var args []any
	if key != "" {
		query += " WHERE key = ?"
		args = append(args, key)
	}
	query += " ORDER BY id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var entry model.HistoryEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Key, &entry.EventType, &entry.Details, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse history time: %w", err)
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatSetDetails(value json.RawMessage) string {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err == nil {
		return fmt.Sprintf("set: items=%d bytes=%d", len(items), len(value))
	}
	return fmt.Sprintf("set: bytes=%d", len(value))
}

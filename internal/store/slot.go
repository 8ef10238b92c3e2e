package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bytedance/sonic"
)

// Storage is the load/save/clear capability for a single persisted value.
type Storage[T any] interface {
	Load(ctx context.Context) (T, bool, error)
	Save(ctx context.Context, value T) error
	Clear(ctx context.Context) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Slot stores one JSON-encoded value under a key in the kv table.
type Slot[T any] struct {
	store *Store
	key   string
	valid func(T) bool
}

var (
	_ Storage[struct{}] = Slot[struct{}]{}
)

// Load returns the stored value. Missing, undecodable, or invalid values are
// reported as absent; only database failures return an error.
func (s Slot[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	var raw string
	err := s.store.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var value T
	if err := sonic.UnmarshalString(raw, &value); err != nil {
		s.store.log.Warn().Err(err).Str("key", s.key).Msg("ignoring malformed stored value")
		return zero, false, nil
	}
	if s.valid != nil && !s.valid(value) {
		s.store.log.Warn().Str("key", s.key).Msg("ignoring out-of-range stored value")
		return zero, false, nil
	}
	return value, true, nil
}

// Save replaces the stored value.
func (s Slot[T]) Save(ctx context.Context, value T) error {
	return s.save(ctx, s.store.db, value)
}

// Clear removes the stored value.
func (s Slot[T]) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.key)
	return err
}

func (s Slot[T]) save(ctx context.Context, ex execer, value T) error {
	raw, err := sonic.MarshalString(value)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, raw, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

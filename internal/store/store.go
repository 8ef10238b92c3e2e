// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/pace"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Keys of the persisted values.
const (
	ConfigKey         = "quran-tracker-config"
	ActualPositionKey = "quran-tracker-actual-position"
)

// Store wraps SQLite access for tracker data.
type Store struct {
	db  *sql.DB
	log zerolog.Logger

	config   Slot[model.TrackerConfig]
	position Slot[model.ActualPosition]
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{
		db:  db,
		log: log.Logger.With().Str("component", "store").Logger(),
	}
	store.config = Slot[model.TrackerConfig]{store: store, key: ConfigKey, valid: validConfig}
	store.position = Slot[model.ActualPosition]{store: store, key: ActualPositionKey, valid: validPosition}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS position_log (
			id INTEGER PRIMARY KEY,
			page INTEGER NOT NULL,
			line INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Config returns the tracker config slot.
func (s *Store) Config() Slot[model.TrackerConfig] {
	return s.config
}

// Position returns the actual position slot.
func (s *Store) Position() Slot[model.ActualPosition] {
	return s.position
}

// SaveActualPosition stores the position and appends it to the position log.
func (s *Store) SaveActualPosition(ctx context.Context, pos model.ActualPosition) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if err = s.position.save(ctx, tx, pos); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO position_log (page, line, recorded_at) VALUES (?, ?, ?)`,
		pos.Page, pos.Line, pos.UpdatedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearAll removes config, actual position, and the position log.
func (s *Store) ClearAll(ctx context.Context) error {
	stmts := []string{
		`DELETE FROM kv`,
		`DELETE FROM position_log`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ListPositionLog returns the most recent entries in ascending time order.
// A non-positive limit returns every entry.
func (s *Store) ListPositionLog(ctx context.Context, limit int) ([]model.PositionLogEntry, error) {
	query := `SELECT id, page, line, recorded_at FROM (
		SELECT id, page, line, recorded_at FROM position_log
		ORDER BY id DESC
		LIMIT ?
	) ORDER BY id ASC`
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.PositionLogEntry
	for rows.Next() {
		var entry model.PositionLogEntry
		var recordedAt string
		if err := rows.Scan(&entry.ID, &entry.Page, &entry.Line, &recordedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		entry.RecordedAt = parsed
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func validConfig(cfg model.TrackerConfig) bool {
	return !cfg.StartDate.IsZero() && cfg.TargetCount >= 1
}

func validPosition(pos model.ActualPosition) bool {
	return pace.ValidPosition(pos.Page, pos.Line)
}

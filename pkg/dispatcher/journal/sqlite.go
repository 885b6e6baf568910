package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists the journal to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite journal.
// The path should be a file path (e.g., "./dispatch.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A :memory: database lives per connection; keep exactly one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS dispatch_cycles (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			controller TEXT NOT NULL,
			action TEXT NOT NULL,
			phase TEXT NOT NULL,
			error TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_dispatch_cycles_controller
		ON dispatch_cycles(controller)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record implements Store.
func (s *SQLiteStore) Record(ctx context.Context, entry Entry) error {
	if entry.CycleID == "" {
		return ErrMissingCycleID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	entry = entry.normalized()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispatch_cycles
			(cycle_id, name, controller, action, phase, error, duration_ns, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cycle_id) DO UPDATE SET
			name = excluded.name,
			controller = excluded.controller,
			action = excluded.action,
			phase = excluded.phase,
			error = excluded.error,
			duration_ns = excluded.duration_ns,
			timestamp = excluded.timestamp
	`, entry.CycleID, entry.Name, entry.Controller, entry.Action, entry.Phase,
		entry.Error, int64(entry.Duration), entry.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record dispatch cycle: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, cycleID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT cycle_id, name, controller, action, phase, error, duration_ns, timestamp
		FROM dispatch_cycles
		WHERE cycle_id = ?
	`, cycleID)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get dispatch cycle: %w", err)
	}
	return entry, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var (
		where []string
		args  []any
	)
	if filter.Controller != "" {
		where = append(where, "controller = ?")
		args = append(args, filter.Controller)
	}
	if filter.FailedOnly {
		where = append(where, "error <> ''")
	}

	query := `SELECT cycle_id, name, controller, action, phase, error, duration_ns, timestamp
		FROM dispatch_cycles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dispatch cycles: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispatch cycle: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatch cycles: %w", err)
	}
	return entries, nil
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

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry    Entry
		duration int64
		ts       string
	)
	if err := row.Scan(&entry.CycleID, &entry.Name, &entry.Controller, &entry.Action,
		&entry.Phase, &entry.Error, &duration, &ts); err != nil {
		return Entry{}, err
	}
	entry.Duration = time.Duration(duration)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Entry{}, fmt.Errorf("parse timestamp of cycle %s: %w", entry.CycleID, err)
	}
	entry.Timestamp = parsed
	return entry, nil
}

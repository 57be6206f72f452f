// Package audit persists dispatch outcomes in SQLite.
package audit

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/pkg/core/dispatch"
)

// Entry is one recorded dispatch.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	RequestID string    `json:"request_id,omitempty"`
	Command   string    `json:"command"`
	Line      string    `json:"line"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
}

// Filter selects entries for Query. Zero fields match everything.
type Filter struct {
	Sender    string
	Kind      string
	Command   string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}

// Config holds the store configuration
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{Path: "./data/audit.db"}
}

// Store records dispatch outcomes in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at cfg.Path in WAL mode. The path
// ":memory:" opens a private in-memory database.
func Open(cfg Config) (*Store, error) {
	dsn := cfg.Path
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, dbError(err, "failed to create directory", "audit.Open")
		}
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, dbError(err, "failed to open database", "audit.Open")
	}
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "audit.Open")
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dispatch_log (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		sender TEXT NOT NULL,
		request_id TEXT,
		command TEXT NOT NULL,
		line TEXT NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_dispatch_log_timestamp ON dispatch_log(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_dispatch_log_sender ON dispatch_log(sender);
	CREATE INDEX IF NOT EXISTS idx_dispatch_log_kind ON dispatch_log(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// FromOutcome builds an entry for an outcome produced for senderName by line.
func FromOutcome(senderName, line string, o dispatch.Outcome) Entry {
	command := o.Path
	if command == "" {
		command = o.Label
	}
	return Entry{
		Sender:  senderName,
		Command: command,
		Line:    line,
		Kind:    o.Kind.String(),
		Detail:  detail(o),
	}
}

func detail(o dispatch.Outcome) string {
	switch {
	case o.Err != nil:
		return o.Err.Error()
	case o.ParseError != nil:
		return o.ParseError.Error()
	case o.Kind == dispatch.RequirementFailed:
		return o.Message
	case o.Kind == dispatch.PermissionDenied:
		return o.Permission
	}
	return ""
}

// Record stores e. Missing ID and Timestamp are filled in.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	// Stored as text; UTC keeps range comparisons ordered.
	e.Timestamp = e.Timestamp.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispatch_log (id, timestamp, sender, request_id, command, line, kind, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, e.Sender, nullString(e.RequestID), e.Command, e.Line, e.Kind, nullString(e.Detail))
	if err != nil {
		return dbError(err, "failed to record dispatch", "audit.Record")
	}
	return nil
}

// Query returns matching entries, newest first.
func (s *Store) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, sender, request_id, command, line, kind, detail FROM dispatch_log WHERE 1=1`
	var args []interface{}

	if filter.Sender != "" {
		query += " AND sender = ?"
		args = append(args, filter.Sender)
	}
	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filter.Kind)
	}
	if filter.Command != "" {
		query += " AND command = ?"
		args = append(args, filter.Command)
	}
	if !filter.StartTime.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartTime.UTC())
	}
	if !filter.EndTime.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndTime.UTC())
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query dispatch log", "audit.Query")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var requestID, detail sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Sender, &requestID, &e.Command, &e.Line, &e.Kind, &detail); err != nil {
			return nil, dbError(err, "failed to scan dispatch entry", "audit.Query")
		}
		e.RequestID = requestID.String
		e.Detail = detail.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read dispatch log", "audit.Query")
	}
	return entries, nil
}

// Stats counts entries per outcome kind.
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM dispatch_log GROUP BY kind`)
	if err != nil {
		return nil, dbError(err, "failed to count dispatch log", "audit.Stats")
	}
	defer rows.Close()

	stats := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, dbError(err, "failed to scan stats", "audit.Stats")
		}
		stats[kind] = n
	}
	return stats, rows.Err()
}

// Prune deletes entries older than olderThan and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `DELETE FROM dispatch_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune dispatch log", "audit.Prune")
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return dbError(err, "database unavailable", "audit.Ping")
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func dbError(err error, message, operation string) error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(operation)
}

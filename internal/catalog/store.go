// Package catalog records identified objects per census session in SQLite.
package catalog

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotOpen is returned by operations on a store that has not been opened.
var ErrNotOpen = errors.New("catalog not opened")

// Session groups the objects recorded by one run.
type Session struct {
	ID        string
	Rule      string
	StartedAt time.Time
}

// ObjectCount is a tallied object.
type ObjectCount struct {
	Apgcode string
	Period  int
	Count   int
}

// Store is a SQLite-backed object catalogue.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore creates a store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Open opens the database at path. Use ":memory:" for an in-memory
// catalogue.
func (s *Store) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps in-memory databases shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("catalog opened", "path", path)
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema() error {
	if s.db == nil {
		return ErrNotOpen
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// CreateSession starts a new session for rule.
func (s *Store) CreateSession(rule string) (*Session, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	sess := &Session{
		ID:        uuid.New().String(),
		Rule:      rule,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, rule, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Rule, sess.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Debug("session created", "id", sess.ID, "rule", rule)
	return sess, nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	sess := &Session{}
	err := s.db.QueryRow(
		`SELECT id, rule, started_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Rule, &sess.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Record counts one occurrence of apgcode in the session.
func (s *Store) Record(sessionID, apgcode string, period int) error {
	if s.db == nil {
		return ErrNotOpen
	}
	_, err := s.db.Exec(
		`INSERT INTO objects (session_id, apgcode, period, count) VALUES (?, ?, ?, 1)
		 ON CONFLICT (session_id, apgcode) DO UPDATE SET count = count + 1`,
		sessionID, apgcode, period,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", apgcode, err)
	}
	return nil
}

// Tally returns the session's objects, most common first.
func (s *Store) Tally(sessionID string) ([]ObjectCount, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.Query(
		`SELECT apgcode, period, count FROM objects WHERE session_id = ?
		 ORDER BY count DESC, apgcode ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to tally session: %w", err)
	}
	defer rows.Close()

	var out []ObjectCount
	for rows.Next() {
		var oc ObjectCount
		if err := rows.Scan(&oc.Apgcode, &oc.Period, &oc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

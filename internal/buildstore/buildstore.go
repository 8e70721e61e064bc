// Package buildstore persists the compile service's build history in a
// modernc.org/sqlite-backed table, with schema created idempotently on open
// and google/uuid build IDs.
package buildstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is a build's lifecycle state.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusCompiling Status = "compiling"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Build is one compile-service build record.
type Build struct {
	ID         uuid.UUID
	EntryPath  string
	Status     Status
	Diagnostic string // non-empty if Status == StatusFailed
	Created    time.Time
	Updated    time.Time
}

// Store wraps a sql.DB with the build-history schema.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite build-history database at
// path, using modernc.org/sqlite's pure-Go driver.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open build store: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS builds (
		id TEXT NOT NULL PRIMARY KEY,
		entry_path TEXT NOT NULL,
		status TEXT NOT NULL,
		diagnostic TEXT NOT NULL DEFAULT '',
		created INTEGER NOT NULL,
		updated INTEGER NOT NULL
	);`
	_, err := s.db.Exec(stmt)
	if err != nil {
		return fmt.Errorf("create builds table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new queued build record for entryPath.
func (s *Store) Create(ctx context.Context, entryPath string) (Build, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Build{}, fmt.Errorf("generate build id: %w", err)
	}
	now := time.Now()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO builds (id, entry_path, status, created, updated) VALUES (?, ?, ?, ?, ?)`,
		id.String(), entryPath, string(StatusQueued), now.Unix(), now.Unix())
	if err != nil {
		return Build{}, fmt.Errorf("insert build: %w", err)
	}

	return Build{ID: id, EntryPath: entryPath, Status: StatusQueued, Created: now, Updated: now}, nil
}

// UpdateStatus transitions a build to a new status, optionally recording a
// failure diagnostic.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, diagnostic string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE builds SET status = ?, diagnostic = ?, updated = ? WHERE id = ?`,
		string(status), diagnostic, time.Now().Unix(), id.String())
	if err != nil {
		return fmt.Errorf("update build %s: %w", id, err)
	}
	return nil
}

// GetByID looks up a build by ID.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, entry_path, status, diagnostic, created, updated FROM builds WHERE id = ?`, id.String())
	return scanBuild(row)
}

// ListRecent returns the most recently created builds, newest first. Created
// is stored to the second, so builds created within the same second come
// back in no defined order.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_path, status, diagnostic, created, updated FROM builds ORDER BY created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var out []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// rowScanner abstracts over *sql.Row and *sql.Rows, both of which expose
// Scan with the same signature.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBuild(row rowScanner) (Build, error) {
	var (
		idStr      string
		status     string
		createdSec int64
		updatedSec int64
		b          Build
	)
	if err := row.Scan(&idStr, &b.EntryPath, &status, &b.Diagnostic, &createdSec, &updatedSec); err != nil {
		return Build{}, fmt.Errorf("scan build row: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return Build{}, fmt.Errorf("parse build id: %w", err)
	}

	b.ID = id
	b.Status = Status(status)
	b.Created = time.Unix(createdSec, 0)
	b.Updated = time.Unix(updatedSec, 0)
	return b, nil
}

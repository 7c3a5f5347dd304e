package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

// DBFile is the database file name inside the data directory.
const DBFile = "listings.db"

const schema = `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;

	CREATE TABLE IF NOT EXISTS snapshots (
		scope TEXT PRIMARY KEY,
		updated_at INTEGER NOT NULL,   -- Unix seconds
		run_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS entries (
		scope TEXT NOT NULL,
		id TEXT NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		first_seen INTEGER NOT NULL,   -- Unix seconds
		PRIMARY KEY (scope, id)
	);
`

// Storage handles persistence of listing snapshots
type Storage struct {
	db   *sql.DB
	path string
}

// ScopeInfo summarizes one stored snapshot.
type ScopeInfo struct {
	Scope     string    `json:"scope" yaml:"scope"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	RunID     string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Entries   int       `json:"entries" yaml:"entries"`
}

// New opens (creating if needed) the snapshot database under dataDir.
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, DBFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps WAL setup and transactions on the same handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Storage{db: db, path: path}, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir[1:], "/")), nil
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.path
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// LoadSnapshot loads the snapshot for scope. A scope that was never saved
// yields an empty snapshot.
func (s *Storage) LoadSnapshot(ctx context.Context, scope string) (*listing.Snapshot, error) {
	snap := listing.NewSnapshot(scope)

	var updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at, run_id FROM snapshots WHERE scope = ?`, scope,
	).Scan(&updatedAt, &snap.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", scope, err)
	}
	snap.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, first_seen FROM entries WHERE scope = ?`, scope)
	if err != nil {
		return nil, fmt.Errorf("reading entries %s: %w", scope, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, date  string
			firstSeen int64
		)
		if err := rows.Scan(&id, &date, &firstSeen); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		snap.Entries[id] = &listing.Entry{
			Date:      date,
			FirstSeen: time.Unix(firstSeen, 0).UTC(),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading entries %s: %w", scope, err)
	}

	return snap, nil
}

// SaveSnapshot replaces the stored snapshot for snap.Scope. A zero UpdatedAt
// is set to the current time.
func (s *Storage) SaveSnapshot(ctx context.Context, snap *listing.Snapshot) (err error) {
	if snap.Scope == "" {
		return errors.New("saving snapshot: empty scope")
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM entries WHERE scope = ?`, snap.Scope); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (scope, updated_at, run_id) VALUES (?, ?, ?)
		 ON CONFLICT(scope) DO UPDATE SET updated_at = excluded.updated_at, run_id = excluded.run_id`,
		snap.Scope, snap.UpdatedAt.Unix(), snap.RunID,
	); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (scope, id, date, first_seen) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for id, entry := range snap.Entries {
		firstSeen := entry.FirstSeen
		if firstSeen.IsZero() {
			firstSeen = snap.UpdatedAt
		}
		if _, err = stmt.ExecContext(ctx, snap.Scope, id, entry.Date, firstSeen.Unix()); err != nil {
			return fmt.Errorf("writing entry %s: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Scopes lists the stored snapshots ordered by scope.
func (s *Storage) Scopes(ctx context.Context) ([]ScopeInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.scope, s.updated_at, s.run_id, COUNT(e.id)
		FROM snapshots s
		LEFT JOIN entries e ON e.scope = s.scope
		GROUP BY s.scope, s.updated_at, s.run_id
		ORDER BY s.scope`)
	if err != nil {
		return nil, fmt.Errorf("listing scopes: %w", err)
	}
	defer rows.Close()

	scopes := make([]ScopeInfo, 0)
	for rows.Next() {
		var (
			info      ScopeInfo
			updatedAt int64
		)
		if err := rows.Scan(&info.Scope, &updatedAt, &info.RunID, &info.Entries); err != nil {
			return nil, fmt.Errorf("scanning scope: %w", err)
		}
		info.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		scopes = append(scopes, info)
	}
	return scopes, rows.Err()
}

// Scope builds the snapshot key for a scrape: "source/city/category" for
// events, "source/level" for scholarships. Parts are slugged by the caller.
func Scope(parts ...string) string {
	return strings.Join(parts, "/")
}

// Package history records finished downloads and transcodes in a
// small SQLite database so past work can be listed and re-opened.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	title       TEXT NOT NULL,
	url         TEXT NOT NULL,
	output_path TEXT NOT NULL,
	bytes       INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS records_by_time ON records(created_at);
`

// Record is one finished task. For transcodes URL holds the input
// file path.
type Record struct {
	ID         string
	Kind       string // "download" or "transcode"
	Title      string
	URL        string
	OutputPath string
	Bytes      int64
	CreatedAt  time.Time
}

// Store is a handle to the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// The driver is in-process; a single connection avoids write locks
	// between concurrent appends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts a record, filling ID and CreatedAt when unset.
// Re-appending an existing ID overwrites the stored row.
func (s *Store) Append(r Record) error {
	if r.ID == "" {
		now := time.Now()
		r.ID = fmt.Sprintf("h_%d_%d", now.Unix(), now.Nanosecond())
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO records (id, kind, title, url, output_path, bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.Title, r.URL, r.OutputPath, r.Bytes, r.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing history record: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (s *Store) Recent(n int) ([]Record, error) {
	query := `SELECT id, kind, title, url, output_path, bytes, created_at
		  FROM records ORDER BY created_at DESC, id DESC`
	args := []any{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.Title, &r.URL, &r.OutputPath, &r.Bytes, &created); err != nil {
			return nil, fmt.Errorf("scanning history record: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return out, nil
}

// Clear deletes every record.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

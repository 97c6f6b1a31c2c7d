// Package db provides SQLite storage for the digest run archive.
package db

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slomojustin/newsdigest/internal/types"
)

// DB wraps a SQLite connection for archive operations.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the archive database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// GenID generates a random 16-character hex ID.
func GenID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// Now returns the current time as an ISO 8601 string.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// InsertRun archives a digest run together with its sections. Re-running
// the same day creates a new run; RunsForDate shows all of them.
func (d *DB) InsertRun(run *types.Run, entries []types.Entry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, date, generated_at, sections, errored, recipient, sent, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Date, run.Generated, run.Sections, run.Errored,
		run.Recipient, run.Sent, run.FilePath,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, e := range entries {
		_, err = tx.Exec(`
			INSERT INTO entries (run_id, position, subject, from_addr, date, summary, errored)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, e.Position, e.Subject, e.From, e.Date, e.Summary, e.Errored,
		)
		if err != nil {
			return fmt.Errorf("insert entry %d: %w", e.Position, err)
		}
	}

	return tx.Commit()
}

// Runs returns archived runs, newest first, up to limit.
func (d *DB) Runs(limit int) ([]types.Run, error) {
	rows, err := d.conn.Query(`
		SELECT id, date, generated_at, sections, errored, COALESCE(recipient, ''), sent, COALESCE(file_path, '')
		FROM runs ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// RunsForDate returns all runs archived for one calendar day, newest first.
func (d *DB) RunsForDate(date string) ([]types.Run, error) {
	rows, err := d.conn.Query(`
		SELECT id, date, generated_at, sections, errored, COALESCE(recipient, ''), sent, COALESCE(file_path, '')
		FROM runs WHERE date = ? ORDER BY generated_at DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// FindRun resolves a run by ID prefix or exact date. The latest match wins.
func (d *DB) FindRun(key string) (*types.Run, error) {
	rows, err := d.conn.Query(`
		SELECT id, date, generated_at, sections, errored, COALESCE(recipient, ''), sent, COALESCE(file_path, '')
		FROM runs WHERE id LIKE ? || '%' OR date = ?
		ORDER BY generated_at DESC LIMIT 1`, key, key)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// Entries returns the archived sections of a run, in digest order.
func (d *DB) Entries(runID string) ([]types.Entry, error) {
	rows, err := d.conn.Query(`
		SELECT run_id, position, subject, COALESCE(from_addr, ''), COALESCE(date, ''), COALESCE(summary, ''), errored
		FROM entries WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.RunID, &e.Position, &e.Subject, &e.From, &e.Date, &e.Summary, &e.Errored); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RunCount returns the number of archived runs.
func (d *DB) RunCount() int {
	var count int
	d.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count)
	return count
}

func scanRuns(rows *sql.Rows) ([]types.Run, error) {
	var runs []types.Run
	for rows.Next() {
		var r types.Run
		if err := rows.Scan(&r.ID, &r.Date, &r.Generated, &r.Sections, &r.Errored, &r.Recipient, &r.Sent, &r.FilePath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

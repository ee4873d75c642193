package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no cached run matches.
var ErrNotFound = errors.New("run not found")

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectRunFields contains the standard field list for SELECT queries.
const selectRunFields = `key, created_at, source, text_length, preview, request_json, result_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			key TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			source TEXT,
			algorithm TEXT NOT NULL,
			text_length INTEGER NOT NULL,
			preview TEXT NOT NULL,
			request_json TEXT NOT NULL,
			result_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

		-- Trigram tokenizer so that CJK text matches on substrings
		CREATE VIRTUAL TABLE IF NOT EXISTS runs_fts USING fts5(
			key UNINDEXED,
			preview,
			summary,
			tokenize = 'trigram'
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Insert stores a run, replacing any run with the same key.
func (d *DB) Insert(run Run) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRun(tx, run); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRun(tx *sql.Tx, run Run) error {
	reqJSON, err := json.Marshal(run.Request)
	if err != nil {
		return fmt.Errorf("marshaling request for %s: %w", run.ShortKey(), err)
	}
	resJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("marshaling result for %s: %w", run.ShortKey(), err)
	}
	algorithm := ""
	if run.Result != nil {
		algorithm = run.Result.Algorithm
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO runs (
			key, created_at, source, algorithm, text_length, preview, request_json, result_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Key, run.CreatedAt.UnixNano(), run.Source, algorithm,
		run.TextLength, run.Preview, string(reqJSON), string(resJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ShortKey(), err)
	}

	if _, err := tx.Exec(`DELETE FROM runs_fts WHERE key = ?`, run.Key); err != nil {
		return fmt.Errorf("clearing fts for %s: %w", run.ShortKey(), err)
	}
	_, err = tx.Exec(`INSERT INTO runs_fts (key, preview, summary) VALUES (?, ?, ?)`,
		run.Key, run.Preview, run.Summary())
	if err != nil {
		return fmt.Errorf("inserting fts for %s: %w", run.ShortKey(), err)
	}
	return nil
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
// Later lines replace earlier runs with the same key.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	runs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM runs"); err != nil {
		return 0, fmt.Errorf("clearing runs table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs_fts"); err != nil {
		return 0, fmt.Errorf("clearing runs_fts table: %w", err)
	}

	for _, run := range runs {
		if err := insertRun(tx, run); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return d.Count()
}

// Get retrieves a run by its full key.
func (d *DB) Get(key string) (*Run, error) {
	row := d.db.QueryRow(`SELECT `+selectRunFields+` FROM runs WHERE key = ?`, key)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// GetByPrefix retrieves the newest run whose key starts with prefix.
func (d *DB) GetByPrefix(prefix string) (*Run, error) {
	if prefix == "" || strings.ContainsAny(prefix, "%_") {
		return nil, ErrNotFound
	}
	row := d.db.QueryRow(`SELECT `+selectRunFields+` FROM runs
		WHERE key LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%")
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// Recent returns the newest runs first.
func (d *DB) Recent(limit int) ([]Run, error) {
	rows, err := d.db.Query(`SELECT `+selectRunFields+` FROM runs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Search finds runs whose preview or summary contains query.
// Queries shorter than three characters match nothing under the trigram
// tokenizer.
func (d *DB) Search(query string, limit int) ([]Run, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	phrase := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`

	rows, err := d.db.Query(`
		SELECT `+selectRunFields+`
		FROM runs
		WHERE key IN (SELECT key FROM runs_fts WHERE runs_fts MATCH ?)
		ORDER BY created_at DESC
		LIMIT ?`, phrase, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Count returns the number of cached runs.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run       Run
		createdAt int64
		source    sql.NullString
		reqJSON   string
		resJSON   string
	)
	if err := row.Scan(&run.Key, &createdAt, &source, &run.TextLength, &run.Preview, &reqJSON, &resJSON); err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	run.Source = source.String
	if err := json.Unmarshal([]byte(reqJSON), &run.Request); err != nil {
		return nil, fmt.Errorf("parsing request of %s: %w", run.ShortKey(), err)
	}
	if err := json.Unmarshal([]byte(resJSON), &run.Result); err != nil {
		return nil, fmt.Errorf("parsing result of %s: %w", run.ShortKey(), err)
	}
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

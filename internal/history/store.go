// Package history implements the local log of deployment validation runs.
//
// Every `stirrup check` invocation is recorded as a run with one row per
// tool call, so an operator can see when the deployed runtime last answered
// and which tool broke. Backed by SQLite in WAL mode.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Run is a single validation run against an endpoint.
type Run struct {
	ID         string  `json:"id"`
	Endpoint   string  `json:"endpoint"`
	StartedAt  string  `json:"started_at"`
	FinishedAt *string `json:"finished_at,omitempty"`
	OK         bool    `json:"ok"`
	Error      *string `json:"error,omitempty"`
}

// Result is the outcome of one tool call within a run.
type Result struct {
	ID         int64  `json:"id"`
	RunID      string `json:"run_id"`
	Tool       string `json:"tool"`
	Arguments  string `json:"arguments"`
	Output     string `json:"output"`
	OK         bool   `json:"ok"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// Config holds history store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".stirrup")}
}

// Store is the validation run log backed by SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store with the given configuration. An empty DataDir falls
// back to DefaultConfig. It creates the data directory if needed, opens
// SQLite with WAL mode, and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.DataDir == "" {
		cfg = DefaultConfig()
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			endpoint    TEXT NOT NULL,
			started_at  TEXT NOT NULL DEFAULT (datetime('now')),
			finished_at TEXT,
			ok          INTEGER NOT NULL DEFAULT 0,
			error       TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS run_results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT    NOT NULL,
			tool        TEXT    NOT NULL,
			arguments   TEXT    NOT NULL DEFAULT '',
			output      TEXT    NOT NULL DEFAULT '',
			ok          INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT    NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_results_run ON run_results(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginRun records the start of a validation run and returns its ID.
func (s *Store) BeginRun(endpoint string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO runs (id, endpoint) VALUES (?, ?)`, id, endpoint)
	if err != nil {
		return "", fmt.Errorf("history: begin run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run complete. runErr, when non-nil, is stored as the
// run-level error text.
func (s *Store) FinishRun(id string, ok bool, runErr error) error {
	var errText *string
	if runErr != nil {
		msg := runErr.Error()
		errText = &msg
	}
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = datetime('now'), ok = ?, error = ? WHERE id = ?`,
		boolToInt(ok), errText, id,
	)
	if err != nil {
		return fmt.Errorf("history: finish run: %w", err)
	}
	return nil
}

// AddResult records one tool call outcome for a run.
func (s *Store) AddResult(runID, tool, arguments, output string, ok bool, d time.Duration) error {
	_, err := s.db.Exec(
		`INSERT INTO run_results (run_id, tool, arguments, output, ok, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, tool, arguments, output, boolToInt(ok), d.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("history: add result: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, endpoint, started_at, finished_at, ok, error
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ok int
		if err := rows.Scan(&r.ID, &r.Endpoint, &r.StartedAt, &r.FinishedAt, &ok, &r.Error); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.OK = ok != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the tool call outcomes for a run in call order.
func (s *Store) RunResults(runID string) ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, tool, arguments, output, ok, duration_ms, created_at
		 FROM run_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var ok int
		if err := rows.Scan(&r.ID, &r.RunID, &r.Tool, &r.Arguments, &r.Output, &ok, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan result: %w", err)
		}
		r.OK = ok != 0
		results = append(results, r)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Package history records chain runs in a local SQLite database.
//
// The history is diagnostic only: failed runs keep whatever phase outputs
// were produced before the failure, and nothing is ever resumed from it.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded chain execution.
type Run struct {
	ID         string
	Chain      string
	Topic      string
	Model      string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outputs    []PhaseOutput
}

// PhaseOutput is one phase's recorded output, in execution order.
type PhaseOutput struct {
	Phase  string
	Output string
}

// Store persists runs using modernc.org/sqlite (pure Go).
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL UNIQUE,
		chain       TEXT NOT NULL,
		topic       TEXT NOT NULL DEFAULT '',
		model       TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT '',
		error       TEXT NOT NULL DEFAULT '',
		started_at  DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS phase_outputs (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id   TEXT NOT NULL,
		position INTEGER NOT NULL,
		phase    TEXT NOT NULL,
		output   TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_phase_outputs_run ON phase_outputs(run_id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a run and its phase outputs. A missing run ID is filled in
// with a fresh identifier; the assigned ID is returned.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()[:8]
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, chain, topic, model, status, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Chain, r.Topic, r.Model, r.Status, r.Error, r.StartedAt, r.FinishedAt,
	)
	if err != nil {
		return "", err
	}

	for i, out := range r.Outputs {
		_, err = tx.Exec(
			`INSERT INTO phase_outputs (run_id, position, phase, output) VALUES (?, ?, ?, ?)`,
			r.ID, i, out.Phase, out.Output,
		)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return r.ID, nil
}

// ListRuns returns recent runs without their outputs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, chain, topic, model, status, error, started_at, finished_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Chain, &r.Topic, &r.Model, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a run with its phase outputs in execution order.
func (s *Store) GetRun(runID string) (*Run, error) {
	var r Run
	err := s.db.QueryRow(
		`SELECT run_id, chain, topic, model, status, error, started_at, finished_at
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&r.ID, &r.Chain, &r.Topic, &r.Model, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT phase, output FROM phase_outputs WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var out PhaseOutput
		if err := rows.Scan(&out.Phase, &out.Output); err != nil {
			return nil, err
		}
		r.Outputs = append(r.Outputs, out)
	}
	return &r, rows.Err()
}

// Package store persists run history in a local sqlite database. Each slot
// keeps its full history; readers usually want only the latest run per slot,
// and a failed run supersedes an earlier success so stale results are never
// presented as current.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"digestsim/internal/logging"
	"digestsim/internal/sim"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunConfig is the configuration snapshot stored with every run.
type RunConfig struct {
	Flow        float64 `json:"flow"`
	Temperature float64 `json:"temperature"`
	HRT         float64 `json:"hrt"`
	Method      string  `json:"method"`
	Horizon     float64 `json:"horizon"`
	Step        float64 `json:"step"`
	UseKinetics bool    `json:"use_kinetics"`
}

// Run is one stored run. Result is nil for failed runs.
type Run struct {
	ID        string
	Slot      int
	Config    RunConfig
	Status    string
	Failure   string
	Result    *sim.Result
	CreatedAt time.Time
}

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	slot       INTEGER NOT NULL,
	config     TEXT NOT NULL,
	status     TEXT NOT NULL,
	failure    TEXT NOT NULL DEFAULT '',
	result     TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_slot_created ON runs(slot, created_at DESC);
`

// Open opens (creating if needed) the run-history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.StoreDebug("[Open] %s", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult records a completed run for a slot and returns its id.
func (s *Store) SaveResult(slot int, cfg RunConfig, result *sim.Result) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return s.insert(slot, cfg, StatusCompleted, "", resultJSON)
}

// SaveFailure records a failed run. The failure becomes the slot's latest
// entry, replacing any earlier success in latest-per-slot reads.
func (s *Store) SaveFailure(slot int, cfg RunConfig, reason string) (string, error) {
	return s.insert(slot, cfg, StatusFailed, reason, nil)
}

func (s *Store) insert(slot int, cfg RunConfig, status, failure string, resultJSON []byte) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO runs (id, slot, config, status, failure, result, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, slot, string(cfgJSON), status, failure, nullableString(resultJSON), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	logging.Store("[Insert] run=%s slot=%d status=%s", id, slot, status)
	return id, nil
}

func nullableString(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return string(b)
}

// Latest returns the most recent run for a slot, completed or failed, or
// (nil, nil) when the slot has never run.
func (s *Store) Latest(slot int) (*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, slot, config, status, failure, result, created_at
		 FROM runs WHERE slot = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
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

// History returns up to limit runs for a slot, newest first.
func (s *Store) History(slot, limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, slot, config, status, failure, result, created_at
		 FROM runs WHERE slot = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, slot, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Get returns a run by id, or (nil, nil) when absent.
func (s *Store) Get(id string) (*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, slot, config, status, failure, result, created_at FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
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

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			r          Run
			cfgJSON    string
			resultJSON sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Slot, &cfgJSON, &r.Status, &r.Failure, &resultJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(cfgJSON), &r.Config); err != nil {
			return nil, fmt.Errorf("failed to decode run config: %w", err)
		}
		if resultJSON.Valid {
			var res sim.Result
			if err := json.Unmarshal([]byte(resultJSON.String), &res); err != nil {
				return nil, fmt.Errorf("failed to decode run result: %w", err)
			}
			r.Result = &res
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

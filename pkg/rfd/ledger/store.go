// Package ledger keeps an audit trail of declaration runs in SQLite.
//
// The ledger records what each run produced. It is never consulted to decide
// what to process, so deleting it only loses history.
package ledger

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	source      TEXT NOT NULL,
	template    TEXT NOT NULL,
	output_dir  TEXT NOT NULL,
	created     INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	row_number  INTEGER NOT NULL,
	customer    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	output      TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
`

// Run is one recorded batch.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt *time.Time
	Source     string
	Template   string
	OutputDir  string
	Created    int
	Skipped    int
	Failed     int
}

// Entry is one recorded record outcome.
type Entry struct {
	RunID    int64
	Row      int
	Customer string
	Status   models.Status
	Output   string
	Error    string
}

// Store is a SQLite-backed ledger.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating ledger directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "opening ledger")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating ledger schema")
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a batch and returns its id.
func (s *Store) BeginRun(ctx context.Context, source, template, outputDir string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, source, template, output_dir) VALUES (?, ?, ?, ?)`,
		s.stamp(), source, template, outputDir)
	if err != nil {
		return 0, errors.Wrap(err, "recording run start")
	}
	return res.LastInsertId()
}

// Record stores the outcome of one record.
func (s *Store) Record(ctx context.Context, runID int64, o models.Outcome) error {
	var msg string
	if o.Err != nil {
		msg = o.Err.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, row_number, customer, status, output, error, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Row, o.Customer, string(o.Status), o.Output, msg, s.stamp())
	if err != nil {
		return errors.Wrapf(err, "recording row %d", o.Row)
	}
	return nil
}

// FinishRun stores the totals of a batch.
func (s *Store) FinishRun(ctx context.Context, runID int64, sum models.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, created = ?, skipped = ?, failed = ? WHERE id = ?`,
		s.stamp(), len(sum.Created()), len(sum.Skipped()), len(sum.Errors()), runID)
	if err != nil {
		return errors.Wrap(err, "recording run end")
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, source, template, output_dir, created, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Source, &r.Template, &r.OutputDir,
			&r.Created, &r.Skipped, &r.Failed); err != nil {
			return nil, errors.Wrap(err, "scanning run")
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished.Valid {
			t, err := time.Parse(time.RFC3339, finished.String)
			if err == nil {
				r.FinishedAt = &t
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns the recorded outcomes of a run in row order.
func (s *Store) Entries(ctx context.Context, runID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, row_number, customer, status, output, error
		 FROM outcomes WHERE run_id = ? ORDER BY row_number`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "querying outcomes")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			status string
		)
		if err := rows.Scan(&e.RunID, &e.Row, &e.Customer, &status, &e.Output, &e.Error); err != nil {
			return nil, errors.Wrap(err, "scanning outcome")
		}
		e.Status = models.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

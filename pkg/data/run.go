package data

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	runListLimitDefault = 20

	insertRun = `INSERT INTO run (created_at, input, output, strategy, mode, seed,
		total, processed, skipped, satisfied, fallback, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	insertFlag = `INSERT INTO run_flag (run_id, row_num, kind, detail, anchor, target, mean, scores)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectRuns = `SELECT id, created_at, input, output, strategy, mode, seed,
		total, processed, skipped, satisfied, fallback, duration
		FROM run ORDER BY id DESC LIMIT ?`

	selectRun = `SELECT id, created_at, input, output, strategy, mode, seed,
		total, processed, skipped, satisfied, fallback, duration
		FROM run WHERE id = ?`

	selectFlags = `SELECT row_num, kind, detail, anchor, target, mean, scores
		FROM run_flag WHERE run_id = ? ORDER BY row_num, kind`
)

// Run is a saved processing run of one input file.
type Run struct {
	ID         int64      `json:"id" yaml:"id"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	Input      string     `json:"input" yaml:"input"`
	Output     string     `json:"output" yaml:"output"`
	Strategy   string     `json:"strategy" yaml:"strategy"`
	Mode       string     `json:"mode" yaml:"mode"`
	Seed       int64      `json:"seed" yaml:"seed"`
	Total      int        `json:"total" yaml:"total"`
	Processed  int        `json:"processed" yaml:"processed"`
	Skipped    int        `json:"skipped" yaml:"skipped"`
	Satisfied  int        `json:"satisfied" yaml:"satisfied"`
	FallenBack int        `json:"fallback" yaml:"fallback"`
	Duration   string     `json:"duration" yaml:"duration"`
	Flags      []*RunFlag `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// RunFlag is a diagnostic flag raised during a run.
type RunFlag struct {
	Row    int     `json:"row" yaml:"row"`
	Kind   string  `json:"kind" yaml:"kind"`
	Detail string  `json:"detail" yaml:"detail"`
	Anchor float64 `json:"anchor" yaml:"anchor"`
	Target float64 `json:"target" yaml:"target"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Scores string  `json:"scores" yaml:"scores"`
}

// SaveRun stores r and its flags in a single transaction and returns the
// new run id.
func SaveRun(db *sql.DB, r *Run) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if r == nil {
		return 0, errors.New("run required")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}

	var id int64
	err = tx.QueryRow(rebind(db, insertRun), r.CreatedAt.Unix(), r.Input, r.Output, r.Strategy, r.Mode,
		r.Seed, r.Total, r.Processed, r.Skipped, r.Satisfied, r.FallenBack, r.Duration).Scan(&id)
	if err != nil {
		rollback(tx)
		return 0, errors.Wrap(err, "failed to insert run")
	}

	stmt, err := tx.Prepare(rebind(db, insertFlag))
	if err != nil {
		rollback(tx)
		return 0, errors.Wrap(err, "failed to prepare flag insert statement")
	}
	defer stmt.Close()

	for _, fl := range r.Flags {
		if _, err := stmt.Exec(id, fl.Row, fl.Kind, fl.Detail, fl.Anchor, fl.Target, fl.Mean, fl.Scores); err != nil {
			rollback(tx)
			return 0, errors.Wrapf(err, "failed to insert flag for row %d", fl.Row)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	r.ID = id
	return id, nil
}

// ListRuns returns the most recent runs, newest first, without flags.
func ListRuns(db *sql.DB, limit int) ([]*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = runListLimitDefault
	}

	rows, err := db.Query(rebind(db, selectRuns), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	list := make([]*Run, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate runs")
	}
	return list, nil
}

// GetRun returns the run with id and its flags, or nil when there is none.
func GetRun(db *sql.DB, id int64) (*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	r, err := scanRun(db.QueryRow(rebind(db, selectRun), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := db.Query(rebind(db, selectFlags), id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query flags for run %d", id)
	}
	defer rows.Close()

	for rows.Next() {
		fl := &RunFlag{}
		if err := rows.Scan(&fl.Row, &fl.Kind, &fl.Detail, &fl.Anchor, &fl.Target, &fl.Mean, &fl.Scores); err != nil {
			return nil, errors.Wrap(err, "failed to scan flag")
		}
		r.Flags = append(r.Flags, fl)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate flags")
	}
	return r, nil
}

// DeleteRuns removes every saved run and returns how many were deleted.
func DeleteRuns(db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	if _, err := tx.Exec("DELETE FROM run_flag"); err != nil {
		rollback(tx)
		return 0, errors.Wrap(err, "failed to delete flags")
	}
	res, err := tx.Exec("DELETE FROM run")
	if err != nil {
		rollback(tx)
		return 0, errors.Wrap(err, "failed to delete runs")
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count deleted runs")
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	r := &Run{}
	var created int64
	err := s.Scan(&r.ID, &created, &r.Input, &r.Output, &r.Strategy, &r.Mode, &r.Seed,
		&r.Total, &r.Processed, &r.Skipped, &r.Satisfied, &r.FallenBack, &r.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to scan run")
	}
	r.CreatedAt = time.Unix(created, 0).UTC()
	return r, nil
}

func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}

package scottcpu

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// TickRecord is one completed tick observation, as persisted by
// TickRecorder.
type TickRecord struct {
	Slot      int
	Duration  time.Duration
	Timestamp time.Time
}

// TickRecorder persists tick completion timings to a SQLite database, so
// a long-running Circuit's pacing can be inspected after the fact.
type TickRecorder struct {
	db *sql.DB
}

// OpenTickRecorder opens (creating if necessary) a SQLite database at
// path and ensures its schema exists.
func OpenTickRecorder(path string) (*TickRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "scottcpu: open tick recorder database")
	}
	const schema = `
CREATE TABLE IF NOT EXISTS ticks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slot INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	observed_at INTEGER NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "scottcpu: create tick recorder schema")
	}
	return &TickRecorder{db: db}, nil
}

// Close releases the underlying database handle.
func (r *TickRecorder) Close() error {
	return r.db.Close()
}

// Observe is a Circuit.Tick completion callback: wrap a call to
// Circuit.Tick with a timer and call Observe(slot, elapsed) afterward to
// persist one row.
func (r *TickRecorder) Observe(slot int, elapsed time.Duration) error {
	_, err := r.db.Exec(
		`INSERT INTO ticks (slot, duration_ns, observed_at) VALUES (?, ?, ?)`,
		slot, elapsed.Nanoseconds(), time.Now().UnixNano(),
	)
	if err != nil {
		return errors.Wrap(err, "scottcpu: record tick")
	}
	return nil
}

// Recent returns the last n recorded ticks, most recent first.
func (r *TickRecorder) Recent(n int) ([]TickRecord, error) {
	rows, err := r.db.Query(
		`SELECT slot, duration_ns, observed_at FROM ticks ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, errors.Wrap(err, "scottcpu: query recent ticks")
	}
	defer rows.Close()

	var out []TickRecord
	for rows.Next() {
		var slot int
		var durationNs, observedAt int64
		if err := rows.Scan(&slot, &durationNs, &observedAt); err != nil {
			return nil, errors.Wrap(err, "scottcpu: scan tick row")
		}
		out = append(out, TickRecord{
			Slot:      slot,
			Duration:  time.Duration(durationNs),
			Timestamp: time.Unix(0, observedAt),
		})
	}
	return out, rows.Err()
}

// Count returns the total number of recorded ticks.
func (r *TickRecorder) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM ticks`).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "scottcpu: count ticks")
	}
	return n, nil
}

package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/jerxma-git/cat-houses-model/sim"
)

// SQLiteLedger keeps runs in an in-memory SQLite database. Headline counters
// are columns so aggregates are plain SQL; the full record is a JSON payload.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens a private in-memory database.
func NewSQLiteLedger() (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE runs (
		seed       INTEGER PRIMARY KEY,
		total_time REAL    NOT NULL,
		accepted   INTEGER NOT NULL,
		rejected   INTEGER NOT NULL,
		planned    INTEGER NOT NULL,
		built      INTEGER NOT NULL,
		payload    BLOB    NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE reject_reasons (
		seed   INTEGER NOT NULL REFERENCES runs(seed),
		reason TEXT    NOT NULL,
		count  INTEGER NOT NULL,
		PRIMARY KEY (seed, reason)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create reject_reasons table: %w", err)
	}
	return &SQLiteLedger{db: db}, nil
}

// Record inserts the run and its reject reasons in one transaction.
// A seed recorded twice fails with ErrDuplicateRun.
func (l *SQLiteLedger) Record(ctx context.Context, stats *sim.RunStatistics) (retErr error) {
	if stats == nil {
		return fmt.Errorf("record: nil statistics")
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode run %d: %w", stats.Seed, err)
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (seed, total_time, accepted, rejected, planned, built, payload) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(stats.Seed), stats.TotalTime, stats.Accepted, stats.Rejected, stats.PlannedCount, stats.TotalBuilt(), payload)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("seed %d: %w", stats.Seed, ErrDuplicateRun)
		}
		return fmt.Errorf("insert run %d: %w", stats.Seed, err)
	}
	for reason, n := range stats.RejectReasons {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reject_reasons (seed, reason, count) VALUES (?, ?, ?)`,
			int64(stats.Seed), string(reason), n); err != nil {
			return fmt.Errorf("insert reject reason %s: %w", reason, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %d: %w", stats.Seed, err)
	}
	return nil
}

// Runs decodes every stored payload, ordered by seed.
func (l *SQLiteLedger) Runs(ctx context.Context) ([]*sim.RunStatistics, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY seed`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*sim.RunStatistics
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var stats sim.RunStatistics
		if err := json.Unmarshal(payload, &stats); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		out = append(out, &stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Totals aggregates the run columns and reject reasons in SQL.
func (l *SQLiteLedger) Totals(ctx context.Context) (Totals, error) {
	t := Totals{RejectReasons: make(map[sim.Reason]int)}
	row := l.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(accepted), 0), COALESCE(SUM(rejected), 0),
		COALESCE(SUM(planned), 0), COALESCE(SUM(built), 0),
		COALESCE(SUM(total_time), 0.0)
		FROM runs`)
	if err := row.Scan(&t.Runs, &t.Accepted, &t.Rejected, &t.Planned, &t.Built, &t.TotalTimeSum); err != nil {
		return Totals{}, fmt.Errorf("sum runs: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `SELECT reason, SUM(count) FROM reject_reasons GROUP BY reason`)
	if err != nil {
		return Totals{}, fmt.Errorf("sum reject reasons: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return Totals{}, fmt.Errorf("scan: %w", err)
		}
		t.RejectReasons[sim.Reason(reason)] = n
	}
	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("iterate reject reasons: %w", err)
	}
	return t, nil
}

// Close releases the database; its contents are lost.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

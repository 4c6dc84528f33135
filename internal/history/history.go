package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Event kinds recorded in the lifecycle log.
const (
	EventStarted     = "started"
	EventStopped     = "stopped"
	EventRestarted   = "restarted"
	EventStartFailed = "start_failed"
	EventStopFailed  = "stop_failed"
)

// Event is one lifecycle transition of the managed application.
type Event struct {
	ID     int64     `json:"id"`
	Name   string    `json:"name"`
	PID    int       `json:"pid,omitempty"`
	Kind   string    `json:"kind"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Log persists lifecycle events in SQLite (modernc.org/sqlite, CGO-free).
// Path is a filesystem path; ":memory:" works for tests.
type Log struct {
	db *sql.DB
}

func Open(path string) (*Log, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty history path")
	}
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// busy timeout covers overlapping short-lived invocations
	_, _ = db.Exec("PRAGMA busy_timeout=3000;")
	l := &Log{db: db}
	if err := l.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Log) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lifecycle_event(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			pid INTEGER NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_lifecycle_event_name ON lifecycle_event(name);`,
		`CREATE INDEX IF NOT EXISTS idx_lifecycle_event_at ON lifecycle_event(at);`,
	}
	for _, q := range stmts {
		if _, err := l.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (l *Log) Close() error { return l.db.Close() }

func (l *Log) Append(ctx context.Context, ev Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO lifecycle_event(name, pid, kind, detail, at) VALUES(?, ?, ?, ?, ?);`,
		ev.Name, ev.PID, ev.Kind, ev.Detail, at.UTC())
	return err
}

// Recent returns up to limit events, newest first. An empty name matches all.
func (l *Log) Recent(ctx context.Context, name string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, name, pid, kind, detail, at FROM lifecycle_event`
	args := []any{}
	if name != "" {
		q += ` WHERE name = ?`
		args = append(args, name)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.PID, &ev.Kind, &ev.Detail, &ev.At); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

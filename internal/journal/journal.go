// Package journal keeps the sync log: one entry per write the engine sent
// to a remote service, newest first. It lives in SQLite, in memory by
// default.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"finboard/internal/log"

	_ "modernc.org/sqlite"
)

// Statuses of an entry. A write whose response could not be confirmed is
// recorded as pending.
const (
	StatusOK      = "ok"
	StatusPending = "pending"
	StatusFailed  = "failed"
)

// Entry is one sync log record.
type Entry struct {
	ID        uuid.UUID
	Timestamp time.Time
	Action    string
	Entity    string
	EntityID  string
	Payload   json.RawMessage
	Status    string
}

// Journal appends and lists sync log entries.
type Journal struct {
	db     *sql.DB
	now    func() time.Time
	logger *log.Logger

	mu  sync.Mutex
	seq int64
}

// Option customizes a Journal.
type Option func(*Journal)

// WithClock sets the time source for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(j *Journal) { j.logger = log.OrNop(l).WithComponent(log.ComponentJournal) }
}

// Open opens the database at dsn (":memory:" for a process-local log) and
// migrates it.
func Open(dsn string, opts ...Option) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: an in-memory database is private to its connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	j := &Journal{db: db, now: time.Now, logger: log.Nop()}
	for _, opt := range opts {
		opt(j)
	}

	if err := db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM sync_log`).Scan(&j.seq); err != nil {
		db.Close()
		return nil, fmt.Errorf("read sequence: %w", err)
	}
	return j, nil
}

func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record appends an entry. The payload is stored as JSON; ID and Timestamp
// are assigned here. A blank status means pending.
func (j *Journal) Record(ctx context.Context, action, entity, entityID string, payload any, status string) (Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("encode payload: %w", err)
	}
	if status == "" {
		status = StatusPending
	}

	e := Entry{
		ID:        uuid.New(),
		Timestamp: j.now().UTC(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Payload:   raw,
		Status:    status,
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO sync_log (id, seq, recorded_at, action, entity, entity_id, payload, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), j.seq, e.Timestamp.Format(time.RFC3339Nano),
		e.Action, e.Entity, e.EntityID, string(e.Payload), e.Status)
	if err != nil {
		j.seq--
		return Entry{}, fmt.Errorf("insert sync entry: %w", err)
	}

	j.logger.DebugContext(ctx, "Sync entry recorded",
		log.NewFields().
			WithOperation(action).
			WithEntity(entity, entityID).
			ToSlice()...)
	return e, nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, recorded_at, action, entity, entity_id, payload, status
		FROM sync_log ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			id, ts  string
			payload string
		)
		if err := rows.Scan(&id, &ts, &e.Action, &e.Entity, &e.EntityID, &payload, &e.Status); err != nil {
			return nil, fmt.Errorf("scan sync entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse entry id: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse entry time: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sync log: %w", err)
	}
	return n, nil
}

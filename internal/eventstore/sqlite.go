package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

const buildEventsSchema = `
CREATE TABLE IF NOT EXISTS build_events (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	build_id    TEXT    NOT NULL,
	kind        TEXT    NOT NULL,
	target      TEXT    NOT NULL DEFAULT '',
	recorded_ms INTEGER NOT NULL,
	payload     BLOB    NOT NULL,
	metadata    TEXT
);
CREATE INDEX IF NOT EXISTS build_events_build ON build_events(build_id);
CREATE INDEX IF NOT EXISTS build_events_recorded ON build_events(recorded_ms);
`

const selectEvents = `SELECT seq, build_id, kind, recorded_ms, payload, metadata FROM build_events`

// SQLiteStore is a Store backed by a pure-Go SQLite database file.
type SQLiteStore struct {
	mu  sync.RWMutex
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens the event log at path, creating the schema on first use.
// Use ":memory:" for a throwaway log.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ferrors.FileSystemError("could not open event store database").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	// ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(buildEventsSchema); err != nil {
		_ = db.Close()
		return nil, ferrors.FileSystemError("could not create event store schema").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Append records one event. The "target" metadata key, when present, is
// also stored in its own column.
func (s *SQLiteStore) Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error {
	var meta []byte
	if len(metadata) > 0 {
		var err error
		if meta, err = json.Marshal(metadata); err != nil {
			return ferrors.InternalError("failed to encode event metadata").WithCause(err).Build()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO build_events (build_id, kind, target, recorded_ms, payload, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
		buildID, eventType, metadata["target"], s.now().UnixMilli(), payload, meta)
	if err != nil {
		return ferrors.FileSystemError("failed to append build event").
			WithCause(err).
			WithContext("build_id", buildID).
			WithContext("type", eventType).
			Build()
	}
	return nil
}

func (s *SQLiteStore) GetByBuildID(ctx context.Context, buildID string) ([]Event, error) {
	return s.list(ctx, selectEvents+` WHERE build_id = ? ORDER BY seq`, buildID)
}

func (s *SQLiteStore) GetRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	return s.list(ctx, selectEvents+` WHERE recorded_ms BETWEEN ? AND ? ORDER BY seq`,
		start.UnixMilli(), end.UnixMilli())
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read build events").WithCause(err).Build()
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var (
			e    BaseEvent
			ms   int64
			meta sql.NullString
		)
		if err := rows.Scan(&e.EventID, &e.EventBuildID, &e.EventType, &ms, &e.EventPayload, &meta); err != nil {
			return nil, ferrors.FileSystemError("failed to read build event row").WithCause(err).Build()
		}
		e.EventTimestamp = time.UnixMilli(ms)
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &e.EventMetadata); err != nil {
				return nil, ferrors.InternalError("stored event metadata is corrupt").
					WithCause(err).
					WithContext("seq", e.EventID).
					Build()
			}
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.FileSystemError("failed to read build events").WithCause(err).Build()
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

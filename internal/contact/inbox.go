package contact

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Delivery states stored in the inbox.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Entry is one stored submission.
type Entry struct {
	Message
	Status string
	Error  string
}

// Inbox is a SQLite table of every accepted submission and its delivery state.
type Inbox struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenInbox opens or creates the inbox database at path (":memory:" for tests).
func OpenInbox(path string) (*Inbox, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ferrors.FileSystemError("could not open contact inbox").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		received_at INTEGER NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		sender_email TEXT NOT NULL,
		remote_addr TEXT,
		status TEXT NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_messages_received ON messages(received_at);
	`)
	if err != nil {
		_ = db.Close()
		return nil, ferrors.InternalError("failed to initialize contact inbox schema").WithCause(err).Build()
	}
	return &Inbox{db: db}, nil
}

// Save stores m as pending.
func (i *Inbox) Save(ctx context.Context, m Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO messages (id, received_at, subject, body, sender_email, remote_addr, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ReceivedAt.UnixMilli(), m.Request.Subject, m.Request.Message, m.Request.SenderEmail, m.RemoteAddr, StatusPending)
	if err != nil {
		return ferrors.InternalError("failed to store contact message").WithCause(err).WithContext("message_id", m.ID).Build()
	}
	return nil
}

// MarkDelivered records the outcome of a delivery attempt.
func (i *Inbox) MarkDelivered(ctx context.Context, id string, deliveryErr error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	status, msg := StatusDelivered, ""
	if deliveryErr != nil {
		status, msg = StatusFailed, deliveryErr.Error()
	}
	_, err := i.db.ExecContext(ctx, `UPDATE messages SET status = ?, error = ? WHERE id = ?`, status, msg, id)
	if err != nil {
		return ferrors.InternalError("failed to update contact message").WithCause(err).WithContext("message_id", id).Build()
	}
	return nil
}

// List returns up to limit entries, newest first.
func (i *Inbox) List(ctx context.Context, limit int) ([]Entry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	rows, err := i.db.QueryContext(ctx,
		`SELECT id, received_at, subject, body, sender_email, remote_addr, status, error FROM messages ORDER BY received_at DESC, rowid DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, ferrors.InternalError("failed to query contact inbox").WithCause(err).Build()
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var received int64
		var remote, errText sql.NullString
		if err := rows.Scan(&e.ID, &received, &e.Request.Subject, &e.Request.Message, &e.Request.SenderEmail, &remote, &e.Status, &errText); err != nil {
			return nil, ferrors.InternalError("failed to scan contact message").WithCause(err).Build()
		}
		e.ReceivedAt = time.UnixMilli(received).UTC()
		e.RemoteAddr = remote.String
		e.Error = errText.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.InternalError("failed to iterate contact inbox").WithCause(err).Build()
	}
	return out, nil
}

// Close closes the database.
func (i *Inbox) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.db.Close()
}

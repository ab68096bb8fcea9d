package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/glitchidea/sitebuilder/internal/eventstore"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
)

// publisher is the subset of *nats.Conn used here.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Envelope is the JSON message published for each event.
type Envelope struct {
	BuildID   string            `json:"build_id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Payload   json.RawMessage   `json:"payload"`
}

// NATSPublisher publishes events to <subject>.<event type>.
type NATSPublisher struct {
	conn    publisher
	subject string
}

// ConnectNATS dials url and returns a publisher rooted at subject.
func ConnectNATS(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sitebuilder"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, ferrors.NetworkError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Retryable().
			Build()
	}
	slog.Info("NATS publisher connected", "url", url, "subject", subject)
	return newNATSPublisher(conn, subject), nil
}

func newNATSPublisher(conn publisher, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	return p.subject + "." + eventType
}

// Emit publishes e and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Emit(ctx context.Context, e eventstore.Event) error {
	data, err := json.Marshal(Envelope{
		BuildID:   e.BuildID(),
		Type:      e.Type(),
		Timestamp: e.Timestamp(),
		Metadata:  e.Metadata(),
		Payload:   e.Payload(),
	})
	if err != nil {
		return ferrors.InternalError("failed to marshal event envelope").WithCause(err).Build()
	}
	subject := p.Subject(e.Type())
	if err := p.conn.Publish(subject, data); err != nil {
		return ferrors.NetworkError("failed to publish event").WithCause(err).WithContext("subject", subject).Build()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.NetworkError("failed to flush NATS connection").WithCause(err).WithContext("subject", subject).Build()
	}
	slog.Debug("Published event", logfields.BuildID(e.BuildID()), "subject", subject)
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

package contact

import (
	"context"
	"log/slog"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
)

// Relay accepts submissions: validate, store, deliver.
type Relay struct {
	sender Sender
	inbox  *Inbox
}

// NewRelay returns a relay. sender nil disables delivery; inbox may be nil.
func NewRelay(sender Sender, inbox *Inbox) *Relay {
	return &Relay{sender: sender, inbox: inbox}
}

// Enabled reports whether submissions can be delivered.
func (r *Relay) Enabled() bool { return r != nil && r.sender != nil }

// Submit validates req and delivers it. Validation failures are
// CategoryValidation, delivery failures CategoryNetwork, a disabled relay CategoryRuntime.
func (r *Relay) Submit(ctx context.Context, req Request, remoteAddr string) (Message, error) {
	if !r.Enabled() {
		return Message{}, ferrors.RuntimeError("contact relay is not configured").Build()
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return Message{}, err
	}
	m := NewMessage(req, remoteAddr)
	log := slog.With(logfields.MessageID(m.ID), logfields.Transport(r.sender.Name()))

	if r.inbox != nil {
		if err := r.inbox.Save(ctx, m); err != nil {
			log.Warn("Failed to store contact message", logfields.Error(err))
		}
	}
	sendErr := r.sender.Send(ctx, m)
	if r.inbox != nil {
		if err := r.inbox.MarkDelivered(ctx, m.ID, sendErr); err != nil {
			log.Warn("Failed to update contact message", logfields.Error(err))
		}
	}
	if sendErr != nil {
		log.Error("Contact delivery failed", logfields.Error(sendErr))
		if _, ok := ferrors.AsClassified(sendErr); !ok {
			sendErr = ferrors.NetworkError("failed to deliver contact message").WithCause(sendErr).Build()
		}
		return m, sendErr
	}
	log.Info("Contact message delivered")
	return m, nil
}

package events

import (
	"context"

	"github.com/glitchidea/sitebuilder/internal/eventstore"
)

// Sink receives build events.
type Sink interface {
	Emit(ctx context.Context, e eventstore.Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e eventstore.Event) error

func (f SinkFunc) Emit(ctx context.Context, e eventstore.Event) error { return f(ctx, e) }

// StoreSink appends events to an event store.
type StoreSink struct {
	Store eventstore.Store
}

func (s StoreSink) Emit(ctx context.Context, e eventstore.Event) error {
	return s.Store.Append(ctx, e.BuildID(), e.Type(), e.Payload(), e.Metadata())
}

// ProjectionSink folds events into a build history projection.
type ProjectionSink struct {
	Projection *eventstore.BuildHistoryProjection
}

func (s ProjectionSink) Emit(_ context.Context, e eventstore.Event) error {
	s.Projection.Apply(e)
	return nil
}

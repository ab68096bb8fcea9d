package commands

import (
	"context"
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/glitchidea/sitebuilder/internal/build"
	"github.com/glitchidea/sitebuilder/internal/config"
	"github.com/glitchidea/sitebuilder/internal/contact"
	"github.com/glitchidea/sitebuilder/internal/events"
	"github.com/glitchidea/sitebuilder/internal/eventstore"
	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/metrics"
)

// runtime holds the optional services wired from configuration.
type runtime struct {
	cfg      *config.Config
	registry *prom.Registry
	recorder metrics.Recorder
	history  *eventstore.BuildHistoryProjection
	observer build.BuildObserver
	closers  []func() error
}

// newRuntime wires metrics, the event store and NATS as configured. Event
// sinks that cannot be opened are logged and skipped; builds still run.
func newRuntime(ctx context.Context, cfg *config.Config) *runtime {
	rt := &runtime{cfg: cfg, recorder: metrics.NoopRecorder{}}

	if cfg.Metrics.Enabled {
		rt.registry = prom.NewRegistry()
		rt.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rt.recorder = metrics.NewPrometheusRecorder(rt.registry)
	}

	var sinks []events.Sink
	if path := cfg.State.EventStorePath; path != "" {
		store, err := eventstore.NewSQLiteStore(path)
		if err != nil {
			slog.Warn("Event store unavailable; build history disabled", logfields.Path(path), logfields.Error(err))
		} else {
			rt.closers = append(rt.closers, store.Close)
			rt.history = eventstore.NewBuildHistoryProjection(store, 0)
			if err := rt.history.Rebuild(ctx); err != nil {
				slog.Warn("Failed to replay build history", logfields.Error(err))
			}
			sinks = append(sinks, events.StoreSink{Store: store}, events.ProjectionSink{Projection: rt.history})
		}
	}
	if url := cfg.Events.NATSURL; url != "" {
		pub, err := events.ConnectNATS(url, cfg.Events.Subject)
		if err != nil {
			slog.Warn("NATS unavailable; build events not published", logfields.URL(url), logfields.Error(err))
		} else {
			rt.closers = append(rt.closers, pub.Close)
			sinks = append(sinks, pub)
		}
	}
	if len(sinks) > 0 {
		rt.observer = events.NewObserver(sinks...)
	}
	return rt
}

// service returns a build service reporting to the wired recorder and sinks.
func (rt *runtime) service() *build.DefaultBuildService {
	return build.NewBuildService().WithRecorder(rt.recorder).WithObserver(rt.observer)
}

// metricsHandler serves the registry, nil when metrics are disabled.
func (rt *runtime) metricsHandler() http.Handler {
	if rt.registry == nil {
		return nil
	}
	return metrics.HTTPHandler(rt.registry)
}

// relay builds the contact relay for the configured transport; nil when disabled.
func (rt *runtime) relay() (*contact.Relay, error) {
	c := rt.cfg.Contact
	var sender contact.Sender
	switch c.Transport {
	case config.TransportSMTP:
		sender = contact.NewSMTPSender(contact.SMTPConfig{
			Host:     c.SMTP.Host,
			Port:     c.SMTP.Port,
			Username: c.SMTP.Username,
			Password: c.SMTP.Password,
			From:     c.SMTP.From,
			To:       c.SMTP.To,
		})
	case config.TransportWorker:
		sender = contact.NewWorkerSender(c.Worker.URL, c.Worker.Token)
	default:
		slog.Info("Contact relay disabled")
		return nil, nil
	}
	var inbox *contact.Inbox
	if c.InboxPath != "" {
		var err error
		inbox, err = contact.OpenInbox(c.InboxPath)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, inbox.Close)
	}
	slog.Info("Contact relay enabled", logfields.Transport(sender.Name()))
	return contact.NewRelay(sender, inbox), nil
}

// Close releases everything opened by newRuntime and relay, newest first.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			slog.Warn("Failed to close resource", logfields.Error(err))
		}
	}
	rt.closers = nil
}

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/glitchidea/sitebuilder/internal/contact"
	"github.com/glitchidea/sitebuilder/internal/eventstore"
	"github.com/glitchidea/sitebuilder/internal/metrics"
	"github.com/glitchidea/sitebuilder/internal/server/handlers"
)

// LiveReloadHub serves the preview reload stream and its client script.
type LiveReloadHub interface {
	http.Handler
	ServeScript(w http.ResponseWriter, r *http.Request)
}

// RebuildFunc rebuilds the site in place. Used by the periodic rebuild job.
type RebuildFunc func(ctx context.Context) error

// Options configures the site server. Only OutputDir and Content are required.
type Options struct {
	Addr      string
	OutputDir string
	Content   handlers.ContentSource
	Target    string

	// CORSOrigin is sent on /api/ responses. Empty disables CORS headers.
	CORSOrigin string

	// Optional: contact relay; nil answers POST /api/contact with 503.
	Relay *contact.Relay

	// Optional: build history for /healthz and /api/builds.
	History *eventstore.BuildHistoryProjection

	// Optional: request metrics and the /metrics endpoint.
	Recorder       metrics.Recorder
	MetricsHandler http.Handler

	// Optional: preview live reload.
	LiveReload LiveReloadHub

	// Optional: periodic rebuild; both must be set to schedule it.
	Rebuild         RebuildFunc
	RebuildInterval time.Duration

	ShutdownTimeout time.Duration
}

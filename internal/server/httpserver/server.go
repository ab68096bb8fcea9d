// Package httpserver wires the site server: static output, the content read API,
// the contact endpoint, health and metrics.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glitchidea/sitebuilder/internal/content"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/metrics"
	"github.com/glitchidea/sitebuilder/internal/server/handlers"
	smw "github.com/glitchidea/sitebuilder/internal/server/middleware"
)

const (
	defaultAddr            = ":3000"
	defaultShutdownTimeout = 10 * time.Second
	notFoundPage           = "404.html"
)

// Server serves a built site and its runtime API.
type Server struct {
	opts         Options
	errorAdapter *ferrors.HTTPErrorAdapter

	contentHandlers    *handlers.ContentHandlers
	contactHandlers    *handlers.ContactHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	mchain func(http.Handler) http.Handler
}

// New constructs a server from opts.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Content == nil {
		opts.Content = handlers.DirSource{Dir: "content"}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{
		opts:         opts,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
	s.contentHandlers = handlers.NewContentHandlers(opts.Content)
	s.contactHandlers = handlers.NewContactHandlers(opts.Relay, opts.Recorder)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Target, opts.History)
	s.mchain = smw.Chain(slog.Default(), s.errorAdapter, opts.Recorder)
	return s
}

// Handler returns the fully wired handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	api := func(h http.HandlerFunc) http.Handler {
		if s.opts.CORSOrigin == "" {
			return h
		}
		return smw.CORS(s.opts.CORSOrigin, h)
	}

	for _, n := range content.All() {
		mux.Handle("GET /api/"+string(n), api(s.contentHandlers.HandleDocument(n)))
	}
	mux.Handle("GET /api/projects/{category}", api(s.contentHandlers.HandleProjectsByCategory))
	mux.Handle("GET /api/all-projects", api(s.contentHandlers.HandleAllProjects))
	mux.Handle("GET /api/blog/featured", api(s.contentHandlers.HandleFeaturedPost))
	mux.Handle("GET /api/footer-projects", api(s.contentHandlers.HandleFooterProjects))
	mux.Handle("GET /api/all-work", api(s.contentHandlers.HandleAllWork))
	mux.Handle("POST /api/contact", api(s.contactHandlers.HandleSubmit))
	mux.Handle("OPTIONS /api/contact", api(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.Handle("GET /api/builds", api(s.monitoringHandlers.HandleBuilds))

	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealthCheck)
	if s.opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.opts.MetricsHandler)
	}
	if s.opts.LiveReload != nil {
		mux.Handle("GET /livereload", s.opts.LiveReload)
		mux.HandleFunc("GET /livereload.js", s.opts.LiveReload.ServeScript)
	}
	mux.Handle("GET /", s.staticHandler())

	return s.mchain(mux)
}

// staticHandler serves the build output; unknown paths get 404.html when it exists.
func (s *Server) staticHandler() http.Handler {
	root := s.opts.OutputDir
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !exists(root, r.URL.Path) {
			s.serveNotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(filepath.Join(s.opts.OutputDir, notFoundPage))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(page)
}

// exists reports whether urlPath names a file or directory under root.
func exists(root, urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	if strings.Contains(clean, "\x00") {
		return false
	}
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(clean)))
	return err == nil
}

// Run binds opts.Addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return ferrors.NetworkError("failed to bind server address").
			WithCause(err).
			WithContext("addr", s.opts.Addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
// The periodic rebuild job runs for the lifetime of the server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if s.opts.Rebuild != nil && s.opts.RebuildInterval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			_ = ln.Close()
			return err
		}
		if _, err := sched.ScheduleRebuild(gctx, s.opts.RebuildInterval, s.opts.Rebuild); err != nil {
			_ = ln.Close()
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	g.Go(func() error {
		slog.Info("Site server listening", slog.String("addr", ln.Addr().String()),
			logfields.Path(s.opts.OutputDir), logfields.Target(s.opts.Target))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return ferrors.NetworkError("site server failed").WithCause(err).Build()
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return ferrors.NetworkError("site server shutdown failed").WithCause(err).Build()
		}
		slog.Info("Site server stopped")
		return nil
	})
	return g.Wait()
}

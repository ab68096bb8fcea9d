package preview

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/server/httpserver"
)

// Options configures a preview session.
type Options struct {
	// Sources are the directory trees whose changes trigger a rebuild.
	Sources []string
	// OutputDir is served and receives the reload script after each build.
	OutputDir string
	// Build produces OutputDir. Failures are logged; the last good output stays served.
	Build func(ctx context.Context) error
	// Server carries the remaining server wiring; OutputDir and LiveReload are overwritten.
	Server httpserver.Options
	// QuietWindow defaults to DefaultQuietWindow.
	QuietWindow time.Duration
	// Listener, when set, is used instead of binding Server.Addr.
	Listener net.Listener
}

// Run builds once, then serves the output and rebuilds on every source change
// until ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	hub := NewHub()
	defer hub.Shutdown()

	build := func(ctx context.Context) error {
		if err := opts.Build(ctx); err != nil {
			return err
		}
		if _, err := InjectScript(opts.OutputDir); err != nil {
			slog.Warn("Failed to inject livereload script", logfields.Error(err))
		}
		return nil
	}
	done := func(err error) {
		hash := strconv.FormatInt(time.Now().UnixNano(), 10)
		if err != nil {
			slog.Warn("Rebuild failed; serving previous output", logfields.Error(err))
			hub.Broadcast("error:" + hash)
			return
		}
		slog.Info("Site rebuilt", slog.Int("clients", hub.Clients()))
		hub.Broadcast(hash)
	}

	slog.Info("Building site for preview", logfields.Path(opts.OutputDir))
	done(build(ctx))

	watcher, err := NewWatcher(opts.Sources...)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuilder := NewRebuilder(build, done)
	debouncer := NewDebouncer(opts.QuietWindow, rebuilder.Request)
	defer debouncer.Stop()

	srvOpts := opts.Server
	srvOpts.OutputDir = opts.OutputDir
	srvOpts.LiveReload = hub
	srv := httpserver.New(srvOpts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if opts.Listener != nil {
			return srv.Serve(gctx, opts.Listener)
		}
		return srv.Run(gctx)
	})
	g.Go(func() error { return rebuilder.Run(gctx) })
	g.Go(func() error {
		return watcher.Run(gctx, func(string) { debouncer.Trigger() })
	})
	g.Go(func() error {
		<-gctx.Done()
		// Open event streams would otherwise hold the server's shutdown.
		hub.Shutdown()
		return nil
	})
	return g.Wait()
}

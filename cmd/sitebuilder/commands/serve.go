package commands

import (
	"context"
	"log/slog"

	"github.com/glitchidea/sitebuilder/internal/config"
	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/server/handlers"
	"github.com/glitchidea/sitebuilder/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr   string `short:"a" help:"Listen address (overrides server.addr)"`
	Build  bool   `short:"b" help:"Build the site before serving"`
	Target string `short:"t" help:"Target profile for builds (default: build.target)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	rt := newRuntime(ctx, cfg)
	defer rt.Close()

	buildOpts, err := cfg.BuildOptions(s.Target)
	if err != nil {
		return err
	}
	if s.Build {
		if _, err := buildOnce(ctx, cfg, rt, s.Target, ""); err != nil {
			return err
		}
	}

	opts, err := serverOptions(cfg, rt)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		opts.Addr = s.Addr
	}
	opts.Target = string(buildOpts.Profile.Name)
	if every := cfg.Server.RebuildEvery(); every > 0 {
		opts.RebuildInterval = every
		opts.Rebuild = func(ctx context.Context) error {
			_, err := buildOnce(ctx, cfg, rt, s.Target, "")
			return err
		}
	}

	slog.Info("Starting site server", logfields.Path(opts.OutputDir), slog.String("addr", opts.Addr))
	return httpserver.New(opts).Run(ctx)
}

// serverOptions maps configuration onto the server wiring shared by serve and preview.
func serverOptions(cfg *config.Config, rt *runtime) (httpserver.Options, error) {
	relay, err := rt.relay()
	if err != nil {
		return httpserver.Options{}, err
	}
	return httpserver.Options{
		Addr:           cfg.Server.Addr,
		OutputDir:      cfg.Paths.Output,
		Content:        handlers.DirSource{Dir: cfg.Paths.Content},
		CORSOrigin:     cfg.Server.CORSOrigin,
		Relay:          relay,
		History:        rt.history,
		Recorder:       rt.recorder,
		MetricsHandler: rt.metricsHandler(),
	}, nil
}

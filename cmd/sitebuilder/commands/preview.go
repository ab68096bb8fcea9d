package commands

import (
	"context"

	"github.com/glitchidea/sitebuilder/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Addr   string `short:"a" help:"Listen address (overrides server.addr)"`
	Target string `short:"t" help:"Target profile to preview" default:"root-domain"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	rt := newRuntime(ctx, cfg)
	defer rt.Close()

	srvOpts, err := serverOptions(cfg, rt)
	if err != nil {
		return err
	}
	if p.Addr != "" {
		srvOpts.Addr = p.Addr
	}
	buildOpts, err := cfg.BuildOptions(p.Target)
	if err != nil {
		return err
	}
	srvOpts.Target = string(buildOpts.Profile.Name)

	return preview.Run(ctx, preview.Options{
		Sources:   []string{cfg.Paths.Content, cfg.Paths.Templates, cfg.Paths.Assets},
		OutputDir: cfg.Paths.Output,
		Server:    srvOpts,
		Build: func(ctx context.Context) error {
			_, err := buildOnce(ctx, cfg, rt, p.Target, "")
			return err
		},
	})
}

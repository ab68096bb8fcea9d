package commands

import (
	"fmt"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/publish"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	Target  string `short:"t" help:"Target profile to build before publishing" default:"sub-path"`
	NoBuild bool   `name:"no-build" help:"Publish the existing output without rebuilding"`
	Branch  string `help:"Publish branch (overrides publish.branch)"`
	Remote  string `help:"Remote URL (overrides publish.remote_url)"`
	Message string `short:"m" help:"Commit message"`
}

func (p *PublishCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if !p.NoBuild {
		rt := newRuntime(ctx, cfg)
		_, err := buildOnce(ctx, cfg, rt, p.Target, "")
		rt.Close()
		if err != nil {
			return ferrors.BuildError("build failed; nothing published").WithCause(err).Build()
		}
	}

	opts := publish.Options{
		OutputDir:   cfg.Paths.Output,
		RemoteURL:   cfg.Publish.RemoteURL,
		Branch:      cfg.Publish.Branch,
		Token:       cfg.Publish.Token,
		AuthorName:  cfg.Publish.AuthorName,
		AuthorEmail: cfg.Publish.AuthorEmail,
		Message:     p.Message,
	}
	if p.Remote != "" {
		opts.RemoteURL = p.Remote
	}
	if p.Branch != "" {
		opts.Branch = p.Branch
	}

	res, err := publish.Publish(ctx, opts)
	if err != nil {
		return err
	}
	if res.Unchanged {
		fmt.Printf("Output unchanged; %s already at %s\n", res.Branch, shortID(res.Commit))
		return nil
	}
	fmt.Printf("Published %d files to %s at %s\n", res.Files, res.Branch, shortID(res.Commit))
	return nil
}

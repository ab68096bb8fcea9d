package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/glitchidea/sitebuilder/internal/config"
)

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitebuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build           BuildCmd           `cmd:"" help:"Build the site for a target profile"`
	BuildCloudflare BuildCloudflareCmd `cmd:"" name:"build-cloudflare" help:"Build for a root-domain host such as Cloudflare Pages"`
	BuildStatic     BuildStaticCmd     `cmd:"" name:"build-static" help:"Build a relocatable export for any static host"`
	BuildGithub     BuildGithubCmd     `cmd:"" name:"build-github" help:"Build for a sub-path host such as GitHub Pages project sites"`
	Init            InitCmd            `cmd:"" help:"Write an example configuration and the default templates"`
	Validate        ValidateCmd        `cmd:"" help:"Parse and schema-check the content documents"`
	Serve           ServeCmd           `cmd:"" help:"Serve the built site with the content API and contact endpoint"`
	Preview         PreviewCmd         `cmd:"" help:"Build, serve and rebuild on every source change"`
	Publish         PublishCmd         `cmd:"" help:"Commit the build output to the publish branch and push it"`
	History         HistoryCmd         `cmd:"" help:"List recent builds from the event store"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honors -v first, then SITEBUILDER_LOG_LEVEL, then Info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SITEBUILDER_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

package commands

import (
	"context"
	"fmt"

	"github.com/glitchidea/sitebuilder/internal/build"
	"github.com/glitchidea/sitebuilder/internal/config"
	"github.com/glitchidea/sitebuilder/internal/target"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Target string `short:"t" help:"Target profile: root-domain, generic-static or sub-path (default: build.target)"`
	Output string `short:"o" help:"Output directory (overrides paths.output)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	return runBuildCommand(root, b.Target, b.Output)
}

// BuildCloudflareCmd implements 'build-cloudflare'.
type BuildCloudflareCmd struct {
	Output string `short:"o" help:"Output directory (overrides paths.output)"`
}

func (b *BuildCloudflareCmd) Run(_ *Global, root *CLI) error {
	return runBuildCommand(root, string(target.RootDomain), b.Output)
}

// BuildStaticCmd implements 'build-static'.
type BuildStaticCmd struct {
	Output string `short:"o" help:"Output directory (overrides paths.output)"`
}

func (b *BuildStaticCmd) Run(_ *Global, root *CLI) error {
	return runBuildCommand(root, string(target.GenericStatic), b.Output)
}

// BuildGithubCmd implements 'build-github'.
type BuildGithubCmd struct {
	Output string `short:"o" help:"Output directory (overrides paths.output)"`
}

func (b *BuildGithubCmd) Run(_ *Global, root *CLI) error {
	return runBuildCommand(root, string(target.SubPath), b.Output)
}

func runBuildCommand(root *CLI, targetName, output string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	rt := newRuntime(ctx, cfg)
	defer rt.Close()

	_, err = buildOnce(ctx, cfg, rt, targetName, output)
	return err
}

// buildOnce runs one build and prints its summary line.
func buildOnce(ctx context.Context, cfg *config.Config, rt *runtime, targetName, output string) (*build.BuildResult, error) {
	opts, err := cfg.BuildOptions(targetName)
	if err != nil {
		return nil, err
	}
	if output != "" {
		opts.OutputDir = output
	}
	fmt.Printf("Building %s site into %s\n", opts.Profile.Name, opts.OutputDir)
	res, err := rt.service().Run(ctx, opts)
	if res != nil && res.Report != nil {
		fmt.Printf("Build %s: %s\n", res.Status, res.Report.Summary())
		for _, ref := range res.Report.BrokenAssets {
			fmt.Printf("  missing asset: %s\n", ref)
		}
	}
	return res, err
}

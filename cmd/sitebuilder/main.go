package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/glitchidea/sitebuilder/cmd/sitebuilder/commands"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sitebuilder"),
		kong.Description("Build a portfolio site from JSON content and HTML fragments for any static host."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := parser.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}

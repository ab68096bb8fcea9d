package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to list" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.State.EventStorePath == "" {
		return ferrors.ConfigError("build history requires state.eventstore_path").Build()
	}
	rt := newRuntime(context.Background(), cfg)
	defer rt.Close()
	if rt.history == nil {
		return ferrors.RuntimeError("event store could not be opened").
			WithContext("path", cfg.State.EventStorePath).
			Build()
	}

	builds := rt.history.History(h.Limit)
	if len(builds) == 0 {
		fmt.Println("No builds recorded")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tTARGET\tOUTCOME\tSTARTED\tDURATION\tBROKEN ASSETS")
	for _, b := range builds {
		outcome := b.Outcome
		if b.FailedStage != "" {
			outcome += " (" + b.FailedStage + ")"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			shortID(b.BuildID), b.Target, outcome,
			b.StartedAt.Local().Format(time.DateTime),
			b.Duration.Round(time.Millisecond), b.BrokenAssets)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

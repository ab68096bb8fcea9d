package commands

import (
	"errors"
	"fmt"

	"github.com/glitchidea/sitebuilder/internal/content"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/layout"
	"github.com/glitchidea/sitebuilder/internal/render"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	SkipTemplates bool `name:"skip-templates" help:"Only check the content documents"`
}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	fmt.Printf("Checking content in %s\n", cfg.Paths.Content)
	store, err := content.LoadAll(cfg.Paths.Content)
	if err != nil {
		return err
	}
	for _, doc := range store.Documents() {
		state := "ok"
		if !doc.Present {
			state = "missing (empty default)"
		}
		fmt.Printf("  %-14s %s\n", doc.Name.FileName(), state)
	}

	if err := content.Validate(store); err != nil {
		var se *content.SchemaError
		if !errors.As(err, &se) {
			return err
		}
		for _, violation := range se.Violations {
			fmt.Printf("  violation: %s\n", violation)
		}
		return ferrors.ContentError("content documents do not match their schema").
			WithCause(err).
			WithContext("violations", len(se.Violations)).
			Build()
	}

	if !v.SkipTemplates {
		fmt.Printf("Checking templates in %s\n", cfg.Paths.Templates)
		r, err := render.New(cfg.Paths.Templates)
		if err != nil {
			return err
		}
		if err := layout.Validate(r.Layout()); err != nil {
			return ferrors.ValidationError("layout template is malformed").
				WithCause(err).
				WithContext("path", cfg.Paths.Templates).
				Build()
		}
	}

	fmt.Println("Validation passed")
	return nil
}

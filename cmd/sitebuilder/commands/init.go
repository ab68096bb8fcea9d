package commands

import (
	"fmt"
	"path/filepath"

	"github.com/glitchidea/sitebuilder/internal/config"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/render"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force       bool   `help:"Overwrite existing configuration file"`
	Templates   string `help:"Directory to receive the default templates" default:"templates"`
	NoTemplates bool   `name:"no-templates" help:"Only write the configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Println("Initializing sitebuilder project")
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	if !i.NoTemplates {
		dir := i.Templates
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(root.Config), dir)
		}
		written, err := render.WriteDefaults(dir)
		if err != nil {
			return ferrors.FileSystemError("failed to write default templates").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
		fmt.Printf("Wrote %d template files to %s\n", len(written), dir)
	}
	fmt.Println("initialized successfully")
	return nil
}

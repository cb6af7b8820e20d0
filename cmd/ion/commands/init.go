package commands

import (
	"fmt"

	"git.home.luguber.info/inful/ion/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	written, err := config.Init(root.Dir, i.Force)
	if err != nil {
		return err
	}
	for _, path := range written {
		_, _ = fmt.Fprintf(g.Stdout, "Wrote %s\n", path)
	}
	_, _ = fmt.Fprintln(g.Stdout, "Site initialized, create a page with 'ion spark <folder>'")
	return nil
}

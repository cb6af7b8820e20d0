package commands

import (
	"git.home.luguber.info/inful/ion/internal/render"
)

// ChargeCmd implements the 'charge' command.
type ChargeCmd struct {
	Path string `arg:"" optional:"" default:"." help:"Folder to generate, relative to the site root"`
}

func (c *ChargeCmd) Run(g *Global, root *CLI) error {
	site, err := loadSite(g, root)
	if err != nil {
		return err
	}
	rec, reg := newRecorder(site)
	r := render.New(site,
		render.WithLogger(g.Logger),
		render.WithRecorder(rec),
		render.WithPageHook(pagePrinter(g.Stdout)))

	ctx, cancel := signalContext()
	defer cancel()

	_, err = r.Render(ctx, c.Path)
	writeMetrics(g, site, reg)
	return err
}

package commands

import (
	"time"

	"git.home.luguber.info/inful/ion/internal/render"
	"git.home.luguber.info/inful/ion/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Path     string        `arg:"" optional:"" default:"." help:"Folder to generate, relative to the site root"`
	Debounce time.Duration `help:"Quiet period after a change before regenerating" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
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

	watcher := watch.New(site, r, w.Path,
		watch.WithDebounce(w.Debounce),
		watch.WithLogger(g.Logger),
		watch.WithAfterRender(func(*render.Report, error) { writeMetrics(g, site, reg) }))
	return watcher.Run(ctx)
}

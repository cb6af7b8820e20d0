package commands

import (
	"fmt"

	"git.home.luguber.info/inful/ion/internal/scaffold"
)

// SparkCmd implements the 'spark' command.
type SparkCmd struct {
	Path string `arg:"" help:"Folder of the new page, relative to the site root"`
}

func (s *SparkCmd) Run(g *Global, root *CLI) error {
	site, err := loadSite(g, root)
	if err != nil {
		return err
	}
	res, err := scaffold.New(site, scaffold.WithLogger(g.Logger)).Spark(s.Path)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout, res.Message())
	return nil
}

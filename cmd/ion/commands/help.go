package commands

import "github.com/alecthomas/kong"

// HelpCmd implements the 'help' command.
type HelpCmd struct{}

func (h *HelpCmd) Run(kctx *kong.Context) error {
	return kctx.PrintUsage(false)
}

package main

import (
	"os"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"

	"git.home.luguber.info/inful/ion/cmd/ion/commands"
)

func main() {
	var cli commands.CLI
	parser, err := commands.NewParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	global := commands.NewGlobal()
	if err := kctx.Run(global, &cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}

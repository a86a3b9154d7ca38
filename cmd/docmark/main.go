package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docmark/cmd/docmark/commands"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

func main() {
	err := commands.Execute(commands.NewGlobal(), os.Args[1:])
	if err != nil {
		verbose := false
		for _, a := range os.Args[1:] {
			if a == "-v" || a == "--verbose" {
				verbose = true
			}
		}
		errors.NewCLIErrorAdapter(verbose, slog.Default()).HandleError(err)
	}
}

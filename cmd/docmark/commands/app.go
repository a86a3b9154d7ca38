package commands

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docmark/internal/version"
)

// NewParser builds the kong parser for cli.
func NewParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("docmark"),
		kong.Description("Render markdown documents to HTML or styled terminal text."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	}
	return kong.New(cli, append(base, options...)...)
}

// Execute parses args and runs the selected command.
func Execute(g *Global, args []string, options ...kong.Option) error {
	var cli CLI
	parser, err := NewParser(&cli, options...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(g, &cli)
}

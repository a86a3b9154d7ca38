package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"git.home.luguber.info/inful/docmark/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	// An output directory gets the default file name.
	if i.Output != "" {
		return RunInit(g.Stdout, filepath.Join(i.Output, config.DefaultPath), i.Force)
	}
	return RunInit(g.Stdout, root.Config, i.Force)
}

func RunInit(w io.Writer, configPath string, force bool) error {
	fmt.Fprintf(w, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Fprintln(w, "Initialization failed")
		return err
	}
	fmt.Fprintln(w, "initialized successfully")
	return nil
}

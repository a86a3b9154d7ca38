package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docmark/internal/build"
	"git.home.luguber.info/inful/docmark/internal/config"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/logfields"
)

const stdinName = "-"

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Input  string `arg:"" optional:"" default:"-" help:"Markdown file or directory to render; '-' reads stdin."`
	Format string `short:"f" help:"Output format (html, ansi). Defaults to output.format from the config."`
	Output string `short:"o" help:"Output file, or output directory when rendering a directory."`
	Title  string `help:"Page title for complete HTML pages (overrides frontmatter)."`
	Color  string `enum:"auto,always,never" default:"auto" help:"Color for ansi output (auto, always, never)."`
	Drafts bool   `help:"Include documents marked draft when rendering a directory."`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	format, err := formatFlag(r.Format)
	if err != nil {
		return err
	}

	ctx, cancel := g.signalContext()
	defer cancel()

	if r.Input != stdinName {
		if info, statErr := os.Stat(r.Input); statErr == nil && info.IsDir() {
			return r.renderTree(ctx, cfg, format)
		}
	}

	out := g.Stdout
	if r.Output != "" {
		f, err := os.Create(r.Output)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output file").
				WithContext("path", r.Output).
				Build()
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	svc := build.NewRenderService(cfg).WithProfile(colorProfile(r.Color, out))
	content, name, err := r.readInput(g.Stdin)
	if err != nil {
		return err
	}
	res, err := svc.Render(ctx, build.RenderRequest{
		Name:    name,
		Content: content,
		Format:  format,
		Title:   r.Title,
	})
	if err != nil {
		return err
	}
	if _, err := out.Write(res.Output); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").Build()
	}
	return nil
}

func (r *RenderCmd) readInput(stdin io.Reader) ([]byte, string, error) {
	if r.Input == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read stdin").Build()
		}
		return data, "<stdin>", nil
	}
	data, err := os.ReadFile(r.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.NotFoundError("input file not found").WithContext("path", r.Input).Build()
		}
		return nil, "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read input").
			WithContext("path", r.Input).
			Build()
	}
	return data, r.Input, nil
}

func (r *RenderCmd) renderTree(ctx context.Context, cfg *config.Config, format config.OutputFormat) error {
	outDir := r.Output
	if outDir == "" {
		outDir = cfg.Output.Directory
	}
	if outDir == "" {
		return errors.ValidationError("rendering a directory needs --output or output.directory").
			WithContext("input", r.Input).
			Build()
	}

	svc := build.NewRenderService(cfg).WithProfile(colorProfile(r.Color, nil))
	res, err := svc.RenderTree(ctx, r.Input, outDir, build.FileOptions{
		Format:        format,
		IncludeDrafts: r.Drafts,
	})
	if err != nil {
		return err
	}
	slog.Info("Render complete", logfields.Path(outDir), slog.Int("documents", res.Rendered))
	if res.Rendered+res.Drafts+res.Skipped == 0 {
		return errors.NotFoundError(fmt.Sprintf("no markdown documents found in %s", r.Input)).Build()
	}
	return nil
}

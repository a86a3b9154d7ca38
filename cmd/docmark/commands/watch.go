package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docmark/internal/build"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/logfields"
	"git.home.luguber.info/inful/docmark/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Source string `arg:"" optional:"" help:"Docs directory to watch. Defaults to server.docs_dir from the config."`
	Output string `short:"o" help:"Output directory. Defaults to output.directory from the config."`
	Format string `short:"f" help:"Output format (html, ansi)."`
	Drafts bool   `help:"Include documents marked draft."`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	format, err := formatFlag(c.Format)
	if err != nil {
		return err
	}
	src := c.Source
	if src == "" {
		src = cfg.Server.DocsDir
	}
	out := c.Output
	if out == "" {
		out = cfg.Output.Directory
	}
	if out == "" {
		return errors.ValidationError("watch needs --output or output.directory").Build()
	}

	ctx, cancel := g.signalContext()
	defer cancel()

	tracker := build.NewFingerprintTracker()
	svc := build.NewRenderService(cfg).WithSkipEvaluator(tracker)
	opts := build.FileOptions{Format: format, IncludeDrafts: c.Drafts, SkipIfUnchanged: true}
	if opts.Format == "" {
		opts.Format = cfg.Output.Format
	}

	w, err := watch.New(src, cfg.DebounceDuration())
	if err != nil {
		return err
	}
	if _, err := svc.RenderTree(ctx, src, out, opts); err != nil {
		// the first pass reports broken documents; keep watching so they can be fixed
		slog.Warn("Initial render had failures", logfields.Error(err))
	}
	fmt.Fprintf(g.Stdout, "Watching %s, writing to %s\n", src, out)

	return w.Run(ctx, newRebuildHandler(svc, tracker, src, out, opts))
}

// newRebuildHandler re-renders changed documents. Deleted documents have
// their output removed and their fingerprint forgotten; directories that
// appear are rendered as a whole.
func newRebuildHandler(svc *build.DefaultRenderService, tracker *build.FingerprintTracker, src, out string, opts build.FileOptions) watch.Handler {
	return func(ctx context.Context, changed []string) {
		for _, p := range changed {
			rel, err := filepath.Rel(src, p)
			if err != nil {
				continue
			}
			info, statErr := os.Stat(p)
			switch {
			case statErr == nil && info.IsDir():
				if _, err := svc.RenderTree(ctx, p, filepath.Join(out, rel), opts); err != nil {
					slog.Warn("Re-render failed", logfields.Path(rel), logfields.Error(err))
				}
			case !build.IsMarkdownFile(p):
				continue
			case os.IsNotExist(statErr):
				tracker.Forget(p)
				target := filepath.Join(out, build.OutputPath(rel, opts.Format))
				if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
					slog.Warn("Failed to remove output", logfields.Path(target), logfields.Error(err))
				}
				slog.Info("Document removed", logfields.Path(rel))
			default:
				res, err := svc.RenderFile(ctx, p, filepath.Join(out, build.OutputPath(rel, opts.Format)), opts)
				if err != nil {
					slog.Warn("Re-render failed", logfields.Path(rel), logfields.Error(err))
					continue
				}
				slog.Info("Document rendered", logfields.Path(rel), slog.String("status", string(res.Status)))
			}
		}
	}
}

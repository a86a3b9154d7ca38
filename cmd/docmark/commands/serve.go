package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docmark/internal/build"
	"git.home.luguber.info/inful/docmark/internal/metrics"
	"git.home.luguber.info/inful/docmark/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	DocsDir string `short:"d" name:"docs-dir" help:"Docs directory to serve. Defaults to server.docs_dir from the config."`
	Addr    string `name:"addr" help:"Listen address. Defaults to server.address from the config."`
	Drafts  bool   `help:"Serve documents marked draft."`
}

func (c *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if c.DocsDir == "" {
		c.DocsDir = cfg.Server.DocsDir
	}
	if c.Addr == "" {
		c.Addr = cfg.Server.Address
	}

	ctx, cancel := g.signalContext()
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := build.NewRenderService(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg))

	srv := server.New(svc, server.Options{
		Address:       c.Addr,
		DocsDir:       c.DocsDir,
		MetricsPath:   cfg.Server.MetricsPath,
		Metrics:       metrics.HTTPHandler(reg),
		IncludeDrafts: c.Drafts,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "Serving %s on http://%s\n", c.DocsDir, srv.Addr())

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping server...")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return srv.Stop(stopCtx)
}

package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/muesli/termenv"

	"git.home.luguber.info/inful/docmark/internal/config"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

// Global carries process level state shared by subcommands.
type Global struct {
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Context is the parent of every command context; nil means
	// context.Background().
	Context context.Context
}

// NewGlobal returns a Global bound to the process streams.
func NewGlobal() *Global {
	return &Global{
		Logger: slog.Default(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func (g *Global) signalContext() (context.Context, context.CancelFunc) {
	parent := g.Context
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docmark.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render a markdown file or directory to HTML or terminal text"`
	Links  LinksCmd  `cmd:"" help:"List links in markdown files and check local targets"`
	Watch  WatchCmd  `cmd:"" help:"Re-render a directory whenever its markdown changes"`
	Serve  ServeCmd  `cmd:"" help:"Serve a docs directory as HTML rendered on request"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it installs a logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(NewLogger(os.Stderr, level, config.LogFormatText))
	return nil
}

// NewLogger builds the slog logger described by level and format.
func NewLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LoadConfig reads the configuration file and reconfigures logging from it.
// A missing file at the default path is not an error: built-in defaults
// are used instead.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		if c.Config != config.DefaultPath || !errors.HasCategory(err, errors.CategoryNotFound) {
			return nil, err
		}
		cfg = config.Default()
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	stderr := g.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	g.Logger = NewLogger(stderr, level, cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// colorProfile resolves the --color flag for output written to w.
func colorProfile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case "always":
		return termenv.TrueColor
	case "never":
		return termenv.Ascii
	}
	if f, ok := w.(*os.File); ok {
		return termenv.NewOutput(f).EnvColorProfile()
	}
	return termenv.Ascii
}

// formatFlag parses an optional --format value; empty keeps the configured one.
func formatFlag(raw string) (config.OutputFormat, error) {
	if raw == "" {
		return "", nil
	}
	f, err := config.ParseOutputFormat(raw)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "invalid --format").Build()
	}
	return f, nil
}

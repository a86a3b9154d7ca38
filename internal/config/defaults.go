package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/docmark/markdown"
)

const (
	currentVersion  = "1"
	defaultDebounce = 200 * time.Millisecond
)

// DefaultApplier applies defaults for one configuration section.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type markdownDefaults struct{}

func (markdownDefaults) Domain() string { return "markdown" }

func (markdownDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Markdown.Extensions == nil {
		cfg.Markdown.Extensions = []string{"common"}
	}
	if cfg.Markdown.MaxNesting == 0 {
		cfg.Markdown.MaxNesting = markdown.DefaultMaxNesting
	}
	return nil
}

type htmlDefaults struct{}

func (htmlDefaults) Domain() string { return "html" }

func (htmlDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.HTML.Flags == nil {
		cfg.HTML.Flags = []string{"common"}
	}
	return nil
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Format == "" {
		cfg.Output.Format = OutputFormatHTML
	}
	if cfg.Output.Width == 0 {
		cfg.Output.Width = 80
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Address == "" {
		cfg.Server.Address = "127.0.0.1:8080"
	}
	if cfg.Server.DocsDir == "" {
		cfg.Server.DocsDir = "docs"
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = "/metrics"
	}
	return nil
}

type watchDefaults struct{}

func (watchDefaults) Domain() string { return "watch" }

func (watchDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultDebounce.String()
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	markdownDefaults{},
	htmlDefaults{},
	outputDefaults{},
	loggingDefaults{},
	serverDefaults{},
	watchDefaults{},
}

func applyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = currentVersion
	}
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

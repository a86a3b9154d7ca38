package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docmark.yaml"

// Config is the docmark configuration file.
type Config struct {
	Version  string         `yaml:"version"`
	Markdown MarkdownConfig `yaml:"markdown"`
	HTML     HTMLConfig     `yaml:"html"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Watch    WatchConfig    `yaml:"watch"`
}

// MarkdownConfig selects the dialect.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"` // extension names, "common" allowed
	MaxNesting int      `yaml:"max_nesting,omitempty"`
}

// HTMLConfig configures the HTML renderer.
type HTMLConfig struct {
	Flags                []string `yaml:"flags"`
	Title                string   `yaml:"title,omitempty"`
	CSS                  string   `yaml:"css,omitempty"`
	HighlightStyle       string   `yaml:"highlight_style,omitempty"`
	FootnoteAnchorPrefix string   `yaml:"footnote_anchor_prefix,omitempty"`
	AbsolutePrefix       string   `yaml:"absolute_prefix,omitempty"`
}

// OutputConfig controls where and how rendered documents are written.
type OutputConfig struct {
	Format    OutputFormat `yaml:"format"`
	Directory string       `yaml:"directory,omitempty"` // empty writes to stdout
	Width     int          `yaml:"width,omitempty"`     // terminal wrap width
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ServerConfig configures `docmark serve`.
type ServerConfig struct {
	Address     string `yaml:"address"`
	DocsDir     string `yaml:"docs_dir"`
	MetricsPath string `yaml:"metrics_path"`
}

// WatchConfig configures `docmark watch`.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DebounceDuration parses Watch.Debounce; defaults guarantee it is valid.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	if err := applyDefaults(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configPath after loading .env files, expands ${VAR}
// references, then normalizes, defaults and validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

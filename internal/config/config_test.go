package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/markdown"
	"git.home.luguber.info/inful/docmark/markdown/html"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, []string{"common"}, cfg.Markdown.Extensions)
	assert.Equal(t, markdown.DefaultMaxNesting, cfg.Markdown.MaxNesting)
	assert.Equal(t, OutputFormatHTML, cfg.Output.Format)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Equal(t, 200*time.Millisecond, cfg.DebounceDuration())
	require.NoError(t, ValidateConfig(cfg))
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("DOCMARK_TEST_TITLE", "Handbook")
	path := writeConfig(t, `
version: "1"
markdown:
  extensions: [tables, fenced-code, Footnotes]
  max_nesting: 8
html:
  flags: [safelink, use_xhtml]
  title: ${DOCMARK_TEST_TITLE}
  highlight_style: Monokai
output:
  format: Terminal
  width: 100
logging:
  level: DEBUG
  format: json
watch:
  debounce: 1s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, OutputFormatANSI, cfg.Output.Format)
	assert.Equal(t, 100, cfg.Output.Width)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, time.Second, cfg.DebounceDuration())
	assert.Equal(t, "monokai", cfg.HTML.HighlightStyle)

	mopts, err := cfg.MarkdownOptions()
	require.NoError(t, err)
	assert.Equal(t, markdown.Tables|markdown.FencedCode|markdown.Footnotes, mopts.Extensions)
	assert.Equal(t, 8, mopts.MaxNesting)

	hopts, err := cfg.HTMLOptions("")
	require.NoError(t, err)
	assert.Equal(t, html.Safelink|html.UseXHTML, hopts.Flags)
	assert.Equal(t, "Handbook", hopts.Title)

	hopts, err = cfg.HTMLOptions("From Frontmatter")
	require.NoError(t, err)
	assert.Equal(t, "From Frontmatter", hopts.Title)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		category errors.ErrorCategory
	}{
		{"unknown key", "markdown:\n  extentions: [tables]\n", errors.CategoryConfig},
		{"bad yaml", "markdown: [\n", errors.CategoryConfig},
		{"wrong version", "version: \"2\"\n", errors.CategoryConfig},
		{"unknown extension", "markdown:\n  extensions: [smartypants]\n", errors.CategoryValidation},
		{"negative nesting", "markdown:\n  max_nesting: -3\n", errors.CategoryValidation},
		{"unknown flag", "html:\n  flags: [shiny]\n", errors.CategoryValidation},
		{"unknown style", "html:\n  highlight_style: no-such-style\n", errors.CategoryValidation},
		{"unknown format", "output:\n  format: pdf\n", errors.CategoryValidation},
		{"bad width", "output:\n  width: -5\n", errors.CategoryValidation},
		{"bad debounce", "watch:\n  debounce: soon\n", errors.CategoryValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.category, errors.GetCategory(err))
		})
	}
}

func TestParse_EmptyListsKept(t *testing.T) {
	cfg, err := Parse([]byte("markdown:\n  extensions: []\nhtml:\n  flags: []\n"))
	require.NoError(t, err)
	mopts, err := cfg.MarkdownOptions()
	require.NoError(t, err)
	assert.Equal(t, markdown.NoExtensions, mopts.Extensions)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("DOCMARK_TEST_CSS=/site.css\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DOCMARK_TEST_CSS") })

	path := writeConfig(t, "html:\n  css: ${DOCMARK_TEST_CSS}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/site.css", cfg.HTML.CSS)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docmark.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Markdown.Extensions, "footnotes")
	assert.Equal(t, "github", cfg.HTML.HighlightStyle)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoError(t, Init(path, true))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "WARN", NormalizeLogLevel("warning").SlogLevel().String())
	assert.Equal(t, "INFO", NormalizeLogLevel("bogus").SlogLevel().String())
}

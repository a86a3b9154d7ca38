package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

// Init writes an example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Markdown.Extensions = []string{"common", "footnotes", "auto_header_ids"}
	example.HTML.Flags = []string{"use_xhtml", "footnote_return_links"}
	example.HTML.Title = "Documentation"
	example.HTML.HighlightStyle = "github"
	example.Server.DocsDir = "${DOCMARK_DOCS_DIR}"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

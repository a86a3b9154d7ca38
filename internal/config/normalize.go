package config

import (
	"strings"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

// normalize canonicalizes enum fields before defaults are applied, so an
// empty field can still be told apart from an invalid one.
func normalize(cfg *Config) error {
	if raw := string(cfg.Logging.Level); raw != "" {
		cfg.Logging.Level = NormalizeLogLevel(raw)
	}
	if raw := string(cfg.Logging.Format); raw != "" {
		cfg.Logging.Format = NormalizeLogFormat(raw)
	}
	if raw := string(cfg.Output.Format); raw != "" {
		format, err := ParseOutputFormat(raw)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "invalid output format").
				WithContext("field", "output.format").
				Build()
		}
		cfg.Output.Format = format
	}
	cfg.HTML.HighlightStyle = strings.TrimSpace(cfg.HTML.HighlightStyle)
	return nil
}

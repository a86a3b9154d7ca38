package config

import (
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/markdown"
	"git.home.luguber.info/inful/docmark/markdown/html"
)

// ValidateConfig checks a defaulted configuration section by section.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if cv.config.Version != currentVersion {
		return errors.ConfigError("unsupported configuration version").
			WithContext("version", cv.config.Version).
			WithContext("expected", currentVersion).
			Build()
	}
	for _, check := range []func() error{
		cv.validateMarkdown,
		cv.validateHTML,
		cv.validateOutput,
		cv.validateWatch,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateMarkdown() error {
	if _, err := markdown.ParseExtensions(cv.config.Markdown.Extensions); err != nil {
		return err
	}
	if cv.config.Markdown.MaxNesting < 1 {
		return errors.ValidationError("max_nesting must be positive").
			WithContext("field", "markdown.max_nesting").
			WithContext("value", cv.config.Markdown.MaxNesting).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateHTML() error {
	if _, err := html.ParseFlags(cv.config.HTML.Flags); err != nil {
		return err
	}
	style := cv.config.HTML.HighlightStyle
	if style == "" {
		return nil
	}
	names := html.StyleNames()
	i := slices.IndexFunc(names, func(name string) bool { return strings.EqualFold(name, style) })
	if i < 0 {
		return errors.ValidationError("unknown highlight style").
			WithContext("field", "html.highlight_style").
			WithContext("value", style).
			Build()
	}
	cv.config.HTML.HighlightStyle = names[i]
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	if cv.config.Output.Width < 0 && cv.config.Output.Width != -1 {
		return errors.ValidationError("width must be positive, or -1 to disable wrapping").
			WithContext("field", "output.width").
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	d, err := time.ParseDuration(cv.config.Watch.Debounce)
	if err != nil || d < 0 {
		return errors.ValidationError("invalid debounce duration").
			WithContext("field", "watch.debounce").
			WithContext("value", cv.config.Watch.Debounce).
			Build()
	}
	return nil
}

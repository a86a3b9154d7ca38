package config

import (
	"git.home.luguber.info/inful/docmark/markdown"
	"git.home.luguber.info/inful/docmark/markdown/html"
)

// MarkdownOptions converts the markdown section into parser options.
func (c *Config) MarkdownOptions() (markdown.Options, error) {
	ext, err := markdown.ParseExtensions(c.Markdown.Extensions)
	if err != nil {
		return markdown.Options{}, err
	}
	return markdown.Options{Extensions: ext, MaxNesting: c.Markdown.MaxNesting}, nil
}

// HTMLOptions converts the html section into renderer options. title, when
// not empty, overrides the configured page title.
func (c *Config) HTMLOptions(title string) (html.Options, error) {
	flags, err := html.ParseFlags(c.HTML.Flags)
	if err != nil {
		return html.Options{}, err
	}
	if title == "" {
		title = c.HTML.Title
	}
	return html.Options{
		Flags:                flags,
		Title:                title,
		CSS:                  c.HTML.CSS,
		FootnoteAnchorPrefix: c.HTML.FootnoteAnchorPrefix,
		AbsolutePrefix:       c.HTML.AbsolutePrefix,
		HighlightStyle:       c.HTML.HighlightStyle,
	}, nil
}

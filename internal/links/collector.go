package links

import (
	"bytes"

	"git.home.luguber.info/inful/docmark/markdown"
)

// collector is a Renderer that records link targets and renders nothing
// else of interest. Code spans and code blocks never reach Link, so links
// inside code are not collected.
type collector struct {
	links []Link
}

var _ markdown.Renderer = (*collector)(nil)

func (c *collector) add(kind LinkKind, link, title []byte) {
	c.links = append(c.links, Link{Kind: kind, Destination: string(link), Title: string(title)})
}

func (c *collector) BlockCode(*bytes.Buffer, []byte, string) error { return nil }
func (c *collector) BlockQuote(*bytes.Buffer, []byte) error         { return nil }
func (c *collector) BlockHTML(*bytes.Buffer, []byte) error          { return nil }
func (c *collector) HRule(*bytes.Buffer) error                      { return nil }
func (c *collector) LineBreak(*bytes.Buffer) error                  { return nil }
func (c *collector) DocumentHeader(*bytes.Buffer) error             { return nil }
func (c *collector) DocumentFooter(*bytes.Buffer) error             { return nil }
func (c *collector) TitleBlock(*bytes.Buffer, []byte) error         { return nil }

func (c *collector) Header(_ *bytes.Buffer, text func() bool, _ int, _ string) error {
	text()
	return nil
}

func (c *collector) List(_ *bytes.Buffer, text func() bool, _ markdown.ListType) error {
	text()
	return nil
}

func (c *collector) Paragraph(_ *bytes.Buffer, text func() bool) error {
	text()
	return nil
}

func (c *collector) Footnotes(_ *bytes.Buffer, text func() bool) error {
	text()
	return nil
}

func (c *collector) ListItem(*bytes.Buffer, []byte, markdown.ListType) error { return nil }
func (c *collector) Table(*bytes.Buffer, []byte, []byte, []markdown.CellAlignment) error {
	return nil
}
func (c *collector) TableRow(*bytes.Buffer, []byte) error                               { return nil }
func (c *collector) TableHeaderCell(*bytes.Buffer, []byte, markdown.CellAlignment) error { return nil }
func (c *collector) TableCell(*bytes.Buffer, []byte, markdown.CellAlignment) error       { return nil }
func (c *collector) FootnoteItem(*bytes.Buffer, []byte, []byte, markdown.ListType) error {
	return nil
}

func (c *collector) AutoLink(_ *bytes.Buffer, link []byte, kind markdown.LinkType) error {
	if kind == markdown.LinkTypeEmail && !bytes.HasPrefix(link, []byte("mailto:")) {
		link = append([]byte("mailto:"), link...)
	}
	c.add(LinkKindAuto, link, nil)
	return nil
}

func (c *collector) Image(_ *bytes.Buffer, link, title, _ []byte) error {
	c.add(LinkKindImage, link, title)
	return nil
}

func (c *collector) Link(_ *bytes.Buffer, link, title, _ []byte) error {
	c.add(LinkKindInline, link, title)
	return nil
}

func (c *collector) CodeSpan(*bytes.Buffer, []byte) error         { return nil }
func (c *collector) DoubleEmphasis(*bytes.Buffer, []byte) error   { return nil }
func (c *collector) Emphasis(*bytes.Buffer, []byte) error         { return nil }
func (c *collector) RawHTMLTag(*bytes.Buffer, []byte) error       { return nil }
func (c *collector) TripleEmphasis(*bytes.Buffer, []byte) error   { return nil }
func (c *collector) StrikeThrough(*bytes.Buffer, []byte) error    { return nil }
func (c *collector) FootnoteRef(*bytes.Buffer, []byte, int) error { return nil }
func (c *collector) Entity(*bytes.Buffer, []byte) error           { return nil }
func (c *collector) NormalText(*bytes.Buffer, []byte) error       { return nil }

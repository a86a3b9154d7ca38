package markdown

import "bytes"

// ListType describes a list or list item to the renderer.
type ListType int

const (
	ListTypeOrdered ListType = 1 << iota
	ListTypeDefinition
	ListTypeTerm
	ListItemContainsBlock
	ListItemBeginningOfList
	ListItemEndOfList
)

// CellAlignment is the alignment of a table column.
type CellAlignment int

const (
	TableAlignmentNone  CellAlignment = 0
	TableAlignmentLeft  CellAlignment = 1
	TableAlignmentRight CellAlignment = 2
	// TableAlignmentCenter is Left|Right, written ":---:".
	TableAlignmentCenter CellAlignment = 3
)

// LinkType classifies autolinks.
type LinkType int

const (
	LinkTypeNotAutolink LinkType = iota
	LinkTypeNormal
	LinkTypeEmail
)

// Renderer is the output side of the compiler. The parser calls one method
// per recognized construct, in document order, from a single goroutine.
//
// Byte slices passed in are fully resolved: inline content has already been
// rendered through this same Renderer, and literal text is unescaped.
// Methods taking a text callback write their opening markup, call text to
// render the content into out, and may truncate their own output when text
// returns false. A non-nil error aborts the render.
type Renderer interface {
	// block-level
	BlockCode(out *bytes.Buffer, text []byte, info string) error
	BlockQuote(out *bytes.Buffer, text []byte) error
	BlockHTML(out *bytes.Buffer, text []byte) error
	Header(out *bytes.Buffer, text func() bool, level int, id string) error
	HRule(out *bytes.Buffer) error
	List(out *bytes.Buffer, text func() bool, flags ListType) error
	ListItem(out *bytes.Buffer, text []byte, flags ListType) error
	Paragraph(out *bytes.Buffer, text func() bool) error
	Table(out *bytes.Buffer, header, body []byte, columns []CellAlignment) error
	TableRow(out *bytes.Buffer, text []byte) error
	TableHeaderCell(out *bytes.Buffer, text []byte, align CellAlignment) error
	TableCell(out *bytes.Buffer, text []byte, align CellAlignment) error
	Footnotes(out *bytes.Buffer, text func() bool) error
	FootnoteItem(out *bytes.Buffer, name, text []byte, flags ListType) error
	TitleBlock(out *bytes.Buffer, text []byte) error

	// span-level
	AutoLink(out *bytes.Buffer, link []byte, kind LinkType) error
	CodeSpan(out *bytes.Buffer, text []byte) error
	DoubleEmphasis(out *bytes.Buffer, text []byte) error
	Emphasis(out *bytes.Buffer, text []byte) error
	Image(out *bytes.Buffer, link, title, alt []byte) error
	LineBreak(out *bytes.Buffer) error
	Link(out *bytes.Buffer, link, title, content []byte) error
	RawHTMLTag(out *bytes.Buffer, tag []byte) error
	TripleEmphasis(out *bytes.Buffer, text []byte) error
	StrikeThrough(out *bytes.Buffer, text []byte) error
	FootnoteRef(out *bytes.Buffer, ref []byte, id int) error

	// low-level
	Entity(out *bytes.Buffer, entity []byte) error
	NormalText(out *bytes.Buffer, text []byte) error

	// document framing
	DocumentHeader(out *bytes.Buffer) error
	DocumentFooter(out *bytes.Buffer) error
}

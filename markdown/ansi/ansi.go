package ansi

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docmark/markdown"
)

const defaultWidth = 80

// Options configure a Renderer.
type Options struct {
	// Profile selects the escape sequences written; termenv.Ascii writes
	// plain text.
	Profile termenv.Profile
	// Palette overrides DefaultPalette.
	Palette *Palette
	// Width wraps paragraphs and sizes rules. Zero means 80; negative
	// disables wrapping.
	Width int
	// HighlightStyle names a chroma style for fenced code; empty means
	// "monokai".
	HighlightStyle string
}

type listState struct {
	ordered bool
	n       int
}

// Renderer writes styled terminal text. Footnote and list counters are
// per document and reset by DocumentHeader.
type Renderer struct {
	styles    *Styles
	width     int
	codeStyle *chroma.Style
	lists     []listState
	notes     int
}

var _ markdown.Renderer = (*Renderer)(nil)

// NewRenderer creates a terminal renderer.
func NewRenderer(opts Options) *Renderer {
	palette := DefaultPalette()
	if opts.Palette != nil {
		palette = *opts.Palette
	}
	width := opts.Width
	if width == 0 {
		width = defaultWidth
	}
	style := opts.HighlightStyle
	if style == "" {
		style = "monokai"
	}
	return &Renderer{
		styles:    NewStyles(opts.Profile, palette),
		width:     width,
		codeStyle: chromastyles.Get(style),
	}
}

// paint styles every line on its own so multi-line text is not padded
// into a block.
func paint(style lipgloss.Style, s string) string {
	if !strings.Contains(s, "\n") {
		return style.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// indent prefixes the first line with first and the others with rest.
func indent(text, first, rest string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = first + line
		case line != "":
			lines[i] = rest + line
		}
	}
	return strings.Join(lines, "\n")
}

func doubleSpace(out *bytes.Buffer) {
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
}

// capture runs text and returns what it wrote, removing it from out.
func capture(out *bytes.Buffer, text func() bool) (string, bool) {
	mark := out.Len()
	ok := text()
	s := string(out.Bytes()[mark:])
	out.Truncate(mark)
	return s, ok
}

func (r *Renderer) rule() string {
	w := r.width
	if w < 0 {
		w = defaultWidth
	}
	return r.styles.Rule.Render(strings.Repeat("─", w))
}

func (r *Renderer) formatter() chroma.Formatter {
	switch r.styles.Profile() {
	case termenv.TrueColor:
		return formatters.Get("terminal16m")
	case termenv.ANSI256:
		return formatters.Get("terminal256")
	case termenv.ANSI:
		return formatters.Get("terminal")
	}
	return nil
}

// highlight colors code for the terminal, or returns it unchanged when the
// language is unknown or the profile has no colors.
func (r *Renderer) highlight(code, info string) (string, error) {
	f := r.formatter()
	lang := strings.Fields(info)
	if f == nil || len(lang) == 0 {
		return code, nil
	}
	lexer := lexers.Get(strings.TrimPrefix(strings.Trim(lang[0], "{}"), "."))
	if lexer == nil {
		return code, nil
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code, nil
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, r.codeStyle, it); err != nil {
		return "", err
	}
	return trimTrailingBlank(buf.String()), nil
}

// trimTrailingBlank drops trailing lines that hold only escape sequences,
// moving those sequences onto the last visible line.
func trimTrailingBlank(s string) string {
	lines := strings.Split(s, "\n")
	var tail string
	for len(lines) > 1 && xansi.Strip(lines[len(lines)-1]) == "" {
		tail = lines[len(lines)-1] + tail
		lines = lines[:len(lines)-1]
	}
	lines[len(lines)-1] += tail
	return strings.Join(lines, "\n")
}

func (r *Renderer) BlockCode(out *bytes.Buffer, text []byte, info string) error {
	code, err := r.highlight(strings.TrimRight(string(text), "\n"), info)
	if err != nil {
		return err
	}
	doubleSpace(out)
	out.WriteString(indent(code, "    ", "    "))
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) BlockQuote(out *bytes.Buffer, text []byte) error {
	doubleSpace(out)
	bar := r.styles.Quote.Render("│") + " "
	body := strings.TrimRight(string(text), "\n")
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(bar+line, " ")
	}
	out.WriteString(strings.Join(lines, "\n"))
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) BlockHTML(out *bytes.Buffer, text []byte) error {
	doubleSpace(out)
	out.WriteString(paint(r.styles.HTML, string(bytes.Trim(text, "\n"))))
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) Header(out *bytes.Buffer, text func() bool, level int, _ string) error {
	content, ok := capture(out, text)
	if !ok {
		return nil
	}
	doubleSpace(out)
	out.WriteString(r.styles.Heading.Render(strings.Repeat("#", level) + " " + content))
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) HRule(out *bytes.Buffer) error {
	doubleSpace(out)
	out.WriteString(r.rule())
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) List(out *bytes.Buffer, text func() bool, flags markdown.ListType) error {
	r.lists = append(r.lists, listState{ordered: flags&markdown.ListTypeOrdered != 0})
	content, ok := capture(out, text)
	r.lists = r.lists[:len(r.lists)-1]
	if !ok {
		return nil
	}
	// nested lists sit directly under their item
	switch {
	case len(r.lists) == 0:
		doubleSpace(out)
	case out.Len() > 0 && out.Bytes()[out.Len()-1] != '\n':
		out.WriteByte('\n')
	}
	out.WriteString(content)
	return nil
}

func (r *Renderer) ListItem(out *bytes.Buffer, text []byte, flags markdown.ListType) error {
	body := strings.TrimRight(string(text), "\n")
	if flags&markdown.ListTypeDefinition != 0 {
		if flags&markdown.ListTypeTerm != 0 {
			out.WriteString(r.styles.Term.Render(body))
		} else {
			out.WriteString(indent(body, "    ", "    "))
		}
		out.WriteByte('\n')
		return nil
	}

	marker := "•"
	if len(r.lists) > 0 {
		state := &r.lists[len(r.lists)-1]
		state.n++
		if state.ordered {
			marker = strconv.Itoa(state.n) + "."
		}
	}
	pad := strings.Repeat(" ", xansi.StringWidth(marker)+1)
	out.WriteString(indent(body, r.styles.Bullet.Render(marker)+" ", pad))
	out.WriteByte('\n')
	if flags&markdown.ListItemContainsBlock != 0 && flags&markdown.ListItemEndOfList == 0 {
		out.WriteByte('\n')
	}
	return nil
}

func (r *Renderer) Paragraph(out *bytes.Buffer, text func() bool) error {
	content, ok := capture(out, text)
	if !ok {
		return nil
	}
	if r.width > 0 {
		content = xansi.Wordwrap(content, r.width, "")
	}
	doubleSpace(out)
	out.WriteString(content)
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) Table(out *bytes.Buffer, header, body []byte, columns []markdown.CellAlignment) error {
	doubleSpace(out)
	writeTable(out, r.styles, splitRows(header), splitRows(body), columns)
	return nil
}

func (r *Renderer) TableRow(out *bytes.Buffer, text []byte) error {
	out.Write(text)
	out.WriteByte(rowSep)
	return nil
}

func (r *Renderer) TableHeaderCell(out *bytes.Buffer, text []byte, _ markdown.CellAlignment) error {
	out.WriteString(r.styles.Strong.Render(string(text)))
	out.WriteByte(cellSep)
	return nil
}

func (r *Renderer) TableCell(out *bytes.Buffer, text []byte, _ markdown.CellAlignment) error {
	out.Write(text)
	out.WriteByte(cellSep)
	return nil
}

func (r *Renderer) Footnotes(out *bytes.Buffer, text func() bool) error {
	r.notes = 0
	content, ok := capture(out, text)
	if !ok {
		return nil
	}
	doubleSpace(out)
	out.WriteString(r.rule())
	out.WriteString("\n")
	out.WriteString(content)
	return nil
}

func (r *Renderer) FootnoteItem(out *bytes.Buffer, _, text []byte, flags markdown.ListType) error {
	r.notes++
	if flags&markdown.ListItemBeginningOfList == 0 {
		out.WriteByte('\n')
	}
	marker := r.styles.NoteRef.Render("[" + strconv.Itoa(r.notes) + "]")
	pad := strings.Repeat(" ", len(strconv.Itoa(r.notes))+3)
	out.WriteString(indent(strings.TrimRight(string(text), "\n"), marker+" ", pad))
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) TitleBlock(out *bytes.Buffer, text []byte) error {
	out.WriteString(paint(r.styles.Title, string(bytes.TrimSpace(text))))
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) AutoLink(out *bytes.Buffer, link []byte, kind markdown.LinkType) error {
	s := string(link)
	if kind == markdown.LinkTypeEmail {
		s = strings.TrimPrefix(s, "mailto:")
	}
	out.WriteString(r.styles.Link.Render(s))
	return nil
}

func (r *Renderer) CodeSpan(out *bytes.Buffer, text []byte) error {
	out.WriteString(r.styles.Code.Render(string(text)))
	return nil
}

func (r *Renderer) DoubleEmphasis(out *bytes.Buffer, text []byte) error {
	out.WriteString(paint(r.styles.Strong, string(text)))
	return nil
}

func (r *Renderer) Emphasis(out *bytes.Buffer, text []byte) error {
	out.WriteString(paint(r.styles.Emphasis, string(text)))
	return nil
}

func (r *Renderer) Image(out *bytes.Buffer, link, title, alt []byte) error {
	label := string(alt)
	if label == "" {
		label = string(title)
	}
	out.WriteString(r.styles.Link.Render("[image: " + label + "]"))
	out.WriteString(" " + r.styles.URL.Render("("+string(link)+")"))
	return nil
}

func (r *Renderer) LineBreak(out *bytes.Buffer) error {
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) Link(out *bytes.Buffer, link, _, content []byte) error {
	out.WriteString(paint(r.styles.Link, string(content)))
	if len(link) > 0 && !bytes.Equal(link, content) && link[0] != '#' {
		out.WriteString(" " + r.styles.URL.Render("("+string(link)+")"))
	}
	return nil
}

func (r *Renderer) RawHTMLTag(out *bytes.Buffer, tag []byte) error {
	out.WriteString(r.styles.HTML.Render(string(tag)))
	return nil
}

func (r *Renderer) TripleEmphasis(out *bytes.Buffer, text []byte) error {
	out.WriteString(paint(r.styles.Strong.Italic(true), string(text)))
	return nil
}

func (r *Renderer) StrikeThrough(out *bytes.Buffer, text []byte) error {
	out.WriteString(paint(r.styles.Strike, string(text)))
	return nil
}

func (r *Renderer) FootnoteRef(out *bytes.Buffer, _ []byte, id int) error {
	out.WriteString(r.styles.NoteRef.Render("[" + strconv.Itoa(id) + "]"))
	return nil
}

// Entity decodes named and numeric character references; unknown names
// are written as-is.
func (r *Renderer) Entity(out *bytes.Buffer, entity []byte) error {
	out.Write(util.ResolveNumericReferences(util.ResolveEntityNames(entity)))
	return nil
}

func (r *Renderer) NormalText(out *bytes.Buffer, text []byte) error {
	out.Write(text)
	return nil
}

func (r *Renderer) DocumentHeader(_ *bytes.Buffer) error {
	r.lists = r.lists[:0]
	r.notes = 0
	return nil
}

func (r *Renderer) DocumentFooter(_ *bytes.Buffer) error {
	return nil
}

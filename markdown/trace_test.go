package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var errTraceFailure = errors.New("trace renderer failure")

// traceRenderer writes a compact HTML-like trace of every call without
// escaping anything, and can fail a chosen operation.
type traceRenderer struct {
	failOn    string
	calls     []string
	columns   [][]CellAlignment
	listFlags []ListType
	itemFlags []ListType
	noteFlags []ListType
}

func (r *traceRenderer) call(op string) error {
	r.calls = append(r.calls, op)
	if op == r.failOn {
		return errTraceFailure
	}
	return nil
}

func alignAttr(align CellAlignment) string {
	switch align {
	case TableAlignmentLeft:
		return ` align="left"`
	case TableAlignmentRight:
		return ` align="right"`
	case TableAlignmentCenter:
		return ` align="center"`
	default:
		return ""
	}
}

func (r *traceRenderer) BlockCode(out *bytes.Buffer, text []byte, info string) error {
	if info != "" {
		fmt.Fprintf(out, "<pre %s>%s</pre>\n", info, text)
	} else {
		fmt.Fprintf(out, "<pre>%s</pre>\n", text)
	}
	return r.call("BlockCode")
}

func (r *traceRenderer) BlockQuote(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<blockquote>\n%s</blockquote>\n", text)
	return r.call("BlockQuote")
}

func (r *traceRenderer) BlockHTML(out *bytes.Buffer, text []byte) error {
	out.Write(text)
	out.WriteByte('\n')
	return r.call("BlockHTML")
}

func (r *traceRenderer) Header(out *bytes.Buffer, text func() bool, level int, id string) error {
	if id != "" {
		fmt.Fprintf(out, "<h%d id=%q>", level, id)
	} else {
		fmt.Fprintf(out, "<h%d>", level)
	}
	text()
	fmt.Fprintf(out, "</h%d>\n", level)
	return r.call("Header")
}

func (r *traceRenderer) HRule(out *bytes.Buffer) error {
	out.WriteString("<hr>\n")
	return r.call("HRule")
}

func listTag(flags ListType) string {
	switch {
	case flags&ListTypeDefinition != 0:
		return "dl"
	case flags&ListTypeOrdered != 0:
		return "ol"
	default:
		return "ul"
	}
}

func (r *traceRenderer) List(out *bytes.Buffer, text func() bool, flags ListType) error {
	r.listFlags = append(r.listFlags, flags)
	fmt.Fprintf(out, "<%s>\n", listTag(flags))
	text()
	fmt.Fprintf(out, "</%s>\n", listTag(flags))
	return r.call("List")
}

func (r *traceRenderer) ListItem(out *bytes.Buffer, text []byte, flags ListType) error {
	r.itemFlags = append(r.itemFlags, flags)
	tag := "li"
	switch {
	case flags&ListTypeTerm != 0:
		tag = "dt"
	case flags&ListTypeDefinition != 0:
		tag = "dd"
	}
	fmt.Fprintf(out, "<%s>%s</%s>\n", tag, bytes.TrimRight(text, "\n"), tag)
	return r.call("ListItem")
}

func (r *traceRenderer) Paragraph(out *bytes.Buffer, text func() bool) error {
	out.WriteString("<p>")
	text()
	out.WriteString("</p>\n")
	return r.call("Paragraph")
}

func (r *traceRenderer) Table(out *bytes.Buffer, header, body []byte, columns []CellAlignment) error {
	r.columns = append(r.columns, columns)
	fmt.Fprintf(out, "<table>%s%s</table>\n", header, body)
	return r.call("Table")
}

func (r *traceRenderer) TableRow(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<tr>%s</tr>", text)
	return r.call("TableRow")
}

func (r *traceRenderer) TableHeaderCell(out *bytes.Buffer, text []byte, align CellAlignment) error {
	fmt.Fprintf(out, "<th%s>%s</th>", alignAttr(align), text)
	return r.call("TableHeaderCell")
}

func (r *traceRenderer) TableCell(out *bytes.Buffer, text []byte, align CellAlignment) error {
	fmt.Fprintf(out, "<td%s>%s</td>", alignAttr(align), text)
	return r.call("TableCell")
}

func (r *traceRenderer) Footnotes(out *bytes.Buffer, text func() bool) error {
	out.WriteString("<footnotes>\n")
	text()
	out.WriteString("</footnotes>\n")
	return r.call("Footnotes")
}

func (r *traceRenderer) FootnoteItem(out *bytes.Buffer, name, text []byte, flags ListType) error {
	r.noteFlags = append(r.noteFlags, flags)
	fmt.Fprintf(out, "<fn %s>%s</fn>\n", name, bytes.TrimRight(text, "\n"))
	return r.call("FootnoteItem")
}

func (r *traceRenderer) TitleBlock(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<title>%s</title>\n", text)
	return r.call("TitleBlock")
}

func (r *traceRenderer) AutoLink(out *bytes.Buffer, link []byte, kind LinkType) error {
	if kind == LinkTypeEmail {
		fmt.Fprintf(out, `<a href="mailto:%s">%s</a>`, link, link)
	} else {
		fmt.Fprintf(out, `<a href="%s">%s</a>`, link, link)
	}
	return r.call("AutoLink")
}

func (r *traceRenderer) CodeSpan(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<code>%s</code>", text)
	return r.call("CodeSpan")
}

func (r *traceRenderer) DoubleEmphasis(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<strong>%s</strong>", text)
	return r.call("DoubleEmphasis")
}

func (r *traceRenderer) Emphasis(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<em>%s</em>", text)
	return r.call("Emphasis")
}

func (r *traceRenderer) Image(out *bytes.Buffer, link, title, alt []byte) error {
	if len(title) > 0 {
		fmt.Fprintf(out, `<img src="%s" alt="%s" title="%s">`, link, alt, title)
	} else {
		fmt.Fprintf(out, `<img src="%s" alt="%s">`, link, alt)
	}
	return r.call("Image")
}

func (r *traceRenderer) LineBreak(out *bytes.Buffer) error {
	out.WriteString("<br>")
	return r.call("LineBreak")
}

func (r *traceRenderer) Link(out *bytes.Buffer, link, title, content []byte) error {
	if len(title) > 0 {
		fmt.Fprintf(out, `<a href="%s" title="%s">%s</a>`, link, title, content)
	} else {
		fmt.Fprintf(out, `<a href="%s">%s</a>`, link, content)
	}
	return r.call("Link")
}

func (r *traceRenderer) RawHTMLTag(out *bytes.Buffer, tag []byte) error {
	out.Write(tag)
	return r.call("RawHTMLTag")
}

func (r *traceRenderer) TripleEmphasis(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<strong><em>%s</em></strong>", text)
	return r.call("TripleEmphasis")
}

func (r *traceRenderer) StrikeThrough(out *bytes.Buffer, text []byte) error {
	fmt.Fprintf(out, "<del>%s</del>", text)
	return r.call("StrikeThrough")
}

func (r *traceRenderer) FootnoteRef(out *bytes.Buffer, ref []byte, id int) error {
	fmt.Fprintf(out, "<ref %s %d>", ref, id)
	return r.call("FootnoteRef")
}

func (r *traceRenderer) Entity(out *bytes.Buffer, entity []byte) error {
	out.Write(entity)
	return r.call("Entity")
}

func (r *traceRenderer) NormalText(out *bytes.Buffer, text []byte) error {
	out.Write(text)
	return r.call("NormalText")
}

func (r *traceRenderer) DocumentHeader(out *bytes.Buffer) error {
	return r.call("DocumentHeader")
}

func (r *traceRenderer) DocumentFooter(out *bytes.Buffer) error {
	return r.call("DocumentFooter")
}

func renderTrace(t *testing.T, input string, ext Extensions) string {
	t.Helper()
	out, err := Render([]byte(input), &traceRenderer{}, Options{Extensions: ext})
	require.NoError(t, err)
	return string(out)
}

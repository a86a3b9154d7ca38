package html

import (
	"bytes"
	"fmt"

	"git.home.luguber.info/inful/docmark/markdown"
)

// Options configure a Renderer.
type Options struct {
	Flags Flags

	// Title and CSS are used by CompletePage.
	Title string
	CSS   string

	// FootnoteAnchorPrefix is prepended to footnote ids.
	FootnoteAnchorPrefix string
	// FootnoteReturnLinkContents is the text of FootnoteReturnLinks anchors.
	FootnoteReturnLinkContents string

	// AbsolutePrefix is prepended to site-rooted links and image sources.
	AbsolutePrefix string

	// HighlightStyle names a chroma style for fenced code; empty disables
	// highlighting.
	HighlightStyle string
}

// Renderer writes HTML. It keeps no state between documents.
type Renderer struct {
	opts      Options
	closeTag  string
	highlight *highlighter
}

var _ markdown.Renderer = (*Renderer)(nil)

// NewRenderer creates an HTML renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.FootnoteReturnLinkContents == "" {
		opts.FootnoteReturnLinkContents = "<sup>[return]</sup>"
	}
	closeTag := ">"
	if opts.Flags&UseXHTML != 0 {
		closeTag = " />"
	}
	return &Renderer{
		opts:      opts,
		closeTag:  closeTag,
		highlight: newHighlighter(opts.HighlightStyle),
	}
}

// Basic renders input with no extensions as XHTML.
func Basic(input []byte) ([]byte, error) {
	return markdown.Render(input, NewRenderer(Options{Flags: UseXHTML}), markdown.Options{})
}

// Common renders input with markdown.CommonExtensions and CommonFlags.
func Common(input []byte) ([]byte, error) {
	return markdown.Render(input, NewRenderer(Options{Flags: CommonFlags}), markdown.Options{
		Extensions: markdown.CommonExtensions,
	})
}

// attrEscape writes src with <, >, & and " replaced by entities.
func attrEscape(out *bytes.Buffer, src []byte) {
	org := 0
	for i, c := range src {
		var entity string
		switch c {
		case '<':
			entity = "&lt;"
		case '>':
			entity = "&gt;"
		case '&':
			entity = "&amp;"
		case '"':
			entity = "&quot;"
		default:
			continue
		}
		out.Write(src[org:i])
		out.WriteString(entity)
		org = i + 1
	}
	out.Write(src[org:])
}

// doubleSpace separates blocks with an empty line.
func doubleSpace(out *bytes.Buffer) {
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
}

func (r *Renderer) has(f Flags) bool {
	return r.opts.Flags&f != 0
}

func (r *Renderer) BlockCode(out *bytes.Buffer, text []byte, info string) error {
	doubleSpace(out)
	lang := language(info)
	if lang != "" {
		out.WriteString(`<pre><code class="language-`)
		attrEscape(out, []byte(lang))
		out.WriteString(`">`)
	} else {
		out.WriteString("<pre><code>")
	}
	mark := out.Len()
	ok, err := r.highlight.highlight(out, text, lang)
	if err != nil {
		out.Truncate(mark)
		return err
	}
	if !ok {
		attrEscape(out, text)
	}
	out.WriteString("</code></pre>\n")
	return nil
}

func (r *Renderer) BlockQuote(out *bytes.Buffer, text []byte) error {
	doubleSpace(out)
	out.WriteString("<blockquote>\n")
	out.Write(text)
	out.WriteString("</blockquote>\n")
	return nil
}

func (r *Renderer) BlockHTML(out *bytes.Buffer, text []byte) error {
	if r.has(SkipHTML) || r.has(SkipStyle) && isHTMLTag(text, "style") {
		return nil
	}
	doubleSpace(out)
	out.Write(bytes.Trim(text, "\n"))
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) Header(out *bytes.Buffer, text func() bool, level int, id string) error {
	mark := out.Len()
	doubleSpace(out)
	if id != "" {
		fmt.Fprintf(out, `<h%d id="`, level)
		attrEscape(out, []byte(id))
		out.WriteString(`">`)
	} else {
		fmt.Fprintf(out, "<h%d>", level)
	}
	if !text() {
		out.Truncate(mark)
		return nil
	}
	fmt.Fprintf(out, "</h%d>\n", level)
	return nil
}

func (r *Renderer) HRule(out *bytes.Buffer) error {
	doubleSpace(out)
	out.WriteString("<hr")
	out.WriteString(r.closeTag)
	out.WriteByte('\n')
	return nil
}

func listTag(flags markdown.ListType) string {
	switch {
	case flags&markdown.ListTypeDefinition != 0:
		return "dl"
	case flags&markdown.ListTypeOrdered != 0:
		return "ol"
	}
	return "ul"
}

func (r *Renderer) List(out *bytes.Buffer, text func() bool, flags markdown.ListType) error {
	mark := out.Len()
	tag := listTag(flags)
	doubleSpace(out)
	fmt.Fprintf(out, "<%s>\n", tag)
	if !text() {
		out.Truncate(mark)
		return nil
	}
	fmt.Fprintf(out, "</%s>\n", tag)
	return nil
}

func (r *Renderer) ListItem(out *bytes.Buffer, text []byte, flags markdown.ListType) error {
	tag := "li"
	if flags&markdown.ListTypeDefinition != 0 {
		tag = "dd"
		if flags&markdown.ListTypeTerm != 0 {
			tag = "dt"
		}
	}
	fmt.Fprintf(out, "<%s>", tag)
	out.Write(bytes.TrimRight(text, "\n"))
	fmt.Fprintf(out, "</%s>\n", tag)
	return nil
}

func (r *Renderer) Paragraph(out *bytes.Buffer, text func() bool) error {
	mark := out.Len()
	doubleSpace(out)
	out.WriteString("<p>")
	if !text() {
		out.Truncate(mark)
		return nil
	}
	out.WriteString("</p>\n")
	return nil
}

func (r *Renderer) Table(out *bytes.Buffer, header, body []byte, _ []markdown.CellAlignment) error {
	doubleSpace(out)
	out.WriteString("<table>\n<thead>\n")
	out.Write(header)
	out.WriteString("</thead>\n\n<tbody>\n")
	out.Write(body)
	out.WriteString("</tbody>\n</table>\n")
	return nil
}

func (r *Renderer) TableRow(out *bytes.Buffer, text []byte) error {
	doubleSpace(out)
	out.WriteString("<tr>\n")
	out.Write(text)
	out.WriteString("\n</tr>\n")
	return nil
}

func alignAttr(align markdown.CellAlignment) string {
	switch align {
	case markdown.TableAlignmentLeft:
		return ` align="left"`
	case markdown.TableAlignmentRight:
		return ` align="right"`
	case markdown.TableAlignmentCenter:
		return ` align="center"`
	}
	return ""
}

func (r *Renderer) TableHeaderCell(out *bytes.Buffer, text []byte, align markdown.CellAlignment) error {
	doubleSpace(out)
	fmt.Fprintf(out, "<th%s>", alignAttr(align))
	out.Write(text)
	out.WriteString("</th>")
	return nil
}

func (r *Renderer) TableCell(out *bytes.Buffer, text []byte, align markdown.CellAlignment) error {
	doubleSpace(out)
	fmt.Fprintf(out, "<td%s>", alignAttr(align))
	out.Write(text)
	out.WriteString("</td>")
	return nil
}

func (r *Renderer) Footnotes(out *bytes.Buffer, text func() bool) error {
	mark := out.Len()
	out.WriteString("<div class=\"footnotes\">\n")
	if err := r.HRule(out); err != nil {
		return err
	}
	out.WriteString("\n<ol>\n")
	if !text() {
		out.Truncate(mark)
		return nil
	}
	out.WriteString("</ol>\n</div>\n")
	return nil
}

func (r *Renderer) FootnoteItem(out *bytes.Buffer, name, text []byte, flags markdown.ListType) error {
	if flags&markdown.ListItemContainsBlock != 0 || flags&markdown.ListItemBeginningOfList != 0 {
		doubleSpace(out)
	}
	anchor := r.footnoteAnchor(name)
	fmt.Fprintf(out, `<li id="fn:%s">`, anchor)
	out.Write(bytes.TrimRight(text, "\n"))
	if r.has(FootnoteReturnLinks) {
		fmt.Fprintf(out, ` <a class="footnote-return" href="#fnref:%s">%s</a>`,
			anchor, r.opts.FootnoteReturnLinkContents)
	}
	out.WriteString("</li>\n")
	return nil
}

func (r *Renderer) TitleBlock(out *bytes.Buffer, text []byte) error {
	out.WriteString(`<h1 class="title">`)
	attrEscape(out, bytes.TrimSpace(text))
	out.WriteString("</h1>\n")
	return nil
}

func (r *Renderer) footnoteAnchor(name []byte) string {
	var b bytes.Buffer
	attrEscape(&b, []byte(r.opts.FootnoteAnchorPrefix+anchorName(name)))
	return b.String()
}

// rel adds the attributes configured for links leaving the site.
func (r *Renderer) rel(out *bytes.Buffer, link []byte) {
	if isRelativeLink(link) {
		return
	}
	var rel []string
	if r.has(NofollowLinks) {
		rel = append(rel, "nofollow")
	}
	if r.has(NoreferrerLinks) {
		rel = append(rel, "noreferrer")
	}
	if len(rel) > 0 {
		out.WriteString(` rel="`)
		for i, v := range rel {
			if i > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(v)
		}
		out.WriteByte('"')
	}
	if r.has(HrefTargetBlank) {
		out.WriteString(` target="_blank"`)
	}
}

// href writes link as an attribute value, applying AbsolutePrefix.
func (r *Renderer) href(out *bytes.Buffer, link []byte) {
	if r.opts.AbsolutePrefix != "" && len(link) > 1 && link[0] == '/' && link[1] != '/' {
		attrEscape(out, []byte(r.opts.AbsolutePrefix))
	}
	attrEscape(out, link)
}

func (r *Renderer) AutoLink(out *bytes.Buffer, link []byte, kind markdown.LinkType) error {
	if r.has(SkipLinks) || r.has(Safelink) && kind != markdown.LinkTypeEmail && !isSafeLink(link) {
		attrEscape(out, link)
		return nil
	}
	out.WriteString(`<a href="`)
	display := link
	if kind == markdown.LinkTypeEmail {
		if !bytes.HasPrefix(bytes.ToLower(link), []byte("mailto:")) {
			out.WriteString("mailto:")
		} else {
			display = link[len("mailto:"):]
		}
	}
	r.href(out, link)
	out.WriteByte('"')
	r.rel(out, link)
	out.WriteByte('>')
	attrEscape(out, display)
	out.WriteString("</a>")
	return nil
}

func (r *Renderer) CodeSpan(out *bytes.Buffer, text []byte) error {
	out.WriteString("<code>")
	attrEscape(out, text)
	out.WriteString("</code>")
	return nil
}

func (r *Renderer) DoubleEmphasis(out *bytes.Buffer, text []byte) error {
	out.WriteString("<strong>")
	out.Write(text)
	out.WriteString("</strong>")
	return nil
}

func (r *Renderer) Emphasis(out *bytes.Buffer, text []byte) error {
	out.WriteString("<em>")
	out.Write(text)
	out.WriteString("</em>")
	return nil
}

func (r *Renderer) Image(out *bytes.Buffer, link, title, alt []byte) error {
	if r.has(SkipImages) {
		return nil
	}
	out.WriteString(`<img src="`)
	r.href(out, link)
	out.WriteString(`" alt="`)
	attrEscape(out, alt)
	out.WriteByte('"')
	if len(title) > 0 {
		out.WriteString(` title="`)
		attrEscape(out, title)
		out.WriteByte('"')
	}
	out.WriteString(r.closeTag)
	return nil
}

func (r *Renderer) LineBreak(out *bytes.Buffer) error {
	out.WriteString("<br")
	out.WriteString(r.closeTag)
	out.WriteByte('\n')
	return nil
}

func (r *Renderer) Link(out *bytes.Buffer, link, title, content []byte) error {
	if r.has(SkipLinks) {
		out.Write(content)
		return nil
	}
	if r.has(Safelink) && !isSafeLink(link) {
		out.WriteString("<code>")
		out.Write(content)
		out.WriteString("</code>")
		return nil
	}
	out.WriteString(`<a href="`)
	r.href(out, link)
	out.WriteByte('"')
	if len(title) > 0 {
		out.WriteString(` title="`)
		attrEscape(out, title)
		out.WriteByte('"')
	}
	r.rel(out, link)
	out.WriteByte('>')
	out.Write(content)
	out.WriteString("</a>")
	return nil
}

func (r *Renderer) RawHTMLTag(out *bytes.Buffer, tag []byte) error {
	if r.has(SkipHTML) {
		return nil
	}
	if r.has(SkipStyle) && isHTMLTag(tag, "style") {
		return nil
	}
	if r.has(SkipLinks) && isHTMLTag(tag, "a") {
		return nil
	}
	if r.has(SkipImages) && isHTMLTag(tag, "img") {
		return nil
	}
	out.Write(tag)
	return nil
}

func (r *Renderer) TripleEmphasis(out *bytes.Buffer, text []byte) error {
	out.WriteString("<strong><em>")
	out.Write(text)
	out.WriteString("</em></strong>")
	return nil
}

func (r *Renderer) StrikeThrough(out *bytes.Buffer, text []byte) error {
	out.WriteString("<del>")
	out.Write(text)
	out.WriteString("</del>")
	return nil
}

func (r *Renderer) FootnoteRef(out *bytes.Buffer, ref []byte, id int) error {
	anchor := r.footnoteAnchor(ref)
	fmt.Fprintf(out, `<sup class="footnote-ref" id="fnref:%s"><a href="#fn:%s">%d</a></sup>`,
		anchor, anchor, id)
	return nil
}

func (r *Renderer) Entity(out *bytes.Buffer, entity []byte) error {
	out.Write(entity)
	return nil
}

func (r *Renderer) NormalText(out *bytes.Buffer, text []byte) error {
	attrEscape(out, text)
	return nil
}

func (r *Renderer) DocumentHeader(out *bytes.Buffer) error {
	if !r.has(CompletePage) {
		return nil
	}
	if r.has(UseXHTML) {
		out.WriteString("<!DOCTYPE html PUBLIC \"-//W3C//DTD XHTML 1.0 Transitional//EN\" ")
		out.WriteString("\"http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd\">\n")
		out.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\">\n")
	} else {
		out.WriteString("<!DOCTYPE html>\n<html>\n")
	}
	out.WriteString("<head>\n  <title>")
	attrEscape(out, []byte(r.opts.Title))
	out.WriteString("</title>\n")
	out.WriteString("  <meta charset=\"utf-8\"")
	out.WriteString(r.closeTag)
	out.WriteByte('\n')
	if r.opts.CSS != "" {
		out.WriteString("  <link rel=\"stylesheet\" type=\"text/css\" href=\"")
		attrEscape(out, []byte(r.opts.CSS))
		out.WriteByte('"')
		out.WriteString(r.closeTag)
		out.WriteByte('\n')
	}
	out.WriteString("</head>\n<body>\n\n")
	return nil
}

func (r *Renderer) DocumentFooter(out *bytes.Buffer) error {
	if !r.has(CompletePage) {
		return nil
	}
	out.WriteString("\n</body>\n</html>\n")
	return nil
}

// isHTMLTag reports whether tag opens or closes an element named name.
func isHTMLTag(tag []byte, name string) bool {
	i := 0
	for i < len(tag) && (tag[i] == ' ' || tag[i] == '\n') {
		i++
	}
	if i >= len(tag) || tag[i] != '<' {
		return false
	}
	i++
	if i < len(tag) && tag[i] == '/' {
		i++
	}
	if len(tag)-i <= len(name) || !bytes.EqualFold(tag[i:i+len(name)], []byte(name)) {
		return false
	}
	switch tag[i+len(name)] {
	case '>', ' ', '\t', '\n', '/':
		return true
	}
	return false
}

package markdown

import (
	"bytes"
)

// inline scans data for span constructs. Bytes without a handler, and
// bytes whose handler declines, accumulate as literal text that is flushed
// through NormalText before the output of the next matching handler.
func (p *parser) inline(out *bytes.Buffer, data []byte) {
	if len(data) == 0 || p.failed() {
		return
	}
	if p.nesting >= p.maxNesting {
		p.nestingExceeded(out, data)
		return
	}
	p.nesting++

	var work bytes.Buffer
	beg, end := 0, 0
	for end < len(data) && !p.failed() {
		handler := p.inlineCallback[data[end]]
		if handler == nil {
			end++
			continue
		}
		work.Reset()
		consumed := handler(p, &work, data, end)
		if consumed == 0 {
			end++
			continue
		}
		p.normalText(out, data[beg:end])
		if !p.failed() {
			out.Write(work.Bytes())
		}
		beg = end + consumed
		end = beg
	}
	if beg < len(data) {
		p.normalText(out, data[beg:])
	}

	p.nesting--
}

// maybeLineBreak handles spaces at the end of a line: two or more make a
// hard break, fewer are dropped.
func maybeLineBreak(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	// only the first space of a run scans ahead
	if offset > 0 && data[offset-1] == ' ' {
		return 0
	}
	end := skipChar(data, offset, ' ')
	if end >= len(data) || data[end] != '\n' {
		return 0
	}
	if end-offset >= 2 {
		p.check("LineBreak", p.r.LineBreak(out))
		return end - offset + 1
	}
	return end - offset
}

// lineBreak handles a newline inside a span.
func lineBreak(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	if p.flags&JoinLines != 0 {
		return 1
	}
	if p.flags&HardLineBreak != 0 {
		p.check("LineBreak", p.r.LineBreak(out))
		return 1
	}
	return 0
}

// codeSpan matches a run of backticks with an equal run closing it.
func codeSpan(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	data = data[offset:]

	nb := skipChar(data, 0, '`')

	// find the next delimiter
	i, end := 0, 0
	for end = nb; end < len(data) && i < nb; end++ {
		if data[end] == '`' {
			i++
		} else {
			i = 0
		}
	}

	// no matching delimiter
	if i < nb && end >= len(data) {
		return 0
	}

	// trim outside whitespace
	fBegin := nb
	for fBegin < end && data[fBegin] == ' ' {
		fBegin++
	}
	fEnd := end - nb
	for fEnd > fBegin && data[fEnd-1] == ' ' {
		fEnd--
	}

	if fBegin != fEnd {
		p.check("CodeSpan", p.r.CodeSpan(out, data[fBegin:fEnd]))
	}
	return end
}

var escapeChars = []byte("\\`*_{}[]()#+-.!:|&<>~")

// escape handles a backslash: an escaped punctuation character is literal
// text, and with BackslashLineBreak a backslash before a newline is a hard
// break.
func escape(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	data = data[offset:]
	if len(data) < 2 {
		return 0
	}
	if data[1] == '\n' {
		if p.flags&BackslashLineBreak == 0 {
			return 0
		}
		p.check("LineBreak", p.r.LineBreak(out))
		return 2
	}
	if bytes.IndexByte(escapeChars, data[1]) < 0 {
		return 0
	}
	p.check("NormalText", p.r.NormalText(out, data[1:2]))
	return 2
}

// entity passes "&name;" and "&#123;" through untouched.
func entity(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	data = data[offset:]
	end := 1
	if end < len(data) && data[end] == '#' {
		end++
	}
	nameStart := end
	for end < len(data) && isalnum(data[end]) {
		end++
	}
	if end == nameStart || end >= len(data) || data[end] != ';' {
		return 0
	}
	end++
	p.check("Entity", p.r.Entity(out, data[:end]))
	return end
}

// leftAngle matches '<': autolinks, raw tags and comments.
func leftAngle(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	data = data[offset:]
	kind, end := tagLength(data)
	if size := inlineHTMLComment(data); size > 0 {
		kind, end = LinkTypeNotAutolink, size
	}
	if end <= 2 {
		return 0
	}
	if kind == LinkTypeNotAutolink {
		p.check("RawHTMLTag", p.r.RawHTMLTag(out, data[:end]))
		return end
	}
	if p.insideLink {
		return 0
	}
	var uLink bytes.Buffer
	unescapeText(&uLink, data[1:end-1])
	if uLink.Len() == 0 {
		return 0
	}
	p.check("AutoLink", p.r.AutoLink(out, uLink.Bytes(), kind))
	return end
}

func inlineHTMLComment(data []byte) int {
	if len(data) < 5 {
		return 0
	}
	if data[0] != '<' || data[1] != '!' || data[2] != '-' || data[3] != '-' {
		return 0
	}
	i := 5
	// scan for an end-of-comment marker, across lines if necessary
	for i < len(data) && !(data[i-2] == '-' && data[i-1] == '-' && data[i] == '>') {
		i++
	}
	if i >= len(data) {
		return 0
	}
	return i + 1
}

// tagLength returns the length of the tag or autolink at the start of data
// and what kind of autolink it is.
func tagLength(data []byte) (LinkType, int) {
	var i, j int

	if len(data) < 3 || data[0] != '<' {
		return LinkTypeNotAutolink, 0
	}

	// begins with a '<' optionally followed by '/', followed by letter or number
	i = 1
	if data[1] == '/' {
		i = 2
	}
	if !isalnum(data[i]) {
		return LinkTypeNotAutolink, 0
	}

	// scheme test
	kind := LinkTypeNotAutolink

	// try to find the beginning of an URI
	for i < len(data) && (isalnum(data[i]) || data[i] == '.' || data[i] == '+' || data[i] == '-') {
		i++
	}

	if i > 1 && i < len(data) && data[i] == '@' {
		if j = isMailtoAutoLink(data[i:]); j != 0 {
			return LinkTypeEmail, i + j
		}
	}

	if i > 2 && i < len(data) && data[i] == ':' {
		kind = LinkTypeNormal
		i++
	}

	// complete autolink test: no whitespace or ' or "
	switch {
	case i >= len(data):
		kind = LinkTypeNotAutolink
	case kind != LinkTypeNotAutolink:
		j = i

		for i < len(data) {
			if data[i] == '\\' {
				i += 2
			} else if data[i] == '>' || data[i] == '\'' || data[i] == '"' || isspace(data[i]) {
				break
			} else {
				i++
			}
		}

		if i >= len(data) {
			return kind, 0
		}
		if i > j && data[i] == '>' {
			return kind, i + 1
		}
		// one of the forbidden chars has been found
		kind = LinkTypeNotAutolink
	}

	// look for something looking like a tag end
	for i < len(data) && data[i] != '>' {
		i++
	}
	if i >= len(data) {
		return kind, 0
	}
	return kind, i + 1
}

// isMailtoAutoLink looks for the address part of "<user@host>" and returns
// its length including the closing '>'.
func isMailtoAutoLink(data []byte) int {
	nb := 0

	// address is assumed to be: [-@._a-zA-Z0-9]+ with exactly one '@'
	for i := 0; i < len(data); i++ {
		if isalnum(data[i]) {
			continue
		}

		switch data[i] {
		case '@':
			nb++
		case '-', '.', '_':
		case '>':
			if nb == 1 {
				return i + 1
			}
			return 0
		default:
			return 0
		}
	}
	return 0
}

var autolinkPrefixes = [][]byte{
	[]byte("http://"),
	[]byte("https://"),
	[]byte("ftp://"),
	[]byte("file://"),
	[]byte("mailto:"),
}

func linkPrefixLength(data []byte) int {
	for _, prefix := range autolinkPrefixes {
		if hasPrefixCaseInsensitive(data, prefix) {
			return len(prefix)
		}
	}
	return 0
}

// maybeAutoLink matches bare URLs at a word boundary.
func maybeAutoLink(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	if p.insideLink || (offset > 0 && isalnum(data[offset-1])) {
		return 0
	}
	n := linkPrefixLength(data[offset:])
	if n == 0 || offset+n >= len(data) {
		return 0
	}
	if c := data[offset+n]; !isalnum(c) && c != '/' {
		return 0
	}
	return autoLink(p, out, data, offset)
}

func isEndOfLink(c byte) bool {
	return isspace(c) || c == '<'
}

// linkEndsWithEntity reports whether data[:linkEnd] ends in "&name;".
func linkEndsWithEntity(data []byte, linkEnd int) bool {
	j := linkEnd - 2
	for j >= 0 && isletter(data[j]) {
		j--
	}
	n := linkEnd - 2 - j
	return j >= 0 && data[j] == '&' && n >= 2 && n <= 5
}

func autoLink(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	origData := data
	data = data[offset:]

	linkEnd := 0
	for linkEnd < len(data) && !isEndOfLink(data[linkEnd]) {
		linkEnd++
	}

	// skip punctuation at the end of the link
	if (data[linkEnd-1] == '.' || data[linkEnd-1] == ',') && data[linkEnd-2] != '\\' {
		linkEnd--
	}

	// but don't skip semicolon if it's a part of escaped entity
	if data[linkEnd-1] == ';' && data[linkEnd-2] != '\\' && !linkEndsWithEntity(data, linkEnd) {
		linkEnd--
	}

	// See if the link finishes with a punctuation sign that can be closed.
	var copen byte
	switch data[linkEnd-1] {
	case '"':
		copen = '"'
	case '\'':
		copen = '\''
	case ')':
		copen = '('
	case ']':
		copen = '['
	case '}':
		copen = '{'
	}

	if copen != 0 {
		bufEnd := offset + linkEnd - 2
		openDelim := 1

		// Try to close the final punctuation sign in this same line;
		// if we managed to close it outside of the URL, that means that it's
		// not part of the URL. If it closes inside the URL, that means it
		// is part of the URL.
		//
		// Examples:
		//
		//      foo http://www.pokemon.com/Pikachu_(Electric) bar
		//              => http://www.pokemon.com/Pikachu_(Electric)
		//
		//      foo (http://www.pokemon.com/Pikachu_(Electric)) bar
		//              => http://www.pokemon.com/Pikachu_(Electric)
		//
		//      foo http://www.pokemon.com/Pikachu_(Electric)) bar
		//              => http://www.pokemon.com/Pikachu_(Electric))
		//
		//      (foo http://www.pokemon.com/Pikachu_(Electric)) bar
		//              => foo http://www.pokemon.com/Pikachu_(Electric)

		for bufEnd >= 0 && origData[bufEnd] != '\n' && openDelim != 0 {
			if origData[bufEnd] == data[linkEnd-1] {
				openDelim++
			}
			if origData[bufEnd] == copen {
				openDelim--
			}
			bufEnd--
		}

		if openDelim == 0 {
			linkEnd--
		}
	}

	var uLink bytes.Buffer
	unescapeText(&uLink, data[:linkEnd])
	if uLink.Len() == 0 {
		return 0
	}
	p.check("AutoLink", p.r.AutoLink(out, uLink.Bytes(), LinkTypeNormal))
	return linkEnd
}

func maybeImage(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	if offset < len(data)-1 && data[offset+1] == '[' {
		return link(p, out, data, offset)
	}
	return 0
}

type linkKind int

const (
	linkNormal linkKind = iota
	linkImg
	linkFootnote
)

func isReferenceStyleLink(data []byte, pos int, kind linkKind) bool {
	if kind == linkFootnote {
		return false
	}
	return pos < len(data)-1 && data[pos] == '[' && data[pos+1] != '^'
}

// link matches '[': inline links, reference links, images and footnote
// references.
func link(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	var kind linkKind
	switch {
	case data[offset] == '!':
		kind = linkImg
	case p.flags&Footnotes != 0 && offset+1 < len(data) && data[offset+1] == '^':
		kind = linkFootnote
	default:
		kind = linkNormal
	}

	// links do not nest; images inside links are fine
	if p.insideLink && kind != linkImg {
		return 0
	}
	if kind == linkFootnote {
		return footnoteRef(p, out, data[offset:])
	}

	if kind == linkImg {
		offset++
	}
	data = data[offset:]

	var (
		i                      = 1
		title, uri, altContent []byte
	)

	// look for the matching closing bracket
	for level := 1; level > 0 && i < len(data); i++ {
		switch {
		case data[i-1] == '\\':
			continue

		case data[i] == '[':
			level++

		case data[i] == ']':
			level--
			if level <= 0 {
				i-- // compensate for extra i++ in for loop
			}
		}
	}

	if i >= len(data) {
		return 0
	}

	txtE := i
	i++

	// skip any amount of whitespace or newline
	// (this is much more lax than original markdown syntax)
	for i < len(data) && isspace(data[i]) {
		i++
	}

	switch {
	// inline style link
	case i < len(data) && data[i] == '(':
		// skip initial whitespace
		i++
		for i < len(data) && isspace(data[i]) {
			i++
		}
		linkB := i

		// look for link end: ' " )
	findlinkend:
		for i < len(data) {
			switch {
			case data[i] == '\\':
				i += 2

			case data[i] == ')' || data[i] == '\'' || data[i] == '"':
				break findlinkend

			default:
				i++
			}
		}

		if i >= len(data) {
			return 0
		}
		linkE := i

		// look for title end if present
		titleB, titleE := 0, 0
		if data[i] == '\'' || data[i] == '"' {
			i++
			titleB = i

		findtitleend:
			for i < len(data) {
				switch {
				case data[i] == '\\':
					i += 2

				case data[i] == ')':
					break findtitleend

				default:
					i++
				}
			}

			if i >= len(data) {
				return 0
			}

			// skip whitespace after title
			titleE = i - 1
			for titleE > titleB && isspace(data[titleE]) {
				titleE--
			}

			// check for closing quote presence
			if data[titleE] != '\'' && data[titleE] != '"' {
				titleB, titleE = 0, 0
				linkE = i
			}
		}

		// remove whitespace at the end of the link
		for linkE > linkB && isspace(data[linkE-1]) {
			linkE--
		}

		// remove optional angle brackets around the link
		if linkE > linkB+1 && data[linkB] == '<' && data[linkE-1] == '>' {
			linkB++
			linkE--
		}

		if linkE > linkB {
			uri = data[linkB:linkE]
		}
		if titleE > titleB {
			title = data[titleB:titleE]
		}

		i++

	// reference style link
	case isReferenceStyleLink(data, i, kind):
		var id []byte
		altContentConsidered := false

		// look for the id
		i++
		linkB := i
		i = skipUntilChar(data, i, ']')
		if i >= len(data) {
			return 0
		}
		linkE := i

		if linkB == linkE {
			// [text][] uses the text as its id
			id = data[1:txtE]
			altContentConsidered = true
		} else {
			id = data[linkB:linkE]
		}

		ref, found := p.getRef(id)
		if !found {
			return 0
		}

		uri = ref.link
		title = ref.title
		if altContentConsidered {
			altContent = ref.text
		}
		i++

	// shortcut reference style link or a plain bracketed text
	default:
		// [text] is its own id
		ref, found := p.getRef(data[1:txtE])
		if !found {
			return 0
		}

		uri = ref.link
		title = ref.title
		altContent = ref.text

		// rewind the whitespace
		i = txtE + 1
	}

	// links need something to click on and somewhere to go
	if len(uri) == 0 || (kind == linkNormal && txtE <= 1 && len(altContent) == 0) {
		return 0
	}

	var uLink, uTitle bytes.Buffer
	unescapeText(&uLink, uri)
	unescapeText(&uTitle, title)

	switch kind {
	case linkNormal:
		var content bytes.Buffer
		if len(altContent) > 0 {
			p.normalText(&content, altContent)
		} else {
			insideLink := p.insideLink
			p.insideLink = true
			p.inline(&content, data[1:txtE])
			p.insideLink = insideLink
		}
		p.check("Link", p.r.Link(out, uLink.Bytes(), uTitle.Bytes(), content.Bytes()))

	case linkImg:
		var alt bytes.Buffer
		if len(altContent) > 0 {
			alt.Write(altContent)
		} else {
			unescapeText(&alt, data[1:txtE])
		}
		p.check("Image", p.r.Image(out, uLink.Bytes(), uTitle.Bytes(), alt.Bytes()))
		// account for the '!'
		i++
	}

	return i
}

// footnoteRef matches "[^name]" against the footnote definitions. A note
// is numbered the first time it is referenced.
func footnoteRef(p *parser, out *bytes.Buffer, data []byte) int {
	end := 2
	for end < len(data) && data[end] != ']' && data[end] != '\n' {
		end++
	}
	if end >= len(data) || data[end] != ']' || end == 2 {
		return 0
	}
	note, found := p.getNote(data[2:end])
	if !found {
		return 0
	}
	if note.id == 0 {
		p.usedNotes = append(p.usedNotes, note)
		note.id = len(p.usedNotes)
	}
	p.check("FootnoteRef", p.r.FootnoteRef(out, []byte(note.name), note.id))
	return end + 1
}

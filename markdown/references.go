package markdown

import (
	"bytes"
	"strings"
)

type reference struct {
	link  []byte
	title []byte
	text  []byte
}

type footnote struct {
	name     string
	body     []byte
	hasBlock bool
	// id is the 1-based position in the footnote list, 0 while unused.
	id int
}

// collapseSpace trims label and collapses inner whitespace runs.
func collapseSpace(label []byte) string {
	return strings.Join(strings.Fields(string(label)), " ")
}

// normalizeLabel is the lookup key of a reference label: case folded with
// whitespace collapsed.
func (p *parser) normalizeLabel(label []byte) string {
	return p.fold.String(collapseSpace(label))
}

// getRef resolves a link reference, consulting the override hook first.
func (p *parser) getRef(label []byte) (*reference, bool) {
	if p.refOverride != nil {
		ref, overridden := p.refOverride(collapseSpace(label))
		if overridden {
			if ref == nil {
				return nil, false
			}
			return &reference{
				link:  []byte(ref.Link),
				title: []byte(ref.Title),
				text:  []byte(ref.Text),
			}, true
		}
	}
	ref, ok := p.refs[p.normalizeLabel(label)]
	return ref, ok
}

func (p *parser) getNote(label []byte) (*footnote, bool) {
	note, ok := p.notes[p.normalizeLabel(label)]
	return note, ok
}

// quotedPrefix returns the length of a block quote marker at the start of
// data, or 0.
func quotedPrefix(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) || data[i] != '>' {
		return 0
	}
	if i+1 < len(data) && data[i+1] == ' ' {
		return i + 2
	}
	return i + 1
}

// isReference reports the length of a link reference or footnote
// definition at the start of data, registering it when register is set.
// The returned length stops at the line terminator of the definition.
//
// Link references:
//
//	[id]: http://example.com/  "Optional Title"
//
// Footnotes (with the Footnotes extension):
//
//	[^note]: The note text,
//	    continued on indented lines.
func (p *parser) isReference(data []byte, tabSize int, register bool) int {
	if len(data) < 4 {
		return 0
	}
	i := 0
	for i < 3 && data[i] == ' ' {
		i++
	}
	if data[i] != '[' {
		return 0
	}
	i++

	isNote := false
	if p.flags&Footnotes != 0 && i < len(data) && data[i] == '^' {
		isNote = true
		i++
	}

	idOffset := i
	for i < len(data) && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= len(data) || data[i] != ']' {
		return 0
	}
	idEnd := i
	if len(bytes.TrimSpace(data[idOffset:idEnd])) == 0 {
		return 0
	}

	i++
	if i >= len(data) || data[i] != ':' {
		return 0
	}
	i++
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < len(data) && (data[i] == '\n' || data[i] == '\r') {
		i++
		if i < len(data) && data[i] == '\n' && data[i-1] == '\r' {
			i++
		}
	}
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i >= len(data) {
		return 0
	}

	id := data[idOffset:idEnd]
	if isNote {
		end, body, hasBlock := scanFootnote(data, i, tabSize)
		if end == 0 {
			return 0
		}
		if register {
			key := p.normalizeLabel(id)
			if _, dup := p.notes[key]; !dup {
				p.notes[key] = &footnote{name: collapseSpace(id), body: body, hasBlock: hasBlock}
			}
		}
		if data[end-1] == '\n' {
			end--
		}
		return end
	}

	linkOffset, linkEnd, titleOffset, titleEnd, lineEnd := scanLinkRef(data, i)
	if lineEnd == 0 {
		return 0
	}
	if register {
		key := p.normalizeLabel(id)
		if _, dup := p.refs[key]; !dup {
			ref := &reference{link: data[linkOffset:linkEnd]}
			if titleEnd > titleOffset {
				ref.title = data[titleOffset:titleEnd]
			}
			p.refs[key] = ref
		}
	}
	return lineEnd
}

func scanLinkRef(data []byte, i int) (linkOffset, linkEnd, titleOffset, titleEnd, lineEnd int) {
	// link: whitespace-free sequence, optionally between angle brackets
	angle := data[i] == '<'
	if angle {
		i++
	}
	linkOffset = i
	for i < len(data) && data[i] != ' ' && data[i] != '\t' && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	linkEnd = i
	if angle && linkEnd > linkOffset && data[linkEnd-1] == '>' {
		linkEnd--
	}
	if linkEnd == linkOffset {
		return 0, 0, 0, 0, 0
	}

	// optional spacer: (space | tab)* (newline | '\'' | '"' | '(' )
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < len(data) && data[i] != '\n' && data[i] != '\r' && data[i] != '\'' && data[i] != '"' && data[i] != '(' {
		return 0, 0, 0, 0, 0
	}

	if i >= len(data) || data[i] == '\r' || data[i] == '\n' {
		lineEnd = i
	}
	if i+1 < len(data) && data[i] == '\r' && data[i+1] == '\n' {
		lineEnd++
	}

	// a title may sit on the following line
	if lineEnd > 0 {
		i = lineEnd + 1
		for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
			i++
		}
	}

	// optional title: any non-newline sequence enclosed in '"() alone on its line
	if i+1 < len(data) && (data[i] == '\'' || data[i] == '"' || data[i] == '(') {
		i++
		titleOffset = i

		for i < len(data) && data[i] != '\n' && data[i] != '\r' {
			i++
		}
		eol := i
		if i+1 < len(data) && data[i] == '\r' && data[i+1] == '\n' {
			eol++
		}

		i--
		for i > titleOffset && (data[i] == ' ' || data[i] == '\t') {
			i--
		}
		if i > titleOffset && (data[i] == '\'' || data[i] == '"' || data[i] == ')') {
			lineEnd = eol
			titleEnd = i
		} else {
			titleOffset = 0
		}
	}
	return linkOffset, linkEnd, titleOffset, titleEnd, lineEnd
}

// scanFootnote gathers the body of a footnote definition: the rest of the
// first line plus following lines indented by indentSize, blank lines
// included. hasBlock is set when the body spans more than one line.
func scanFootnote(data []byte, i, indentSize int) (end int, contents []byte, hasBlock bool) {
	if i == 0 || len(data) == 0 {
		return 0, nil, false
	}
	for i < len(data) && data[i] == ' ' {
		i++
	}

	lineStart := i
	for i < len(data) && data[i-1] != '\n' {
		i++
	}
	var raw bytes.Buffer
	raw.Write(data[lineStart:i])
	end = i

	containsBlankLine := false
	for end < len(data) {
		i = end + 1
		for i < len(data) && data[i-1] != '\n' {
			i++
		}
		if isEmpty(data[end:i]) > 0 {
			containsBlankLine = true
			end = i
			continue
		}
		n := isIndented(data[end:i], indentSize)
		if n == 0 {
			break
		}
		if containsBlankLine {
			raw.WriteByte('\n')
			containsBlankLine = false
		}
		raw.Write(data[end+n : i])
		hasBlock = true
		end = i
	}

	if raw.Len() == 0 || raw.Bytes()[raw.Len()-1] != '\n' {
		raw.WriteByte('\n')
	}
	return end, raw.Bytes(), hasBlock
}

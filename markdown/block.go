package markdown

import (
	"bytes"

	"golang.org/x/net/html/atom"
)

// blockTags are the HTML elements that may open a raw HTML block.
var blockTags = map[atom.Atom]bool{
	atom.Blockquote: true,
	atom.Del:        true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Fieldset:   true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Iframe:     true,
	atom.Ins:        true,
	atom.Math:       true,
	atom.Noscript:   true,
	atom.Ol:         true,
	atom.Pre:        true,
	atom.P:          true,
	atom.Script:     true,
	atom.Style:      true,
	atom.Table:      true,
	atom.Ul:         true,

	// HTML5
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Canvas:     true,
	atom.Details:    true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Header:     true,
	atom.Hgroup:     true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Output:     true,
	atom.Progress:   true,
	atom.Section:    true,
	atom.Video:      true,
}

// block parses data as a sequence of blocks. Each iteration recognizes one
// block at the start of data and consumes it.
func (p *parser) block(out *bytes.Buffer, data []byte) {
	if len(data) == 0 {
		return
	}
	if p.nesting >= p.maxNesting {
		p.nestingExceeded(out, data)
		return
	}
	p.nesting++

	for len(data) > 0 && !p.failed() {
		// # Header 1
		// ## Header 2
		if p.isPrefixHeader(data) {
			data = data[p.prefixHeader(out, data):]
			continue
		}

		// <div>
		//     ...
		// </div>
		if data[0] == '<' {
			if i := p.html(out, data, true); i > 0 {
				data = data[i:]
				continue
			}
		}

		if i := isEmpty(data); i > 0 {
			data = data[i:]
			continue
		}

		// indented code
		if p.codePrefix(data) > 0 {
			data = data[p.code(out, data):]
			continue
		}

		// ```go
		// func main() {}
		// ```
		if p.flags&FencedCode != 0 {
			if i := p.fencedCode(out, data); i > 0 {
				data = data[i:]
				continue
			}
		}

		// ******
		if isHRule(data) {
			p.check("HRule", p.r.HRule(out))
			i := skipUntilChar(data, 0, '\n')
			if i < len(data) {
				i++
			}
			data = data[i:]
			continue
		}

		// > quoted text
		if quotedPrefix(data) > 0 {
			data = data[p.quote(out, data):]
			continue
		}

		// Name  | Age
		// ------|----
		// Bob   | 31
		if p.flags&Tables != 0 {
			if i := p.table(out, data); i > 0 {
				data = data[i:]
				continue
			}
		}

		// * item
		if p.uliPrefix(data) > 0 {
			if i := p.list(out, data, 0); i > 0 {
				data = data[i:]
				continue
			}
		}

		// 1. item
		if p.oliPrefix(data) > 0 {
			if i := p.list(out, data, ListTypeOrdered); i > 0 {
				data = data[i:]
				continue
			}
		}

		// : definition
		if p.flags&DefinitionLists != 0 && p.dliPrefix(data) > 0 {
			if i := p.list(out, data, ListTypeDefinition); i > 0 {
				data = data[i:]
				continue
			}
		}

		data = data[p.paragraph(out, data):]
	}

	p.nesting--
}

func (p *parser) isPrefixHeader(data []byte) bool {
	if len(data) == 0 || data[0] != '#' {
		return false
	}
	if p.flags&SpaceHeaders != 0 {
		level := 0
		for level < 6 && level < len(data) && data[level] == '#' {
			level++
		}
		if level >= len(data) || (data[level] != ' ' && data[level] != '\n') {
			return false
		}
	}
	return true
}

func (p *parser) prefixHeader(out *bytes.Buffer, data []byte) int {
	level := 0
	for level < 6 && level < len(data) && data[level] == '#' {
		level++
	}
	i := skipChar(data, level, ' ')
	end := skipUntilChar(data, i, '\n')
	skip := end
	if skip < len(data) {
		skip++
	}

	id := ""
	if p.flags&HeaderIDs != 0 {
		j, k := 0, 0
		// {#id} at the end of the line
		for j = i; j < end-1 && (data[j] != '{' || data[j+1] != '#'); j++ {
		}
		for k = j + 1; k < end && data[k] != '}'; k++ {
		}
		if j < end-1 && k < end {
			id = string(bytes.TrimSpace(data[j+2 : k]))
			end = j
		}
	}

	for end > i && data[end-1] == ' ' {
		end--
	}
	for end > i && data[end-1] == '#' {
		if isBackslashEscaped(data, end-1) {
			break
		}
		end--
	}
	for end > i && data[end-1] == ' ' {
		end--
	}
	p.header(out, data[i:end], level, id)
	return skip
}

// header renders a header and assigns its id through the per-render
// registry.
func (p *parser) header(out *bytes.Buffer, text []byte, level int, id string) {
	if id == "" && p.flags&AutoHeaderIDs != 0 {
		id = p.slugify(text)
	}
	if id != "" {
		id = p.ids.unique(id)
	}
	p.check("Header", p.r.Header(out, func() bool {
		p.inline(out, text)
		return !p.failed()
	}, level, id))
}

func (p *parser) isUnderlinedHeader(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	var level int
	switch data[0] {
	case '=':
		level = 1
	case '-':
		level = 2
	default:
		return 0
	}
	i := skipChar(data, 1, data[0])
	i = skipChar(data, i, ' ')
	if i < len(data) && data[i] != '\n' {
		return 0
	}
	return level
}

func (p *parser) titleBlock(out *bytes.Buffer, data []byte) int {
	if len(data) == 0 || data[0] != '%' {
		return 0
	}
	end := 0
	var lines [][]byte
	for end < len(data) && data[end] == '%' {
		eol := skipUntilChar(data, end, '\n')
		line := bytes.TrimPrefix(data[end+1:eol], []byte(" "))
		lines = append(lines, line)
		end = eol
		if end < len(data) {
			end++
		}
	}
	p.check("TitleBlock", p.r.TitleBlock(out, bytes.Join(lines, []byte("\n"))))
	return end
}

func (p *parser) html(out *bytes.Buffer, data []byte, doRender bool) int {
	if len(data) < 2 || data[0] != '<' {
		return 0
	}
	tag, found := htmlFindTag(data[1:])
	if !found {
		if size := p.htmlComment(out, data, doRender); size > 0 {
			return size
		}
		if size := p.htmlHr(out, data, doRender); size > 0 {
			return size
		}
		return 0
	}

	// look for a matching closing tag followed by a blank line; ins and del
	// stay inline
	var i int
	closed := false
	if tag != "ins" && tag != "del" {
		i = 1
		for i < len(data) {
			i++
			for i < len(data) && !(data[i-1] == '<' && data[i] == '/') {
				i++
			}
			if i+2+len(tag) >= len(data) {
				break
			}
			if j := p.htmlFindEnd(tag, data[i-1:]); j > 0 {
				i += j - 1
				closed = true
				break
			}
		}
	}
	if !closed {
		return 0
	}

	if doRender {
		p.renderBlockHTML(out, data[:i])
	}
	return i
}

func (p *parser) renderBlockHTML(out *bytes.Buffer, data []byte) {
	end := len(data)
	for end > 0 && data[end-1] == '\n' {
		end--
	}
	p.check("BlockHTML", p.r.BlockHTML(out, data[:end]))
}

func htmlFindTag(data []byte) (string, bool) {
	i := 0
	for i < len(data) && isalnum(data[i]) {
		i++
	}
	if i == 0 {
		return "", false
	}
	key := bytes.ToLower(data[:i])
	if a := atom.Lookup(key); a != 0 && blockTags[a] {
		return string(key), true
	}
	return "", false
}

// htmlFindEnd matches "</tag>" at the start of data and returns the length
// through the end of the line, and through the following blank line
// unless LaxHTMLBlocks is set.
func (p *parser) htmlFindEnd(tag string, data []byte) int {
	closeTag := []byte("</" + tag + ">")
	if !hasPrefixCaseInsensitive(data, closeTag) {
		return 0
	}
	i := len(closeTag)
	if i >= len(data) {
		return i
	}
	skip := isEmpty(data[i:])
	if skip == 0 {
		return 0
	}
	i += skip
	if i >= len(data) || p.flags&LaxHTMLBlocks != 0 {
		return i
	}
	if skip = isEmpty(data[i:]); skip == 0 {
		return 0
	}
	return i + skip
}

func (p *parser) htmlComment(out *bytes.Buffer, data []byte, doRender bool) int {
	i := inlineHTMLComment(data)
	if i == 0 {
		return 0
	}
	j := isEmpty(data[i:])
	if j == 0 && i < len(data) {
		return 0
	}
	if doRender {
		p.renderBlockHTML(out, data[:i])
	}
	return i + j
}

func (p *parser) htmlHr(out *bytes.Buffer, data []byte, doRender bool) int {
	if len(data) < 4 {
		return 0
	}
	if (data[1] != 'h' && data[1] != 'H') || (data[2] != 'r' && data[2] != 'R') {
		return 0
	}
	if data[3] != ' ' && data[3] != '/' && data[3] != '>' {
		return 0
	}
	i := 3
	for i < len(data) && data[i] != '>' && data[i] != '\n' {
		i++
	}
	if i >= len(data) || data[i] != '>' {
		return 0
	}
	i++
	j := isEmpty(data[i:])
	if j == 0 && i < len(data) {
		return 0
	}
	if doRender {
		p.renderBlockHTML(out, data[:i])
	}
	return i + j
}

// isHRule reports a line of three or more '*', '-' or '_', optionally
// separated by spaces.
func isHRule(data []byte) bool {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) {
		return false
	}
	c := data[i]
	if c != '*' && c != '-' && c != '_' {
		return false
	}
	n := 0
	for i < len(data) && data[i] != '\n' {
		switch {
		case data[i] == c:
			n++
		case data[i] != ' ':
			return false
		}
		i++
	}
	return n >= 3
}

// isFenceLine matches a code fence at the start of data and returns the
// offset past its line. With open empty it matches an opening fence and
// returns its info string; otherwise it matches a closing fence for open:
// same character, at least as long, nothing else on the line.
func isFenceLine(data []byte, open string) (end int, marker, info string) {
	i := 0
	for i < len(data) && i < 3 && data[i] == ' ' {
		i++
	}
	if i >= len(data) || (data[i] != '~' && data[i] != '`') {
		return 0, "", ""
	}
	c := data[i]
	start := i
	i = skipChar(data, i, c)
	if i-start < 3 {
		return 0, "", ""
	}
	marker = string(data[start:i])

	if open != "" {
		if marker[0] != open[0] || len(marker) < len(open) {
			return 0, "", ""
		}
		for i < len(data) && (data[i] == ' ' || data[i] == '\t' || data[i] == '\r') {
			i++
		}
		if i < len(data) && data[i] != '\n' {
			return 0, "", ""
		}
		if i < len(data) {
			i++
		}
		return i, marker, ""
	}

	eol := skipUntilChar(data, i, '\n')
	rest := bytes.TrimSpace(data[i:eol])
	if c == '`' && bytes.IndexByte(rest, '`') >= 0 {
		return 0, "", ""
	}
	if eol < len(data) {
		eol++
	}
	return eol, marker, string(rest)
}

// fencedCodeLength returns the length of the fenced code block at the start
// of data, running to the end of data when the fence is never closed.
func fencedCodeLength(data []byte) int {
	beg, marker, _ := isFenceLine(data, "")
	if beg == 0 {
		return 0
	}
	i := beg
	for i < len(data) {
		if end, _, _ := isFenceLine(data[i:], marker); end > 0 {
			return i + end
		}
		i = skipUntilChar(data, i, '\n')
		if i < len(data) {
			i++
		}
	}
	return len(data)
}

func (p *parser) fencedCode(out *bytes.Buffer, data []byte) int {
	beg, marker, info := isFenceLine(data, "")
	if beg == 0 {
		return 0
	}

	var work bytes.Buffer
	i := beg
	for i < len(data) {
		if end, _, _ := isFenceLine(data[i:], marker); end > 0 {
			i += end
			break
		}
		eol := skipUntilChar(data, i, '\n')
		if eol < len(data) {
			eol++
		}
		work.Write(data[i:eol])
		i = eol
	}

	p.check("BlockCode", p.r.BlockCode(out, work.Bytes(), info))
	return i
}

func (p *parser) codePrefix(data []byte) int {
	return isIndented(data, p.tabSize())
}

func (p *parser) code(out *bytes.Buffer, data []byte) int {
	var work bytes.Buffer
	i := 0
	for i < len(data) {
		beg := i
		i = skipUntilChar(data, i, '\n')
		if i < len(data) {
			i++
		}

		blank := isEmpty(data[beg:i]) > 0
		if pre := p.codePrefix(data[beg:i]); pre > 0 {
			beg += pre
		} else if !blank {
			// non-empty, non-prefixed line breaks the pre
			i = beg
			break
		}

		if blank {
			work.WriteByte('\n')
		} else {
			work.Write(data[beg:i])
		}
	}

	// trim trailing blank lines, keep one newline
	text := bytes.TrimRight(work.Bytes(), "\n")
	text = append(text, '\n')

	p.check("BlockCode", p.r.BlockCode(out, text, ""))
	return i
}

// quote consumes a block quote: prefixed lines plus lazy continuation
// lines, up to a blank line that is followed by a non-quoted line.
func (p *parser) quote(out *bytes.Buffer, data []byte) int {
	var raw bytes.Buffer
	beg, end := 0, 0
	for beg < len(data) {
		end = skipUntilChar(data, beg, '\n')
		if end < len(data) {
			end++
		}
		if pre := quotedPrefix(data[beg:]); pre > 0 {
			beg += pre
		} else if terminateBlockquote(data, beg, end) {
			break
		}
		raw.Write(data[beg:end])
		beg = end
	}

	var cooked bytes.Buffer
	p.block(&cooked, raw.Bytes())
	p.check("BlockQuote", p.r.BlockQuote(out, cooked.Bytes()))
	return end
}

func terminateBlockquote(data []byte, beg, end int) bool {
	if isEmpty(data[beg:]) == 0 {
		return false
	}
	if end >= len(data) {
		return true
	}
	return quotedPrefix(data[end:]) == 0 && isEmpty(data[end:]) == 0
}

func (p *parser) table(out *bytes.Buffer, data []byte) int {
	var header bytes.Buffer
	i, columns := p.tableHeader(&header, data)
	if i == 0 {
		return 0
	}

	var body bytes.Buffer
	for i < len(data) && !p.failed() {
		pipes, rowStart := 0, i
		for ; i < len(data) && data[i] != '\n'; i++ {
			if data[i] == '|' && !isBackslashEscaped(data, i) {
				pipes++
			}
		}
		if pipes == 0 {
			i = rowStart
			break
		}
		if i < len(data) {
			i++
		}
		p.tableRow(&body, data[rowStart:i], columns, false)
	}

	p.check("Table", p.r.Table(out, header.Bytes(), body.Bytes(), columns))
	return i
}

// tableHeader validates the header line and the delimiter row under it
// before rendering anything. Each delimiter cell is /:?-+:?/, padded with
// spaces; the outer pipes are optional.
func (p *parser) tableHeader(out *bytes.Buffer, data []byte) (int, []CellAlignment) {
	i := 0
	colCount := 1
	for ; i < len(data) && data[i] != '\n'; i++ {
		if data[i] == '|' && !isBackslashEscaped(data, i) {
			colCount++
		}
	}
	if colCount == 1 || i >= len(data) {
		return 0, nil
	}
	header := data[:i+1]

	// pipes at the beginning or end of the line do not add columns
	if data[0] == '|' {
		colCount--
	}
	if i > 2 && data[i-1] == '|' && !isBackslashEscaped(data, i-1) {
		colCount--
	}
	if colCount < 1 {
		return 0, nil
	}
	columns := make([]CellAlignment, colCount)

	i++
	if i < len(data) && data[i] == '|' {
		i++
	}
	i = skipChar(data, i, ' ')

	col := 0
	for i < len(data) && data[i] != '\n' {
		if col >= colCount {
			return 0, nil
		}
		dashes := 0
		if data[i] == ':' {
			i++
			columns[col] |= TableAlignmentLeft
		}
		for i < len(data) && data[i] == '-' {
			i++
			dashes++
		}
		if i < len(data) && data[i] == ':' {
			i++
			columns[col] |= TableAlignmentRight
		}
		i = skipChar(data, i, ' ')

		switch {
		case dashes == 0:
			return 0, nil
		case i < len(data) && data[i] == '|' && !isBackslashEscaped(data, i):
			col++
			i++
			i = skipChar(data, i, ' ')
			if col >= colCount && i < len(data) && data[i] != '\n' {
				return 0, nil
			}
		case col+1 < colCount:
			// a separator was required here
			return 0, nil
		case i >= len(data) || data[i] == '\n':
			// last column; the trailing pipe is optional
			col++
		default:
			return 0, nil
		}
	}
	if col != colCount {
		return 0, nil
	}

	p.tableRow(out, header, columns, true)
	if i < len(data) {
		i++
	}
	return i, columns
}

// tableRow renders one row, padding short rows with empty cells and
// dropping cells beyond the column count.
func (p *parser) tableRow(out *bytes.Buffer, data []byte, columns []CellAlignment, header bool) {
	var row bytes.Buffer
	i, col := 0, 0
	if i < len(data) && data[i] == '|' {
		i++
	}

	for ; col < len(columns) && i < len(data) && data[i] != '\n'; col++ {
		i = skipChar(data, i, ' ')
		cellStart := i
		for i < len(data) && (data[i] != '|' || isBackslashEscaped(data, i)) && data[i] != '\n' {
			i++
		}
		cellEnd := i
		if i < len(data) && data[i] == '|' {
			i++
		}
		for cellEnd > cellStart && data[cellEnd-1] == ' ' {
			cellEnd--
		}

		var cell bytes.Buffer
		p.inline(&cell, data[cellStart:cellEnd])
		p.tableCell(&row, cell.Bytes(), columns[col], header)
	}
	for ; col < len(columns); col++ {
		p.tableCell(&row, nil, columns[col], header)
	}

	p.check("TableRow", p.r.TableRow(out, row.Bytes()))
}

func (p *parser) tableCell(out *bytes.Buffer, text []byte, align CellAlignment, header bool) {
	if header {
		p.check("TableHeaderCell", p.r.TableHeaderCell(out, text, align))
		return
	}
	p.check("TableCell", p.r.TableCell(out, text, align))
}

func (p *parser) uliPrefix(data []byte) int {
	i := 0
	for i < len(data) && i < 3 && data[i] == ' ' {
		i++
	}
	if i >= len(data)-1 {
		return 0
	}
	if (data[i] != '*' && data[i] != '+' && data[i] != '-') || (data[i+1] != ' ' && data[i+1] != '\t') {
		return 0
	}
	return i + 2
}

func (p *parser) oliPrefix(data []byte) int {
	i := 0
	for i < len(data) && i < 3 && data[i] == ' ' {
		i++
	}
	start := i
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	if start == i || i >= len(data)-1 {
		return 0
	}
	if data[i] != '.' || (data[i+1] != ' ' && data[i+1] != '\t') {
		return 0
	}
	return i + 2
}

func (p *parser) dliPrefix(data []byte) int {
	if len(data) < 2 || data[0] != ':' || (data[1] != ' ' && data[1] != '\t') {
		return 0
	}
	return 2
}

type listItem struct {
	raw []byte
	// sublist is the offset in raw where a nested list starts, 0 if none.
	sublist int
	flags   ListType
}

// list gathers every item before rendering so that each item knows whether
// it begins or ends the list. A list with any block item renders all of
// its items as blocks.
func (p *parser) list(out *bytes.Buffer, data []byte, flags ListType) int {
	var items []listItem
	i := 0
	for i < len(data) {
		item, skip := p.listItem(data[i:], flags)
		if skip == 0 {
			break
		}
		items = append(items, item)
		i += skip
		if item.flags&ListItemEndOfList != 0 {
			break
		}
	}
	if len(items) == 0 {
		return 0
	}

	loose := false
	for _, item := range items {
		if item.flags&ListItemContainsBlock != 0 && item.flags&ListTypeTerm == 0 {
			loose = true
			break
		}
	}
	listFlags := flags
	if loose {
		listFlags |= ListItemContainsBlock
	}

	p.check("List", p.r.List(out, func() bool {
		for n, item := range items {
			if p.failed() {
				break
			}
			itemFlags := item.flags &^ (ListItemBeginningOfList | ListItemEndOfList | ListItemContainsBlock)
			if loose && itemFlags&ListTypeTerm == 0 {
				itemFlags |= ListItemContainsBlock
			}
			if n == 0 {
				itemFlags |= ListItemBeginningOfList
			}
			if n == len(items)-1 {
				itemFlags |= ListItemEndOfList
			}
			p.renderListItem(out, item, itemFlags)
		}
		return !p.failed()
	}, listFlags))
	return i
}

func (p *parser) renderListItem(out *bytes.Buffer, item listItem, flags ListType) {
	var cooked bytes.Buffer
	head, tail := item.raw, []byte(nil)
	if item.sublist > 0 {
		head, tail = item.raw[:item.sublist], item.raw[item.sublist:]
	}
	if flags&ListItemContainsBlock != 0 && flags&ListTypeTerm == 0 {
		p.block(&cooked, head)
	} else {
		p.inline(&cooked, bytes.TrimRight(head, "\n"))
	}
	if len(tail) > 0 {
		p.block(&cooked, tail)
	}
	p.check("ListItem", p.r.ListItem(out, cooked.Bytes(), flags))
}

// listItem scans one item: its first line and the continuation lines that
// belong to it. A zero length means data does not start an item.
func (p *parser) listItem(data []byte, flags ListType) (listItem, int) {
	itemIndent := 0
	if len(data) > 0 && data[0] == '\t' {
		itemIndent += 4
	} else {
		for itemIndent < 3 && itemIndent < len(data) && data[itemIndent] == ' ' {
			itemIndent++
		}
	}

	i := p.uliPrefix(data)
	if i == 0 {
		i = p.oliPrefix(data)
	}
	if i == 0 && p.flags&DefinitionLists != 0 {
		if i = p.dliPrefix(data); i > 0 {
			flags &^= ListTypeTerm
		}
	}
	if i == 0 {
		// a line without a marker is a term, in definition lists only
		if flags&ListTypeDefinition == 0 {
			return listItem{}, 0
		}
		flags |= ListTypeTerm
	}

	i = skipChar(data, i, ' ')
	line := i
	i = skipUntilChar(data, i, '\n')
	if i < len(data) {
		i++
	}

	var raw bytes.Buffer
	raw.Write(data[line:i])
	line = i

	containsBlankLine := false
	sublist := 0

gatherlines:
	for line < len(data) {
		i = skipUntilChar(data, line, '\n')
		if i < len(data) {
			i++
		}

		// blank lines may belong to this item; the next line decides
		if isEmpty(data[line:i]) > 0 {
			containsBlankLine = true
			line = i
			continue
		}

		indent, indentIndex := 0, 0
		if data[line] == '\t' {
			indentIndex++
			indent += 4
		} else {
			for indent < 4 && line+indent < i && data[line+indent] == ' ' {
				indent++
				indentIndex++
			}
		}
		chunk := data[line+indentIndex : i]

		switch {
		// another item, nested or not
		case (p.uliPrefix(chunk) > 0 && !isHRule(chunk)) ||
			p.oliPrefix(chunk) > 0 ||
			(p.flags&DefinitionLists != 0 && p.dliPrefix(chunk) > 0):
			if containsBlankLine {
				flags |= ListItemContainsBlock
			}
			if indent <= itemIndent {
				break gatherlines
			}
			if sublist == 0 {
				sublist = raw.Len()
			}

		// a header ends the list after a blank line, else belongs to the item
		case p.isPrefixHeader(chunk):
			if containsBlankLine && indent < 4 {
				flags |= ListItemEndOfList
				break gatherlines
			}
			flags |= ListItemContainsBlock

		// an unindented line after a blank line ends the list
		case containsBlankLine && indent < 4:
			if flags&ListTypeDefinition != 0 && i < len(data)-1 {
				// keep going when the next definition follows
				next := skipUntilChar(data, i, '\n')
				for next < len(data)-1 && data[next] == '\n' {
					next++
				}
				if data[i] != ':' && data[next] != ':' {
					flags |= ListItemEndOfList
				}
			} else {
				flags |= ListItemEndOfList
			}
			break gatherlines

		// an indented line after a blank line is a new paragraph of the item
		case containsBlankLine:
			raw.WriteByte('\n')
			flags |= ListItemContainsBlock
		}

		if containsBlankLine {
			containsBlankLine = false
			raw.WriteByte('\n')
		}
		raw.Write(chunk)
		line = i
	}

	return listItem{raw: raw.Bytes(), sublist: sublist, flags: flags}, line
}

// paragraph consumes lines up to a blank line or the start of a block
// that may interrupt a paragraph.
func (p *parser) paragraph(out *bytes.Buffer, data []byte) int {
	// prev: index of 1st char of previous line
	// line: index of 1st char of current line
	// i: index of cursor/end of current line
	var prev, line, i int
	tabSize := p.tabSize()
	for i < len(data) {
		prev = line
		current := data[i:]
		line = i

		// a definition ends the paragraph and is consumed with it
		if refEnd := p.isReference(current, tabSize, false); refEnd > 0 {
			p.renderParagraph(out, data[:i])
			return i + refEnd
		}

		if i > 0 {
			if n := isEmpty(current); n > 0 {
				// a blank line followed by a definition makes the
				// previous line a term
				if p.flags&DefinitionLists != 0 && i+n < len(data) && p.dliPrefix(data[i+n:]) > 0 {
					p.renderParagraph(out, data[:prev])
					return prev + p.list(out, data[prev:], ListTypeDefinition)
				}
				p.renderParagraph(out, data[:i])
				return i + n
			}

			// an underline turns the previous line into a header
			if level := p.isUnderlinedHeader(current); level > 0 {
				p.renderParagraph(out, data[:prev])

				eol := i - 1
				for prev < eol && data[prev] == ' ' {
					prev++
				}
				for eol > prev && data[eol-1] == ' ' {
					eol--
				}
				p.header(out, data[prev:eol], level, "")

				i = skipUntilChar(data, i, '\n')
				if i < len(data) {
					i++
				}
				return i
			}

			if p.flags&LaxHTMLBlocks != 0 && data[i] == '<' && p.html(out, current, false) > 0 {
				p.renderParagraph(out, data[:i])
				return i
			}

			if p.isPrefixHeader(current) || isHRule(current) {
				p.renderParagraph(out, data[:i])
				return i
			}

			if p.flags&FencedCode != 0 && fencedCodeLength(current) > 0 {
				p.renderParagraph(out, data[:i])
				return i
			}

			// a definition makes the previous line a term
			if p.flags&DefinitionLists != 0 && p.dliPrefix(current) > 0 {
				p.renderParagraph(out, data[:prev])
				return prev + p.list(out, data[prev:], ListTypeDefinition)
			}

			if p.flags&NoEmptyLineBeforeBlock != 0 {
				if p.uliPrefix(current) > 0 || p.oliPrefix(current) > 0 ||
					quotedPrefix(current) > 0 || p.codePrefix(current) > 0 {
					p.renderParagraph(out, data[:i])
					return i
				}
			}
		}

		i = skipUntilChar(data, i, '\n')
		if i < len(data) {
			i++
		}
	}

	p.renderParagraph(out, data[:i])
	return i
}

func (p *parser) renderParagraph(out *bytes.Buffer, data []byte) {
	beg := skipChar(data, 0, ' ')
	end := len(data)
	for end > beg && (data[end-1] == '\n' || data[end-1] == ' ') {
		end--
	}
	if beg == end {
		return
	}
	text := data[beg:end]
	p.check("Paragraph", p.r.Paragraph(out, func() bool {
		p.inline(out, text)
		return !p.failed()
	}))
}

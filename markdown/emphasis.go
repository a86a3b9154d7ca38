package markdown

import (
	"bytes"
)

// emphasis is the handler for '*', '_' and, with Strikethrough, '~'.
// A single delimiter opens emphasis, a double one strong emphasis (or
// strikethrough for '~') and a triple one both. A single '~' never opens.
func emphasis(p *parser, out *bytes.Buffer, data []byte, offset int) int {
	c := data[offset]
	// a rejected run is retried one delimiter later, so look past it
	start := offset
	for start > 0 && data[start-1] == c {
		start--
	}
	intraWord := start > 0 && isalnum(data[start-1]) &&
		c != '~' && p.flags&NoIntraEmphasis != 0
	data = data[offset:]

	if len(data) > 2 && data[1] != c {
		// whitespace cannot follow an opening emphasis;
		// strikethrough only takes two characters '~~'
		if c == '~' || isspace(data[1]) {
			return 0
		}
		if intraWord {
			return 0
		}
		ret := helperEmphasis(p, out, data[1:], c)
		if ret == 0 {
			return 0
		}
		return ret + 1
	}

	if len(data) > 3 && data[1] == c && data[2] != c {
		if isspace(data[2]) || intraWord {
			return 0
		}
		ret := helperDoubleEmphasis(p, out, data[2:], c)
		if ret == 0 {
			return 0
		}
		return ret + 2
	}

	if len(data) > 4 && data[1] == c && data[2] == c && data[3] != c {
		if c == '~' || isspace(data[3]) || intraWord {
			return 0
		}
		ret := helperTripleEmphasis(p, out, data, 3, c)
		if ret == 0 {
			return 0
		}
		return ret + 3
	}

	return 0
}

// helperFindEmphChar returns the offset of the next candidate delimiter c
// in data, skipping code spans and links. When a code span or link never
// closes, a delimiter seen inside it is returned instead. 0 means none.
func helperFindEmphChar(data []byte, c byte) int {
	i := 0

	for i < len(data) {
		for i < len(data) && data[i] != c && data[i] != '`' && data[i] != '[' {
			i++
		}
		if i >= len(data) {
			return 0
		}
		// do not count escaped chars
		if i != 0 && data[i-1] == '\\' {
			i++
			continue
		}
		if data[i] == c {
			return i
		}

		if data[i] == '`' {
			// skip a code span
			tmpI := 0
			i++
			for i < len(data) && data[i] != '`' {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			if i >= len(data) {
				return tmpI
			}
			i++
		} else if data[i] == '[' {
			// skip a link
			tmpI := 0
			i++
			for i < len(data) && data[i] != ']' {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			i++
			for i < len(data) && (data[i] == ' ' || data[i] == '\n') {
				i++
			}
			if i >= len(data) {
				return tmpI
			}
			if data[i] != '[' && data[i] != '(' { // not a link
				if tmpI > 0 {
					return tmpI
				}
				continue
			}
			closer := byte(']')
			if data[i] == '(' {
				closer = ')'
			}
			i++
			for i < len(data) && data[i] != closer {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			if i >= len(data) {
				return tmpI
			}
			i++
		}
	}
	return 0
}

// closesIntraWord reports whether NoIntraEmphasis rejects a closing '*'
// or '_' run ending at data[i] because a word character follows it.
func (p *parser) closesIntraWord(data []byte, i int, c byte) bool {
	if p.flags&NoIntraEmphasis == 0 || c == '~' {
		return false
	}
	return i+1 < len(data) && !isspace(data[i+1]) && !ispunct(data[i+1])
}

func helperEmphasis(p *parser, out *bytes.Buffer, data []byte, c byte) int {
	i := 0

	// skip one symbol if coming from emph3
	if len(data) > 1 && data[0] == c && data[1] == c {
		i = 2
	}

	for i < len(data) {
		length := helperFindEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length
		if i >= len(data) {
			return 0
		}

		// a run of delimiters belongs to a nested span
		if i+1 < len(data) && data[i+1] == c {
			i = skipChar(data, i, c)
			continue
		}

		if isspace(data[i-1]) || p.closesIntraWord(data, i, c) {
			i++
			continue
		}

		var work bytes.Buffer
		p.inline(&work, data[:i])
		p.check("Emphasis", p.r.Emphasis(out, work.Bytes()))
		return i + 1
	}

	return 0
}

func helperDoubleEmphasis(p *parser, out *bytes.Buffer, data []byte, c byte) int {
	i := 0

	// skip one symbol if coming from emph3
	if len(data) > 0 && data[0] == c {
		i = 1
	}

	for i < len(data) {
		length := helperFindEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length

		if i+1 < len(data) && data[i] == c && data[i+1] == c && i > 0 && !isspace(data[i-1]) &&
			!p.closesIntraWord(data, i+1, c) {
			var work bytes.Buffer
			p.inline(&work, data[:i])

			if c == '~' {
				p.check("StrikeThrough", p.r.StrikeThrough(out, work.Bytes()))
			} else {
				p.check("DoubleEmphasis", p.r.DoubleEmphasis(out, work.Bytes()))
			}
			return i + 2
		}
		i = skipChar(data, i, c)
	}
	return 0
}

func helperTripleEmphasis(p *parser, out *bytes.Buffer, data []byte, offset int, c byte) int {
	i := 0
	origData := data
	data = data[offset:]

	for i < len(data) {
		length := helperFindEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length

		// skip whitespace preceded symbols
		if isspace(data[i-1]) {
			i = skipChar(data, i, c)
			continue
		}

		switch {
		case i+2 < len(data) && data[i+1] == c && data[i+2] == c:
			if p.closesIntraWord(data, i+2, c) {
				i = skipChar(data, i, c)
				continue
			}
			// triple symbol found
			var work bytes.Buffer
			p.inline(&work, data[:i])
			p.check("TripleEmphasis", p.r.TripleEmphasis(out, work.Bytes()))
			return i + 3
		case i+1 < len(data) && data[i+1] == c:
			// double symbol found, hand over to emph1
			length := helperEmphasis(p, out, origData[offset-2:], c)
			if length == 0 {
				return 0
			}
			return length - 2
		default:
			// single symbol found, hand over to emph2
			length := helperDoubleEmphasis(p, out, origData[offset-1:], c)
			if length == 0 {
				return 0
			}
			return length - 1
		}
	}
	return 0
}

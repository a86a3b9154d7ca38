package markdown

import (
	"bytes"
	"unicode/utf8"
)

const (
	tabSizeDefault = 4
	tabSizeEight   = 8
)

// ispunct reports whether c is ASCII punctuation.
func ispunct(c byte) bool {
	return bytes.IndexByte([]byte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"), c) >= 0
}

func isspace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isletter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isalnum(c byte) bool {
	return (c >= '0' && c <= '9') || isletter(c)
}

// isBackslashEscaped reports whether data[i] is preceded by an odd number of backslashes.
func isBackslashEscaped(data []byte, i int) bool {
	n := 0
	for i-n-1 >= 0 && data[i-n-1] == '\\' {
		n++
	}
	return n&1 == 1
}

func skipChar(data []byte, start int, c byte) int {
	i := start
	for i < len(data) && data[i] == c {
		i++
	}
	return i
}

func skipUntilChar(data []byte, start int, c byte) int {
	i := start
	for i < len(data) && data[i] != c {
		i++
	}
	return i
}

// isEmpty returns the length of a leading blank line including its newline,
// or 0 when the first line has content.
func isEmpty(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	i := 0
	for i < len(data) && data[i] != '\n' {
		if data[i] != ' ' && data[i] != '\t' {
			return 0
		}
		i++
	}
	if i < len(data) {
		i++
	}
	return i
}

// isIndented returns the width of the indentation prefix (a tab or
// indentSize spaces), or 0.
func isIndented(data []byte, indentSize int) int {
	if len(data) == 0 {
		return 0
	}
	if data[0] == '\t' {
		return 1
	}
	if len(data) < indentSize {
		return 0
	}
	for i := range indentSize {
		if data[i] != ' ' {
			return 0
		}
	}
	return indentSize
}

// expandTabs writes line to out with every tab replaced by spaces up to the
// next multiple of tabSize. Columns count code points, not bytes.
func expandTabs(out *bytes.Buffer, line []byte, tabSize int) {
	// fast path: tabs only at the start of the line
	i, prefix := 0, 0
	slow := false
	for i = 0; i < len(line); i++ {
		if line[i] == '\t' {
			if prefix != i {
				slow = true
				break
			}
			prefix++
		}
	}
	if !slow {
		out.Write(bytes.Repeat([]byte{' '}, prefix*tabSize))
		out.Write(line[prefix:])
		return
	}

	column := 0
	i = 0
	for i < len(line) {
		start := i
		for i < len(line) && line[i] != '\t' {
			_, size := utf8.DecodeRune(line[i:])
			i += size
			column++
		}
		if i > start {
			out.Write(line[start:i])
		}
		if i >= len(line) {
			break
		}
		for {
			out.WriteByte(' ')
			column++
			if column%tabSize == 0 {
				break
			}
		}
		i++
	}
}

// unescapeText copies src to out dropping the backslash of every escape pair.
func unescapeText(out *bytes.Buffer, src []byte) {
	i := 0
	for i < len(src) {
		org := i
		for i < len(src) && src[i] != '\\' {
			i++
		}
		if i > org {
			out.Write(src[org:i])
		}
		if i >= len(src) {
			break
		}
		if i+1 == len(src) {
			out.WriteByte('\\')
			break
		}
		out.WriteByte(src[i+1])
		i += 2
	}
}

// hasPrefixCaseInsensitive compares an ASCII prefix ignoring case.
func hasPrefixCaseInsensitive(s, prefix []byte) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != b {
			return false
		}
	}
	return true
}

package html

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter colors fenced code with inline styles. A nil highlighter
// leaves code untouched.
type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter(style string) *highlighter {
	if style == "" {
		return nil
	}
	return &highlighter{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.PreventSurroundingPre(true)),
	}
}

// language takes the first word of a fence info string, without a
// leading '.' as in "{.go}".
func language(info string) string {
	fields := strings.Fields(strings.Trim(info, "{}"))
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[0], ".")
}

// highlight writes code as colored spans. It reports false when the
// language is unknown so the caller can fall back to escaped text.
func (h *highlighter) highlight(out *bytes.Buffer, code []byte, lang string) (bool, error) {
	if h == nil || lang == "" {
		return false, nil
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return false, nil
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, string(code))
	if err != nil {
		return false, nil
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return false, err
	}
	out.Write(buf.Bytes())
	return true, nil
}

// StyleNames lists the accepted highlight styles.
func StyleNames() []string {
	return styles.Names()
}

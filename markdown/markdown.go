package markdown

import (
	"bytes"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/logfields"
)

// DefaultMaxNesting bounds the depth of nested blocks and inline spans.
const DefaultMaxNesting = 16

// Reference is a link target returned by a ReferenceOverrideFunc.
type Reference struct {
	Link  string
	Title string
	// Text, when set, replaces the label text of shortcut and collapsed
	// reference links ("[label]" and "[label][]").
	Text string
}

// ReferenceOverrideFunc is consulted before the document's own reference
// definitions. label is the reference label as written, with runs of
// whitespace collapsed. When overridden is false the document's
// definitions are used; when it is true a nil ref means "no such
// reference".
type ReferenceOverrideFunc func(label string) (ref *Reference, overridden bool)

// Options configures one render.
type Options struct {
	Extensions        Extensions
	ReferenceOverride ReferenceOverrideFunc
	// MaxNesting defaults to DefaultMaxNesting when zero or negative.
	MaxNesting int
}

// Render compiles input through r. On renderer failure the output written
// so far is returned together with a render error wrapping the failure.
func Render(input []byte, r Renderer, opts Options) ([]byte, error) {
	if r == nil {
		return nil, errors.ValidationError("markdown: nil renderer").Build()
	}
	p := newParser(r, opts)
	text := p.firstPass(input)

	var out bytes.Buffer
	out.Grow(len(text) + len(text)/2)
	p.secondPass(&out, text)
	if p.err != nil {
		return out.Bytes(), p.err
	}
	return out.Bytes(), nil
}

// ScanReferences runs only the definition pass over input and returns the
// link reference definitions found, keyed by normalized label.
func ScanReferences(input []byte, opts Options) map[string]Reference {
	p := newParser(nil, opts)
	p.firstPass(input)
	refs := make(map[string]Reference, len(p.refs))
	for label, ref := range p.refs {
		refs[label] = Reference{Link: string(ref.link), Title: string(ref.title)}
	}
	return refs
}

type inlineHandler func(p *parser, out *bytes.Buffer, data []byte, offset int) int

// parser holds the state of a single render.
type parser struct {
	r           Renderer
	flags       Extensions
	refOverride ReferenceOverrideFunc

	refs      map[string]*reference
	notes     map[string]*footnote
	usedNotes []*footnote

	inlineCallback [256]inlineHandler
	nesting        int
	maxNesting     int
	nestingLogged  bool
	insideLink     bool

	ids   idRegistry
	fold  cases.Caser
	lower cases.Caser

	err error
}

func newParser(r Renderer, opts Options) *parser {
	p := &parser{
		r:           r,
		flags:       opts.Extensions,
		refOverride: opts.ReferenceOverride,
		refs:        make(map[string]*reference),
		notes:       make(map[string]*footnote),
		maxNesting:  opts.MaxNesting,
		fold:        cases.Fold(),
		lower:       cases.Lower(language.Und),
	}
	if p.maxNesting <= 0 {
		p.maxNesting = DefaultMaxNesting
	}

	p.inlineCallback['*'] = emphasis
	p.inlineCallback['_'] = emphasis
	if p.flags&Strikethrough != 0 {
		p.inlineCallback['~'] = emphasis
	}
	p.inlineCallback['`'] = codeSpan
	p.inlineCallback['\n'] = lineBreak
	p.inlineCallback[' '] = maybeLineBreak
	p.inlineCallback['['] = link
	p.inlineCallback['!'] = maybeImage
	p.inlineCallback['<'] = leftAngle
	p.inlineCallback['\\'] = escape
	p.inlineCallback['&'] = entity
	if p.flags&Autolink != 0 {
		for _, c := range []byte("hHfFmM") {
			p.inlineCallback[c] = maybeAutoLink
		}
	}
	return p
}

func (p *parser) tabSize() int {
	if p.flags&TabSizeEight != 0 {
		return tabSizeEight
	}
	return tabSizeDefault
}

// check records the first renderer failure. Once set, the block and
// inline walkers stop.
func (p *parser) check(op string, err error) {
	if err == nil || p.err != nil {
		return
	}
	p.err = errors.WrapError(err, errors.CategoryRender, "renderer operation failed").
		WithContext("operation", op).
		Build()
}

func (p *parser) failed() bool {
	return p.err != nil
}

func (p *parser) normalText(out *bytes.Buffer, text []byte) {
	if len(text) > 0 && !p.failed() {
		p.check("NormalText", p.r.NormalText(out, text))
	}
}

// nestingExceeded emits data as literal text once the depth bound is hit.
func (p *parser) nestingExceeded(out *bytes.Buffer, data []byte) {
	if !p.nestingLogged {
		p.nestingLogged = true
		slog.Debug("markdown nesting limit reached, rendering remainder as text",
			logfields.Depth(p.maxNesting), logfields.Bytes(len(data)))
	}
	p.normalText(out, data)
}

// firstPass extracts definitions, expands tabs outside fenced code and
// ends every line with a single '\n'.
func (p *parser) firstPass(input []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(input) + 1)
	tabSize := p.tabSize()
	fenceEnd := 0
	beg := 0
	for beg < len(input) {
		inFence := beg < fenceEnd
		if !inFence && p.flags&FencedCode != 0 {
			if n := fencedCodeLength(input[beg:]); n > 0 {
				fenceEnd = beg + n
				inFence = true
			}
		}
		if !inFence {
			if n := p.isReference(input[beg:], tabSize, true); n > 0 {
				beg += n
				continue
			}
			if q := quotedPrefix(input[beg:]); q > 0 {
				// definitions inside block quotes are registered here and
				// consumed again when the quote is parsed
				p.isReference(input[beg+q:], tabSize, true)
			}
		}

		end := beg
		for end < len(input) && input[end] != '\n' && input[end] != '\r' {
			end++
		}
		if end > beg {
			if inFence {
				out.Write(input[beg:end])
			} else {
				expandTabs(&out, input[beg:end], tabSize)
			}
		}
		out.WriteByte('\n')

		if end < len(input) && input[end] == '\r' {
			end++
		}
		if end < len(input) && input[end] == '\n' {
			end++
		}
		beg = end
	}
	if out.Len() == 0 {
		out.WriteByte('\n')
	}
	return out.Bytes()
}

func (p *parser) secondPass(out *bytes.Buffer, input []byte) {
	p.check("DocumentHeader", p.r.DocumentHeader(out))
	if p.flags&Titleblock != 0 && !p.failed() {
		input = input[p.titleBlock(out, input):]
	}
	p.block(out, input)

	if p.flags&Footnotes != 0 && len(p.usedNotes) > 0 && !p.failed() {
		p.check("Footnotes", p.r.Footnotes(out, func() bool {
			flags := ListItemBeginningOfList
			// rendering a note may reference notes not yet used
			for i := 0; i < len(p.usedNotes) && !p.failed(); i++ {
				note := p.usedNotes[i]
				var body bytes.Buffer
				if note.hasBlock {
					flags |= ListItemContainsBlock
					p.block(&body, note.body)
				} else {
					p.inline(&body, bytes.TrimRight(note.body, "\n"))
				}
				if i == len(p.usedNotes)-1 {
					flags |= ListItemEndOfList
				}
				p.check("FootnoteItem", p.r.FootnoteItem(out, []byte(note.name), body.Bytes(), flags))
				flags &^= ListItemBeginningOfList | ListItemContainsBlock
			}
			return !p.failed()
		}))
	}

	if !p.failed() {
		p.check("DocumentFooter", p.r.DocumentFooter(out))
	}
}

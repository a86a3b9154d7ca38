package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inlineCase struct {
	name  string
	input string
	want  string
}

func runInlineCases(t *testing.T, ext Extensions, tests []inlineCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, "<p>"+tt.want+"</p>\n", renderTrace(t, tt.input+"\n", ext))
		})
	}
}

func TestInline_Escapes(t *testing.T) {
	runInlineCases(t, NoExtensions, []inlineCase{
		{"escaped emphasis", `\*foo\*`, "*foo*"},
		{"escaped brackets", `\[a\](b)`, "[a](b)"},
		{"backslash before letter", `\q`, `\q`},
		{"trailing backslash", `a\`, `a\`},
	})
}

func TestInline_EmphasisDelimitersEquivalent(t *testing.T) {
	for _, text := range []string{"x", "hello world", "a `code` b", "with [link](/u)"} {
		star := renderTrace(t, "*"+text+"*\n", NoExtensions)
		under := renderTrace(t, "_"+text+"_\n", NoExtensions)
		assert.Equal(t, star, under, text)
		assert.Contains(t, star, "<em>")

		star = renderTrace(t, "**"+text+"**\n", NoExtensions)
		under = renderTrace(t, "__"+text+"__\n", NoExtensions)
		assert.Equal(t, star, under, text)
		assert.Contains(t, star, "<strong>")
	}
}

func TestInline_Emphasis(t *testing.T) {
	runInlineCases(t, NoExtensions, []inlineCase{
		{"single", "*a*", "<em>a</em>"},
		{"double", "**a**", "<strong>a</strong>"},
		{"triple", "***a***", "<strong><em>a</em></strong>"},
		{"triple closed by double then single", "***a** b*", "<em><strong>a</strong> b</em>"},
		{"triple closed by single then double", "***a* b**", "<strong><em>a</em> b</strong>"},
		{"strong inside em", "*a **b** c*", "<em>a <strong>b</strong> c</em>"},
		{"space after opener", "a * b*", "a * b*"},
		{"space before closer", "*a *", "*a *"},
		{"code span skipped", "*a `b*` c*", "<em>a <code>b*</code> c</em>"},
		{"unclosed code span salvages delimiter", "*a `b* c", "<em>a `b</em> c"},
		{"link skipped", "*[a*](u)*", `<em><a href="u">a*</a></em>`},
		{"delimiter inside link label does not close", "*a [b*](u)", `*a <a href="u">b*</a>`},
		{"intra word allowed by default", "foo_bar_baz", "foo<em>bar</em>baz"},
	})
}

func TestInline_NoIntraEmphasis(t *testing.T) {
	runInlineCases(t, NoIntraEmphasis, []inlineCase{
		{"snake case", "snake_case_name", "snake_case_name"},
		{"word boundaries", "_em_ and *em*", "<em>em</em> and <em>em</em>"},
		{"closer inside word skipped", "*foo*bar*", "<em>foo*bar</em>"},
		{"double snake case", "foo__bar__baz", "foo__bar__baz"},
		{"triple snake case", "a___b___c", "a___b___c"},
		{"double opener inside word", "foo**bar**", "foo**bar**"},
		{"retried run still inside word", "foo__bar_", "foo__bar_"},
		{"double closer inside word skipped", "**a**b**", "<strong>a**b</strong>"},
		{"triple closer inside word skipped", "***a***b***", "<strong><em>a***b</em></strong>"},
		{"double at word boundaries", "__a__ and **b**", "<strong>a</strong> and <strong>b</strong>"},
	})
}

func TestInline_Strikethrough(t *testing.T) {
	runInlineCases(t, Strikethrough, []inlineCase{
		{"double tilde", "~~x~~", "<del>x</del>"},
		{"single tilde never opens", "~x~", "~x~"},
		{"triple tilde", "~~~x~~~", "~<del>x</del>~"},
	})
	runInlineCases(t, NoExtensions, []inlineCase{
		{"disabled is literal", "~~x~~", "~~x~~"},
	})
}

func TestInline_StrikethroughIndependentOfIntraEmphasis(t *testing.T) {
	runInlineCases(t, NoIntraEmphasis|Strikethrough, []inlineCase{
		{"strike inside word", "foo~~bar~~baz", "foo<del>bar</del>baz"},
		{"underscore inside word", "foo_bar_baz", "foo_bar_baz"},
		{"both", "~~a~~ *b*", "<del>a</del> <em>b</em>"},
	})
}

func TestInline_CodeSpan(t *testing.T) {
	runInlineCases(t, NoExtensions, []inlineCase{
		{"verbatim content", "`a*b*c`", "<code>a*b*c</code>"},
		{"double backticks", "``a ` b``", "<code>a ` b</code>"},
		{"no escapes inside", "`\\*`", "<code>\\*</code>"},
		{"unmatched", "`a", "`a"},
		{"empty", "` `", ""},
	})
}

func TestInline_Links(t *testing.T) {
	runInlineCases(t, NoExtensions, []inlineCase{
		{"inline", "[a](/b)", `<a href="/b">a</a>`},
		{"title", `[a](/b "T")`, `<a href="/b" title="T">a</a>`},
		{"single quoted title", "[a](/b 'T')", `<a href="/b" title="T">a</a>`},
		{"angle brackets", "[a](<b c>)", `<a href="b c">a</a>`},
		{"emphasis in label", "[*x*](url)", `<a href="url"><em>x</em></a>`},
		{"nested links forbidden", "[a [b](/x)](/y)", `<a href="/y">a [b](/x)</a>`},
		{"image in link", "[![b](/b.svg)](/home)", `<a href="/home"><img src="/b.svg" alt="b"></a>`},
		{"escaped destination", `[a](/b\)c)`, `<a href="/b)c">a</a>`},
		{"empty destination", "[a]()", "[a]()"},
		{"empty label", "[](/x)", "[](/x)"},
		{"unclosed", "[a", "[a"},
	})
}

func TestInline_Images(t *testing.T) {
	runInlineCases(t, NoExtensions, []inlineCase{
		{"with title", `![alt *x*](/i.png "T")`, `<img src="/i.png" alt="alt *x*" title="T">`},
		{"escaped alt", `![a\*b](/i.png)`, `<img src="/i.png" alt="a*b">`},
		{"bang without bracket", "wow!", "wow!"},
	})
}

func TestInline_AngleAutolinks(t *testing.T) {
	runInlineCases(t, NoExtensions, []inlineCase{
		{"url", "<http://a.b>", `<a href="http://a.b">http://a.b</a>`},
		{"email", "<me@x.org>", `<a href="mailto:me@x.org">me@x.org</a>`},
		{"raw tag", `a <span class="x">b</span>`, `a <span class="x">b</span>`},
		{"comment", "a <!-- c --> b", "a <!-- c --> b"},
		{"lone angle", "a < b", "a < b"},
	})
}

func TestInline_BareAutolinks(t *testing.T) {
	runInlineCases(t, Autolink, []inlineCase{
		{"trailing period", "see http://example.com/a. done", `see <a href="http://example.com/a">http://example.com/a</a>. done`},
		{"balanced parens", "(see http://x.org/a_(b))", `(see <a href="http://x.org/a_(b)">http://x.org/a_(b)</a>)`},
		{"mid word", "xhttp://x.org", "xhttp://x.org"},
		{"prefix only", "http:// nothing", "http:// nothing"},
		{"mailto", "mailto:me@x.org", `<a href="mailto:me@x.org">mailto:me@x.org</a>`},
		{"not inside links", "[http://a.b](/c)", `<a href="/c">http://a.b</a>`},
	})
	runInlineCases(t, NoExtensions, []inlineCase{
		{"disabled", "see http://x.org", "see http://x.org"},
	})
}

func TestInline_Entities(t *testing.T) {
	r := &traceRenderer{}
	out, err := Render([]byte("&amp; &#169; &x; & y\n"), r, Options{})
	require.NoError(t, err)
	require.Equal(t, "<p>&amp; &#169; &x; & y</p>\n", string(out))

	count := 0
	for _, c := range r.calls {
		if c == "Entity" {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestInline_LineBreaks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ext   Extensions
		want  string
	}{
		{"two trailing spaces", "a  \nb\n", NoExtensions, "<p>a<br>b</p>\n"},
		{"single trailing space dropped", "a \nb\n", NoExtensions, "<p>a\nb</p>\n"},
		{"soft break", "a\nb\n", NoExtensions, "<p>a\nb</p>\n"},
		{"hard line break", "a\nb\n", HardLineBreak, "<p>a<br>b</p>\n"},
		{"backslash line break", "a\\\nb\n", BackslashLineBreak, "<p>a<br>b</p>\n"},
		{"backslash without extension", "a\\\nb\n", NoExtensions, "<p>a\\\nb</p>\n"},
		{"join lines", "a\nb\n", JoinLines, "<p>ab</p>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, renderTrace(t, tt.input, tt.ext))
		})
	}
}

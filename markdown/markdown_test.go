package markdown

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

func TestRender_EmptyInput(t *testing.T) {
	require.Equal(t, "", renderTrace(t, "", NoExtensions))
}

func TestRender_NilRenderer(t *testing.T) {
	_, err := Render([]byte("x"), nil, Options{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRender_CRLFNormalized(t *testing.T) {
	require.Equal(t, "<p>a\nb</p>\n", renderTrace(t, "a\r\nb\r\n", NoExtensions))
}

func TestRender_DocumentFraming(t *testing.T) {
	r := &traceRenderer{}
	_, err := Render([]byte("text\n"), r, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, r.calls)
	assert.Equal(t, "DocumentHeader", r.calls[0])
	assert.Equal(t, "DocumentFooter", r.calls[len(r.calls)-1])
}

func TestRender_RendererFailureStopsWalk(t *testing.T) {
	r := &traceRenderer{failOn: "Emphasis"}
	out, err := Render([]byte("a *b* c\n\nnext paragraph\n"), r, Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, errTraceFailure)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryRender, ce.Category())
	op, _ := ce.Context().GetString("operation")
	assert.Equal(t, "Emphasis", op)

	assert.NotContains(t, string(out), "next paragraph")
	assert.NotContains(t, r.calls, "DocumentFooter")
	assert.True(t, strings.HasPrefix(string(out), "<p>"), "partial output is returned")
}

func TestRender_FailureInBlockCallback(t *testing.T) {
	r := &traceRenderer{failOn: "HRule"}
	out, err := Render([]byte("first\n\n***\n\nsecond\n"), r, Options{})
	require.Error(t, err)
	assert.Contains(t, string(out), "<p>first</p>")
	assert.NotContains(t, string(out), "second")
}

func TestRender_ForwardReference(t *testing.T) {
	got := renderTrace(t, "[a][b]\n\n[b]: http://x\n", NoExtensions)
	require.Equal(t, "<p><a href=\"http://x\">a</a></p>\n", got)
}

func TestRender_ReferenceForms(t *testing.T) {
	input := "[full][id], [Id][] and [id].\n\n[ID]: /target \"Title\"\n"
	got := renderTrace(t, input, NoExtensions)
	require.Equal(t,
		"<p><a href=\"/target\" title=\"Title\">full</a>, "+
			"<a href=\"/target\" title=\"Title\">Id</a> and "+
			"<a href=\"/target\" title=\"Title\">id</a>.</p>\n", got)
}

func TestRender_ReferenceLabelsCaseFolded(t *testing.T) {
	got := renderTrace(t, "[Straße]\n\n[STRASSE]: /s\n", NoExtensions)
	require.Equal(t, "<p><a href=\"/s\">Straße</a></p>\n", got)
}

func TestRender_FirstDefinitionWins(t *testing.T) {
	got := renderTrace(t, "[a]: /one\n[a]: /two\n\n[a]\n", NoExtensions)
	require.Equal(t, "<p><a href=\"/one\">a</a></p>\n", got)
}

func TestRender_UndefinedReferenceIsLiteral(t *testing.T) {
	got := renderTrace(t, "[missing] and [text][nope]\n", NoExtensions)
	require.Equal(t, "<p>[missing] and [text][nope]</p>\n", got)
}

func TestRender_QuotedDefinition(t *testing.T) {
	got := renderTrace(t, "> [q]: /quoted\n\n[q]\n", NoExtensions)
	require.Equal(t, "<blockquote>\n</blockquote>\n<p><a href=\"/quoted\">q</a></p>\n", got)
}

func TestRender_ReferenceOverride(t *testing.T) {
	var labels []string
	opts := Options{ReferenceOverride: func(label string) (*Reference, bool) {
		labels = append(labels, label)
		switch label {
		case "Docs":
			return &Reference{Link: "/docs", Title: "D", Text: "Documentation"}, true
		case "hidden":
			return nil, true
		}
		return nil, false
	}}
	input := "[Docs], [hidden] and [kept].\n\n[hidden]: /h\n[kept]: /k\n"
	out, err := Render([]byte(input), &traceRenderer{}, opts)
	require.NoError(t, err)
	require.Equal(t,
		"<p><a href=\"/docs\" title=\"D\">Documentation</a>, [hidden] and <a href=\"/k\">kept</a>.</p>\n",
		string(out))
	assert.Equal(t, []string{"Docs", "hidden", "kept"}, labels)
}

func TestRender_OverrideDoesNotReplaceExplicitText(t *testing.T) {
	opts := Options{ReferenceOverride: func(label string) (*Reference, bool) {
		return &Reference{Link: "/" + label, Text: "replaced"}, true
	}}
	out, err := Render([]byte("[shown][x]\n"), &traceRenderer{}, opts)
	require.NoError(t, err)
	require.Equal(t, "<p><a href=\"/x\">shown</a></p>\n", string(out))
}

func TestRender_NestingBound(t *testing.T) {
	input := strings.Repeat(">", 200) + " deep\n\nafter\n"
	r := &traceRenderer{}
	out, err := Render([]byte(input), r, Options{MaxNesting: 4})
	require.NoError(t, err)
	// the document is the first level, so the fourth quote is the last
	// container opened and its content stays literal
	assert.Equal(t, 4, strings.Count(string(out), "<blockquote>"))
	assert.Contains(t, string(out), "deep")
	assert.Contains(t, string(out), "<p>after</p>")
}

func TestRender_NestingBoundDefault(t *testing.T) {
	input := strings.Repeat("> ", 1000) + "x\n"
	out, err := Render([]byte(input), &traceRenderer{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxNesting, strings.Count(string(out), "<blockquote>"))
}

func TestRender_DeeplyNestedInlineTerminates(t *testing.T) {
	input := strings.Repeat("[*", 500) + "x" + strings.Repeat("*](u)", 500) + "\n"
	out, err := Render([]byte(input), &traceRenderer{}, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "x")
}

func TestRender_HeaderIDsArePerRender(t *testing.T) {
	for range 2 {
		got := renderTrace(t, "# Intro\n", AutoHeaderIDs)
		require.Equal(t, "<h1 id=\"intro\">Intro</h1>\n", got)
	}
}

func TestRender_Footnotes(t *testing.T) {
	r := &traceRenderer{}
	input := "Text[^1] and[^n].\n\n[^1]: First.\n[^n]: Second.\n"
	out, err := Render([]byte(input), r, Options{Extensions: Footnotes})
	require.NoError(t, err)
	require.Equal(t,
		"<p>Text<ref 1 1> and<ref n 2>.</p>\n"+
			"<footnotes>\n<fn 1>First.</fn>\n<fn n>Second.</fn>\n</footnotes>\n",
		string(out))
	require.Len(t, r.noteFlags, 2)
	assert.NotZero(t, r.noteFlags[0]&ListItemBeginningOfList)
	assert.NotZero(t, r.noteFlags[1]&ListItemEndOfList)
}

func TestRender_FootnoteNumberedOnce(t *testing.T) {
	input := "a[^x] b[^x]\n\n[^x]: Note.\n"
	got := renderTrace(t, input, Footnotes)
	require.Equal(t,
		"<p>a<ref x 1> b<ref x 1></p>\n<footnotes>\n<fn x>Note.</fn>\n</footnotes>\n", got)
}

func TestRender_FootnoteWithBlock(t *testing.T) {
	r := &traceRenderer{}
	input := "See[^long].\n\n[^long]: First paragraph.\n\n    Second paragraph.\n"
	out, err := Render([]byte(input), r, Options{Extensions: Footnotes})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<fn long><p>First paragraph.</p>\n<p>Second paragraph.</p></fn>")
	require.Len(t, r.noteFlags, 1)
	assert.NotZero(t, r.noteFlags[0]&ListItemContainsBlock)
}

func TestRender_UnusedFootnotesOmitted(t *testing.T) {
	got := renderTrace(t, "plain\n\n[^u]: unused\n", Footnotes)
	require.Equal(t, "<p>plain</p>\n", got)
}

func TestRender_TitleBlock(t *testing.T) {
	got := renderTrace(t, "% My Title\n% Author\n\nBody\n", Titleblock)
	require.Equal(t, "<title>My Title\nAuthor</title>\n<p>Body</p>\n", got)
}

func TestRender_TitleBlockOnlyAtStart(t *testing.T) {
	got := renderTrace(t, "Body\n\n% not a title\n", Titleblock)
	require.Equal(t, "<p>Body</p>\n<p>% not a title</p>\n", got)
}

func TestScanReferences(t *testing.T) {
	refs := ScanReferences([]byte("[A]: /a \"T\"\n[b]: <http://b>\n\n```\n[c]: /c\n```\n"), Options{Extensions: FencedCode})
	require.Equal(t, map[string]Reference{
		"a": {Link: "/a", Title: "T"},
		"b": {Link: "http://b"},
	}, refs)
}

func TestRender_DefinitionsInsideFencesKept(t *testing.T) {
	got := renderTrace(t, "```go\ncode\n\n[x]: /url\n", FencedCode)
	require.Equal(t, "<pre go>code\n\n[x]: /url\n</pre>\n", got)
}

func TestRender_OutputIsDeterministic(t *testing.T) {
	input := []byte("# T\n\n* a\n* b\n\n| x | y |\n|---|---|\n| 1 | 2 |\n\n[l]: /l\n[l] *e* `c`\n")
	first, err := Render(input, &traceRenderer{}, Options{Extensions: CommonExtensions | AutoHeaderIDs})
	require.NoError(t, err)
	second, err := Render(input, &traceRenderer{}, Options{Extensions: CommonExtensions | AutoHeaderIDs})
	require.NoError(t, err)
	require.True(t, bytes.Equal(first, second))
}

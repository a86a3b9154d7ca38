package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestParse_Fields(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: \" Getting Started \"\ndraft: true\ntags: [a]\n---\nBody\n"))
	require.NoError(t, err)
	assert.Equal(t, "Getting Started", doc.Title())
	assert.True(t, doc.Draft())
	assert.Equal(t, []byte("Body\n"), doc.Body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	doc, err := Parse([]byte("Body\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Title())
	assert.False(t, doc.Draft())
	assert.NotNil(t, doc.Fields)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [\n---\nBody\n"))
	require.Error(t, err)
}

func TestParse_TitleNotString(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: 42\n---\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Title())
}

func TestFingerprint(t *testing.T) {
	a, err := Parse([]byte("---\ntitle: A\n---\nBody\n"))
	require.NoError(t, err)
	crlf, err := Parse([]byte("---\r\ntitle: A\r\n---\r\nBody\r\n"))
	require.NoError(t, err)
	changed, err := Parse([]byte("---\ntitle: A\n---\nBody changed\n"))
	require.NoError(t, err)
	retitled, err := Parse([]byte("---\ntitle: B\n---\nBody\n"))
	require.NoError(t, err)

	assert.NotEmpty(t, a.Fingerprint())
	assert.Equal(t, a.Fingerprint(), crlf.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), changed.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), retitled.Fingerprint())
}

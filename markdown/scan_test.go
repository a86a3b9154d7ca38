package markdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in      string
		tabSize int
		want    string
	}{
		{"\tx", 4, "    x"},
		{"\t\tx", 4, "        x"},
		{"a\tb", 4, "a   b"},
		{"abcd\te", 4, "abcd    e"},
		{"日本\tx", 4, "日本  x"},
		{"a\tb", 8, "a       b"},
		{"no tabs", 4, "no tabs"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		expandTabs(&out, []byte(tt.in), tt.tabSize)
		assert.Equal(t, tt.want, out.String(), tt.in)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.Equal(t, 1, isEmpty([]byte("\nx")))
	assert.Equal(t, 3, isEmpty([]byte("  \nx")))
	assert.Equal(t, 0, isEmpty([]byte(" x\n")))
	assert.Equal(t, 0, isEmpty(nil))
}

func TestIsBackslashEscaped(t *testing.T) {
	assert.True(t, isBackslashEscaped([]byte(`\|`), 1))
	assert.False(t, isBackslashEscaped([]byte(`\\|`), 2))
	assert.True(t, isBackslashEscaped([]byte(`\\\|`), 3))
}

func TestUnescapeText(t *testing.T) {
	var out bytes.Buffer
	unescapeText(&out, []byte(`a\*b\\c\`))
	assert.Equal(t, `a*b\c\`, out.String())
}

func TestIsFenceLine(t *testing.T) {
	end, marker, info := isFenceLine([]byte("```go \r\nx"), "")
	assert.Equal(t, 8, end)
	assert.Equal(t, "```", marker)
	assert.Equal(t, "go", info)

	end, _, _ = isFenceLine([]byte("````\r\n"), "```")
	assert.Equal(t, 6, end)

	end, _, _ = isFenceLine([]byte("``\n"), "")
	assert.Zero(t, end)

	end, _, _ = isFenceLine([]byte("```x\n"), "```")
	assert.Zero(t, end, "closing fences carry no info string")
}

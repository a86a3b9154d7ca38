// Package frontmatter separates YAML frontmatter from a markdown document.
package frontmatter

import (
	"bytes"
	"errors"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a markdown file split into its parts.
type Document struct {
	// Raw is the frontmatter text without delimiters.
	Raw    []byte
	Fields map[string]any
	Body   []byte
}

// Split separates YAML frontmatter (`---` delimited) from the markdown body.
// A document without a leading delimiter has no frontmatter and body is the
// full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// a closing delimiter may also end the file
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			return content[start : len(content)-len("---")], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes the frontmatter fields.
func Parse(content []byte) (*Document, error) {
	raw, body, _, err := Split(content)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}
	return &Document{Raw: raw, Fields: fields, Body: body}, nil
}

// Title returns the "title" field, or "" when it is missing or not a string.
func (d *Document) Title() string {
	title, _ := d.Fields["title"].(string)
	return strings.TrimSpace(title)
}

// Draft reports whether the document is marked `draft: true`.
func (d *Document) Draft() bool {
	draft, _ := d.Fields["draft"].(bool)
	return draft
}

// Fingerprint identifies the document content. Line endings are normalized
// so a CRLF conversion alone does not count as a change.
func (d *Document) Fingerprint() string {
	fm := strings.TrimSuffix(strings.ReplaceAll(string(d.Raw), "\r\n", "\n"), "\n")
	body := strings.ReplaceAll(string(d.Body), "\r\n", "\n")
	return mdfp.CalculateFingerprintFromParts(fm, body)
}

// Package links extracts and checks the link targets of markdown documents.
package links

import (
	"sort"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/markdown"
)

// Options controls how documents are parsed for link analysis.
type Options struct {
	Extensions markdown.Extensions
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
	Title       string
}

// ExtractLinks parses a markdown body (frontmatter already removed) and
// returns its links in document order, followed by the reference
// definitions sorted by label. Links resolved through a reference are
// reported as inline links with the resolved destination.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	c := &collector{}
	mopts := markdown.Options{Extensions: opts.Extensions}
	if _, err := markdown.Render(body, c, mopts); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "link extraction failed").Build()
	}

	refs := markdown.ScanReferences(body, mopts)
	labels := make([]string, 0, len(refs))
	for label := range refs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		ref := refs[label]
		c.links = append(c.links, Link{
			Kind:        LinkKindReferenceDefinition,
			Destination: ref.Link,
			Title:       ref.Title,
		})
	}
	return c.links, nil
}

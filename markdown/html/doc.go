// Package html renders markdown as HTML or XHTML.
//
// The renderer is configured once through Options and may be reused for any
// number of documents, one at a time:
//
//	r := html.NewRenderer(html.Options{Flags: html.UseXHTML | html.Safelink})
//	out, err := markdown.Render(input, r, markdown.Options{Extensions: markdown.CommonExtensions})
//
// Basic and Common cover the two usual presets.
package html

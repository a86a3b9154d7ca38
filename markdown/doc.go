// Package markdown compiles markdown text through a pluggable Renderer.
//
// Compilation runs in two passes. The first pass collects link reference
// and footnote definitions, expands tabs and normalizes line endings. The
// second pass walks the blocks of the document once, handing the text of
// each block to the inline scanner, and calls the Renderer as constructs are
// recognized. No syntax tree is built.
//
// Dialect features are switched on through Extensions; CommonExtensions is
// a reasonable default. Parsing never fails: every input has a rendering.
// Only a Renderer returning an error aborts a render.
//
//	out, err := markdown.Render(input, html.NewRenderer(html.Options{}), markdown.Options{
//		Extensions: markdown.CommonExtensions,
//	})
package markdown

// Package ansi renders markdown for a terminal: styled with ANSI escapes,
// code highlighted by chroma, tables aligned by display width.
package ansi

// Package build renders markdown documents into the configured output format.
// All execution paths (render, watch, serve, tests) route through RenderService.
package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docmark/internal/config"
)

// RenderService is the canonical interface for rendering one document.
type RenderService interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)
}

// RenderRequest contains all inputs required to render a document.
type RenderRequest struct {
	// Name identifies the document in logs and fingerprint tracking.
	Name string

	// Content is the raw file including any frontmatter.
	Content []byte

	// Format overrides the configured output format when set.
	Format config.OutputFormat

	// Title overrides the frontmatter title for complete HTML pages.
	Title string

	// SkipIfUnchanged skips rendering when the document fingerprint matches
	// the one last recorded for Name. Render only checks; RenderFile records
	// after the output is written.
	SkipIfUnchanged bool
}

// RenderResult contains the outcome of a render.
type RenderResult struct {
	Status RenderStatus

	// Output holds the rendered document. On a renderer failure it holds
	// the partial output produced before the failure.
	Output []byte

	Format      config.OutputFormat
	Title       string
	Draft       bool
	Fingerprint string
	InputBytes  int
	Duration    time.Duration
}

// RenderStatus represents the outcome of a render.
type RenderStatus string

const (
	RenderStatusSuccess RenderStatus = "success"
	RenderStatusFailed  RenderStatus = "failed"
	// RenderStatusSkipped means the fingerprint was unchanged.
	RenderStatusSkipped RenderStatus = "skipped"
)

// IsSuccess returns true unless the render failed.
func (s RenderStatus) IsSuccess() bool {
	return s == RenderStatusSuccess || s == RenderStatusSkipped
}

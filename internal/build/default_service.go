package build

import (
	"context"
	"time"

	"github.com/muesli/termenv"

	"git.home.luguber.info/inful/docmark/internal/config"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/frontmatter"
	"git.home.luguber.info/inful/docmark/internal/logfields"
	"git.home.luguber.info/inful/docmark/internal/metrics"
	"git.home.luguber.info/inful/docmark/internal/observability"
	"git.home.luguber.info/inful/docmark/markdown"
	"git.home.luguber.info/inful/docmark/markdown/ansi"
	"git.home.luguber.info/inful/docmark/markdown/html"
)

// DefaultRenderService is the standard implementation of RenderService.
// It strips frontmatter, picks a renderer for the output format and runs
// the markdown parser over the body.
type DefaultRenderService struct {
	cfg      *config.Config
	recorder metrics.Recorder
	profile  termenv.Profile
	skip     SkipEvaluator
}

// NewRenderService creates a service for cfg. A nil cfg uses config.Default().
func NewRenderService(cfg *config.Config) *DefaultRenderService {
	if cfg == nil {
		cfg = config.Default()
	}
	return &DefaultRenderService{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		profile:  termenv.Ascii,
	}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultRenderService) WithRecorder(r metrics.Recorder) *DefaultRenderService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithProfile sets the color profile used for ansi output.
func (s *DefaultRenderService) WithProfile(p termenv.Profile) *DefaultRenderService {
	s.profile = p
	return s
}

// WithSkipEvaluator enables fingerprint based skipping for requests that
// ask for it.
func (s *DefaultRenderService) WithSkipEvaluator(e SkipEvaluator) *DefaultRenderService {
	s.skip = e
	return s
}

// Config returns the configuration the service renders with.
func (s *DefaultRenderService) Config() *config.Config {
	return s.cfg
}

// Render renders one document.
func (s *DefaultRenderService) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	start := time.Now()

	format := req.Format
	if format == "" {
		format = s.cfg.Output.Format
	}
	ctx = observability.StartRender(ctx, req.Name, string(format))

	result := &RenderResult{Format: format, InputBytes: len(req.Content)}
	s.recorder.ObserveInputBytes(len(req.Content))

	fail := func(err error) (*RenderResult, error) {
		result.Status = RenderStatusFailed
		result.Duration = time.Since(start)
		s.recorder.IncRenderOutcome(string(format), metrics.OutcomeFailed)
		observability.WarnContext(ctx, "Render failed", logfields.Error(err))
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	doc, err := frontmatter.Parse(req.Content)
	if err != nil {
		return fail(errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").
			WithContext("document", req.Name).
			Build())
	}

	result.Title = req.Title
	if result.Title == "" {
		result.Title = doc.Title()
	}
	result.Draft = doc.Draft()
	result.Fingerprint = doc.Fingerprint()

	if req.SkipIfUnchanged && s.skip != nil && s.skip.Unchanged(req.Name, result.Fingerprint) {
		result.Status = RenderStatusSkipped
		result.Duration = time.Since(start)
		s.recorder.IncRenderOutcome(string(format), metrics.OutcomeUnchanged)
		observability.DebugContext(ctx, "Render skipped, fingerprint unchanged")
		return result, nil
	}

	renderer, err := s.renderer(format, result.Title)
	if err != nil {
		return fail(err)
	}
	opts, err := s.cfg.MarkdownOptions()
	if err != nil {
		return fail(err)
	}

	out, err := markdown.Render(doc.Body, renderer, opts)
	result.Output = out
	if err != nil {
		return fail(err)
	}

	result.Status = RenderStatusSuccess
	result.Duration = time.Since(start)
	s.recorder.IncRenderOutcome(string(format), metrics.OutcomeSuccess)
	s.recorder.ObserveRenderDuration(string(format), result.Duration)
	observability.DebugContext(ctx, "Rendered document",
		logfields.Bytes(len(out)),
		logfields.Since(start))
	return result, nil
}

func (s *DefaultRenderService) renderer(format config.OutputFormat, title string) (markdown.Renderer, error) {
	switch format {
	case config.OutputFormatHTML:
		opts, err := s.cfg.HTMLOptions(title)
		if err != nil {
			return nil, err
		}
		return html.NewRenderer(opts), nil
	case config.OutputFormatANSI:
		return ansi.NewRenderer(ansi.Options{
			Profile:        s.profile,
			Width:          s.cfg.Output.Width,
			HighlightStyle: s.cfg.HTML.HighlightStyle,
		}), nil
	default:
		return nil, errors.ValidationError("unsupported output format").
			WithContext("format", string(format)).
			Build()
	}
}

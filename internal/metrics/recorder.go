package metrics

import "time"

// OutcomeLabel enumerates render outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess   OutcomeLabel = "success"
	OutcomeFailed    OutcomeLabel = "failed"
	OutcomeUnchanged OutcomeLabel = "unchanged"
)

// Recorder defines observability hooks for document renders.
type Recorder interface {
	ObserveRenderDuration(format string, d time.Duration)
	IncRenderOutcome(format string, outcome OutcomeLabel)
	ObserveInputBytes(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncRenderOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) ObserveInputBytes(int)                       {}

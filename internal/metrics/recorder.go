package metrics

import "time"

// ResultLabel enumerates per-directory result categories for counters.
type ResultLabel string

const (
	ResultRendered ResultLabel = "rendered"
	ResultSkipped  ResultLabel = "skipped"
	ResultBlocked  ResultLabel = "blocked"
	ResultFailed   ResultLabel = "failed"
)

// OutcomeLabel enumerates the final status of a render pass.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomePartial  OutcomeLabel = "partial"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for render metrics.
type Recorder interface {
	ObserveDirectoryDuration(d time.Duration)
	IncDirectoryResult(result ResultLabel)
	ObserveRenderDuration(d time.Duration)
	IncRenderOutcome(outcome OutcomeLabel)
	SetPagesRendered(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDirectoryDuration(time.Duration) {}
func (NoopRecorder) IncDirectoryResult(ResultLabel)         {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)    {}
func (NoopRecorder) IncRenderOutcome(OutcomeLabel)          {}
func (NoopRecorder) SetPagesRendered(int)                   {}

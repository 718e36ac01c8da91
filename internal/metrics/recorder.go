package metrics

import "time"

// ResultLabel enumerates fetch and run result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// LinkKindLabel classifies discovered links.
type LinkKindLabel string

const (
	LinkLocal  LinkKindLabel = "local"
	LinkRemote LinkKindLabel = "remote"
)

// Recorder defines observability hooks for a run.
type Recorder interface {
	IncLinksFound(kind LinkKindLabel)
	IncUnmatchedImages(source string)
	ObserveFetch(d time.Duration, bytes int64, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncLinksFound(LinkKindLabel)                    {}
func (NoopRecorder) IncUnmatchedImages(string)                      {}
func (NoopRecorder) ObserveFetch(time.Duration, int64, ResultLabel) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)               {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                      {}

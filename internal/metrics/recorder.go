// Package metrics provides an observability framework for pipeline metrics.
//
// The package implements the Null Object pattern: components receive a
// Recorder through dependency injection and default to NoopRecorder, so no
// call site needs a nil check. Swapping in the Prometheus recorder activates
// metrics without code changes.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for task and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveTaskDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncTaskOutcome(outcome string) // outcome: success|failed|canceled
	IncNotifyAttempt(success bool)
	SetQueueDepth(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveTaskDuration(time.Duration)          {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncTaskOutcome(string)                      {}
func (NoopRecorder) IncNotifyAttempt(bool)                      {}
func (NoopRecorder) SetQueueDepth(int)                          {}

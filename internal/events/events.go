// Package events publishes task lifecycle events for external observers.
// Emission is transient messaging only; nothing is persisted.
package events

import (
	"context"
	"time"
)

// TaskStarted is published when a worker picks up a task.
type TaskStarted struct {
	JobID     string    `json:"job_id"`
	TaskID    string    `json:"task_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskCompleted is published when the pipeline finishes successfully.
type TaskCompleted struct {
	JobID     string        `json:"job_id"`
	TaskID    string        `json:"task_id"`
	Duration  time.Duration `json:"duration"`
	RepoURL   string        `json:"repo_url,omitempty"`
	PagesURL  string        `json:"pages_url,omitempty"`
	CommitSHA string        `json:"commit_sha,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// TaskFailed is published when the pipeline ends in the error state.
type TaskFailed struct {
	JobID     string    `json:"job_id"`
	TaskID    string    `json:"task_id"`
	Stage     string    `json:"stage"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// Emitter abstracts event emission for task lifecycle events. The queue emits
// through this interface without depending on a transport.
type Emitter interface {
	EmitTaskStarted(ctx context.Context, ev TaskStarted) error
	EmitTaskCompleted(ctx context.Context, ev TaskCompleted) error
	EmitTaskFailed(ctx context.Context, ev TaskFailed) error
	Close()
}

// NoopEmitter is the default Emitter when event publishing is disabled.
type NoopEmitter struct{}

func (NoopEmitter) EmitTaskStarted(context.Context, TaskStarted) error     { return nil }
func (NoopEmitter) EmitTaskCompleted(context.Context, TaskCompleted) error { return nil }
func (NoopEmitter) EmitTaskFailed(context.Context, TaskFailed) error       { return nil }
func (NoopEmitter) Close()                                                 {}

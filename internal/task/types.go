// Package task holds the build task model, the pipeline that executes one
// task end to end, and the bounded queue that dispatches tasks to workers.
package task

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/appforge/internal/publish"
)

// Request is the decoded inbound build request. It is transient: it exists
// only for the duration of one task and is never persisted.
type Request struct {
	Secret        string `json:"secret"`
	Task          string `json:"task"`
	Brief         string `json:"brief"`
	Checks        any    `json:"checks"`
	EvaluationURL string `json:"evaluation_url,omitempty"`
	Email         string `json:"email,omitempty"`
	Round         any    `json:"round,omitempty"`
	Nonce         any    `json:"nonce,omitempty"`
}

// ChecksText renders the checks field as text regardless of its JSON shape.
func (r *Request) ChecksText() string {
	if r.Checks == nil {
		return ""
	}
	if s, ok := r.Checks.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", r.Checks)
}

// Stage identifies a pipeline stage for logging, metrics, and events.
type Stage string

const (
	StageGenerating Stage = "generating"
	StagePublishing Stage = "publishing"
	StageNotifying  Stage = "notifying"
)

// Status represents the current status of a queued job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "canceled"
)

// Job represents a single build task in the queue.
type Job struct {
	ID          string          `json:"id"`
	Request     Request         `json:"request"`
	Status      Status          `json:"status"`
	Stage       Stage           `json:"stage,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Duration    time.Duration   `json:"duration,omitempty"`
	Error       string          `json:"error,omitempty"`
	Result      *publish.Result `json:"result,omitempty"`
	ReadmeTitle string          `json:"readme_title,omitempty"`
	Notified    bool            `json:"notified,omitempty"`

	// Internal processing
	cancel context.CancelFunc `json:"-"`
}

// Package responses defines API response types used by AppForge HTTP handlers.
package responses

import "time"

// AcceptedResponse acknowledges a build request that was queued for
// asynchronous processing. The caller gets no further feedback over this
// connection; the outcome, if any, arrives via the notification callback.
type AcceptedResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id,omitempty"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Uptime     float64   `json:"uptime"`
	ActiveJobs int       `json:"active_jobs,omitempty"`
}

// StatusResponse represents the daemon's operational status.
type StatusResponse struct {
	Status      string    `json:"status"`
	StartTime   time.Time `json:"start_time"`
	Uptime      float64   `json:"uptime"`
	QueueLength int       `json:"queue_length"`
	ActiveJobs  int       `json:"active_jobs"`
	Workers     int       `json:"workers"`
	QueueSize   int       `json:"queue_size"`
}

// TaskSummary represents one finished or running task for the history listing.
type TaskSummary struct {
	JobID       string     `json:"job_id"`
	Task        string     `json:"task"`
	Status      string     `json:"status"`
	Stage       string     `json:"stage,omitempty"`
	Title       string     `json:"title,omitempty"`
	RepoURL     string     `json:"repo_url,omitempty"`
	PagesURL    string     `json:"pages_url,omitempty"`
	CommitSHA   string     `json:"commit_sha,omitempty"`
	Notified    bool       `json:"notified,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationSec float64    `json:"duration_sec,omitempty"`
}

// TaskListResponse represents the task history API response.
type TaskListResponse struct {
	Status    string        `json:"status"`
	Tasks     []TaskSummary `json:"tasks"`
	Timestamp time.Time     `json:"timestamp"`
}

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/appforge/internal/errors"
	"git.home.luguber.info/inful/appforge/internal/server/responses"
	"git.home.luguber.info/inful/appforge/internal/task"
	"git.home.luguber.info/inful/appforge/internal/version"
)

// Runtime defines the queue methods needed by monitoring handlers.
type Runtime interface {
	GetStartTime() time.Time
	Length() int
	ActiveCount() int
	Workers() int
	QueueSize() int
	History() []*task.Job
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	runtime      Runtime
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(runtime Runtime) *MonitoringHandlers {
	return &MonitoringHandlers{
		runtime:      runtime,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	health := &responses.HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Version:    version.Version,
		Uptime:     time.Since(h.runtime.GetStartTime()).Seconds(),
		ActiveJobs: h.runtime.ActiveCount(),
	}

	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "failed to write health response"))
	}
}

// HandleStatus handles the operational status endpoint.
func (h *MonitoringHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	status := &responses.StatusResponse{
		Status:      "running",
		StartTime:   h.runtime.GetStartTime(),
		Uptime:      time.Since(h.runtime.GetStartTime()).Seconds(),
		QueueLength: h.runtime.Length(),
		ActiveJobs:  h.runtime.ActiveCount(),
		Workers:     h.runtime.Workers(),
		QueueSize:   h.runtime.QueueSize(),
	}

	if err := writeJSONPretty(w, r, http.StatusOK, status); err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "failed to write status response"))
	}
}

// HandleTasks lists the bounded history of recent tasks, newest last.
func (h *MonitoringHandlers) HandleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	jobs := h.runtime.History()
	summaries := make([]responses.TaskSummary, 0, len(jobs))
	for _, j := range jobs {
		s := responses.TaskSummary{
			JobID:       j.ID,
			Task:        j.Request.Task,
			Status:      string(j.Status),
			Stage:       string(j.Stage),
			Title:       j.ReadmeTitle,
			Notified:    j.Notified,
			Error:       j.Error,
			StartedAt:   j.StartedAt,
			CompletedAt: j.CompletedAt,
			DurationSec: j.Duration.Seconds(),
		}
		if j.Result != nil {
			s.RepoURL = j.Result.RepoURL
			s.PagesURL = j.Result.PagesURL
			s.CommitSHA = j.Result.CommitSHA
		}
		summaries = append(summaries, s)
	}

	resp := &responses.TaskListResponse{
		Status:    "ok",
		Tasks:     summaries,
		Timestamp: time.Now().UTC(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "failed to write task list"))
	}
}

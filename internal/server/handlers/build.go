package handlers

import (
	"crypto/hmac"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/appforge/internal/errors"
	"git.home.luguber.info/inful/appforge/internal/logfields"
	"git.home.luguber.info/inful/appforge/internal/server/responses"
	"git.home.luguber.info/inful/appforge/internal/task"
)

// Enqueuer is the queue seam the build handler depends on.
type Enqueuer interface {
	Enqueue(job *task.Job) error
}

// BuildHandlers contains the build-request HTTP handler.
type BuildHandlers struct {
	secret       string
	queue        Enqueuer
	errorAdapter *errors.HTTPErrorAdapter
}

// NewBuildHandlers constructs a new BuildHandlers.
func NewBuildHandlers(secret string, queue Enqueuer) *BuildHandlers {
	return &BuildHandlers{
		secret:       secret,
		queue:        queue,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleBuildRequest validates the shared secret of an inbound build request,
// queues it for asynchronous processing, and acknowledges immediately. The
// caller never learns the task outcome over this connection; the only
// feedback channel is the notification callback.
//
// An absent body or mismatched secret yields 403 and no further work. A full
// queue yields 503.
func (h *BuildHandlers) HandleBuildRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "POST")
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	var req task.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, errors.Unauthorized("missing or malformed request body"))
		return
	}
	if !secretsEqual(req.Secret, h.secret) {
		h.errorAdapter.WriteErrorResponse(w, errors.Unauthorized("secret mismatch"))
		return
	}

	job := &task.Job{ID: uuid.NewString(), Request: req}
	if err := h.queue.Enqueue(job); err != nil {
		slog.Warn("Rejecting build request", logfields.TaskID(req.Task), logfields.Error(err))
		h.errorAdapter.WriteErrorResponse(w,
			errors.Wrap(err, errors.CategoryRuntime, errors.SeverityWarning, "task queue unavailable"))
		return
	}

	slog.Info("Accepted build request", logfields.TaskID(req.Task), logfields.JobID(job.ID))
	resp := responses.AcceptedResponse{Status: "accepted", JobID: job.ID}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "failed to write response"))
	}
}

// secretsEqual compares secrets in constant time. An empty configured secret
// never matches; the server refuses to run unauthenticated.
func secretsEqual(got, want string) bool {
	if want == "" {
		return false
	}
	return hmac.Equal([]byte(got), []byte(want))
}

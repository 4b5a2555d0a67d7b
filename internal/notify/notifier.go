// Package notify delivers the task result to the caller-supplied evaluation
// endpoint with bounded exponential-backoff retries.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/appforge/internal/logfields"
	"git.home.luguber.info/inful/appforge/internal/metrics"
	"git.home.luguber.info/inful/appforge/internal/retry"
)

// Payload is the callback body. It only ever carries success-shaped results;
// a failed task sends nothing.
type Payload struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     any    `json:"round"`
	Nonce     any    `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// Notifier posts JSON payloads to an external URL. Success is strictly HTTP
// 200; any other status or transport error counts as a failed attempt.
type Notifier struct {
	httpClient  *http.Client
	policy      retry.Policy
	maxAttempts int
	recorder    metrics.Recorder

	// sleep is the backoff seam; tests replace it to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(n *Notifier) {
		if r != nil {
			n.recorder = r
		}
	}
}

// WithSleep replaces the backoff sleep function.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(n *Notifier) {
		if sleep != nil {
			n.sleep = sleep
		}
	}
}

// New constructs a notifier. maxAttempts is the total number of deliveries
// tried (default 5); timeout bounds each individual POST (default 10s);
// initialDelay seeds the doubling backoff (default 1s).
func New(maxAttempts int, timeout, initialDelay time.Duration, opts ...Option) *Notifier {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if initialDelay <= 0 {
		initialDelay = time.Second
	}

	n := &Notifier{
		httpClient:  &http.Client{Timeout: timeout},
		policy:      retry.NewPolicy(retry.BackoffExponential, initialDelay, 0, maxAttempts-1),
		maxAttempts: maxAttempts,
		recorder:    metrics.NoopRecorder{},
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify attempts delivery until one attempt returns HTTP 200 or attempts are
// exhausted. Returns whether any attempt succeeded; exhaustion is logged, not
// raised.
func (n *Notifier) Notify(ctx context.Context, url string, payload Payload) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode notification payload", logfields.Error(err))
		return false
	}

	log := slog.With(logfields.URL(url), logfields.TaskID(payload.Task))
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		log.Info("Notifying evaluator", logfields.Attempt(attempt))

		ok, reason := n.post(ctx, url, body)
		n.recorder.IncNotifyAttempt(ok)
		if ok {
			log.Info("Notification delivered", logfields.Attempt(attempt))
			return true
		}

		if attempt == n.maxAttempts {
			break
		}
		delay := n.policy.Delay(attempt)
		log.Warn("Notification attempt failed",
			logfields.Attempt(attempt),
			slog.String("reason", reason),
			slog.Duration("retry_in", delay))
		if err := n.sleep(ctx, delay); err != nil {
			log.Warn("Notification canceled during backoff", logfields.Error(err))
			return false
		}
	}

	log.Error("Could not notify evaluator after all attempts", slog.Int("attempts", n.maxAttempts))
	return false
}

func (n *Notifier) post(ctx context.Context, url string, body []byte) (ok bool, reason string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err.Error()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, resp.Status
	}
	return true, ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

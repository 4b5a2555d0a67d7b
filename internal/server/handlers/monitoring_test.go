package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appforge/internal/publish"
	"git.home.luguber.info/inful/appforge/internal/task"
)

type runtimeStub struct {
	start   time.Time
	queued  int
	active  int
	history []*task.Job
}

func (r *runtimeStub) GetStartTime() time.Time { return r.start }
func (r *runtimeStub) Length() int             { return r.queued }
func (r *runtimeStub) ActiveCount() int        { return r.active }
func (r *runtimeStub) Workers() int            { return 2 }
func (r *runtimeStub) QueueSize() int          { return 100 }
func (r *runtimeStub) History() []*task.Job    { return r.history }

func TestHealthCheck(t *testing.T) {
	h := NewMonitoringHandlers(&runtimeStub{start: time.Now().Add(-time.Minute), active: 1})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.HandleHealthCheck(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Status  string  `json:"status"`
		Version string  `json:"version"`
		Uptime  float64 `json:"uptime"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "healthy", resp.Status)
	require.NotEmpty(t, resp.Version)
	require.Greater(t, resp.Uptime, 0.0)
}

func TestHealthCheckRejectsPost(t *testing.T) {
	h := NewMonitoringHandlers(&runtimeStub{})
	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.HandleHealthCheck(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatusReportsQueue(t *testing.T) {
	h := NewMonitoringHandlers(&runtimeStub{start: time.Now(), queued: 7, active: 2})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	h.HandleStatus(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Status      string `json:"status"`
		QueueLength int    `json:"queue_length"`
		ActiveJobs  int    `json:"active_jobs"`
		Workers     int    `json:"workers"`
		QueueSize   int    `json:"queue_size"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "running", resp.Status)
	require.Equal(t, 7, resp.QueueLength)
	require.Equal(t, 2, resp.ActiveJobs)
	require.Equal(t, 2, resp.Workers)
	require.Equal(t, 100, resp.QueueSize)
}

func TestTasksListsHistory(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	completed := time.Now()
	stub := &runtimeStub{history: []*task.Job{
		{
			ID:          "job-1",
			Request:     task.Request{Task: "demo"},
			Status:      task.StatusCompleted,
			Stage:       task.StageNotifying,
			StartedAt:   &started,
			CompletedAt: &completed,
			Duration:    time.Minute,
			ReadmeTitle: "Demo App",
			Notified:    true,
			Result: &publish.Result{
				RepoURL:   "https://github.com/u/llm-app-demo",
				PagesURL:  "https://u.github.io/llm-app-demo/",
				CommitSHA: "abc",
			},
		},
		{
			ID:      "job-2",
			Request: task.Request{Task: "broken"},
			Status:  task.StatusFailed,
			Stage:   task.StageGenerating,
			Error:   "model unavailable",
		},
	}}
	h := NewMonitoringHandlers(stub)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rr := httptest.NewRecorder()
	h.HandleTasks(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Status string `json:"status"`
		Tasks  []struct {
			JobID     string  `json:"job_id"`
			Task      string  `json:"task"`
			Status    string  `json:"status"`
			Title     string  `json:"title"`
			RepoURL   string  `json:"repo_url"`
			CommitSHA string  `json:"commit_sha"`
			Error     string  `json:"error"`
			Duration  float64 `json:"duration_sec"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Tasks, 2)

	require.Equal(t, "job-1", resp.Tasks[0].JobID)
	require.Equal(t, "Demo App", resp.Tasks[0].Title)
	require.Equal(t, "abc", resp.Tasks[0].CommitSHA)
	require.Equal(t, 60.0, resp.Tasks[0].Duration)

	require.Equal(t, "failed", resp.Tasks[1].Status)
	require.Equal(t, "model unavailable", resp.Tasks[1].Error)
}

func TestTasksEmptyHistory(t *testing.T) {
	h := NewMonitoringHandlers(&runtimeStub{})
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rr := httptest.NewRecorder()
	h.HandleTasks(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Tasks []any `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Empty(t, resp.Tasks)
}

package task

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/appforge/internal/events"
	"git.home.luguber.info/inful/appforge/internal/logfields"
	"git.home.luguber.info/inful/appforge/internal/metrics"
)

// ErrQueueFull is returned by Enqueue when the queue has no capacity left.
var ErrQueueFull = stdErrors.New("task queue is full")

// Queue manages the bounded queue of build tasks and its worker pool. It
// replaces the fire-and-forget per-request goroutine model: concurrency is
// capped by the worker count and Stop drains gracefully.
type Queue struct {
	jobs        chan *Job
	workers     int
	maxSize     int
	mu          sync.RWMutex
	active      map[string]*Job
	history     []*Job
	historySize int
	stopChan    chan struct{}
	wg          sync.WaitGroup
	runner      Runner
	startTime   time.Time

	recorder metrics.Recorder
	emitter  events.Emitter
}

// NewQueue creates a new task queue with the specified size, worker count, and runner.
func NewQueue(maxSize, workers int, runner Runner) *Queue {
	if maxSize <= 0 {
		maxSize = 100
	}
	if workers <= 0 {
		workers = 2
	}
	if runner == nil {
		panic("NewQueue: runner is required")
	}

	return &Queue{
		jobs:        make(chan *Job, maxSize),
		workers:     workers,
		maxSize:     maxSize,
		active:      make(map[string]*Job),
		history:     make([]*Job, 0),
		historySize: 50,
		stopChan:    make(chan struct{}),
		runner:      runner,
		recorder:    metrics.NoopRecorder{},
		emitter:     events.NoopEmitter{},
	}
}

// SetRecorder injects a metrics recorder (optional).
func (q *Queue) SetRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	q.recorder = r
}

// SetEmitter injects a task lifecycle event emitter (optional).
func (q *Queue) SetEmitter(e events.Emitter) {
	if e == nil {
		e = events.NoopEmitter{}
	}
	q.emitter = e
}

// Start begins processing jobs with the configured number of workers.
func (q *Queue) Start(ctx context.Context) {
	q.startTime = time.Now()
	slog.Info("Starting task queue", "workers", q.workers, "max_size", q.maxSize)
	for i := range q.workers {
		q.wg.Add(1)
		go q.worker(ctx, fmt.Sprintf("worker-%d", i))
	}
}

// Stop gracefully shuts down the queue: active jobs are canceled and workers
// are joined before return.
func (q *Queue) Stop(_ context.Context) {
	close(q.stopChan)

	q.mu.Lock()
	for _, job := range q.active {
		if job.cancel != nil {
			job.cancel()
		}
	}
	q.mu.Unlock()

	q.wg.Wait()
}

// Length returns the current queue length.
func (q *Queue) Length() int {
	return len(q.jobs)
}

// Workers returns the configured worker count.
func (q *Queue) Workers() int {
	return q.workers
}

// QueueSize returns the configured queue capacity.
func (q *Queue) QueueSize() int {
	return q.maxSize
}

// GetStartTime returns when Start was called.
func (q *Queue) GetStartTime() time.Time {
	return q.startTime
}

// ActiveCount returns the number of jobs currently being processed.
func (q *Queue) ActiveCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.active)
}

// History returns a copy of the finished-job ring, newest last.
func (q *Queue) History() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]*Job, 0, len(q.history))
	for _, j := range q.history {
		cp := *j
		out = append(out, &cp)
	}
	return out
}

// Snapshot returns a copy of a job (active first, then history).
func (q *Queue) Snapshot(id string) (*Job, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if j, ok := q.active[id]; ok {
		cp := *j
		return &cp, true
	}
	for _, j := range q.history {
		if j.ID == id {
			cp := *j
			return &cp, true
		}
	}
	return nil, false
}

// Enqueue adds a new job to the queue without blocking. Returns ErrQueueFull
// when capacity is exhausted.
func (q *Queue) Enqueue(job *Job) error {
	if job == nil {
		return stdErrors.New("job cannot be nil")
	}
	if job.ID == "" {
		return stdErrors.New("job ID is required")
	}

	job.Status = StatusQueued
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	select {
	case q.jobs <- job:
		q.recorder.SetQueueDepth(len(q.jobs))
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) worker(ctx context.Context, workerID string) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopChan:
			return
		case job := <-q.jobs:
			if job != nil {
				q.recorder.SetQueueDepth(len(q.jobs))
				q.processJob(ctx, job, workerID)
			}
		}
	}
}

// processJob runs one job and is the top of the error funnel: any failure in
// the pipeline is logged with the task identifier and swallowed here. The
// inbound request was already acknowledged, so nothing can reach the caller
// except through the notification channel.
func (q *Queue) processJob(ctx context.Context, job *Job, workerID string) {
	jobCtx, cancel := context.WithCancel(ctx)
	job.cancel = cancel
	defer cancel()

	startTime := time.Now()
	q.mu.Lock()
	job.StartedAt = &startTime
	job.Status = StatusRunning
	q.active[job.ID] = job
	q.mu.Unlock()

	if err := q.emitter.EmitTaskStarted(jobCtx, events.TaskStarted{
		JobID:     job.ID,
		TaskID:    job.Request.Task,
		Timestamp: startTime,
	}); err != nil {
		slog.Warn("Failed to emit TaskStarted event", logfields.JobID(job.ID), logfields.Error(err))
	}

	err := q.runTask(jobCtx, job, workerID)

	duration := q.markJobCompleted(job, err)
	q.recorder.ObserveTaskDuration(duration)

	if err != nil {
		slog.Error("Task failed",
			logfields.TaskID(job.Request.Task),
			logfields.JobID(job.ID),
			logfields.Stage(string(job.Stage)),
			logfields.Error(err))
		q.recorder.IncTaskOutcome("failed")
		if emitErr := q.emitter.EmitTaskFailed(ctx, events.TaskFailed{
			JobID:     job.ID,
			TaskID:    job.Request.Task,
			Stage:     string(job.Stage),
			Error:     err.Error(),
			Timestamp: time.Now(),
		}); emitErr != nil {
			slog.Warn("Failed to emit TaskFailed event", logfields.JobID(job.ID), logfields.Error(emitErr))
		}
		return
	}

	slog.Info("Task completed",
		logfields.TaskID(job.Request.Task),
		logfields.JobID(job.ID),
		slog.Duration("duration", duration))
	q.recorder.IncTaskOutcome("success")

	ev := events.TaskCompleted{
		JobID:     job.ID,
		TaskID:    job.Request.Task,
		Duration:  duration,
		Timestamp: time.Now(),
	}
	if job.Result != nil {
		ev.RepoURL = job.Result.RepoURL
		ev.PagesURL = job.Result.PagesURL
		ev.CommitSHA = job.Result.CommitSHA
	}
	if emitErr := q.emitter.EmitTaskCompleted(ctx, ev); emitErr != nil {
		slog.Warn("Failed to emit TaskCompleted event", logfields.JobID(job.ID), logfields.Error(emitErr))
	}
}

// runTask invokes the runner, converting a panic into an ordinary failure so
// a bad task cannot take its worker down.
func (q *Queue) runTask(ctx context.Context, job *Job, workerID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	slog.Debug("Worker picked up task", logfields.JobID(job.ID), slog.String("worker", workerID))
	return q.runner.Run(ctx, job)
}

func (q *Queue) markJobCompleted(job *Job, err error) time.Duration {
	endTime := time.Now()
	q.mu.Lock()
	job.CompletedAt = &endTime
	if job.StartedAt != nil {
		job.Duration = endTime.Sub(*job.StartedAt)
	}
	delete(q.active, job.ID)
	q.addToHistory(job)
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = StatusCompleted
	}
	duration := job.Duration
	q.mu.Unlock()

	return duration
}

func (q *Queue) addToHistory(job *Job) {
	q.history = append(q.history, job)
	if len(q.history) > q.historySize {
		copy(q.history, q.history[len(q.history)-q.historySize:])
		q.history = q.history[:q.historySize]
	}
}

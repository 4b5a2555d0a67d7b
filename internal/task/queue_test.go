package task

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	ran   atomic.Int32
	err   error
	panic bool
	done  chan string
}

func (r *stubRunner) Run(_ context.Context, job *Job) error {
	r.ran.Add(1)
	if r.done != nil {
		defer func() { r.done <- job.ID }()
	}
	if r.panic {
		panic("boom")
	}
	return r.err
}

func waitForHistory(t *testing.T, q *Queue, n int) []*Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if h := q.History(); len(h) >= n {
			return h
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("history never reached %d entries", n)
	return nil
}

func TestQueueProcessesJob(t *testing.T) {
	runner := &stubRunner{done: make(chan string, 1)}
	q := NewQueue(10, 1, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop(context.Background())

	require.NoError(t, q.Enqueue(&Job{ID: "job-1"}))

	select {
	case id := <-runner.done:
		require.Equal(t, "job-1", id)
	case <-time.After(5 * time.Second):
		t.Fatal("job never ran")
	}

	history := waitForHistory(t, q, 1)
	require.Equal(t, StatusCompleted, history[0].Status)
	require.NotNil(t, history[0].StartedAt)
	require.NotNil(t, history[0].CompletedAt)
}

func TestQueueRecordsFailure(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("stage blew up")}
	q := NewQueue(10, 1, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop(context.Background())

	require.NoError(t, q.Enqueue(&Job{ID: "job-1"}))

	history := waitForHistory(t, q, 1)
	require.Equal(t, StatusFailed, history[0].Status)
	require.Contains(t, history[0].Error, "stage blew up")
}

// A panicking task must not take its worker down.
func TestQueueSurvivesPanickingTask(t *testing.T) {
	runner := &stubRunner{panic: true}
	q := NewQueue(10, 1, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop(context.Background())

	require.NoError(t, q.Enqueue(&Job{ID: "job-1"}))
	history := waitForHistory(t, q, 1)
	require.Equal(t, StatusFailed, history[0].Status)
	require.Contains(t, history[0].Error, "panicked")

	// The worker is still alive and picks up the next job.
	runner.panic = false
	require.NoError(t, q.Enqueue(&Job{ID: "job-2"}))
	waitForHistory(t, q, 2)
}

func TestQueueRejectsWhenFull(t *testing.T) {
	// No workers started: jobs stay in the channel.
	q := NewQueue(2, 1, &stubRunner{})

	require.NoError(t, q.Enqueue(&Job{ID: "a"}))
	require.NoError(t, q.Enqueue(&Job{ID: "b"}))
	require.Equal(t, 2, q.Length())

	err := q.Enqueue(&Job{ID: "c"})
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueEnqueueValidation(t *testing.T) {
	q := NewQueue(2, 1, &stubRunner{})
	require.Error(t, q.Enqueue(nil))
	require.Error(t, q.Enqueue(&Job{}))
}

func TestQueueHistoryBounded(t *testing.T) {
	runner := &stubRunner{}
	q := NewQueue(100, 1, runner)
	q.historySize = 3

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	for i := range 5 {
		require.NoError(t, q.Enqueue(&Job{ID: fmt.Sprintf("job-%d", i)}))
	}
	waitForHistory(t, q, 3)
	q.Stop(context.Background())

	require.LessOrEqual(t, len(q.History()), 3)
}

func TestQueueSnapshot(t *testing.T) {
	runner := &stubRunner{}
	q := NewQueue(10, 1, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop(context.Background())

	require.NoError(t, q.Enqueue(&Job{ID: "job-1"}))
	waitForHistory(t, q, 1)

	snap, ok := q.Snapshot("job-1")
	require.True(t, ok)
	require.Equal(t, "job-1", snap.ID)

	_, ok = q.Snapshot("nope")
	require.False(t, ok)
}

func TestQueueStopJoinsWorkers(t *testing.T) {
	runner := &stubRunner{}
	q := NewQueue(10, 3, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	require.Equal(t, time.Now().Year(), q.GetStartTime().Year())

	done := make(chan struct{})
	go func() {
		q.Stop(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop never returned")
	}
}

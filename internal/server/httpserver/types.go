package httpserver

import (
	"time"

	"git.home.luguber.info/inful/appforge/internal/task"
)

// Queue is the daemon-side surface the HTTP servers depend on. *task.Queue
// satisfies it.
type Queue interface {
	Enqueue(job *task.Job) error
	GetStartTime() time.Time
	Length() int
	ActiveCount() int
	Workers() int
	QueueSize() int
	History() []*task.Job
}

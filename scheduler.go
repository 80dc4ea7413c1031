package reactive

import (
	"time"

	"github.com/AnatoleLucet/reactive/eventloop"
	"github.com/AnatoleLucet/reactive/internal"
)

func schedulerFrom(s internal.Scheduler) Scheduler {
	return func(h *Handle) { s(h.effect) }
}

// TimerScheduler re-runs a triggered effect after delay on loop.
func TimerScheduler(loop *eventloop.Loop, delay time.Duration) Scheduler {
	return schedulerFrom(internal.TimerScheduler(loop, delay))
}

// MicrotaskScheduler re-runs a triggered effect in a microtask on loop.
func MicrotaskScheduler(loop *eventloop.Loop) Scheduler {
	return schedulerFrom(internal.MicrotaskScheduler(loop))
}

// JobQueue batches triggered effects into one microtask flush. An effect
// triggered several times before the flush runs once.
type JobQueue struct {
	queue *internal.JobQueue
}

func NewJobQueue(loop *eventloop.Loop) *JobQueue {
	return &JobQueue{internal.NewJobQueue(loop)}
}

// Scheduler returns a scheduler feeding this queue.
func (q *JobQueue) Scheduler() Scheduler {
	return schedulerFrom(q.queue.Schedule)
}

// Pending returns the number of effects waiting for the next flush.
func (q *JobQueue) Pending() int { return q.queue.Pending() }

// Flushing reports whether a flush is queued or running.
func (q *JobQueue) Flushing() bool { return q.queue.Flushing() }

// Flushes returns how many flushes have been scheduled.
func (q *JobQueue) Flushes() int { return q.queue.Flushes() }

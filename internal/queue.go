package internal

import "github.com/AnatoleLucet/reactive/eventloop"

// JobQueue collects triggered effects and runs them together in a single
// microtask. An effect is queued at most once per flush, and triggers arriving
// while a flush is pending join that flush instead of scheduling another one.
type JobQueue struct {
	loop *eventloop.Loop

	jobs   []*Effect
	queued map[*Effect]struct{}

	flushing bool
	flushes  int
}

func NewJobQueue(loop *eventloop.Loop) *JobQueue {
	return &JobQueue{
		loop:   loop,
		jobs:   make([]*Effect, 0),
		queued: make(map[*Effect]struct{}),
	}
}

// Schedule is a Scheduler.
func (q *JobQueue) Schedule(e *Effect) {
	if _, ok := q.queued[e]; !ok {
		q.queued[e] = struct{}{}
		q.jobs = append(q.jobs, e)
	}

	q.flush()
}

func (q *JobQueue) flush() {
	if q.flushing {
		return
	}
	q.flushing = true
	q.flushes++

	q.loop.QueueMicrotask(q.run)
}

func (q *JobQueue) run() {
	i := 0
	defer func() {
		// a panicking job is dropped, the ones after it wait for the next flush
		q.jobs = q.jobs[i:]
		q.flushing = false

		if len(q.jobs) > 0 {
			q.flush()
		}
	}()

	// jobs queued during the flush are picked up by this same loop, including
	// effects that already ran in it
	for i < len(q.jobs) {
		e := q.jobs[i]
		q.jobs[i] = nil
		i++
		delete(q.queued, e)

		if !e.stopped {
			e.Run()
		}
	}
}

// Pending returns the number of effects waiting for the next flush.
func (q *JobQueue) Pending() int { return len(q.jobs) }

// Flushing reports whether a flush is queued or running.
func (q *JobQueue) Flushing() bool { return q.flushing }

// Flushes returns how many flushes were scheduled so far.
func (q *JobQueue) Flushes() int { return q.flushes }

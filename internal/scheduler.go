package internal

import (
	"time"

	"github.com/AnatoleLucet/reactive/eventloop"
)

// TimerScheduler re-runs each triggered effect after delay on loop.
// Nothing is coalesced: every trigger sets its own timer.
func TimerScheduler(loop *eventloop.Loop, delay time.Duration) Scheduler {
	return func(e *Effect) {
		loop.SetTimeout(func() { e.Run() }, delay)
	}
}

// MicrotaskScheduler re-runs each triggered effect in its own microtask.
func MicrotaskScheduler(loop *eventloop.Loop) Scheduler {
	return func(e *Effect) {
		loop.QueueMicrotask(func() { e.Run() })
	}
}

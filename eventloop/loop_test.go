package eventloop

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop(t *testing.T) {
	t.Run("returns when idle", func(t *testing.T) {
		loop := New()

		assert.NoError(t, loop.Run(context.Background()))
		assert.Equal(t, 0, loop.Pending())
	})

	t.Run("microtasks run in order", func(t *testing.T) {
		log := []string{}
		loop := New()

		loop.QueueMicrotask(func() {
			log = append(log, "first")
			loop.QueueMicrotask(func() { log = append(log, "nested") })
		})
		loop.QueueMicrotask(func() { log = append(log, "second") })

		require.NoError(t, loop.RunMicrotasks())

		assert.Equal(t, []string{"first", "second", "nested"}, log)
	})

	t.Run("microtasks drain before the next timer", func(t *testing.T) {
		log := []string{}
		loop := New()

		loop.SetTimeout(func() {
			log = append(log, "timer 1")
			loop.QueueMicrotask(func() { log = append(log, "micro from timer") })
		}, 0)
		loop.SetTimeout(func() { log = append(log, "timer 2") }, 0)
		loop.QueueMicrotask(func() { log = append(log, "micro") })

		require.NoError(t, loop.Run(context.Background()))

		assert.Equal(t, []string{
			"micro",
			"timer 1",
			"micro from timer",
			"timer 2",
		}, log)
	})

	t.Run("timers fire by deadline then by order", func(t *testing.T) {
		log := []string{}
		loop := New()

		for i, delay := range []time.Duration{20, 5, 20, 0} {
			loop.SetTimeout(func() {
				log = append(log, fmt.Sprintf("%d after %d", i, delay))
			}, delay*time.Millisecond)
		}

		require.NoError(t, loop.Run(context.Background()))

		assert.Equal(t, []string{
			"3 after 0",
			"1 after 5",
			"0 after 20",
			"2 after 20",
		}, log)
	})

	t.Run("waits for timers", func(t *testing.T) {
		loop := New()
		fired := time.Time{}

		start := time.Now()
		loop.SetTimeout(func() { fired = time.Now() }, 15*time.Millisecond)

		require.NoError(t, loop.Run(context.Background()))

		assert.GreaterOrEqual(t, fired.Sub(start), 15*time.Millisecond)
	})

	t.Run("work queued from another goroutine wakes the loop", func(t *testing.T) {
		loop := New()
		done := make(chan struct{})

		// keeps Run waiting until the other goroutine queued its work
		loop.SetTimeout(func() {}, time.Second)

		go func() {
			loop.QueueMicrotask(func() { close(done) })
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-done
			cancel()
		}()

		err := loop.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		select {
		case <-done:
		default:
			t.Fatal("microtask did not run")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		loop := New()
		loop.SetTimeout(func() { t.Error("timer fired") }, time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, loop.Run(ctx), context.DeadlineExceeded)
		assert.Equal(t, 1, loop.Pending())
	})

	t.Run("panics surface and the loop resumes", func(t *testing.T) {
		log := []string{}
		loop := New()

		sentinel := errors.New("sentinel")
		loop.QueueMicrotask(func() { panic(sentinel) })
		loop.QueueMicrotask(func() { log = append(log, "after") })

		err := loop.Run(context.Background())

		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.ErrorIs(t, err, sentinel)
		assert.NotEmpty(t, panicErr.Stack)
		assert.Empty(t, log)

		require.NoError(t, loop.Run(context.Background()))
		assert.Equal(t, []string{"after"}, log)
	})

	t.Run("panic handler", func(t *testing.T) {
		var recovered []any
		loop := New(WithPanicHandler(func(v any) { recovered = append(recovered, v) }))

		loop.QueueMicrotask(func() { panic("micro") })
		loop.SetTimeout(func() { panic("timer") }, 0)

		require.NoError(t, loop.Run(context.Background()))

		assert.Equal(t, []any{"micro", "timer"}, recovered)
	})

	t.Run("close drops pending work", func(t *testing.T) {
		loop := New()
		loop.QueueMicrotask(func() { t.Error("microtask ran") })
		loop.SetTimeout(func() { t.Error("timer fired") }, 0)

		loop.Close()
		loop.QueueMicrotask(func() { t.Error("microtask ran") })

		assert.Equal(t, 0, loop.Pending())
		assert.ErrorIs(t, loop.Run(context.Background()), ErrClosed)
	})
}

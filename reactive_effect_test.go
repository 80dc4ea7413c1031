package reactive

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inc(v int) int { return v + 1 }

func TestEffect(t *testing.T) {
	t.Run("runs once then once per write", func(t *testing.T) {
		log := []string{}
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"foo": 1})
		NewEffect(rt, func() {
			log = append(log, fmt.Sprintf("foo %d", obj.Get("foo")))
		})

		obj.Set("foo", 2)

		assert.Equal(t, []string{"foo 1", "foo 2"}, log)
	})

	t.Run("ignores writes to keys it did not read", func(t *testing.T) {
		runs := 0
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"foo": 1, "bar": 1})
		NewEffect(rt, func() {
			obj.Get("foo")
			runs++
		})

		obj.Set("bar", 2)
		obj.Set("missing", 2)

		assert.Equal(t, 1, runs)
	})

	t.Run("branch switching drops the unread branch", func(t *testing.T) {
		log := []string{}
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]any{"ok": true, "a": "a1", "b": "b1"})
		h := NewEffect(rt, func() {
			if obj.Get("ok").(bool) {
				log = append(log, fmt.Sprintf("read %v", obj.Get("a")))
			} else {
				log = append(log, fmt.Sprintf("read %v", obj.Get("b")))
			}
		})
		assert.Equal(t, 2, h.Deps())

		obj.Set("ok", false)
		assert.Equal(t, 2, h.Deps())
		assert.Equal(t, 0, rt.Dependents(obj.Target(), "a"))
		assert.Equal(t, 1, rt.Dependents(obj.Target(), "b"))

		obj.Set("a", "a2") // not read anymore
		obj.Set("b", "b2")

		assert.Equal(t, []string{
			"read a1",
			"read b1",
			"read b2",
		}, log)
	})

	t.Run("self write does not recurse", func(t *testing.T) {
		runs := 0
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"foo": 1})
		NewEffect(rt, func() {
			runs++
			obj.Update("foo", inc)
		})
		assert.Equal(t, 2, obj.Peek("foo"))

		obj.Set("foo", 10)

		assert.Equal(t, 11, obj.Peek("foo"))
		assert.Equal(t, 2, runs)
	})

	t.Run("effects triggering each other terminate", func(t *testing.T) {
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"a": 0, "b": 0})
		NewEffect(rt, func() { obj.Set("b", obj.Get("a")+1) })
		NewEffect(rt, func() { obj.Set("c", obj.Get("b")+1) })

		obj.Set("a", 10)

		assert.Equal(t, 11, obj.Peek("b"))
		assert.Equal(t, 12, obj.Peek("c"))
	})

	t.Run("reading a key twice joins its dep set once", func(t *testing.T) {
		rt := NewRuntime()
		ref := NewRef(rt, 0)

		h := NewEffect(rt, func() {
			ref.Get()
			ref.Get()
		})

		assert.Equal(t, 1, h.Deps())
		assert.Equal(t, 1, rt.Dependents(ref.Target(), refKey))
	})

	t.Run("dependents iterate over a snapshot", func(t *testing.T) {
		log := []string{}
		rt := NewRuntime()

		ref := NewRef(rt, 0)
		NewEffect(rt, func() { log = append(log, fmt.Sprintf("first %d", ref.Get())) })
		NewEffect(rt, func() { log = append(log, fmt.Sprintf("second %d", ref.Get())) })

		// each re-run leaves and re-joins the dep set being triggered
		ref.Set(1)

		assert.Equal(t, []string{
			"first 0",
			"second 0",
			"first 1",
			"second 1",
		}, log)
	})

	t.Run("nested effects restore the outer effect", func(t *testing.T) {
		log := []string{}
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"outer": 0, "inner": 0, "after": 0})

		NewEffect(rt, func() {
			log = append(log, fmt.Sprintf("outer %d", obj.Get("outer")))

			NewEffect(rt, func() {
				log = append(log, fmt.Sprintf("inner %d", obj.Get("inner")))
			})

			// read after the inner effect finished, must belong to the outer one
			obj.Get("after")
		})

		obj.Set("inner", 1)
		obj.Set("after", 1)

		assert.Equal(t, []string{
			"outer 0",
			"inner 0",
			"inner 1",
			"outer 0",
			"inner 1",
		}, log)
		assert.False(t, rt.Tracking())
	})

	t.Run("lazy effect runs on demand", func(t *testing.T) {
		runs := 0
		rt := NewRuntime()

		ref := NewRef(rt, 2)
		double := NewEffectFunc(rt, func() int {
			runs++
			return ref.Get() * 2
		}, Lazy())

		assert.Equal(t, 0, runs)
		assert.Equal(t, 0, double.Deps())

		assert.Equal(t, 4, double.Run())
		assert.Equal(t, 1, runs)

		ref.Set(3)
		assert.Equal(t, 2, runs)
	})

	t.Run("scheduler receives the handle", func(t *testing.T) {
		log := []string{}
		rt := NewRuntime()

		var pending []*Handle
		ref := NewRef(rt, 0)
		h := NewEffect(rt, func() {
			log = append(log, fmt.Sprintf("run %d", ref.Get()))
		}, WithScheduler(func(h *Handle) {
			pending = append(pending, h)
		}))

		ref.Set(1)
		ref.Set(2)
		log = append(log, "written")

		require.Len(t, pending, 2)
		assert.Same(t, h, pending[0])
		pending[0].Run()

		assert.Equal(t, []string{
			"run 0",
			"written",
			"run 2",
		}, log)
	})

	t.Run("panicking effect does not leak the active effect", func(t *testing.T) {
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"foo": 0, "bar": 0})
		barRuns := 0
		NewEffect(rt, func() {
			if obj.Get("foo") == 1 {
				panic("boom")
			}
		})

		assert.PanicsWithValue(t, "boom", func() { obj.Set("foo", 1) })
		assert.False(t, rt.Tracking())

		// a read outside of any effect must not be attributed to the failed one
		obj.Get("bar")
		NewEffect(rt, func() {
			obj.Get("bar")
			barRuns++
		})
		obj.Set("bar", 1)
		assert.Equal(t, 2, barRuns)
		assert.Equal(t, 1, rt.Dependents(obj.Target(), "bar"))

		// the failed run re-collected its dependencies before panicking
		assert.Equal(t, 1, rt.Dependents(obj.Target(), "foo"))
		obj.Set("foo", 0)
	})

	t.Run("stop unsubscribes", func(t *testing.T) {
		runs := 0
		rt := NewRuntime()

		ref := NewRef(rt, 0)
		h := NewEffect(rt, func() {
			ref.Get()
			runs++
		})

		h.Stop()
		ref.Set(1)

		assert.True(t, h.Stopped())
		assert.Equal(t, 0, h.Deps())
		assert.Equal(t, 0, rt.Dependents(ref.Target(), refKey))
		assert.Equal(t, 1, runs)

		h.Run() // untracked
		assert.Equal(t, 2, runs)
		assert.Equal(t, 0, h.Deps())
	})

	t.Run("stopped effect runs untracked inside another effect", func(t *testing.T) {
		outerRuns := 0
		rt := NewRuntime()

		ref := NewRef(rt, 1)
		inner := NewEffect(rt, func() { ref.Get() })
		inner.Stop()

		NewEffect(rt, func() {
			outerRuns++
			inner.Run()
		})

		ref.Set(2)

		assert.Equal(t, 1, outerRuns)
		assert.Equal(t, 0, rt.Dependents(ref.Target(), refKey))
	})

	t.Run("stopped dirty computed read inside an effect", func(t *testing.T) {
		runs := 0
		rt := NewRuntime()

		ref := NewRef(rt, 1)
		double := NewComputed(rt, func() int { return ref.Get() * 2 })
		double.Stop()

		NewEffect(rt, func() {
			runs++
			double.Value()
		})

		ref.Set(2)

		assert.Equal(t, 1, runs)
		assert.Equal(t, 0, rt.Dependents(ref.Target(), refKey))
	})

	t.Run("effect stopped by an earlier dependent is skipped", func(t *testing.T) {
		log := []string{}
		rt := NewRuntime()

		ref := NewRef(rt, 0)
		var second *Handle
		NewEffect(rt, func() {
			if ref.Get() > 0 {
				second.Stop()
			}
			log = append(log, "first")
		})
		second = NewEffect(rt, func() {
			ref.Get()
			log = append(log, "second")
		})

		ref.Set(1)

		assert.Equal(t, []string{"first", "second", "first"}, log)
	})

	t.Run("debugger hooks", func(t *testing.T) {
		tracked := []any{}
		triggered := []any{}
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"foo": 1, "bar": 2})
		NewEffect(rt, func() {
			obj.Get("foo")
			obj.Get("bar")
		},
			OnTrack(func(ev TrackEvent) { tracked = append(tracked, ev.Key) }),
			OnTrigger(func(ev TriggerEvent) { triggered = append(triggered, ev.Key) }),
		)

		obj.Set("bar", 3)

		assert.Equal(t, []any{"foo", "bar", "foo", "bar"}, tracked)
		assert.Equal(t, []any{"bar"}, triggered)
	})

	t.Run("untrack", func(t *testing.T) {
		runs := 0
		rt := NewRuntime()

		obj := NewRecord(rt, map[string]int{"foo": 1, "bar": 1})
		NewEffect(rt, func() {
			obj.Get("foo")
			Untrack(rt, func() int { return obj.Get("bar") })
			runs++
		})

		obj.Set("bar", 2)
		assert.Equal(t, 1, runs)

		obj.Set("foo", 2)
		assert.Equal(t, 2, runs)
	})

	t.Run("runtimes are isolated", func(t *testing.T) {
		runs := 0
		a, b := NewRuntime(), NewRuntime()

		ref := NewRef(a, 0)
		NewEffect(b, func() {
			ref.Get() // tracked by a, which has no active effect
			runs++
		})

		ref.Set(1)
		assert.Equal(t, 1, runs)
	})
}

func TestDefaultRuntime(t *testing.T) {
	t.Run("one runtime per goroutine", func(t *testing.T) {
		defer ReleaseDefault()

		assert.Same(t, Default().rt, Default().rt)

		other := make(chan *Runtime)
		go func() {
			defer ReleaseDefault()
			other <- Default()
		}()

		assert.NotSame(t, Default().rt, (<-other).rt)
	})

	t.Run("release drops the runtime", func(t *testing.T) {
		first := Default()
		ReleaseDefault()
		defer ReleaseDefault()

		assert.NotSame(t, first.rt, Default().rt)
	})
}

func TestStore(t *testing.T) {
	t.Run("drops unreachable sources", func(t *testing.T) {
		rt := NewRuntime()

		func() {
			ref := NewRef(rt, 1)
			h := NewEffect(rt, func() { ref.Get() })
			require.Equal(t, 1, rt.Sources())
			h.Stop()
		}()

		assert.Eventually(t, func() bool {
			runtime.GC()
			return rt.Sources() == 0
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("drops sources and effects nobody references", func(t *testing.T) {
		rt := NewRuntime()

		func() {
			ref := NewRef(rt, 1)
			NewEffect(rt, func() { ref.Get() })
			require.Equal(t, 1, rt.Sources())
		}()

		assert.Eventually(t, func() bool {
			runtime.GC()
			return rt.Sources() == 0
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("keeps sources with live dependents", func(t *testing.T) {
		rt := NewRuntime()

		ref := NewRef(rt, 1)
		NewEffect(rt, func() { ref.Get() })

		runtime.GC()
		runtime.GC()

		assert.Equal(t, 1, rt.Sources())
		runtime.KeepAlive(ref)
	})
}

// Package scenario holds the end-to-end walkthroughs of the engine replayed by
// the CLI.
package scenario

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/AnatoleLucet/reactive"
)

type Options struct {
	TimerDelay time.Duration
}

type Scenario struct {
	Name        string
	Description string

	Run func(ctx context.Context, rt *reactive.Runtime, opts Options) ([]string, error)
}

func inc(v int) int { return v + 1 }

var scenarios = []Scenario{
	{
		Name:        "basic",
		Description: "an effect re-runs once per write to what it read",
		Run: func(_ context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]int{"foo": 1})
			reactive.NewEffect(rt, func() {
				log = append(log, fmt.Sprintf("foo %d", obj.Get("foo")))
			})

			obj.Set("foo", 2)
			return log, nil
		},
	},
	{
		Name:        "branch",
		Description: "dependencies follow the branch taken by the last run",
		Run: func(_ context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]any{"ok": true, "a": "a1", "b": "b1"})
			reactive.NewEffect(rt, func() {
				if obj.Get("ok").(bool) {
					log = append(log, fmt.Sprintf("read %v", obj.Get("a")))
				} else {
					log = append(log, fmt.Sprintf("read %v", obj.Get("b")))
				}
			})

			obj.Set("ok", false)
			obj.Set("a", "a2") // no longer read
			obj.Set("b", "b2")
			return log, nil
		},
	},
	{
		Name:        "self-write",
		Description: "an effect incrementing what it reads terminates",
		Run: func(_ context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			obj := reactive.NewRecord(rt, map[string]int{"foo": 1})
			reactive.NewEffect(rt, func() {
				obj.Update("foo", inc)
			})

			return []string{fmt.Sprintf("foo %d", obj.Peek("foo"))}, nil
		},
	},
	{
		Name:        "computed",
		Description: "a computed value is cached until a source changes",
		Run: func(_ context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]int{"a": 1, "b": 2})
			sum := reactive.NewComputed(rt, func() int {
				log = append(log, "computing")
				return obj.Get("a") + obj.Get("b")
			})

			log = append(log, fmt.Sprintf("sum %d", sum.Value()))
			log = append(log, fmt.Sprintf("sum %d", sum.Value()))
			obj.Update("a", inc)
			log = append(log, fmt.Sprintf("sum %d", sum.Value()))
			return log, nil
		},
	},
	{
		Name:        "watch",
		Description: "a watcher receives the new and old value",
		Run: func(_ context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]int{"foo": 1})
			reactive.Watch(rt, func() int { return obj.Get("foo") }, func(newValue, oldValue int) {
				log = append(log, fmt.Sprintf("new %d old %d", newValue, oldValue))
			})

			obj.Update("foo", inc)
			return log, nil
		},
	},
	{
		Name:        "timer",
		Description: "a timer scheduler defers the re-run past synchronous code",
		Run: func(ctx context.Context, rt *reactive.Runtime, opts Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]int{"foo": 1})
			reactive.NewEffect(rt, func() {
				log = append(log, fmt.Sprint(obj.Get("foo")))
			}, reactive.WithScheduler(reactive.TimerScheduler(rt.Loop(), opts.TimerDelay)))

			obj.Update("foo", inc)
			log = append(log, "end")

			err := rt.Loop().Run(ctx)
			return log, err
		},
	},
	{
		Name:        "computed-effect",
		Description: "an effect reading a computed re-runs when the computed's sources change",
		Run: func(_ context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]int{"foo": 1, "bar": 2})
			sum := reactive.NewComputed(rt, func() int {
				return obj.Get("foo") + obj.Get("bar")
			})
			reactive.NewEffect(rt, func() {
				log = append(log, fmt.Sprint(sum.Value()))
			})

			obj.Update("foo", inc)
			log = append(log, "end")
			return log, nil
		},
	},
	{
		Name:        "job-queue",
		Description: "a job queue runs every triggered effect in one flush",
		Run: func(ctx context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			queue := reactive.NewJobQueue(rt.Loop())
			obj := reactive.NewRecord(rt, map[string]int{"foo": 1, "bar": 1})

			reactive.NewEffect(rt, func() {
				log = append(log, fmt.Sprintf("foo %d", obj.Get("foo")))
			}, reactive.WithScheduler(queue.Scheduler()))
			reactive.NewEffect(rt, func() {
				log = append(log, fmt.Sprintf("bar %d", obj.Get("bar")))
			}, reactive.WithScheduler(queue.Scheduler()))

			obj.Update("foo", inc)
			obj.Update("foo", inc)
			obj.Update("bar", inc)
			log = append(log, fmt.Sprintf("pending %d flushes %d", queue.Pending(), queue.Flushes()))

			if err := rt.Loop().Run(ctx); err != nil {
				return log, err
			}

			log = append(log, fmt.Sprintf("pending %d flushes %d", queue.Pending(), queue.Flushes()))
			return log, nil
		},
	},
	{
		Name:        "post",
		Description: "a post-flush watcher runs after the synchronous code",
		Run: func(ctx context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]int{"foo": 1})
			reactive.Watch(rt, func() int { return obj.Get("foo") }, func(newValue, oldValue int) {
				log = append(log, fmt.Sprintf("new %d old %d", newValue, oldValue))
			}, reactive.WithFlush(reactive.FlushPost))

			obj.Update("foo", inc)
			log = append(log, "end")

			err := rt.Loop().Run(ctx)
			return log, err
		},
	},
	{
		Name:        "deep",
		Description: "deep watching an object passes the same object as new and old value",
		Run: func(_ context.Context, rt *reactive.Runtime, _ Options) ([]string, error) {
			log := []string{}

			obj := reactive.NewRecord(rt, map[string]int{"foo": 1})
			reactive.WatchObject(rt, obj, func(newValue, oldValue *reactive.Record[string, int]) {
				log = append(log, fmt.Sprintf("new foo %d old foo %d same %t",
					newValue.Peek("foo"), oldValue.Peek("foo"), newValue == oldValue))
			})

			obj.Update("foo", inc)
			return log, nil
		},
	},
}

// All returns every scenario in replay order.
func All() []Scenario {
	return slices.Clone(scenarios)
}

func Lookup(name string) (Scenario, bool) {
	i := slices.IndexFunc(scenarios, func(s Scenario) bool { return s.Name == name })
	if i == -1 {
		return Scenario{}, false
	}

	return scenarios[i], true
}

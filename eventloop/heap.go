package eventloop

import (
	"container/heap"
	"time"
)

type timer struct {
	deadline time.Time
	seq      uint64
	fn       func()
}

// timerHeap orders timers by deadline, then by the order they were set.
type timerHeap []*timer

var _ heap.Interface = (*timerHeap)(nil)

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}

	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(*timer))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

func (h timerHeap) peek() *timer {
	if len(h) == 0 {
		return nil
	}

	return h[0]
}

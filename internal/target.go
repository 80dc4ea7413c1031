package internal

import "sync/atomic"

var targetIDs atomic.Uint64

type keyMap map[any]*DepSet

// Target is the identity of a reactive source. The dependency store is keyed by
// targets, never by the values a source holds.
//
// A target owns the dep sets of its keys, so they are collected together with
// it. A target is tracked by a single runtime.
type Target struct {
	id uint64

	// guarded by the tracking runtime's store
	deps keyMap
}

func NewTarget() *Target {
	return &Target{id: targetIDs.Add(1)}
}

func (t *Target) ID() uint64 {
	if t == nil {
		return 0
	}

	return t.id
}

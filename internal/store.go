package internal

import (
	"runtime"
	"sync"
	"weak"
)

// Store records which effects depend on which (target, key) pairs. The dep
// sets live on the targets; the store only keeps weak references to the
// targets it has seen, dropped by a runtime cleanup once a target is
// unreachable.
//
// The mutex guards the registry, the targets' dep sets and the effects'
// membership lists. It is never held while user code runs.
type Store struct {
	mu sync.Mutex

	targets map[weak.Pointer[Target]]struct{}
}

func NewStore() *Store {
	return &Store{
		targets: make(map[weak.Pointer[Target]]struct{}),
	}
}

// link adds e to the dep set of (t, key), creating it if needed, and records
// the set in e's membership list. Reports false if e was already a member.
func (s *Store) link(e *Effect, t *Target, key any) (*DepSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.deps == nil {
		t.deps = make(keyMap)

		ptr := weak.Make(t)
		s.targets[ptr] = struct{}{}
		runtime.AddCleanup(t, s.release, ptr)
	}

	set, ok := t.deps[key]
	if !ok {
		set = newDepSet(t.ID(), key)
		t.deps[key] = set
	}

	if !set.add(e) {
		return set, false
	}

	e.deps = append(e.deps, set)
	return set, true
}

// unlink removes e from every dep set it belongs to and clears its list.
func (s *Store) unlink(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, set := range e.deps {
		set.remove(e)
	}

	clear(e.deps)
	e.deps = e.deps[:0]
}

func (s *Store) lookup(t *Target, key any) *DepSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	return t.deps[key]
}

func (s *Store) snapshot(set *DepSet, skip *Effect) []*Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	return set.snapshot(skip)
}

func (s *Store) deps(e *Effect) []*DepSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*DepSet, len(e.deps))
	copy(out, e.deps)
	return out
}

func (s *Store) release(ptr weak.Pointer[Target]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.targets, ptr)
}

// Len returns the number of live targets that were tracked at least once.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.targets)
}

// Lookup returns the dep set for (t, key), or nil.
func (s *Store) Lookup(t *Target, key any) *DepSet {
	return s.lookup(t, key)
}

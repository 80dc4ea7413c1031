package internal

import "slices"

// DepSet is the set of effects depending on one (target, key) pair.
// Members are kept in insertion order so dispatch is deterministic.
type DepSet struct {
	target uint64
	key    any

	effects []*Effect
}

func newDepSet(target uint64, key any) *DepSet {
	return &DepSet{target: target, key: key}
}

func (s *DepSet) Key() any { return s.key }

func (s *DepSet) Len() int { return len(s.effects) }

func (s *DepSet) Has(e *Effect) bool {
	return slices.Contains(s.effects, e)
}

func (s *DepSet) add(e *Effect) bool {
	if slices.Contains(s.effects, e) {
		return false
	}

	s.effects = append(s.effects, e)
	return true
}

func (s *DepSet) remove(e *Effect) {
	if i := slices.Index(s.effects, e); i != -1 {
		s.effects = slices.Delete(s.effects, i, i+1)
	}
}

// snapshot copies the members, leaving out skip.
// cloning to avoid mutation during iteration
func (s *DepSet) snapshot(skip *Effect) []*Effect {
	out := make([]*Effect, 0, len(s.effects))
	for _, e := range s.effects {
		if e != skip {
			out = append(out, e)
		}
	}

	return out
}

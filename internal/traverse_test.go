package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type leaf struct {
	name   string
	visits *[]string
}

func (l *leaf) Traverse(visit func(any)) {
	*l.visits = append(*l.visits, l.name)
}

type branch struct {
	name     string
	visits   *[]string
	children []any
}

func (b *branch) Traverse(visit func(any)) {
	*b.visits = append(*b.visits, b.name)
	for _, c := range b.children {
		visit(c)
	}
}

type node struct {
	Value *leaf
	Next  *node
	Items map[string]*leaf
	Pair  [2]*leaf

	hidden *leaf
}

func TestTraverse(t *testing.T) {
	t.Run("walks go values down to traversables", func(t *testing.T) {
		visits := []string{}
		mk := func(name string) *leaf { return &leaf{name: name, visits: &visits} }

		n := &node{
			Value:  mk("value"),
			Next:   &node{Value: mk("next")},
			Items:  map[string]*leaf{"x": mk("item")},
			Pair:   [2]*leaf{mk("first"), nil},
			hidden: mk("hidden"),
		}

		Traverse(n, nil)

		assert.ElementsMatch(t, []string{"value", "next", "item", "first"}, visits)
	})

	t.Run("cycles terminate", func(t *testing.T) {
		visits := []string{}

		a := &branch{name: "a", visits: &visits}
		b := &branch{name: "b", visits: &visits}
		a.children = []any{b, a}
		b.children = []any{a}

		n := &node{}
		n.Next = n

		Traverse(a, nil)
		Traverse(n, nil)

		assert.Equal(t, []string{"a", "b"}, visits)
	})

	t.Run("shared seen set", func(t *testing.T) {
		visits := []string{}
		l := &leaf{name: "leaf", visits: &visits}

		seen := map[any]struct{}{}
		Traverse(l, seen)
		Traverse([]any{l, l}, seen)

		assert.Equal(t, []string{"leaf"}, visits)
	})

	t.Run("ignores scalars and nils", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Traverse(nil, nil)
			Traverse(42, nil)
			Traverse("s", nil)
			Traverse((*node)(nil), nil)
			Traverse(map[string]int(nil), nil)
			Traverse([]any{nil, 1, (*leaf)(nil)}, nil)
		})
	})
}

// Package idset implements a set of arena IDs.
//
// Membership is tracked per slot index in a compressed bitmap, with
// the full IDs in a dense slot-indexed table, so a set iterates in
// ascending slot order: deterministic, and matching the arena's own
// memory layout. A set only makes sense for IDs minted by a single
// arena.
package idset

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/slotarena/slotarena/arena"
	"github.com/slotarena/slotarena/sizeof"
)

type T[V any] struct {
	_ [0]func() // no equality

	slots roaring.Bitmap
	ids   []arena.ID[V] // keyed by slot index; slots holds the member bit
}

func (t *T[V]) Len() int { return int(t.slots.GetCardinality()) }

func (t *T[V]) Size() uint64 {
	return 0 +
		/* slots */ t.slots.GetSizeInBytes() +
		/* ids   */ sizeof.Slice(t.ids) +
		0
}

// Add puts id in the set. It reports whether the set changed; adding
// an id whose slot is already present with a different generation
// replaces the stale member.
func (t *T[V]) Add(id arena.ID[V]) bool {
	s := id.Slot()
	if t.slots.Contains(s) && t.ids[s] == id {
		return false
	}
	if n := int(s) + 1; n > len(t.ids) {
		t.ids = append(t.ids, make([]arena.ID[V], n-len(t.ids))...)
	}
	t.ids[s] = id
	t.slots.Add(s)
	return true
}

func (t *T[V]) Has(id arena.ID[V]) bool {
	s := id.Slot()
	return t.slots.Contains(s) && t.ids[s] == id
}

func (t *T[V]) Remove(id arena.ID[V]) bool {
	if !t.Has(id) {
		return false
	}
	t.slots.Remove(id.Slot())
	t.ids[id.Slot()] = arena.ID[V]{}
	return true
}

func (t *T[V]) Clear() {
	t.slots.Clear()
	clear(t.ids)
}

// All calls fn for every member in ascending slot order until fn
// returns false.
func (t *T[V]) All(fn func(arena.ID[V]) bool) {
	t.slots.Iterate(func(s uint32) bool {
		return fn(t.ids[s])
	})
}

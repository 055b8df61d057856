// Package arena implements a contiguous growable container that hands
// out a stable ID for every inserted value.
//
// Values live in one dense slice, so iteration and bulk processing get
// array locality, while IDs keep resolving to their value across
// removals, swaps, and sorts. Removal uses pop & swap: the last value
// moves into the freed position, so neither values nor IDs stay in
// insertion order once anything is removed.
//
// A T is not safe for concurrent mutation.
package arena

import (
	"unsafe"

	"github.com/slotarena/slotarena/sizeof"
)

// A slot is the per-ID bookkeeping entry. A slot is occupied when gen
// is nonzero; fwd then holds the position of its value. A free slot
// uses fwd as the one-biased link to the next free slot.
//
// back is keyed by position, not by slot index: for every position
// i < live count, slots[i].back is the slot owning the value at i.
// The table is always at least as long as the value slice, so the
// same array carries both maps.
type slot struct {
	gen  uint64
	fwd  uint32
	back uint32
}

type T[V any] struct {
	_ [0]func() // no equality

	values []V
	slots  []slot
	gen    uint64 // last issued generation tag; never reused
	free   uint32 // one plus the index of the free-list head; 0 when empty
	inst   inst
}

// Of constructs an arena holding vs with consecutive generation tags
// and no free slots.
func Of[V any](vs ...V) (t T[V]) {
	t.Append(vs...)
	return t
}

func (t *T[V]) Len() int           { return len(t.values) }
func (t *T[V]) SlotCount() int     { return len(t.slots) }
func (t *T[V]) FreeSlotCount() int { return len(t.slots) - len(t.values) }

func (t *T[V]) Size() uint64 {
	return 0 +
		/* values */ sizeof.Slice(t.values) +
		/* slots  */ sizeof.Slice(t.slots) +
		/* gen    */ 8 +
		/* free   */ 4 +
		0
}

// Reserve ensures space for n more values without reallocation.
func (t *T[V]) Reserve(n int) {
	if n <= 0 {
		return
	}
	if rem := cap(t.values) - len(t.values); rem < n {
		values := make([]V, len(t.values), len(t.values)+n)
		copy(values, t.values)
		t.values = values
	}
	if rem := cap(t.slots) - len(t.slots); rem < n {
		slots := make([]slot, len(t.slots), len(t.slots)+n)
		copy(slots, t.slots)
		t.slots = slots
	}
}

// Slice is the dense slice of live values. It is valid until the next
// structural change, and writing elements in place is allowed.
// Rearranging them through the slice invalidates IDs; use Swap or
// SortBy for that.
func (t *T[V]) Slice() []V { return t.values }

// Ptr is the raw pointer to the value buffer, for handing the
// contiguous values to bulk-processing code. nil until something has
// been inserted.
func (t *T[V]) Ptr() *V { return unsafe.SliceData(t.values) }

// Take hands back the dense value slice and resets the arena,
// invalidating every ID. The generation counter keeps running.
func (t *T[V]) Take() []V {
	vs := t.values
	t.values = nil
	t.slots = nil
	t.free = 0
	return vs
}

func (t *T[V]) allocSlot() uint32 {
	if t.free != 0 {
		s := t.free - 1
		t.free = t.slots[s].fwd
		return s
	}
	t.slots = append(t.slots, slot{})
	return uint32(len(t.slots) - 1)
}

func (t *T[V]) freeSlot(s uint32) {
	t.slots[s].gen = 0
	t.slots[s].fwd = t.free
	t.free = s + 1
}

// lookup validates id and returns the position of its value.
func (t *T[V]) lookup(id ID[V]) (uint32, bool) {
	if !t.match(id) || id.gen == 0 {
		return 0, false
	}
	if uint64(id.slot) >= uint64(len(t.slots)) {
		return 0, false
	}
	if t.slots[id.slot].gen != id.gen {
		return 0, false
	}
	return t.slots[id.slot].fwd, true
}

// Insert adds a value and returns the ID that resolves to it for as
// long as it stays in the arena.
func (t *T[V]) Insert(v V) ID[V] {
	return t.InsertWith(func(ID[V]) V { return v })
}

// InsertWith adds the value constructed by fn, which receives the ID
// being assigned so self-referential values can hold their own ID.
func (t *T[V]) InsertWith(fn func(ID[V]) V) ID[V] {
	t.stampInst()

	pos := uint32(len(t.values))
	s := t.allocSlot()
	t.gen++
	t.slots[s].gen = t.gen
	t.slots[s].fwd = pos
	t.slots[pos].back = s

	id := ID[V]{inst: t.inst, gen: t.gen, slot: s}
	t.values = append(t.values, fn(id))
	return id
}

// Append inserts every value of vs in order.
func (t *T[V]) Append(vs ...V) {
	t.Reserve(len(vs))
	for _, v := range vs {
		t.Insert(v)
	}
}

// Get returns a pointer to the value for id, or false if id is stale,
// foreign, or was never issued.
func (t *T[V]) Get(id ID[V]) (*V, bool) {
	p, ok := t.lookup(id)
	if !ok {
		return nil, false
	}
	return &t.values[p], true
}

// MustGet is Get for IDs the caller knows to be live. It panics on an
// invalid ID.
func (t *T[V]) MustGet(id ID[V]) *V {
	v, ok := t.Get(id)
	if !ok {
		panic("arena: no value for " + id.String())
	}
	return v
}

// Get2 resolves two IDs at once so both values can be written through.
// Each ID fails independently. The IDs must not resolve to the same
// position: that would alias one value through two pointers, and Get2
// panics instead.
func (t *T[V]) Get2(a, b ID[V]) (*V, *V) {
	pa, oka := t.lookup(a)
	pb, okb := t.lookup(b)
	if oka && okb && pa == pb {
		panic("arena: Get2 called with ids aliasing position " + a.String())
	}

	var va, vb *V
	if oka {
		va = &t.values[pa]
	}
	if okb {
		vb = &t.values[pb]
	}
	return va, vb
}

func (t *T[V]) Contains(id ID[V]) bool {
	_, ok := t.lookup(id)
	return ok
}

// IndexOf returns the current position of the value for id.
func (t *T[V]) IndexOf(id ID[V]) (int, bool) {
	p, ok := t.lookup(id)
	return int(p), ok
}

// IDAt returns the ID owning position i, or false if i is out of
// range. It is the inverse of IndexOf.
func (t *T[V]) IDAt(i int) (ID[V], bool) {
	if i < 0 || i >= len(t.values) {
		return ID[V]{}, false
	}
	s := t.slots[i].back
	return ID[V]{inst: t.inst, gen: t.slots[s].gen, slot: s}, true
}

// Remove takes the value for id out of the arena and returns it. The
// last value moves into the freed position, so exactly one other value
// changes position and no ID other than id is affected.
func (t *T[V]) Remove(id ID[V]) (V, bool) {
	p, ok := t.lookup(id)
	if !ok {
		var zero V
		return zero, false
	}
	t.freeSlot(id.slot)

	last := uint32(len(t.values) - 1)
	if p == last {
		return t.popValue(), true
	}

	ls := t.slots[last].back
	t.slots[p].back = ls
	t.slots[ls].fwd = p

	v := t.values[p]
	t.values[p] = t.values[last]
	t.truncate(last)
	return v, true
}

// RemoveAt removes the value at position i.
func (t *T[V]) RemoveAt(i int) (V, bool) {
	id, ok := t.IDAt(i)
	if !ok {
		var zero V
		return zero, false
	}
	return t.Remove(id)
}

// Pop removes and returns the value at the last position.
func (t *T[V]) Pop() (V, bool) {
	if len(t.values) == 0 {
		var zero V
		return zero, false
	}
	t.freeSlot(t.slots[len(t.values)-1].back)
	return t.popValue(), true
}

func (t *T[V]) popValue() V {
	last := uint32(len(t.values) - 1)
	v := t.values[last]
	t.truncate(last)
	return v
}

func (t *T[V]) truncate(last uint32) {
	var zero V
	t.values[last] = zero // drop the moved-from copy for the GC
	t.values = t.values[:last]
}

// Clear empties the arena but keeps every slot, returning all of them
// to the free list. Later inserts reuse the slots with fresh
// generation tags, so cleared IDs still fail to resolve.
func (t *T[V]) Clear() {
	for i := range t.values {
		t.freeSlot(t.slots[i].back)
	}
	clear(t.values)
	t.values = t.values[:0]
}

// Reset empties the arena and the slot table both. The generation
// counter keeps running, so tags stay unique across a Reset.
func (t *T[V]) Reset() {
	clear(t.values)
	t.values = t.values[:0]
	t.slots = t.slots[:0]
	t.free = 0
}

// Swap exchanges the values at positions i and j and fixes up both
// maps, so the IDs owning them keep resolving. Panics when either
// position is out of range.
func (t *T[V]) Swap(i, j int) {
	if uint(i) >= uint(len(t.values)) || uint(j) >= uint(len(t.values)) {
		panic("arena: swap position out of range")
	}
	if i == j {
		return
	}

	t.values[i], t.values[j] = t.values[j], t.values[i]

	si, sj := t.slots[i].back, t.slots[j].back
	t.slots[i].back, t.slots[j].back = sj, si
	t.slots[si].fwd = uint32(j)
	t.slots[sj].fwd = uint32(i)
}

// SwapIDs swaps the positions of the two values the IDs resolve to.
// It reports false, changing nothing, when either ID is invalid.
func (t *T[V]) SwapIDs(a, b ID[V]) bool {
	i, ok := t.lookup(a)
	if !ok {
		return false
	}
	j, ok := t.lookup(b)
	if !ok {
		return false
	}
	t.Swap(int(i), int(j))
	return true
}

// All calls fn for every (id, value) pair in position order until fn
// returns false. Writing the value through the pointer is fine;
// structural changes during the walk are not.
func (t *T[V]) All(fn func(ID[V], *V) bool) {
	for i := range t.values {
		s := t.slots[i].back
		id := ID[V]{inst: t.inst, gen: t.slots[s].gen, slot: s}
		if !fn(id, &t.values[i]) {
			return
		}
	}
}

// IDs calls fn for every live ID in position order until fn returns
// false.
func (t *T[V]) IDs(fn func(ID[V]) bool) {
	t.All(func(id ID[V], _ *V) bool { return fn(id) })
}

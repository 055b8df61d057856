package arena

import (
	"cmp"
	"math/bits"
	"slices"

	"github.com/zeebo/errs/v2"

	"github.com/slotarena/slotarena/rwutils"
)

// RWValue constrains a value type to one whose pointer knows how to
// serialize itself.
type RWValue[V any] interface {
	*V
	rwutils.RW
}

// AppendTo writes the arena in its persisted form: the generation
// counter followed by one (slot, tag, value) entry per live value.
// Free slots are not persisted. The instance stamp is process-local
// randomness and is not persisted either.
func AppendTo[V any, RWV RWValue[V]](t *T[V], w *rwutils.W) {
	w.Uint64(0) // version

	w.Uint64(t.gen)
	w.Varint(uint64(len(t.values)))

	for i := range t.values {
		s := t.slots[i].back
		w.Varint(uint64(s))
		w.Uint64(t.slots[s].gen)
		RWV(&t.values[i]).AppendTo(w)
	}
}

// ReadFrom replaces the arena with the serialized one. Occupied slots
// keep their index and generation tag, so composed IDs keep resolving
// to their value. Gaps between occupied slots become free slots, and
// values land in ascending slot order, so positions may differ from
// the serialized arena's.
//
// The slot table is sized by the largest slot index in the input, so a
// sparse arena costs memory proportional to that index, not to its
// live count. Callers reading untrusted buffers should bound them
// before handing them over.
func ReadFrom[V any, RWV RWValue[V]](t *T[V], r *rwutils.R) {
	if r.Uint64() != 0 {
		r.Invalid(errs.Errorf("arena has unknown version"))
		return
	}

	gen := r.Uint64()

	n := r.Varint()
	if hi, lo := bits.Mul64(n, 9); hi > 0 || lo > uint64(r.Remaining()) {
		r.Invalid(errs.Errorf("arena has too many entries: %d", n))
		return
	}

	type entry struct {
		slot uint32
		gen  uint64
		val  V
	}

	ents := make([]entry, n)
	for i := range ents {
		s := r.Varint()
		g := r.Uint64()
		if s > uint64(^uint32(0)) || g == 0 || g > gen {
			r.Invalid(errs.Errorf("arena entry has invalid slot %d or tag %d", s, g))
			return
		}
		ents[i].slot = uint32(s)
		ents[i].gen = g
		RWV(&ents[i].val).ReadFrom(r)
	}

	slices.SortFunc(ents, func(a, b entry) int { return cmp.Compare(a.slot, b.slot) })
	for i := 1; i < len(ents); i++ {
		if ents[i].slot == ents[i-1].slot {
			r.Invalid(errs.Errorf("arena has duplicate slot %d", ents[i].slot))
			return
		}
	}

	t.values = make([]V, 0, len(ents))
	t.slots = t.slots[:0]
	t.free = 0
	t.gen = gen
	t.inst = inst{}
	t.stampInst()

	for i := range ents {
		e := &ents[i]

		// thread the gap up to this entry's slot onto the free list
		for uint32(len(t.slots)) < e.slot {
			s := uint32(len(t.slots))
			t.slots = append(t.slots, slot{fwd: t.free})
			t.free = s + 1
		}

		t.slots = append(t.slots, slot{gen: e.gen, fwd: uint32(i)})
		t.values = append(t.values, e.val)
	}

	// live count <= slot count, so every position has a table entry
	for i := range ents {
		t.slots[i].back = ents[i].slot
	}
}

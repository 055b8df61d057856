package idset

import (
	"bytes"
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/errs/v2"

	"github.com/slotarena/slotarena/arena"
	"github.com/slotarena/slotarena/rwutils"
)

// AppendTo writes the set as the slot bitmap in roaring's portable
// format followed by one generation tag per member in slot order.
// Instance stamps are not persisted; see arena.Compose.
func AppendTo[V any](t *T[V], w *rwutils.W) {
	w.Uint64(0) // version

	var buf bytes.Buffer
	_, _ = t.slots.WriteTo(&buf) // cannot fail against a bytes.Buffer
	w.Varint(uint64(buf.Len()))
	w.Bytes(buf.Bytes())

	t.slots.Iterate(func(s uint32) bool {
		w.Uint64(t.ids[s].Gen())
		return true
	})
}

func ReadFrom[V any](t *T[V], r *rwutils.R) {
	if r.Uint64() != 0 {
		r.Invalid(errs.Errorf("idset has unknown version"))
		return
	}

	bn := r.Varint()
	if bn > uint64(r.Remaining()) {
		r.Invalid(errs.Errorf("idset bitmap length too large: %d", bn))
		return
	}

	var bm roaring.Bitmap
	if _, err := bm.FromBuffer(r.Bytes(int(bn))); err != nil {
		r.Invalid(err)
		return
	}
	bm.CloneCopyOnWriteContainers()

	n := bm.GetCardinality()
	if hi, lo := bits.Mul64(n, 8); hi > 0 || lo > uint64(r.Remaining()) {
		r.Invalid(errs.Errorf("idset has too many members: %d", n))
		return
	}

	var ids []arena.ID[V]
	if n > 0 {
		ids = make([]arena.ID[V], bm.Maximum()+1)
	}
	bm.Iterate(func(s uint32) bool {
		ids[s] = arena.Compose[V](r.Uint64(), s)
		return true
	})

	t.slots = bm
	t.ids = ids
}

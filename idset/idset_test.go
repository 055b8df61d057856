package idset

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/slotarena/slotarena/arena"
	"github.com/slotarena/slotarena/buffer"
	"github.com/slotarena/slotarena/rwutils"
)

func TestIDSet(t *testing.T) {
	var a arena.T[int]
	var s T[int]

	i0 := a.Insert(0)
	i1 := a.Insert(1)
	i2 := a.Insert(2)

	assert.Equal(t, s.Len(), 0)
	assert.That(t, !s.Has(i0))

	assert.That(t, s.Add(i0))
	assert.That(t, s.Add(i2))
	assert.That(t, !s.Add(i0))

	assert.Equal(t, s.Len(), 2)
	assert.That(t, s.Has(i0))
	assert.That(t, !s.Has(i1))
	assert.That(t, s.Has(i2))

	assert.That(t, s.Remove(i0))
	assert.That(t, !s.Remove(i0))
	assert.That(t, !s.Remove(i1))
	assert.Equal(t, s.Len(), 1)

	s.Clear()
	assert.Equal(t, s.Len(), 0)
	assert.That(t, !s.Has(i2))
}

func TestIDSetReplacesStale(t *testing.T) {
	var a arena.T[int]
	var s T[int]

	old := a.Insert(1)
	assert.That(t, s.Add(old))

	// reusing the slot mints a later tag for the same index
	_, ok := a.Remove(old)
	assert.That(t, ok)
	cur := a.Insert(2)
	assert.Equal(t, cur.Slot(), old.Slot())

	assert.That(t, s.Add(cur))
	assert.Equal(t, s.Len(), 1)
	assert.That(t, s.Has(cur))
	assert.That(t, !s.Has(old))
}

func TestIDSetAll(t *testing.T) {
	rng := mwc.New(5, 5)

	var a arena.T[uint64]
	var s T[uint64]

	ids := make([]arena.ID[uint64], 100)
	for i := range ids {
		ids[i] = a.Insert(rng.Uint64())
	}
	shuf := append([]arena.ID[uint64](nil), ids...)
	for i := len(shuf) - 1; i > 0; i-- {
		j := rng.Uint64n(uint64(i + 1))
		shuf[i], shuf[j] = shuf[j], shuf[i]
	}
	for _, id := range shuf {
		s.Add(id)
	}

	// ascending slot order regardless of insertion order
	var got []arena.ID[uint64]
	s.All(func(id arena.ID[uint64]) bool {
		got = append(got, id)
		return true
	})
	assert.Equal(t, len(got), len(ids))
	for i, id := range got {
		assert.Equal(t, id, ids[i])
		assert.Equal(t, id.Slot(), uint32(i))
	}

	// early exit
	count := 0
	s.All(func(arena.ID[uint64]) bool {
		count++
		return count < 10
	})
	assert.Equal(t, count, 10)
}

func TestIDSetSerialize(t *testing.T) {
	rng := mwc.New(7, 7)

	var a arena.T[uint64]
	var s T[uint64]

	for i := 0; i < 1000; i++ {
		id := a.Insert(rng.Uint64())
		if rng.Uint32n(2) == 0 {
			s.Add(id)
		}
	}

	var w rwutils.W
	w.Init(buffer.T{})
	AppendTo(&s, &w)
	w.Uint8(9)

	var r rwutils.R
	r.Init(w.Done().Trim().Reset())

	var s2 T[uint64]
	ReadFrom(&s2, &r)

	rem, err := r.Done()
	assert.NoError(t, err)
	assert.DeepEqual(t, rem.Suffix(), []byte{9})

	assert.Equal(t, s2.Len(), s.Len())

	// composed ids drop the instance stamp, so membership only
	// survives a round trip when stamps are off
	var probe arena.T[uint64]
	if p := probe.Insert(0); arena.Compose[uint64](p.Gen(), p.Slot()) != p {
		return
	}
	s.All(func(id arena.ID[uint64]) bool {
		assert.That(t, s2.Has(id))
		return true
	})
}

func TestIDSetSerializeInvalid(t *testing.T) {
	read := func(buf []byte) error {
		var r rwutils.R
		r.Init(buffer.Of(buf))
		var s T[uint64]
		ReadFrom(&s, &r)
		_, err := r.Done()
		return err
	}

	// unknown version
	var w rwutils.W
	w.Init(buffer.T{})
	w.Uint64(1)
	assert.Error(t, read(w.Done().Trim().Reset().Suffix()))

	// bitmap length far past the end of the buffer
	w.Init(buffer.T{})
	w.Uint64(0)
	w.Varint(1 << 63)
	w.Uint8(1)
	assert.Error(t, read(w.Done().Trim().Reset().Suffix()))

	// garbage bitmap
	w.Init(buffer.T{})
	w.Uint64(0)
	w.Varint(4)
	w.Bytes([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.Error(t, read(w.Done().Trim().Reset().Suffix()))

	// truncated generations
	var a arena.T[uint64]
	var s T[uint64]
	s.Add(a.Insert(1))
	s.Add(a.Insert(2))
	w.Init(buffer.T{})
	AppendTo(&s, &w)
	full := w.Done().Trim().Reset().Suffix()
	assert.NoError(t, read(full))
	assert.Error(t, read(full[:len(full)-1]))
}

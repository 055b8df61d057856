package arena

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

type tag[V any] struct{}

// ID is a stable handle to a value in a T[V]. It is issued by Insert,
// stays valid while the value is in the arena no matter how other
// values move, and fails to resolve forever once the value is removed,
// even if its slot is reused.
//
// IDs are plain comparable values: copy them freely, compare them with
// ==. The zero ID is never issued and never resolves.
type ID[V any] struct {
	_    tag[V]
	inst inst
	gen  uint64
	slot uint32
}

// Compose rebuilds an ID from its raw parts, for IDs that crossed a
// serialization boundary. A composed ID only resolves if the arena
// still holds a value with that exact generation tag in that slot.
func Compose[V any](gen uint64, slot uint32) ID[V] {
	return ID[V]{gen: gen, slot: slot}
}

func (id ID[V]) Gen() uint64  { return id.gen }
func (id ID[V]) Slot() uint32 { return id.slot }

func (id ID[V]) Zero() bool { return id == ID[V]{} }

// Less orders IDs by (instance, generation tag, slot index), giving
// sets and ordered maps of IDs a deterministic order.
func (id ID[V]) Less(o ID[V]) bool {
	if instLess(id.inst, o.inst) {
		return true
	}
	if instLess(o.inst, id.inst) {
		return false
	}
	if id.gen != o.gen {
		return id.gen < o.gen
	}
	return id.slot < o.slot
}

// Digest is a 64-bit hash of the ID for hash-table keys.
func (id ID[V]) Digest() uint64 {
	var b [28]byte
	buf := instBytes(b[:0], id.inst)
	buf = binary.LittleEndian.AppendUint64(buf, id.gen)
	buf = binary.LittleEndian.AppendUint32(buf, id.slot)
	return xxh3.Hash(buf)
}

func (id ID[V]) String() string {
	return fmt.Sprintf("(id %d @%d)", id.gen, id.slot)
}

//go:build arenainst

package arena

import (
	"bytes"

	"github.com/google/uuid"
)

const instEnabled = true

// inst is the per-arena instance stamp: a random 128-bit value minted
// when the arena issues or loads its first ID. Every ID embeds its
// arena's stamp and validation checks it before consulting the slot
// table, so an ID from one arena can never resolve in another.
//
// The stamp is process-local randomness. It is not persisted:
// a deserialized arena mints a fresh one, and only IDs it issues
// itself validate afterward.
type inst struct {
	u uuid.UUID
}

func (t *T[V]) stampInst() {
	if t.inst == (inst{}) {
		t.inst = inst{u: uuid.New()}
	}
}

func (t *T[V]) match(id ID[V]) bool { return id.inst == t.inst }

func instLess(a, b inst) bool { return bytes.Compare(a.u[:], b.u[:]) < 0 }

func instBytes(dst []byte, i inst) []byte { return append(dst, i.u[:]...) }

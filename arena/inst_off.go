//go:build !arenainst

package arena

const instEnabled = false

// inst is the per-arena instance stamp. Without the arenainst build
// tag it is zero sized and every check compiles away.
type inst struct{}

func (t *T[V]) stampInst() {}

func (t *T[V]) match(id ID[V]) bool { return true }

func instLess(a, b inst) bool { return false }

func instBytes(dst []byte, i inst) []byte { return dst }

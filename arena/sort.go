package arena

import (
	"cmp"
	"sort"
)

type sorter[V any] struct {
	t    *T[V]
	less func(a, b *V) bool
}

func (s sorter[V]) Len() int           { return len(s.t.values) }
func (s sorter[V]) Less(i, j int) bool { return s.less(&s.t.values[i], &s.t.values[j]) }
func (s sorter[V]) Swap(i, j int)      { s.t.Swap(i, j) }

// SortBy reorders the values into less order. Every element move goes
// through Swap, so positions change but no ID is invalidated. less
// must be a strict weak ordering.
func (t *T[V]) SortBy(less func(a, b *V) bool) {
	sort.Sort(sorter[V]{t: t, less: less})
}

// Sort sorts an arena of ordered values into ascending order without
// invalidating IDs.
func Sort[V cmp.Ordered](t *T[V]) {
	t.SortBy(func(a, b *V) bool { return *a < *b })
}

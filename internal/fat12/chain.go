package fat12

import "fmt"

// Chain returns an iterator over the clusters linked from start. The start
// cluster is yielded first when it is a valid link; iteration continues
// while the table keeps pointing at further clusters. A chain that visits
// more clusters than the table holds is reported as ErrCorruptChain.
//
// The iterator reads the table lazily and can be ranged over more than once.
func (t *Table) Chain(start uint16) func(yield func(uint16, error) bool) {
	return func(yield func(uint16, error) bool) {
		limit := t.Len()

		cur := start
		for n := 0; IsLink(cur); n++ {
			if n >= limit {
				yield(0, fmt.Errorf("%w: chain from cluster %d exceeds %d clusters", ErrCorruptChain, start, limit))
				return
			}
			if !yield(cur, nil) {
				return
			}

			next, err := t.Get(cur)
			if err != nil {
				yield(0, err)
				return
			}
			cur = next
		}
	}
}

// Clusters collects the whole chain starting at start.
func (t *Table) Clusters(start uint16) ([]uint16, error) {
	var clusters []uint16
	for c, err := range t.Chain(start) {
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}

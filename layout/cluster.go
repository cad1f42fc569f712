package layout

import (
	"sort"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/snapshot"
)

// band is one horizontal strip of elements that overlap vertically
// within the band tolerance.
type band struct {
	top, bottom float64
	members     []int // indices into the analyzed element slice
}

// bands partitions elements into horizontal strips. Elements are taken
// in ascending top-y order; an element joins the current band when its
// top edge starts within tol of the band's running bottom, otherwise it
// opens a new band. The result is ordered top to bottom.
func bands(elems []snapshot.ElementRecord, tol float64) []band {
	if len(elems) == 0 {
		return nil
	}
	order := make([]int, len(elems))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return elems[order[a]].BBox.Y < elems[order[b]].BBox.Y
	})

	var out []band
	for _, idx := range order {
		box := elems[idx].BBox
		if len(out) > 0 && box.Y <= out[len(out)-1].bottom+tol {
			b := &out[len(out)-1]
			b.members = append(b.members, idx)
			if box.Bottom() > b.bottom {
				b.bottom = box.Bottom()
			}
			continue
		}
		out = append(out, band{top: box.Y, bottom: box.Bottom(), members: []int{idx}})
	}
	return out
}

// proximityGroups partitions elements into groups whose members are
// connected by pairwise gaps of at most tol pixels. The output is a
// true partition: groups are disjoint, non-empty, and cover every
// element. Group order and member order follow element order, so the
// partition is deterministic.
func proximityGroups(elems []snapshot.ElementRecord, tol float64) [][]int {
	n := len(elems)
	if n == 0 {
		return nil
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if snapshot.Gap(elems[i].BBox, elems[j].BBox) <= tol {
				union(i, j)
			}
		}
	}

	byRoot := make(map[int][]int)
	var roots []int
	for i := 0; i < n; i++ {
		r := find(i)
		if _, seen := byRoot[r]; !seen {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	sort.Ints(roots)

	groups := make([][]int, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, byRoot[r])
	}
	return groups
}

// axisClusters buckets sorted coordinate values greedily: a value joins
// the current cluster while it stays within tol of the cluster's first
// value. Only clusters of at least minSize survive, rejecting spurious
// two-element "alignments".
func axisClusters(values []float64, tol float64, minSize int) [][]float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var clusters [][]float64
	current := []float64{sorted[0]}
	for _, v := range sorted[1:] {
		if v-current[0] <= tol {
			current = append(current, v)
			continue
		}
		clusters = append(clusters, current)
		current = []float64{v}
	}
	clusters = append(clusters, current)

	var out [][]float64
	for _, c := range clusters {
		if len(c) >= minSize {
			out = append(out, c)
		}
	}
	return out
}

// alignmentScore is the fraction of values that lie on a surviving
// alignment line.
func alignmentScore(values []float64, tol float64, minSize int) float64 {
	if len(values) == 0 {
		return 0
	}
	aligned := 0
	for _, c := range axisClusters(values, tol, minSize) {
		aligned += len(c)
	}
	return float64(aligned) / float64(len(values))
}

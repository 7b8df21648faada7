package island

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	// ErrOverlap is returned by [Verify] when a vertex belongs to two islands.
	ErrOverlap = errors.New("vertex appears in more than one island")

	// ErrUncovered is returned by [Verify] when a weighted vertex is in no island.
	ErrUncovered = errors.New("weighted vertex missing from islands")

	// ErrUnweighted is returned by [Verify] when an island holds a vertex that
	// is not in the weight map.
	ErrUnweighted = errors.New("island contains unweighted vertex")

	// ErrDisconnected is returned by [Verify] when an island does not match a
	// connected component of the weighted subgraph.
	ErrDisconnected = errors.New("island is not a connected component")
)

// Verify checks that r.Islands partitions the keys of r.Weights into the
// connected components of the subgraph of g induced by those keys.
func Verify(g Graph, r Result) error {
	owner := make(map[int]int, len(r.Weights))
	for i, isl := range r.Islands {
		for _, v := range isl {
			if _, ok := r.Weights[v]; !ok {
				return fmt.Errorf("island %d vertex %d: %w", i, v, ErrUnweighted)
			}
			if j, dup := owner[v]; dup {
				return fmt.Errorf("vertex %d in islands %d and %d: %w", v, j, i, ErrOverlap)
			}
			owner[v] = i
		}
	}
	for v := range r.Weights {
		if _, ok := owner[v]; !ok {
			return fmt.Errorf("vertex %d: %w", v, ErrUncovered)
		}
	}

	for _, comp := range Components(g, r.Weights) {
		first := owner[comp[0]]
		for _, v := range comp[1:] {
			if owner[v] != first {
				return fmt.Errorf("vertices %d and %d: %w", comp[0], v, ErrDisconnected)
			}
		}
		if len(r.Islands[first]) != len(comp) {
			return fmt.Errorf("island %d has %d vertices, component has %d: %w",
				first, len(r.Islands[first]), len(comp), ErrDisconnected)
		}
	}
	return nil
}

// Components returns the connected components of the subgraph of g induced
// by the keys of wm, computed independently of [Partition]. Each component is
// sorted ascending; components are ordered by their smallest vertex.
func Components(g Graph, wm WeightMap) [][]int {
	ug := simple.NewUndirectedGraph()
	for v := range wm {
		ug.AddNode(simple.Node(int64(v)))
	}
	for v := range wm {
		for _, n := range g.Neighbors(v) {
			if n == v {
				continue
			}
			if _, ok := wm[n]; !ok {
				continue
			}
			ug.SetEdge(ug.NewEdge(simple.Node(int64(v)), simple.Node(int64(n))))
		}
	}

	var out [][]int
	for _, comp := range topo.ConnectedComponents(ug) {
		ids := make([]int, len(comp))
		for i, n := range comp {
			ids[i] = int(n.ID())
		}
		slices.Sort(ids)
		out = append(out, ids)
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

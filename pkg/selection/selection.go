// Package selection computes vertex selections from adjacency and weights.
//
// Every function here is pure: it takes the current selection or the mesh and
// returns a new index set, sorted ascending. Callers decide whether to replace
// the mesh selection ([mesh.Mesh.SetSelection]) or merge into it
// ([mesh.Mesh.Select]).
package selection

import (
	"math"
	"slices"

	"github.com/matzehuels/skinsuite/pkg/mesh"
)

// Grow returns selected plus every vertex adjacent to a selected vertex.
// The result is never smaller than the input.
func Grow(adj *mesh.Adjacency, selected []int) []int {
	set := toSet(selected)
	out := make(map[int]struct{}, len(set))
	for v := range set {
		out[v] = struct{}{}
		for _, n := range adj.Neighbors(v) {
			out[n] = struct{}{}
		}
	}
	return sorted(out)
}

// Shrink removes every selected vertex that has an incident edge whose other
// endpoint is not selected. Every incident edge of every selected vertex is
// considered, so a selection without interior vertices, such as a single
// vertex with any edge or a one-vertex-wide strip, can shrink to nothing.
// Selected vertices with no edges are kept.
func Shrink(adj *mesh.Adjacency, selected []int) []int {
	set := toSet(selected)
	out := make(map[int]struct{}, len(set))
	for v := range set {
		boundary := false
		for _, e := range adj.Incident(v) {
			if _, ok := set[e.Other(v)]; !ok {
				boundary = true
				break
			}
		}
		if !boundary {
			out[v] = struct{}{}
		}
	}
	return sorted(out)
}

// InWeightRange returns every vertex whose weight under lookup lies in
// (lower, upper]. Vertices without an entry read as 0.
func InWeightRange(n int, lookup mesh.WeightLookup, lower, upper float64) []int {
	var out []int
	for v := 0; v < n; v++ {
		if w := lookup.Weight(v); w > lower && w <= upper {
			out = append(out, v)
		}
	}
	return out
}

// Unnormalized returns every vertex of m whose total weight, rounded to 8
// decimal places, exceeds 1.
func Unnormalized(m *mesh.Mesh) []int {
	var out []int
	for i := range m.Vertices {
		if round8(m.TotalWeight(i)) > 1 {
			out = append(out, i)
		}
	}
	return out
}

func round8(x float64) float64 {
	return math.Round(x*1e8) / 1e8
}

func toSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}

func sorted(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

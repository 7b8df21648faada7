package island

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/skinsuite/pkg/mesh"
)

// Graph is the adjacency view island detection needs. *mesh.Adjacency
// implements it.
type Graph interface {
	// Len returns the number of vertices, indexed 0..Len()-1.
	Len() int
	// Neighbors returns the vertices adjacent to v. Unknown vertices have none.
	Neighbors(v int) []int
}

// WeightMap maps vertex index to weight. It only holds vertices whose weight
// is greater than zero.
type WeightMap map[int]float64

// Island is one connected component of weighted vertices, in discovery order
// starting from its seed.
type Island []int

// Result is the outcome of one analysis pass.
type Result struct {
	Weights WeightMap
	Islands []Island
}

// NewWeightMap reads vertices 0..n-1 through lookup and keeps those with
// weight > 0.
func NewWeightMap(n int, lookup mesh.WeightLookup) WeightMap {
	wm := make(WeightMap)
	for v := 0; v < n; v++ {
		if w := lookup.Weight(v); w > 0 {
			wm[v] = w
		}
	}
	return wm
}

// Seeds returns the weighted vertices ordered by descending weight. Vertices
// of equal weight keep ascending index order.
func (wm WeightMap) Seeds() []int {
	seeds := make([]int, 0, len(wm))
	for v := range wm {
		seeds = append(seeds, v)
	}
	slices.Sort(seeds)
	sort.SliceStable(seeds, func(i, j int) bool {
		return wm[seeds[i]] > wm[seeds[j]]
	})
	return seeds
}

// Build computes the weight map of lookup over g and partitions it into
// islands. It never fails: missing weights read as 0 and vertices without
// adjacency entries form single-vertex islands.
func Build(g Graph, lookup mesh.WeightLookup) Result {
	wm := NewWeightMap(g.Len(), lookup)
	return Result{Weights: wm, Islands: Partition(g, wm)}
}

// Partition splits the keys of wm into connected components of the subgraph
// of g induced by wm. Islands are returned in seed order (see
// [WeightMap.Seeds]).
func Partition(g Graph, wm WeightMap) []Island {
	visited := make(map[int]bool, len(wm))
	var islands []Island

	for _, seed := range wm.Seeds() {
		if len(visited) == len(wm) {
			break
		}
		if visited[seed] {
			continue
		}

		visited[seed] = true
		isl := Island{seed}
		for head := 0; head < len(isl); head++ {
			for _, n := range g.Neighbors(isl[head]) {
				if visited[n] {
					continue
				}
				if _, weighted := wm[n]; !weighted {
					continue
				}
				visited[n] = true
				isl = append(isl, n)
			}
		}
		islands = append(islands, isl)
	}
	return islands
}

// Mean returns the arithmetic mean of the weights of isl's members.
// An empty island has mean 0.
func Mean(isl Island, wm WeightMap) float64 {
	if len(isl) == 0 {
		return 0
	}
	xs := make([]float64, len(isl))
	for i, v := range isl {
		xs[i] = wm[v]
	}
	return stat.Mean(xs, nil)
}

// InRange reports whether mean falls in the half-open interval (lower, upper].
func InRange(mean, lower, upper float64) bool {
	return mean > lower && mean <= upper
}

// SelectInRange returns the members of every island whose mean weight lies in
// (lower, upper], sorted ascending. The result is meant to replace the
// current selection, not to extend it.
func SelectInRange(islands []Island, wm WeightMap, lower, upper float64) []int {
	var out []int
	for _, isl := range islands {
		if InRange(Mean(isl, wm), lower, upper) {
			out = append(out, isl...)
		}
	}
	slices.Sort(out)
	return out
}

// Select is shorthand for [SelectInRange] over r.
func (r Result) Select(lower, upper float64) []int {
	return SelectInRange(r.Islands, r.Weights, lower, upper)
}

// Summary describes one island for listings.
type Summary struct {
	Index int     `json:"index"`
	Seed  int     `json:"seed"`
	Size  int     `json:"size"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summarize returns one [Summary] per island, in island order.
func (r Result) Summarize() []Summary {
	out := make([]Summary, len(r.Islands))
	for i, isl := range r.Islands {
		s := Summary{Index: i, Size: len(isl), Mean: Mean(isl, r.Weights)}
		if len(isl) > 0 {
			s.Seed = isl[0]
			s.Min, s.Max = r.Weights[isl[0]], r.Weights[isl[0]]
		}
		for _, v := range isl {
			w := r.Weights[v]
			s.Min = min(s.Min, w)
			s.Max = max(s.Max, w)
		}
		out[i] = s
	}
	return out
}

// IslandOf returns a vertex -> island-position index for r.
func (r Result) IslandOf() map[int]int {
	idx := make(map[int]int, len(r.Weights))
	for i, isl := range r.Islands {
		for _, v := range isl {
			idx[v] = i
		}
	}
	return idx
}

package selection

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/skinsuite/pkg/mesh"
)

// grid returns a w x h vertex grid with 4-neighbor edges.
func grid(w, h int) *mesh.Mesh {
	var edges []mesh.Edge
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := y*w + x
			if x+1 < w {
				edges = append(edges, mesh.Edge{v, v + 1})
			}
			if y+1 < h {
				edges = append(edges, mesh.Edge{v, v + w})
			}
		}
	}
	return mesh.New(w*h, edges)
}

func TestGrow(t *testing.T) {
	adj := grid(3, 3).Adjacency()
	tests := []struct {
		name     string
		selected []int
		want     []int
	}{
		{"center", []int{4}, []int{1, 3, 4, 5, 7}},
		{"corner", []int{0}, []int{0, 1, 3}},
		{"empty", nil, []int{}},
		{"duplicates", []int{0, 0}, []int{0, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grow(adj, tt.selected); !slices.Equal(got, tt.want) {
				t.Errorf("Grow(%v) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}
}

func TestShrink(t *testing.T) {
	adj := grid(3, 3).Adjacency()
	tests := []struct {
		name     string
		selected []int
		want     []int
	}{
		{"full grid keeps all", []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"plus shape keeps center", []int{1, 3, 4, 5, 7}, []int{4}},
		{"single vertex empties", []int{4}, []int{}},
		{"strip empties", []int{3, 4, 5}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shrink(adj, tt.selected); !slices.Equal(got, tt.want) {
				t.Errorf("Shrink(%v) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}
}

func TestShrinkKeepsIsolatedVertex(t *testing.T) {
	adj := mesh.NewAdjacency(3, []mesh.Edge{{0, 1}})
	if got := Shrink(adj, []int{2}); !slices.Equal(got, []int{2}) {
		t.Errorf("Shrink([2]) = %v, vertex without edges should stay", got)
	}
}

func TestGrowShrinkMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	adj := grid(6, 5).Adjacency()
	for trial := 0; trial < 100; trial++ {
		var sel []int
		for v := 0; v < adj.Len(); v++ {
			if rng.Float64() < 0.4 {
				sel = append(sel, v)
			}
		}
		grown := Grow(adj, sel)
		if len(grown) < len(sel) {
			t.Fatalf("Grow shrank %v to %v", sel, grown)
		}
		for _, v := range sel {
			if _, found := slices.BinarySearch(grown, v); !found {
				t.Fatalf("Grow dropped %d", v)
			}
		}
		shrunk := Shrink(adj, sel)
		if len(shrunk) > len(sel) {
			t.Fatalf("Shrink grew %v to %v", sel, shrunk)
		}
	}
}

func TestInWeightRange(t *testing.T) {
	m := mesh.New(5, nil)
	for v, w := range []float64{0, 0.1, 0.5, 1, 0.05} {
		m.SetWeight(v, "spine", w)
	}
	lookup := m.Lookup("spine")

	if got := InWeightRange(m.Len(), lookup, 0, 1); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Errorf("(0,1] = %v", got)
	}
	if got := InWeightRange(m.Len(), lookup, 0.1, 0.5); !slices.Equal(got, []int{2}) {
		t.Errorf("(0.1,0.5] = %v", got)
	}
	if got := InWeightRange(m.Len(), m.Lookup("missing"), -1, 0); !slices.Equal(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("missing group should read as 0 everywhere, got %v", got)
	}
}

func TestUnnormalized(t *testing.T) {
	m := mesh.New(4, nil)
	m.SetWeight(0, "a", 0.6)
	m.SetWeight(0, "b", 0.6)
	m.SetWeight(1, "a", 1.000000001)
	m.SetWeight(2, "a", 0.5)
	m.SetWeight(3, "a", 1.00000002)

	if got := Unnormalized(m); !slices.Equal(got, []int{0, 3}) {
		t.Errorf("Unnormalized() = %v, want [0 3]", got)
	}
}

package island

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/skinsuite/pkg/mesh"
)

func weights(m map[int]float64) mesh.WeightLookup {
	return mesh.LookupFunc(func(v int) float64 { return m[v] })
}

func TestBuildSquare(t *testing.T) {
	m := mesh.New(4, []mesh.Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	m.SetWeight(0, "spine", 0.5)
	m.SetWeight(1, "spine", 0.4)
	m.SetWeight(2, "spine", 0)

	r := Build(m.Adjacency(), m.Lookup("spine"))

	if len(r.Weights) != 2 {
		t.Fatalf("weight map = %v, want vertices 0 and 1", r.Weights)
	}
	if len(r.Islands) != 1 {
		t.Fatalf("islands = %v, want exactly one", r.Islands)
	}
	if !slices.Equal(r.Islands[0], Island{0, 1}) {
		t.Errorf("island = %v, want [0 1]", r.Islands[0])
	}
	if got := Mean(r.Islands[0], r.Weights); math.Abs(got-0.45) > 1e-12 {
		t.Errorf("Mean() = %v, want 0.45", got)
	}
	if err := Verify(m.Adjacency(), r); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestSeeds(t *testing.T) {
	wm := WeightMap{4: 0.2, 1: 0.9, 3: 0.2, 0: 0.5, 2: 0.2}
	if got := wm.Seeds(); !slices.Equal(got, []int{1, 0, 2, 3, 4}) {
		t.Errorf("Seeds() = %v, want [1 0 2 3 4]", got)
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		edges   []mesh.Edge
		weights map[int]float64
		want    []Island
	}{
		{
			name:    "empty",
			n:       3,
			edges:   []mesh.Edge{{0, 1}},
			weights: map[int]float64{},
			want:    nil,
		},
		{
			name:    "isolated weighted vertex",
			n:       3,
			edges:   []mesh.Edge{{0, 1}},
			weights: map[int]float64{2: 0.3},
			want:    []Island{{2}},
		},
		{
			name:    "gap splits chain",
			n:       5,
			edges:   []mesh.Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
			weights: map[int]float64{0: 0.1, 1: 0.2, 3: 0.9, 4: 0.8},
			want:    []Island{{3, 4}, {1, 0}},
		},
		{
			name:    "seed in the middle grows both ways",
			n:       5,
			edges:   []mesh.Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
			weights: map[int]float64{0: 0.1, 1: 0.2, 2: 1, 3: 0.2, 4: 0.1},
			want:    []Island{{2, 1, 3, 0, 4}},
		},
		{
			name:    "negative weights are not weighted",
			n:       3,
			edges:   []mesh.Edge{{0, 1}, {1, 2}},
			weights: map[int]float64{0: 0.5, 1: -0.5, 2: 0.5},
			want:    []Island{{0}, {2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := mesh.NewAdjacency(tt.n, tt.edges)
			r := Build(adj, weights(tt.weights))
			if !slices.EqualFunc(r.Islands, tt.want, func(a, b Island) bool { return slices.Equal(a, b) }) {
				t.Errorf("islands = %v, want %v", r.Islands, tt.want)
			}
			if err := Verify(adj, r); err != nil {
				t.Errorf("Verify() = %v", err)
			}
		})
	}
}

// TestPartitionRandom checks the partition property on random graphs.
func TestPartitionRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(40)
		var edges []mesh.Edge
		for e := rng.Intn(n * 2); e > 0; e-- {
			edges = append(edges, mesh.Edge{rng.Intn(n), rng.Intn(n)})
		}
		w := map[int]float64{}
		for v := 0; v < n; v++ {
			if rng.Float64() < 0.6 {
				w[v] = float64(rng.Intn(5)) / 4 // includes zero and ties
			}
		}

		adj := mesh.NewAdjacency(n, edges)
		r := Build(adj, weights(w))
		if err := Verify(adj, r); err != nil {
			t.Fatalf("trial %d: Verify() = %v (islands %v)", trial, err, r.Islands)
		}

		total := 0
		for _, isl := range r.Islands {
			total += len(isl)
		}
		if total != len(r.Weights) {
			t.Fatalf("trial %d: islands cover %d vertices, weight map has %d", trial, total, len(r.Weights))
		}
		if got, want := len(r.Islands), len(Components(adj, r.Weights)); got != want {
			t.Fatalf("trial %d: %d islands, gonum found %d components", trial, got, want)
		}

		// Full range selects every weighted vertex.
		all := r.Select(0, 1)
		if len(all) != len(r.Weights) {
			t.Fatalf("trial %d: Select(0, 1) = %d vertices, want %d", trial, len(all), len(r.Weights))
		}
	}
}

func TestSelectInRange(t *testing.T) {
	wm := WeightMap{0: 0.05, 1: 0.05, 2: 0.1, 3: 0.5, 4: 0.7}
	islands := []Island{{3, 4}, {2}, {0, 1}}

	tests := []struct {
		name         string
		lower, upper float64
		want         []int
	}{
		{"upper inclusive", 0, 0.1, []int{0, 1, 2}},
		{"lower exclusive", 0.1, 0.65, []int{3, 4}},
		{"everything", 0, 1, []int{0, 1, 2, 3, 4}},
		{"nothing", 0.7, 1, nil},
		{"point range", 0.05, 0.05, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectInRange(islands, wm, tt.lower, tt.upper)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SelectInRange(%v, %v) = %v, want %v", tt.lower, tt.upper, got, tt.want)
			}
		})
	}
}

func TestMeanEmpty(t *testing.T) {
	if got := Mean(nil, WeightMap{}); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	r := Result{
		Weights: WeightMap{0: 0.2, 1: 0.6, 5: 1},
		Islands: []Island{{5}, {1, 0}},
	}
	got := r.Summarize()
	if len(got) != 2 {
		t.Fatalf("Summarize() = %v", got)
	}
	if got[1].Seed != 1 || got[1].Size != 2 || got[1].Min != 0.2 || got[1].Max != 0.6 {
		t.Errorf("summary = %+v", got[1])
	}
	if math.Abs(got[1].Mean-0.4) > 1e-12 {
		t.Errorf("mean = %v, want 0.4", got[1].Mean)
	}

	idx := r.IslandOf()
	if idx[5] != 0 || idx[0] != 1 {
		t.Errorf("IslandOf() = %v", idx)
	}
}

func TestVerifyDetectsBadPartitions(t *testing.T) {
	adj := mesh.NewAdjacency(4, []mesh.Edge{{0, 1}, {2, 3}})
	wm := WeightMap{0: 1, 1: 1, 2: 1, 3: 1}

	tests := []struct {
		name    string
		islands []Island
		want    error
	}{
		{"overlap", []Island{{0, 1}, {1}, {2, 3}}, ErrOverlap},
		{"uncovered", []Island{{0, 1}, {2}}, ErrUncovered},
		{"unweighted", []Island{{0, 1}, {2, 3}, {7}}, ErrUnweighted},
		{"merged components", []Island{{0, 1, 2, 3}}, ErrDisconnected},
		{"split component", []Island{{0}, {1}, {2, 3}}, ErrDisconnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(adj, Result{Weights: wm, Islands: tt.islands})
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() = %v, want %v", err, tt.want)
			}
		})
	}
}

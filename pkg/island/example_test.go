package island_test

import (
	"fmt"

	"github.com/matzehuels/skinsuite/pkg/island"
	"github.com/matzehuels/skinsuite/pkg/mesh"
)

func ExampleBuild() {
	// A strip 0-1-2-3-4 where vertex 2 carries no weight splits into two islands.
	m := mesh.New(5, []mesh.Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}})
	for v, w := range []float64{0.9, 0.8, 0, 0.05, 0.1} {
		m.SetWeight(v, "forearm.L", w)
	}

	r := island.Build(m.Adjacency(), m.Lookup("forearm.L"))
	for _, s := range r.Summarize() {
		fmt.Printf("island %d: seed=%d size=%d mean=%.3f\n", s.Index, s.Seed, s.Size, s.Mean)
	}
	fmt.Println("low islands:", r.Select(0, 0.1))
	// Output:
	// island 0: seed=0 size=2 mean=0.850
	// island 1: seed=4 size=2 mean=0.075
	// low islands: [3 4]
}

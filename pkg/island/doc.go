// Package island partitions weighted vertices into connected "weight islands".
//
// A weight island is a maximal set of vertices that all carry nonzero weight
// for one vertex group and are connected through mesh edges without passing
// through an unweighted vertex. Islands are the unit of range selection: each
// island is judged by the mean weight of its members, so a stray patch of low
// weight can be found and selected as a whole.
//
// # Algorithm
//
// [Build] collects the [WeightMap] (vertices with weight > 0), orders the
// weighted vertices by descending weight, and grows one island from each
// vertex not yet visited using a breadth-first search restricted to weighted
// neighbors. Seed order only decides which vertex starts each island and the
// order of the returned islands; island membership depends on connectivity
// alone.
//
// # Range selection
//
// [SelectInRange] keeps every island whose mean weight m satisfies
// lower < m <= upper. The lower bound is exclusive so a lower limit of 0 never
// admits an island of zero weight.
//
// # Verification
//
// [Verify] re-derives the connected components with gonum's graph/topo and
// checks that a [Result] is a partition of its weight map into connected
// islands. It is used by tests and by the CLI's --verify flag.
package island

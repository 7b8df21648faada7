package weights

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/mesh"
)

const (
	// DefaultMaxInfluence is the number of groups kept by [Aggregate].
	DefaultMaxInfluence = 8

	// SumTolerance is the allowed deviation of an aggregated distribution's
	// sum from 1.
	SumTolerance = 1e-8
)

// Aggregated maps group name to its share of the copied weight. Values sum to
// 1 within [SumTolerance].
type Aggregated map[string]float64

// Sum returns the total of all ratios.
func (a Aggregated) Sum() float64 {
	var s float64
	for _, v := range a {
		s += v
	}
	return s
}

// Groups returns the group names in ascending order.
func (a Aggregated) Groups() []string {
	return slices.Sorted(maps.Keys(a))
}

// Aggregate sums the weights of each group across vertices, keeps the
// maxInfluence groups with the largest totals and rescales them to sum to 1.
// A maxInfluence of zero or less uses [DefaultMaxInfluence].
//
// Zero weights are ignored. If no vertex carries any nonzero weight the
// result is an EMPTY_SELECTION error and nothing should be written. If the
// rescaled ratios do not sum to 1 within [SumTolerance], Aggregate returns an
// INTERNAL_INVARIANT error instead of the data.
//
// When several groups tie at the cut-off total, the alphabetically first names
// are kept so the outcome does not depend on map iteration order.
func Aggregate(vertices []map[string]float64, maxInfluence int) (Aggregated, error) {
	if maxInfluence <= 0 {
		maxInfluence = DefaultMaxInfluence
	}

	totals := map[string]float64{}
	for _, groups := range vertices {
		for g, w := range groups {
			if w == 0 {
				continue
			}
			totals[g] += w
		}
	}
	if len(totals) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySelection, "no weight data found in selection")
	}

	ranked := slices.SortedFunc(maps.Keys(totals), func(a, b string) int {
		if c := cmp.Compare(totals[a], totals[b]); c != 0 {
			return c
		}
		return cmp.Compare(b, a)
	})
	if len(ranked) > maxInfluence {
		ranked = ranked[len(ranked)-maxInfluence:]
	}

	var kept float64
	for _, g := range ranked {
		kept += totals[g]
	}

	out := make(Aggregated, len(ranked))
	for _, g := range ranked {
		out[g] = totals[g] / kept
	}

	if sum := out.Sum(); math.IsNaN(sum) || math.Abs(sum-1) > SumTolerance {
		return nil, errors.New(errors.ErrCodeInvariant, "aggregated weights sum to %v, want 1", sum)
	}
	return out, nil
}

// AggregateSelected runs [Aggregate] over the selected vertices of m.
func AggregateSelected(m *mesh.Mesh, maxInfluence int) (Aggregated, error) {
	var vertices []map[string]float64
	for _, v := range m.Vertices {
		if v.Selected {
			vertices = append(vertices, v.Groups)
		}
	}
	if len(vertices) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySelection, "no vertices selected")
	}
	return Aggregate(vertices, maxInfluence)
}

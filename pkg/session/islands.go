package session

import (
	"context"
	"time"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/island"
	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/observability"
	"github.com/matzehuels/skinsuite/pkg/selection"
)

// IslandSession selects whole weight islands by their mean weight.
type IslandSession struct {
	base
	group  string
	result island.Result
	lower  float64
	upper  float64
}

// NewIslands partitions the vertices weighted in group into islands. An empty
// group means the mesh's active group.
func NewIslands(ctx context.Context, m *mesh.Mesh, group string, ttl time.Duration) (*IslandSession, error) {
	group, err := resolveGroup(m, group)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := island.Build(m.Adjacency(), m.Lookup(group))
	observability.Analysis().OnIslands(ctx, group, len(res.Weights), len(res.Islands), time.Since(start))

	s := &IslandSession{
		group:  group,
		result: res,
		lower:  DefaultIslandLower,
		upper:  DefaultIslandUpper,
	}
	s.init(ctx, KindIslands, m, ttl)
	return s, nil
}

// Group returns the analyzed vertex group.
func (s *IslandSession) Group() string { return s.group }

// Result returns the island partition computed when the session was created.
func (s *IslandSession) Result() island.Result { return s.result }

// Range returns the current slider bounds.
func (s *IslandSession) Range() (lower, upper float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lower, s.upper
}

// Update replaces the mesh selection with every island whose mean weight is
// in (lower, upper] and returns the selected vertices.
func (s *IslandSession) Update(ctx context.Context, lower, upper float64) ([]int, error) {
	if err := errors.ValidateRange(lower, upper); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lower, s.upper = lower, upper
	sel := s.result.Select(lower, upper)
	s.mesh.SetSelection(sel)
	s.updated(ctx)
	observability.Analysis().OnSelect(ctx, string(KindIslands), len(sel))
	return sel, nil
}

// Finish ends the session. The selection stays as the last update left it.
func (s *IslandSession) Finish(ctx context.Context) {
	s.ended(ctx, true)
}

// RangeSession selects single vertices by their weight in a group.
type RangeSession struct {
	base
	group  string
	lookup mesh.WeightLookup
	lower  float64
	upper  float64
}

// NewRange starts a vertex range selection on group. An empty group means the
// mesh's active group.
func NewRange(ctx context.Context, m *mesh.Mesh, group string, ttl time.Duration) (*RangeSession, error) {
	group, err := resolveGroup(m, group)
	if err != nil {
		return nil, err
	}
	s := &RangeSession{
		group:  group,
		lookup: m.Lookup(group),
		lower:  DefaultRangeLower,
		upper:  DefaultRangeUpper,
	}
	s.init(ctx, KindRange, m, ttl)
	return s, nil
}

// Group returns the thresholded vertex group.
func (s *RangeSession) Group() string { return s.group }

// Range returns the current slider bounds.
func (s *RangeSession) Range() (lower, upper float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lower, s.upper
}

// Update replaces the mesh selection with every vertex whose weight is in
// (lower, upper] and returns the selected vertices.
func (s *RangeSession) Update(ctx context.Context, lower, upper float64) ([]int, error) {
	if err := errors.ValidateRange(lower, upper); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lower, s.upper = lower, upper
	sel := selection.InWeightRange(s.mesh.Len(), s.lookup, lower, upper)
	s.mesh.SetSelection(sel)
	s.updated(ctx)
	observability.Analysis().OnSelect(ctx, string(KindRange), len(sel))
	return sel, nil
}

// Finish ends the session. The selection stays as the last update left it.
func (s *RangeSession) Finish(ctx context.Context) {
	s.ended(ctx, true)
}

func resolveGroup(m *mesh.Mesh, group string) (string, error) {
	if group == "" {
		group = m.ActiveGroup
	}
	if group == "" {
		return "", errors.New(errors.ErrCodeInvalidGroup, "no vertex group given and mesh has no active group")
	}
	if !m.HasGroup(group) {
		return "", errors.New(errors.ErrCodeGroupNotFound, "vertex group %q not found", group)
	}
	return group, nil
}

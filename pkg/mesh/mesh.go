package mesh

import (
	"errors"
	"slices"

	"github.com/jinzhu/copier"
)

var (
	// ErrVertexIndex is returned when a vertex's Index does not match its
	// position in the vertex list.
	ErrVertexIndex = errors.New("vertex index does not match position")

	// ErrInvalidEdgeEndpoint is returned by [Mesh.Validate] when an edge
	// references a vertex outside the mesh.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrUnknownGroup is returned when an operation names a group the mesh
	// does not declare.
	ErrUnknownGroup = errors.New("unknown vertex group")
)

// Vertex is a mesh vertex with its selection flag and group weights.
// Groups is never nil after the vertex has been added to a mesh.
type Vertex struct {
	Index    int                `json:"index"`
	Selected bool               `json:"selected,omitempty"`
	Groups   map[string]float64 `json:"groups,omitempty"`
}

// Edge is an unordered pair of vertex indices.
type Edge [2]int

// Other returns the endpoint of e opposite to v.
func (e Edge) Other(v int) int {
	if e[0] == v {
		return e[1]
	}
	return e[0]
}

// Mesh is a vertex/edge description with named vertex groups.
//
// Groups lists the declared vertex groups in creation order. ActiveGroup
// names the group operators act on when none is given explicitly.
//
// Mesh is not safe for concurrent use without external synchronization.
type Mesh struct {
	Groups      []string `json:"groups"`
	ActiveGroup string   `json:"active_group,omitempty"`
	Vertices    []Vertex `json:"vertices"`
	Edges       []Edge   `json:"edges"`
}

// New creates a mesh with n unselected, unweighted vertices and the given edges.
func New(n int, edges []Edge) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, n),
		Edges:    slices.Clone(edges),
	}
	for i := range m.Vertices {
		m.Vertices[i] = Vertex{Index: i, Groups: map[string]float64{}}
	}
	return m
}

// Len returns the number of vertices.
func (m *Mesh) Len() int { return len(m.Vertices) }

// Validate checks that vertex indices match positions and that every edge
// endpoint exists.
func (m *Mesh) Validate() error {
	for i, v := range m.Vertices {
		if v.Index != i {
			return ErrVertexIndex
		}
	}
	for _, e := range m.Edges {
		if !m.valid(e[0]) || !m.valid(e[1]) {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}

func (m *Mesh) valid(v int) bool { return v >= 0 && v < len(m.Vertices) }

// Clone returns a deep copy of the mesh. Edits to the copy never reach m.
func (m *Mesh) Clone() *Mesh {
	var c Mesh
	if err := copier.CopyWithOption(&c, m, copier.Option{DeepCopy: true}); err != nil {
		panic("mesh: clone: " + err.Error())
	}
	for i := range c.Vertices {
		if c.Vertices[i].Groups == nil {
			c.Vertices[i].Groups = map[string]float64{}
		}
	}
	return &c
}

// Adjacency derives the neighbor index for the mesh's current edges.
func (m *Mesh) Adjacency() *Adjacency {
	return NewAdjacency(len(m.Vertices), m.Edges)
}

// =============================================================================
// Weights
// =============================================================================

// WeightLookup returns the weight of a vertex under one fixed group.
// Implementations must return 0 for vertices that carry no entry; a lookup
// never fails.
type WeightLookup interface {
	Weight(index int) float64
}

// LookupFunc adapts a plain function to [WeightLookup].
type LookupFunc func(index int) float64

// Weight calls f(index).
func (f LookupFunc) Weight(index int) float64 { return f(index) }

// Lookup returns a [WeightLookup] reading group from m. Unknown vertices and
// groups read as 0.
func (m *Mesh) Lookup(group string) WeightLookup {
	return LookupFunc(func(index int) float64 { return m.Weight(index, group) })
}

// Weight returns the weight of vertex index in group, or 0 when the vertex
// does not exist or has no entry for the group.
func (m *Mesh) Weight(index int, group string) float64 {
	if !m.valid(index) {
		return 0
	}
	return m.Vertices[index].Groups[group]
}

// TotalWeight returns the sum of all group weights on vertex index.
func (m *Mesh) TotalWeight(index int) float64 {
	if !m.valid(index) {
		return 0
	}
	var total float64
	for _, w := range m.Vertices[index].Groups {
		total += w
	}
	return total
}

// SetWeight assigns weight w to vertex index in group, declaring the group
// if it does not exist yet. Out-of-range indices are ignored.
func (m *Mesh) SetWeight(index int, group string, w float64) {
	if !m.valid(index) {
		return
	}
	m.EnsureGroup(group)
	v := &m.Vertices[index]
	if v.Groups == nil {
		v.Groups = map[string]float64{}
	}
	v.Groups[group] = w
}

// HasGroup reports whether group is declared on the mesh.
func (m *Mesh) HasGroup(group string) bool {
	return slices.Contains(m.Groups, group)
}

// EnsureGroup declares group if it is not declared yet and reports whether it
// was created.
func (m *Mesh) EnsureGroup(group string) bool {
	if m.HasGroup(group) {
		return false
	}
	m.Groups = append(m.Groups, group)
	return true
}

// RemoveGroup removes group from the mesh and from every vertex. If group was
// active, the active group is cleared.
func (m *Mesh) RemoveGroup(group string) error {
	i := slices.Index(m.Groups, group)
	if i < 0 {
		return ErrUnknownGroup
	}
	m.Groups = slices.Delete(m.Groups, i, i+1)
	for vi := range m.Vertices {
		delete(m.Vertices[vi].Groups, group)
	}
	if m.ActiveGroup == group {
		m.ActiveGroup = ""
	}
	return nil
}

// NormalizeAll rescales every vertex's weights so they sum to 1.
// Vertices whose weights sum to 0 are left unchanged.
func (m *Mesh) NormalizeAll() {
	for vi := range m.Vertices {
		v := &m.Vertices[vi]
		var total float64
		for _, w := range v.Groups {
			total += w
		}
		if total <= 0 {
			continue
		}
		for g, w := range v.Groups {
			v.Groups[g] = w / total
		}
	}
}

// =============================================================================
// Selection
// =============================================================================

// Selected returns the indices of selected vertices in ascending order.
func (m *Mesh) Selected() []int {
	var out []int
	for _, v := range m.Vertices {
		if v.Selected {
			out = append(out, v.Index)
		}
	}
	return out
}

// SelectedCount returns the number of selected vertices.
func (m *Mesh) SelectedCount() int {
	n := 0
	for _, v := range m.Vertices {
		if v.Selected {
			n++
		}
	}
	return n
}

// ClearSelection deselects every vertex.
func (m *Mesh) ClearSelection() {
	for i := range m.Vertices {
		m.Vertices[i].Selected = false
	}
}

// SetSelection replaces the selection with exactly indices.
// Indices outside the mesh are ignored.
func (m *Mesh) SetSelection(indices []int) {
	m.ClearSelection()
	m.Select(indices, true)
}

// Select sets the selection flag of each listed vertex to state, leaving all
// other vertices untouched. Indices outside the mesh are ignored.
func (m *Mesh) Select(indices []int, state bool) {
	for _, i := range indices {
		if m.valid(i) {
			m.Vertices[i].Selected = state
		}
	}
}

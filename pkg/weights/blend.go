package weights

import (
	"slices"

	"github.com/matzehuels/skinsuite/pkg/mesh"
)

// Blend linearly interpolates from pre to target by t. The caller keeps t in
// [0,1].
func Blend(pre, target, t float64) float64 {
	return pre + (target-pre)*t
}

// Paste fades a copied distribution onto the selected vertices of a mesh.
//
// NewPaste records the selected vertices and their weights once; every call
// to [Paste.Apply] blends from those recorded weights, so a slider can be
// moved back and forth without the result drifting.
type Paste struct {
	source  Aggregated
	indices []int
	pre     map[int]map[string]float64
}

// NewPaste prepares pasting source onto the current selection of m.
//
// Groups in source that a selected vertex does not carry yet are declared on
// the mesh and given weight 0 on that vertex, so they can be blended in.
func NewPaste(m *mesh.Mesh, source Aggregated) *Paste {
	p := &Paste{
		source: source,
		pre:    map[int]map[string]float64{},
	}
	groups := source.Groups()
	for _, i := range m.Selected() {
		v := &m.Vertices[i]
		pre := make(map[string]float64, len(v.Groups))
		for g, w := range v.Groups {
			pre[g] = w
		}
		p.pre[i] = pre
		p.indices = append(p.indices, i)

		for _, g := range groups {
			if _, ok := v.Groups[g]; !ok {
				m.SetWeight(i, g, 0)
			}
		}
	}
	return p
}

// Indices returns the vertices the paste affects, ascending.
func (p *Paste) Indices() []int { return slices.Clone(p.indices) }

// Source returns the distribution being pasted.
func (p *Paste) Source() Aggregated { return p.source }

// Apply sets every affected (vertex, group) pair whose group is in the source
// to Blend(recorded, source, t). Groups absent from the source are left as
// they are.
func (p *Paste) Apply(m *mesh.Mesh, t float64) {
	for _, i := range p.indices {
		if i >= m.Len() {
			continue
		}
		v := &m.Vertices[i]
		for g := range v.Groups {
			target, ok := p.source[g]
			if !ok {
				continue
			}
			v.Groups[g] = Blend(p.pre[i][g], target, t)
		}
	}
}

// Restore puts back the weights recorded by [NewPaste]. Groups created for the
// paste stay declared with weight 0.
func (p *Paste) Restore(m *mesh.Mesh) {
	p.Apply(m, 0)
}

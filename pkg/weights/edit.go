package weights

import (
	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/mesh"
)

// DefaultPruneMargin is the weight a group must exceed on some vertex to
// count as used by [PruneUnused].
const DefaultPruneMargin = 0.0001

// ZeroGroup removes group's influence from every selected vertex of m and
// renormalizes the vertex's remaining nonzero weights to sum to 1. Every
// group the vertex carries ends at either its renormalized weight or 0. A
// vertex left with no weight keeps all its groups at 0.
//
// It returns the number of vertices changed.
func ZeroGroup(m *mesh.Mesh, group string) (int, error) {
	if !m.HasGroup(group) {
		return 0, errors.New(errors.ErrCodeGroupNotFound, "group %q not found", group)
	}
	changed := 0
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if !v.Selected {
			continue
		}
		var total float64
		for g, w := range v.Groups {
			if g == group {
				continue
			}
			total += w
		}
		for g, w := range v.Groups {
			switch {
			case g == group || w == 0 || total == 0:
				v.Groups[g] = 0
			default:
				v.Groups[g] = w / total
			}
		}
		changed++
	}
	return changed, nil
}

// UnusedGroups returns the declared groups of m that carry no weight above
// margin on any vertex, in declaration order.
func UnusedGroups(m *mesh.Mesh, margin float64) []string {
	var unused []string
	for _, g := range m.Groups {
		used := false
		for _, v := range m.Vertices {
			if v.Groups[g] > margin {
				used = true
				break
			}
		}
		if !used {
			unused = append(unused, g)
		}
	}
	return unused
}

// PruneUnused removes every group reported by [UnusedGroups] and then
// normalizes all vertices. It returns the removed group names.
func PruneUnused(m *mesh.Mesh, margin float64) []string {
	unused := UnusedGroups(m, margin)
	for _, g := range unused {
		_ = m.RemoveGroup(g)
	}
	m.NormalizeAll()
	return unused
}

// TransferOptions configures [Transfer].
type TransferOptions struct {
	// SelectedOnly limits the transfer to the target's selected vertices.
	SelectedOnly bool

	// Additive keeps weights on groups that exist only on the target. Without
	// it, the target's existing weights are discarded first.
	Additive bool
}

// Transfer copies vertex group weights from src to dst by vertex index.
//
// Without SelectedOnly every target vertex is rewritten: unless Additive is
// set, all target groups are removed first, then each source weight is
// written. With SelectedOnly the transfer goes through a copy of dst that
// receives the full transfer, and only selected vertices of dst take their
// weights from that copy; unless Additive is set their existing weights are
// zeroed first. In both modes every source group is declared on dst.
//
// Target vertices with no counterpart in src are skipped. Transfer returns
// the number of target vertices written.
func Transfer(src, dst *mesh.Mesh, opts TransferOptions) int {
	if !opts.SelectedOnly {
		return transferAll(src, dst, opts.Additive)
	}

	tmp := dst.Clone()
	transferAll(src, tmp, opts.Additive)

	for _, g := range tmp.Groups {
		dst.EnsureGroup(g)
	}
	written := 0
	for i := range dst.Vertices {
		tv := &dst.Vertices[i]
		if !tv.Selected || i >= tmp.Len() {
			continue
		}
		if !opts.Additive {
			for g := range tv.Groups {
				tv.Groups[g] = 0
			}
		}
		for g, w := range tmp.Vertices[i].Groups {
			dst.SetWeight(i, g, w)
		}
		written++
	}
	return written
}

func transferAll(src, dst *mesh.Mesh, additive bool) int {
	if !additive {
		for _, g := range append([]string(nil), dst.Groups...) {
			_ = dst.RemoveGroup(g)
		}
	}
	for _, g := range src.Groups {
		dst.EnsureGroup(g)
	}
	written := 0
	for i := range dst.Vertices {
		if i >= src.Len() {
			continue
		}
		for g, w := range src.Vertices[i].Groups {
			dst.SetWeight(i, g, w)
		}
		written++
	}
	return written
}

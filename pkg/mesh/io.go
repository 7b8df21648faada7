package mesh

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

type document struct {
	Groups      []string `json:"groups"`
	ActiveGroup string   `json:"active_group,omitempty"`
	Vertices    []vertex `json:"vertices"`
	Edges       []Edge   `json:"edges"`
}

type vertex struct {
	Index    *int               `json:"index,omitempty"`
	Selected bool               `json:"selected,omitempty"`
	Groups   map[string]float64 `json:"groups,omitempty"`
}

// Read decodes a JSON mesh document from r.
//
// A vertex without an "index" field takes its position in the list. Groups
// used by vertices but missing from the top-level "groups" list are declared
// in sorted order after the listed ones. Read returns an error if the JSON is
// malformed, a vertex index disagrees with its position, or an edge names a
// vertex outside the mesh.
//
// Read does not close r.
func Read(r io.Reader) (*Mesh, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	m := &Mesh{
		Groups:      slices.Clone(doc.Groups),
		ActiveGroup: doc.ActiveGroup,
		Vertices:    make([]Vertex, len(doc.Vertices)),
		Edges:       doc.Edges,
	}
	used := map[string]struct{}{}
	for i, v := range doc.Vertices {
		idx := i
		if v.Index != nil {
			idx = *v.Index
		}
		if idx != i {
			return nil, fmt.Errorf("vertex %d: %w (index %d)", i, ErrVertexIndex, idx)
		}
		groups := v.Groups
		if groups == nil {
			groups = map[string]float64{}
		}
		for g := range groups {
			used[g] = struct{}{}
		}
		m.Vertices[i] = Vertex{Index: i, Selected: v.Selected, Groups: groups}
	}
	for _, g := range slices.Sorted(maps.Keys(used)) {
		m.EnsureGroup(g)
	}
	if m.ActiveGroup != "" {
		m.EnsureGroup(m.ActiveGroup)
	}
	for i, e := range m.Edges {
		if !m.valid(e[0]) || !m.valid(e[1]) {
			return nil, fmt.Errorf("edge %d (%d-%d): %w", i, e[0], e[1], ErrInvalidEdgeEndpoint)
		}
	}
	return m, nil
}

// ReadFile reads a JSON mesh document at path.
func ReadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes m as an indented JSON document. The output can be read back
// with [Read].
func Write(m *Mesh, w io.Writer) error {
	doc := document{
		Groups:      m.Groups,
		ActiveGroup: m.ActiveGroup,
		Vertices:    make([]vertex, len(m.Vertices)),
		Edges:       m.Edges,
	}
	if doc.Groups == nil {
		doc.Groups = []string{}
	}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	for i, v := range m.Vertices {
		idx := v.Index
		doc.Vertices[i] = vertex{Index: &idx, Selected: v.Selected, Groups: v.Groups}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes m to a JSON file at path.
func WriteFile(m *Mesh, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Write(m, f)
}

package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/skinsuite/pkg/island"
	"github.com/matzehuels/skinsuite/pkg/mesh"
)

// Options configures island graph rendering.
type Options struct {
	// Detailed adds the vertex weight and island number to node labels.
	// When false, only the vertex index is shown.
	Detailed bool

	// Group is written into the graph label.
	Group string
}

// Palette holds the island fill colors, reused cyclically.
var Palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#bc80bd", "#ccebc5", "#ffed6f",
}

// IslandColor returns the fill color of the island with the given number.
func IslandColor(n int) string {
	return Palette[n%len(Palette)]
}

// ToDOT converts a mesh with its island partition to Graphviz DOT format.
// Edges are written once per vertex pair; self-loops and edges with
// endpoints outside the mesh are skipped.
func ToDOT(m *mesh.Mesh, res island.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Group != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", opts.Group)
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	of := res.IslandOf()
	for i := range m.Vertices {
		n, weighted := of[i]
		label := fmtLabel(i, n, weighted, res.Weights[i], opts.Detailed)
		attrs := fmtAttrs(m.Vertices[i].Selected, n, weighted, label)
		fmt.Fprintf(&buf, "  %d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	seen := make(map[mesh.Edge]bool, len(m.Edges))
	for _, e := range m.Edges {
		a, b := e[0], e[1]
		if a == b || a < 0 || b < 0 || a >= m.Len() || b >= m.Len() {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if seen[mesh.Edge{a, b}] {
			continue
		}
		seen[mesh.Edge{a, b}] = true
		fmt.Fprintf(&buf, "  %d -- %d;\n", a, b)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(v, n int, weighted bool, w float64, detailed bool) string {
	if !detailed {
		return strconv.Itoa(v)
	}
	if !weighted {
		return fmt.Sprintf("%d\n-", v)
	}
	return fmt.Sprintf("%d\n%.3f\n#%d", v, w, n)
}

func fmtAttrs(selected bool, n int, weighted bool, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if weighted {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", IslandColor(n)))
	} else {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey40")
	}
	if selected {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG lays out a DOT graph and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox
// starts at the origin, so the image scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

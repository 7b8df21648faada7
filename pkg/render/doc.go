// Package render draws weight islands as Graphviz graphs.
//
// [ToDOT] turns a mesh and its island partition into an undirected DOT graph:
// one node per vertex, one edge per mesh edge. Vertices of the same island
// share a fill color, unweighted vertices are grey and dashed, and selected
// vertices get a heavy outline. [RenderSVG] lays the graph out with the
// embedded Graphviz (github.com/goccy/go-graphviz), so no system install is
// needed.
//
//	res := island.Build(m.Adjacency(), m.Lookup("spine"))
//	dot := render.ToDOT(m, res, render.Options{Group: "spine"})
//	svg, err := render.RenderSVG(ctx, dot)
package render

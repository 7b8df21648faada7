// Package pkg holds the skinsuite libraries for editing vertex group weights
// of skinned meshes.
//
// # Overview
//
// The libraries fall into three layers:
//
//  1. Model: [mesh] holds vertices, edges, vertex groups and the selection,
//     and reads and writes the JSON mesh document.
//  2. Operations: [island] finds weight islands, [weights] aggregates,
//     blends, prunes and transfers weights, [selection] grows, shrinks and
//     filters selections.
//  3. Infrastructure: [snapshot] persists the clipboard and the saved
//     selection, [session] keeps interactive edits alive between slider
//     updates, [server] exposes both over HTTP, [render] draws island graphs.
//
// Supporting packages: [config] (TOML settings), [errors] (coded errors),
// [observability] (hooks) and [buildinfo] (version data).
//
// # Data flow
//
//	mesh document (JSON)
//	        ↓
//	  [mesh].ReadFile
//	        ↓
//	  [island] / [weights] / [selection]   ← [session] for live updates
//	        ↓
//	  [mesh].WriteFile                      → [snapshot] clipboard, selection
//
// # Example
//
//	m, _ := mesh.ReadFile("body.json")
//	res := island.Build(m.Adjacency(), m.Lookup("spine"))
//	m.SetSelection(island.SelectInRange(res.Islands, res.Weights, 0, 0.1))
//	_ = mesh.WriteFile(m, "body.json")
package pkg

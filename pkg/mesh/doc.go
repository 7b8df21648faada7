// Package mesh provides the in-memory mesh model that skinsuite edits.
//
// A [Mesh] is the minimal surface a weight-painting host exposes: an ordered
// list of vertices, each carrying a selection flag and a mapping from vertex
// group name to weight, plus an edge list naming pairs of vertex indices.
// Everything else about the geometry (positions, faces, normals) is out of
// scope.
//
// # Weights
//
// Weight lookups follow a default-value contract: a vertex that has no entry
// for a group reads as weight 0. [Mesh.Weight] and [WeightLookup] never fail,
// so callers can treat "not in group" and "weight 0" identically.
//
// # Adjacency
//
// [NewAdjacency] derives an undirected neighbor index from an edge list once.
// It is read-only afterwards and is shared by island detection and selection
// grow/shrink.
//
// # Serialization
//
// Meshes use a small JSON document:
//
//	{
//	  "groups": ["spine", "arm.L"],
//	  "active_group": "spine",
//	  "vertices": [
//	    {"index": 0, "selected": true, "groups": {"spine": 0.5}},
//	    {"index": 1, "groups": {"spine": 0.4, "arm.L": 0.6}}
//	  ],
//	  "edges": [[0, 1]]
//	}
//
// Use [ReadFile]/[WriteFile] for paths and [Read]/[Write] for streams.
package mesh

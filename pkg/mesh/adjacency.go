package mesh

// Adjacency maps each vertex to the set of vertices sharing an edge with it.
// It is built once from an edge list and is read-only afterwards.
type Adjacency struct {
	neighbors [][]int
	incident  [][]Edge
}

// NewAdjacency indexes edges over n vertices. Each neighbor is listed once per
// vertex, in the order its first edge appears. Self-loops contribute no
// neighbor, and edges touching an index outside [0, n) are skipped.
func NewAdjacency(n int, edges []Edge) *Adjacency {
	a := &Adjacency{
		neighbors: make([][]int, n),
		incident:  make([][]Edge, n),
	}
	seen := make([]map[int]struct{}, n)
	link := func(from, to int) {
		if from == to {
			return
		}
		if seen[from] == nil {
			seen[from] = make(map[int]struct{})
		}
		if _, ok := seen[from][to]; ok {
			return
		}
		seen[from][to] = struct{}{}
		a.neighbors[from] = append(a.neighbors[from], to)
	}
	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || v < 0 || u >= n || v >= n {
			continue
		}
		a.incident[u] = append(a.incident[u], e)
		if v != u {
			a.incident[v] = append(a.incident[v], e)
		}
		link(u, v)
		link(v, u)
	}
	return a
}

// Len returns the number of vertices the adjacency was built for.
func (a *Adjacency) Len() int { return len(a.neighbors) }

// Neighbors returns the vertices adjacent to v. Vertices without edges, and
// indices outside the mesh, have no neighbors. The returned slice must not be
// modified.
func (a *Adjacency) Neighbors(v int) []int {
	if v < 0 || v >= len(a.neighbors) {
		return nil
	}
	return a.neighbors[v]
}

// Incident returns the edges touching v, in edge-list order.
func (a *Adjacency) Incident(v int) []Edge {
	if v < 0 || v >= len(a.incident) {
		return nil
	}
	return a.incident[v]
}

// Degree returns the number of distinct neighbors of v.
func (a *Adjacency) Degree(v int) int { return len(a.Neighbors(v)) }

package graph

import "slices"

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in x's set.
func (uf *UnionFind) Size(x uint32) uint32 { return uf.size[uf.Find(x)] }

// Components returns the weakly connected components of the graph as lists
// of vertex names. Edge direction is ignored. Components are ordered by
// size, largest first, ties by first vertex insertion; names inside a
// component keep insertion order.
func (g *Graph) Components() [][]string {
	n := uint32(len(g.vertexOrder))
	if n == 0 {
		return nil
	}

	index := make(map[*Vertex]uint32, n)
	for i, name := range g.vertexOrder {
		index[g.vertices[name]] = uint32(i)
	}
	uf := NewUnionFind(n)
	for _, id := range g.edgeOrder {
		e := g.edges[id]
		uf.Union(index[e.source], index[e.target])
	}

	var comps [][]string
	slot := make(map[uint32]int)
	for i, name := range g.vertexOrder {
		root := uf.Find(uint32(i))
		k, ok := slot[root]
		if !ok {
			k = len(comps)
			slot[root] = k
			comps = append(comps, make([]string, 0, uf.Size(root)))
		}
		comps[k] = append(comps[k], name)
	}

	slices.SortStableFunc(comps, func(a, b []string) int { return len(b) - len(a) })
	return comps
}

// LargestComponent returns the vertex names of the largest weakly
// connected component, or nil for an empty graph.
func (g *Graph) LargestComponent() []string {
	comps := g.Components()
	if len(comps) == 0 {
		return nil
	}
	return comps[0]
}

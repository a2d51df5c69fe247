// Package meshio exports the renderable state of a graph as a flat list of
// meshes and persists it in a checksummed binary file.
package meshio

import (
	"graph_scene/pkg/geom"
	"graph_scene/pkg/graph"
)

// Kind identifies what a mesh was derived from.
type Kind uint32

const (
	KindVertex Kind = iota
	KindEdge
	KindArrow
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindArrow:
		return "arrow"
	}
	return "unknown"
}

// Mesh is one renderable object: its geometry in local space, the world
// transform, and its label.
type Mesh struct {
	Kind   Kind
	Key    string
	Label  string
	Anchor geom.Vec3
	Color  uint32
	Layers uint32
	Matrix geom.Mat4
	Buffer *geom.Buffer
}

// Scene is the snapshot written to disk.
type Scene struct {
	Meshes []Mesh
}

// FromGraph snapshots every vertex, edge and arrow head of g. Vertices
// come first, then each edge followed by its arrow.
func FromGraph(g *graph.Graph) *Scene {
	s := &Scene{}
	for _, v := range g.Vertices() {
		s.Meshes = append(s.Meshes, Mesh{
			Kind:   KindVertex,
			Key:    v.Key(),
			Label:  v.Label().Text,
			Anchor: v.Label().Position,
			Color:  uint32(v.Color()),
			Layers: uint32(v.Layers()),
			Matrix: v.Matrix(),
			Buffer: v.Geometry(),
		})
	}
	for _, e := range g.Edges() {
		s.Meshes = append(s.Meshes, Mesh{
			Kind:   KindEdge,
			Key:    e.Key(),
			Label:  e.Label().Text,
			Anchor: e.Label().Position,
			Color:  uint32(e.Color()),
			Layers: uint32(e.Layers()),
			Matrix: geom.Identity(),
			Buffer: e.Geometry(),
		})
		if a := e.Arrow(); a != nil {
			s.Meshes = append(s.Meshes, Mesh{
				Kind:   KindArrow,
				Key:    "arrow:" + e.ID(),
				Color:  uint32(e.Color()),
				Layers: uint32(a.Layers),
				Matrix: a.Matrix,
				Buffer: a.Geometry,
			})
		}
	}
	return s
}

// Stats counts meshes and triangles by kind.
func (s *Scene) Stats() map[Kind][2]int {
	out := make(map[Kind][2]int)
	for _, m := range s.Meshes {
		c := out[m.Kind]
		c[0]++
		c[1] += m.Buffer.NumTriangles()
		out[m.Kind] = c
	}
	return out
}

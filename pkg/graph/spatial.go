package graph

import (
	"math"
	"slices"

	"github.com/tidwall/rtree"

	"graph_scene/pkg/geom"
)

// maxPlacementAttempts bounds the retries when placing an imported vertex
// away from existing spheres.
const maxPlacementAttempts = 8

// footprints indexes vertex spheres by their XY bounding box. The index is
// a broad phase only; callers confirm hits with an exact 3D test.
type footprints struct {
	tr rtree.RTreeG[*Vertex]
}

func bbox(p geom.Vec3, r float64) (min, max [2]float64) {
	return [2]float64{p.X - r, p.Y - r}, [2]float64{p.X + r, p.Y + r}
}

func (f *footprints) insert(v *Vertex) {
	min, max := bbox(v.position, v.radius)
	f.tr.Insert(min, max, v)
}

// collides reports whether a sphere at p with radius r would intersect any
// indexed vertex other than skip.
func (f *footprints) collides(p geom.Vec3, r float64, skip *Vertex) bool {
	hit := false
	min, max := bbox(p, r)
	f.tr.Search(min, max, func(_, _ [2]float64, v *Vertex) bool {
		if v != skip && spheresIntersect(p, r, v.position, v.radius) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func spheresIntersect(a geom.Vec3, ra float64, b geom.Vec3, rb float64) bool {
	return a.Dist(b) < ra+rb
}

func (g *Graph) buildFootprints() *footprints {
	f := &footprints{}
	for _, name := range g.vertexOrder {
		f.insert(g.vertices[name])
	}
	return f
}

// randomDirection returns a unit vector uniformly distributed on the sphere.
func randomDirection(rng interface{ Float64() float64 }) geom.Vec3 {
	u := (rng.Float64() - 0.5) * 2
	t := rng.Float64() * math.Pi * 2
	f := math.Sqrt(1 - u*u)
	return geom.Vec3{X: f * math.Cos(t), Y: f * math.Sin(t), Z: u}
}

// place picks a position at the placement radius that does not overlap
// indexed vertices, falling back to the last candidate when every attempt
// collides.
func (g *Graph) place(f *footprints, radius float64) geom.Vec3 {
	var p geom.Vec3
	for range maxPlacementAttempts {
		p = randomDirection(g.rng).Scale(g.placementRadius)
		if !f.collides(p, radius, nil) {
			break
		}
	}
	return p
}

// Overlaps returns the pairs of vertices whose spheres intersect, each pair
// ordered by insertion and listed once.
func (g *Graph) Overlaps() [][2]string {
	f := g.buildFootprints()
	index := make(map[*Vertex]int, len(g.vertexOrder))
	for i, name := range g.vertexOrder {
		index[g.vertices[name]] = i
	}

	var pairs [][2]string
	for i, name := range g.vertexOrder {
		v := g.vertices[name]
		var hits []int
		min, max := bbox(v.position, v.radius)
		f.tr.Search(min, max, func(_, _ [2]float64, o *Vertex) bool {
			j := index[o]
			if j > i && spheresIntersect(v.position, v.radius, o.position, o.radius) {
				hits = append(hits, j)
			}
			return true
		})
		slices.Sort(hits)
		for _, j := range hits {
			pairs = append(pairs, [2]string{name, g.vertexOrder[j]})
		}
	}
	return pairs
}

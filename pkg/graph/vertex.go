package graph

import (
	"strings"

	"graph_scene/pkg/geom"
)

// Vertex defaults.
const (
	DefaultRadius         = 3.0
	DefaultWidthSegments  = 16
	DefaultHeightSegments = 8
)

// VertexParameters describes a vertex to add. Zero values select defaults.
type VertexParameters struct {
	Name           string    `json:"name" validate:"required"`
	Position       geom.Vec3 `json:"position"`
	Radius         float64   `json:"radius,omitempty" validate:"gte=0"`
	Color          *Color    `json:"color,omitempty"`
	WidthSegments  int       `json:"widthSegments,omitempty" validate:"omitempty,min=3"`
	HeightSegments int       `json:"heightSegments,omitempty" validate:"omitempty,min=2"`
}

// Vertex is a named sphere in the scene.
type Vertex struct {
	name           string
	position       geom.Vec3
	radius         float64
	color          Color
	widthSegments  int
	heightSegments int

	geometry *geom.Buffer
	layers   Layers
	label    *Label
}

// normalizeName lower-cases vertex names so lookups are case-insensitive.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func newVertex(p VertexParameters, color Color) *Vertex {
	v := &Vertex{
		name:           normalizeName(p.Name),
		position:       p.Position,
		radius:         p.Radius,
		color:          color,
		widthSegments:  p.WidthSegments,
		heightSegments: p.HeightSegments,
	}
	if v.radius == 0 {
		v.radius = DefaultRadius
	}
	if v.widthSegments == 0 {
		v.widthSegments = DefaultWidthSegments
	}
	if v.heightSegments == 0 {
		v.heightSegments = DefaultHeightSegments
	}
	v.geometry = geom.Sphere(v.radius, v.widthSegments, v.heightSegments)
	v.layers.Enable(LayerEnabled)
	v.layers.Enable(LayerVertex)
	v.label = newLabel(v.name, "label vertex")
	v.label.Position = v.position
	return v
}

func (v *Vertex) Name() string { return v.name }
func (v *Vertex) Position() geom.Vec3 { return v.position }
func (v *Vertex) Radius() float64 { return v.radius }
func (v *Vertex) Color() Color { return v.color }
func (v *Vertex) Geometry() *geom.Buffer { return v.geometry }
func (v *Vertex) Label() *Label { return v.label }
func (v *Vertex) Layers() Layers { return v.layers }
func (v *Vertex) Segments() (width, height int) { return v.widthSegments, v.heightSegments }

// SetPosition moves the vertex and its label. Incident edge geometry is
// stale until the graph is updated.
func (v *Vertex) SetPosition(p geom.Vec3) {
	v.position = p
	v.label.Position = p
}

// Matrix is the sphere's world transform.
func (v *Vertex) Matrix() geom.Mat4 { return geom.Translation(v.position) }

// Key is the vertex's identifier within a neighborhood.
func (v *Vertex) Key() string { return "vertex:" + v.name }

func (v *Vertex) Enable(l Layer) {
	v.layers.Enable(l)
	v.label.Layers.Enable(l)
}

func (v *Vertex) Disable(l Layer) {
	v.layers.Disable(l)
	v.label.Layers.Disable(l)
}

func (v *Vertex) DisableAll() {
	v.layers.DisableAll()
	v.label.Layers.DisableAll()
}

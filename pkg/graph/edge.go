package graph

import (
	"math"

	"github.com/google/uuid"

	"graph_scene/pkg/geom"
)

// Edge geometry constants.
const (
	TubeRadius          = 0.25
	TubularSegments     = 20
	RadialSegments      = 7
	ArrowRadius         = 1.0
	ArrowLength         = 3.0
	ArrowRadialSegments = 7
	// CurveOffset is the distance of a directed edge's control point from
	// the chord midpoint.
	CurveOffset = 3.0
	// LabelAnchor is the arc-length fraction where edge labels sit.
	LabelAnchor = 0.45
	// ArrowSample is the arc-length fraction the arrow head looks from.
	ArrowSample = 0.85
)

// EdgeKind discriminates the edge variants.
type EdgeKind uint8

const (
	Undirected EdgeKind = iota
	Directed
)

func (k EdgeKind) String() string {
	if k == Directed {
		return "directed"
	}
	return "undirected"
}

// EdgeParameters describes an edge to add between two existing vertices.
type EdgeParameters struct {
	Name     string `json:"name"`
	From     string `json:"from"`
	To       string `json:"to"`
	Directed bool   `json:"directed,omitempty"`
	Color    *Color `json:"color,omitempty"`
}

// Arrow is the cone at the target end of a directed edge. Geometry is in
// local space with the tip on the target surface along +Z; Matrix places
// it in the world.
type Arrow struct {
	Geometry *geom.Buffer
	Matrix   geom.Mat4
	Layers   Layers
}

// Tip returns the world position of the cone apex.
func (a *Arrow) Tip(targetRadius float64) geom.Vec3 {
	return a.Matrix.MulPoint(geom.Vec3{Z: targetRadius})
}

// Edge connects two vertices with a tube. Directed edges curve away from
// the chord and carry an Arrow.
type Edge struct {
	id     string
	kind   EdgeKind
	value  string
	source *Vertex
	target *Vertex
	color  Color

	path     geom.Curve
	geometry *geom.Buffer
	layers   Layers
	label    *Label
	arrow    *Arrow
}

func newEdge(p EdgeParameters, source, target *Vertex) *Edge {
	e := &Edge{
		id:     uuid.New().String(),
		value:  p.Name,
		source: source,
		target: target,
		color:  source.color,
		label:  newLabel(p.Name, "label"),
	}
	if p.Color != nil {
		e.color = *p.Color
	}
	e.layers.Enable(LayerEnabled)
	e.layers.Enable(LayerEdge)
	if p.Directed {
		e.kind = Directed
		e.arrow = &Arrow{Matrix: geom.Identity()}
		e.arrow.Layers.Enable(LayerEnabled)
		e.arrow.Layers.Enable(LayerEdge)
	}
	e.recompute()
	return e
}

func (e *Edge) ID() string { return e.id }
func (e *Edge) Kind() EdgeKind { return e.kind }
func (e *Edge) Value() string { return e.value }
func (e *Edge) Source() *Vertex { return e.source }
func (e *Edge) Target() *Vertex { return e.target }
func (e *Edge) Color() Color { return e.color }
func (e *Edge) Path() geom.Curve { return e.path }
func (e *Edge) Geometry() *geom.Buffer { return e.geometry }
func (e *Edge) Label() *Label { return e.label }
func (e *Edge) Layers() Layers { return e.layers }

// Arrow returns the arrow head, or nil for undirected edges.
func (e *Edge) Arrow() *Arrow { return e.arrow }

// Key is the edge's identifier within a neighborhood.
func (e *Edge) Key() string { return "edge:" + e.id }

// touches reports whether v is either endpoint.
func (e *Edge) touches(v *Vertex) bool { return e.source == v || e.target == v }

// recompute rebuilds every derived field from the endpoints' current
// positions. The previous buffers are dropped.
func (e *Edge) recompute() {
	from, to := e.source.position, e.target.position

	switch e.kind {
	case Directed:
		control := from.Lerp(to, 0.5).Add(geom.BinormalOffset(from, to, CurveOffset))
		e.path = geom.NewQuadraticBezier(from, control, to)
	default:
		e.path = geom.Line{V1: from, V2: to}
	}
	e.geometry = geom.Tube(e.path, TubularSegments, TubeRadius, RadialSegments)
	e.label.Position = e.path.PointAt(LabelAnchor)

	if e.arrow != nil {
		e.arrow.Geometry = geom.Cone(ArrowRadius, ArrowLength, ArrowRadialSegments).
			Translate(geom.Vec3{Y: -ArrowLength/2 - e.target.radius}).
			RotateX(-math.Pi / 2)
		e.arrow.Matrix = geom.Identity().
			WithPosition(to).
			WithLookAt(e.path.PointAt(ArrowSample), to, geom.UnitY)
	}
}

func (e *Edge) Enable(l Layer) {
	e.layers.Enable(l)
	e.label.Layers.Enable(l)
	if e.arrow != nil {
		e.arrow.Layers.Enable(l)
	}
}

func (e *Edge) Disable(l Layer) {
	e.layers.Disable(l)
	e.label.Layers.Disable(l)
	if e.arrow != nil {
		e.arrow.Layers.Disable(l)
	}
}

func (e *Edge) DisableAll() {
	e.layers.DisableAll()
	e.label.Layers.DisableAll()
	if e.arrow != nil {
		e.arrow.Layers.DisableAll()
	}
}

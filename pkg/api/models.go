package api

import (
	"graph_scene/pkg/geom"
	"graph_scene/pkg/graph"
)

// VertexJSON represents a vertex in responses.
type VertexJSON struct {
	Name     string      `json:"name"`
	Position geom.Vec3   `json:"position"`
	Radius   float64     `json:"radius"`
	Color    graph.Color `json:"color"`
	Layers   []string    `json:"layers"`
	Label    string      `json:"label"`
}

// ArrowJSON is the arrow head of a directed edge.
type ArrowJSON struct {
	Tip    geom.Vec3 `json:"tip"`
	Matrix geom.Mat4 `json:"matrix"`
}

// EdgeJSON represents an edge in responses.
type EdgeJSON struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Kind      string      `json:"kind"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Color     graph.Color `json:"color"`
	Layers    []string    `json:"layers"`
	Label     string      `json:"label"`
	LabelAt   geom.Vec3   `json:"label_position"`
	Control   *geom.Vec3  `json:"control,omitempty"`
	Triangles int         `json:"triangles"`
	Arrow     *ArrowJSON  `json:"arrow,omitempty"`
}

// CreateEdgeRequest is the JSON body for POST /api/v1/edges.
type CreateEdgeRequest struct {
	Name     string       `json:"name"`
	From     string       `json:"from" validate:"required"`
	To       string       `json:"to" validate:"required"`
	Directed bool         `json:"directed"`
	Color    *graph.Color `json:"color,omitempty"`
}

// PositionRequest is the JSON body for PUT /api/v1/vertices/{name}/position.
type PositionRequest struct {
	Position *geom.Vec3 `json:"position" validate:"required"`
}

// NeighborhoodResponse lists a vertex's neighborhood.
type NeighborhoodResponse struct {
	Vertex   string       `json:"vertex"`
	Keys     []string     `json:"keys"`
	Vertices []VertexJSON `json:"vertices"`
	Edges    []EdgeJSON   `json:"edges"`
}

// SelectResponse reports the selection state after a toggle.
type SelectResponse struct {
	Selected bool     `json:"selected"`
	Vertex   string   `json:"vertex,omitempty"`
	Keys     []string `json:"keys"`
}

// UpdateResponse reports how many edges were recomputed.
type UpdateResponse struct {
	Updated int `json:"updated"`
}

// ImportResponse reports a bulk import.
type ImportResponse struct {
	graph.ImportResult
	Errors []string `json:"errors,omitempty"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Vertices   int    `json:"vertices"`
	Edges      int    `json:"edges"`
	Directed   int    `json:"directed"`
	Components int    `json:"components"`
	Largest    int    `json:"largest_component"`
	Overlaps   int    `json:"overlaps"`
	Selected   string `json:"selected,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

func vertexJSON(v *graph.Vertex) VertexJSON {
	return VertexJSON{
		Name:     v.Name(),
		Position: v.Position(),
		Radius:   v.Radius(),
		Color:    v.Color(),
		Layers:   v.Layers().Names(),
		Label:    v.Label().Text,
	}
}

func edgeJSON(e *graph.Edge) EdgeJSON {
	out := EdgeJSON{
		ID:        e.ID(),
		Name:      e.Value(),
		Kind:      e.Kind().String(),
		From:      e.Source().Name(),
		To:        e.Target().Name(),
		Color:     e.Color(),
		Layers:    e.Layers().Names(),
		Label:     e.Label().Text,
		LabelAt:   e.Label().Position,
		Triangles: e.Geometry().NumTriangles(),
	}
	if q, ok := e.Path().(*geom.QuadraticBezier); ok {
		c := q.V1
		out.Control = &c
	}
	if a := e.Arrow(); a != nil {
		out.Arrow = &ArrowJSON{Tip: a.Tip(e.Target().Radius()), Matrix: a.Matrix}
	}
	return out
}

package graph

import (
	"math/rand/v2"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultPlacementRadius is the distance from the origin at which imported
// vertices without a position are placed.
const DefaultPlacementRadius = 50.0

// Graph owns the vertices and edges of one scene and runs neighborhood
// selection over them. It is not safe for concurrent use.
type Graph struct {
	vertices    map[string]*Vertex
	vertexOrder []string
	edges       map[string]*Edge
	edgeOrder   []string

	selected     string
	selectedKeys []string
	selection    map[string]Entity

	placementRadius float64
	rng             *rand.Rand
	validate        *validator.Validate
	logger          *zap.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithRand sets the random source used for default colors and placement.
func WithRand(r *rand.Rand) Option {
	return func(g *Graph) { g.rng = r }
}

// WithPlacementRadius overrides DefaultPlacementRadius.
func WithPlacementRadius(r float64) Option {
	return func(g *Graph) { g.placementRadius = r }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		vertices:        make(map[string]*Vertex),
		edges:           make(map[string]*Edge),
		selection:       make(map[string]Entity),
		placementRadius: DefaultPlacementRadius,
		rng:             rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		validate:        newValidator(),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddVertex inserts a vertex, replacing any vertex with the same name.
// Edges attached to a replaced vertex are re-bound to the new one; their
// geometry refreshes on the next Update.
func (g *Graph) AddVertex(p VertexParameters) (*Vertex, error) {
	p.Name = normalizeName(p.Name)
	if err := g.validate.Struct(p); err != nil {
		return nil, malformed(err, "vertex %q", p.Name)
	}

	color := RandomColor(g.rng)
	if p.Color != nil {
		color = *p.Color
	}
	v := newVertex(p, color)

	if old, ok := g.vertices[v.name]; ok {
		for _, id := range g.edgeOrder {
			e := g.edges[id]
			if e.source == old {
				e.source = v
			}
			if e.target == old {
				e.target = v
			}
		}
		if _, ok := g.selection[old.Key()]; ok {
			g.selection[v.Key()] = v
			v.Enable(LayerSelected)
		}
		g.logger.Debug("replaced vertex", zap.String("name", v.name))
	} else {
		g.vertexOrder = append(g.vertexOrder, v.name)
	}
	g.vertices[v.name] = v

	g.logger.Debug("added vertex",
		zap.String("name", v.name),
		zap.Float64("x", v.position.X),
		zap.Float64("y", v.position.Y),
		zap.Float64("z", v.position.Z),
	)
	return v, nil
}

// AddEdge connects two existing vertices and computes the edge geometry.
func (g *Graph) AddEdge(p EdgeParameters) (*Edge, error) {
	source, ok := g.vertices[normalizeName(p.From)]
	if !ok {
		return nil, notFound("could not find source vertex %q", p.From)
	}
	target, ok := g.vertices[normalizeName(p.To)]
	if !ok {
		return nil, notFound("could not find target vertex %q", p.To)
	}
	if source == target {
		return nil, malformed(nil, "edge %q is a self-loop on %q", p.Name, source.name)
	}

	e := newEdge(p, source, target)
	g.edges[e.id] = e
	g.edgeOrder = append(g.edgeOrder, e.id)

	g.logger.Debug("added edge",
		zap.String("id", e.id),
		zap.String("kind", e.kind.String()),
		zap.String("from", source.name),
		zap.String("to", target.name),
	)
	return e, nil
}

// Vertex returns the vertex with the given name.
func (g *Graph) Vertex(name string) (*Vertex, error) {
	v, ok := g.vertices[normalizeName(name)]
	if !ok {
		return nil, notFound("could not get vertex named %q", name)
	}
	return v, nil
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (*Edge, error) {
	e, ok := g.edges[id]
	if !ok {
		return nil, notFound("edge %q", id)
	}
	return e, nil
}

// EdgeBetween finds an edge joining from and to in either direction,
// preferring one that runs from -> to.
func (g *Graph) EdgeBetween(from, to string) (*Edge, error) {
	source, err := g.Vertex(from)
	if err != nil {
		return nil, err
	}
	target, err := g.Vertex(to)
	if err != nil {
		return nil, err
	}
	var reversed *Edge
	for _, id := range g.edgeOrder {
		e := g.edges[id]
		if e.source == source && e.target == target {
			return e, nil
		}
		if reversed == nil && e.source == target && e.target == source {
			reversed = e
		}
	}
	if reversed != nil {
		return reversed, nil
	}
	return nil, notFound("no such edge between %q and %q", from, to)
}

// Vertices returns every vertex in insertion order.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(g.vertexOrder))
	for _, name := range g.vertexOrder {
		out = append(out, g.vertices[name])
	}
	return out
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Neighborhood returns the edges touching the named vertex together with
// both endpoints of each, without duplicates. An isolated vertex is its
// own neighborhood.
func (g *Graph) Neighborhood(name string) ([]Entity, error) {
	v, err := g.Vertex(name)
	if err != nil {
		return nil, notFound("could not get neighborhood for nonexistent vertex %q", name)
	}

	seen := make(map[string]bool)
	var out []Entity
	add := func(en Entity) {
		if !seen[en.Key()] {
			seen[en.Key()] = true
			out = append(out, en)
		}
	}
	for _, id := range g.edgeOrder {
		e := g.edges[id]
		if !e.touches(v) {
			continue
		}
		add(e)
		add(e.target)
		add(e.source)
	}
	if len(out) == 0 {
		return []Entity{v}, nil
	}
	return out, nil
}

// SelectNeighborhood highlights the neighborhood of the named vertex. The
// previous highlight is always cleared first; selecting the vertex that is
// already selected toggles the selection off and returns false.
func (g *Graph) SelectNeighborhood(name string) (bool, error) {
	v, err := g.Vertex(name)
	if err != nil {
		return false, notFound("invalid vertex name %q, only vertex names can be selected", name)
	}

	for _, key := range g.selectedKeys {
		g.selection[key].Disable(LayerSelected)
	}
	g.selectedKeys = g.selectedKeys[:0]
	clear(g.selection)

	if g.selected == v.name {
		g.selected = ""
		g.logger.Debug("selection cleared", zap.String("vertex", v.name))
		return false, nil
	}

	members, err := g.Neighborhood(v.name)
	if err != nil {
		return false, err
	}
	g.selected = v.name
	for _, en := range members {
		g.selection[en.Key()] = en
		g.selectedKeys = append(g.selectedKeys, en.Key())
		en.Enable(LayerSelected)
	}
	g.logger.Debug("selected neighborhood",
		zap.String("vertex", v.name),
		zap.Int("members", len(members)),
	)
	return true, nil
}

// Selected returns the name of the vertex whose neighborhood is selected,
// or "" when nothing is.
func (g *Graph) Selected() string { return g.selected }

// SelectedNeighborhood returns the highlighted entities.
func (g *Graph) SelectedNeighborhood() []Entity {
	out := make([]Entity, 0, len(g.selectedKeys))
	for _, key := range g.selectedKeys {
		out = append(out, g.selection[key])
	}
	return out
}

// Update recomputes the geometry of every edge from current vertex
// positions.
func (g *Graph) Update() {
	for _, id := range g.edgeOrder {
		g.edges[id].recompute()
	}
}

// UpdateEdge recomputes the geometry of a single edge.
func (g *Graph) UpdateEdge(id string) error {
	e, err := g.Edge(id)
	if err != nil {
		return err
	}
	e.recompute()
	return nil
}

// IncidentEdges returns the ids of the edges touching the named vertex.
func (g *Graph) IncidentEdges(name string) ([]string, error) {
	v, err := g.Vertex(name)
	if err != nil {
		return nil, err
	}
	ids := slices.DeleteFunc(slices.Clone(g.edgeOrder), func(id string) bool {
		return !g.edges[id].touches(v)
	})
	return ids, nil
}

package graph

import "strconv"

// Layer is a visibility/classification flag on a renderable entity.
type Layer uint8

const (
	// LayerEnabled marks objects that take part in base rendering and picking.
	LayerEnabled Layer = 0
	// LayerVertex marks vertex geometry. Pickers restrict rays to it.
	LayerVertex Layer = 1
	// LayerEdge marks edge tubes and arrow heads.
	LayerEdge Layer = 2
	// LayerSelected marks the currently highlighted neighborhood.
	LayerSelected Layer = 5
)

func (l Layer) String() string {
	switch l {
	case LayerEnabled:
		return "enabled"
	case LayerVertex:
		return "vertex"
	case LayerEdge:
		return "edge"
	case LayerSelected:
		return "selected"
	}
	return "layer" + strconv.Itoa(int(l))
}

// Layers is a 32-bit set of Layer flags.
type Layers uint32

func (m *Layers) Enable(l Layer) { *m |= 1 << l }
func (m *Layers) Disable(l Layer) { *m &^= 1 << l }
func (m *Layers) DisableAll() { *m = 0 }
func (m *Layers) EnableAll() { *m = ^Layers(0) }

// Has reports whether l is set.
func (m Layers) Has(l Layer) bool { return m&(1<<l) != 0 }

// Names lists the set flags, lowest first.
func (m Layers) Names() []string {
	var names []string
	for l := Layer(0); l < 32; l++ {
		if m.Has(l) {
			names = append(names, l.String())
		}
	}
	return names
}

// Entity is anything that can be part of a selected neighborhood.
type Entity interface {
	// Key identifies the entity uniquely across vertices and edges.
	Key() string
	Layers() Layers
	Enable(l Layer)
	Disable(l Layer)
	// DisableAll clears every flag on the entity and its sub-objects.
	DisableAll()
}

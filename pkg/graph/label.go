package graph

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"graph_scene/pkg/geom"
)

// Label is a text annotation anchored to a point in world space.
type Label struct {
	Text     string
	Class    string
	Position geom.Vec3
	Layers   Layers
}

func newLabel(content, class string) *Label {
	l := &Label{Text: capitalize(content), Class: class}
	l.Layers.Enable(LayerEnabled)
	return l
}

// capitalize upper-cases the first rune. Blank content reads "Empty".
func capitalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Empty"
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

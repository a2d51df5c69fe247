package osm

import (
	"github.com/paulmach/osm"

	"graph_scene/pkg/graph"
)

// DefaultHighways lists the highway tag values imported when no filter is
// given: everything drivable by car.
var DefaultHighways = []string{
	"motorway", "motorway_link",
	"trunk", "trunk_link",
	"primary", "primary_link",
	"secondary", "secondary_link",
	"tertiary", "tertiary_link",
	"unclassified", "residential", "living_street", "service",
}

// highwayColors tints edges by road class. Unlisted classes fall back to
// the source vertex color.
var highwayColors = map[string]graph.Color{
	"motorway":      0xe892a2,
	"motorway_link": 0xe892a2,
	"trunk":         0xf9b29c,
	"trunk_link":    0xf9b29c,
	"primary":       0xfcd6a4,
	"primary_link":  0xfcd6a4,
	"secondary":     0xf7fabf,
	"tertiary":      0xffffff,
	"residential":   0xbbbbbb,
	"service":       0x888888,
}

// isAccessible returns true if the way's highway class is wanted and the
// way is open to motor traffic.
func isAccessible(tags osm.Tags, highways map[string]bool) bool {
	if !highways[tags.Find("highway")] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	return tags.Find("motor_vehicle") != "no"
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward, backward = true, true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	// Explicit oneway tag overrides.
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		// Time-dependent, skip entirely.
		forward, backward = false, false
	}
	return forward, backward
}

func highwaySet(values []string) map[string]bool {
	if len(values) == 0 {
		values = DefaultHighways
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

package geo

import (
	"fmt"
	"math"

	"graph_scene/pkg/geom"
)

// Projection maps geographic coordinates onto the scene's XZ plane around
// an origin. East is +X, north is -Z, and every axis is divided by Scale
// meters per scene unit.
type Projection struct {
	OriginLat, OriginLon float64
	Scale                float64

	cosLat float64
}

// NewProjection returns a projection centered on (lat, lon).
func NewProjection(lat, lon, metersPerUnit float64) (*Projection, error) {
	if metersPerUnit <= 0 || math.IsNaN(metersPerUnit) {
		return nil, fmt.Errorf("scale must be positive, got %v", metersPerUnit)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("origin (%v, %v) out of range", lat, lon)
	}
	return &Projection{
		OriginLat: lat,
		OriginLon: lon,
		Scale:     metersPerUnit,
		cosLat:    math.Cos(lat * math.Pi / 180),
	}, nil
}

// Project returns the scene position of (lat, lon).
func (p *Projection) Project(lat, lon float64) geom.Vec3 {
	east := (lon - p.OriginLon) * p.cosLat * degToMeters
	north := (lat - p.OriginLat) * degToMeters
	return geom.Vec3{X: east / p.Scale, Z: -north / p.Scale}
}

// Unproject inverts Project, ignoring Y.
func (p *Projection) Unproject(v geom.Vec3) (lat, lon float64) {
	north := -v.Z * p.Scale
	east := v.X * p.Scale
	lat = p.OriginLat + north/degToMeters
	if p.cosLat == 0 {
		return lat, p.OriginLon
	}
	lon = p.OriginLon + east/(p.cosLat*degToMeters)
	return lat, lon
}

// BBox is a latitude/longitude rectangle.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Contains reports whether (lat, lon) lies inside the box, edges included.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Center returns the midpoint of the box.
func (b BBox) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// IsZero reports whether the box is unset.
func (b BBox) IsZero() bool { return b == BBox{} }

// ParseBBox parses "minLat,minLon,maxLat,maxLon".
func ParseBBox(s string) (BBox, error) {
	var b BBox
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &b.MinLat, &b.MinLon, &b.MaxLat, &b.MaxLon); err != nil {
		return BBox{}, fmt.Errorf("parse bbox %q: %w", s, err)
	}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return BBox{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}
	return b, nil
}

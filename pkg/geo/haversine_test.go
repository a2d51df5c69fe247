package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph_scene/pkg/geom"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "Singapore CBD to Changi Airport",
			lat1: 1.2830, lon1: 103.8513,
			lat2: 1.3644, lon2: 103.9915,
			wantMeters:       18_023,
			tolerancePercent: 1,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name: "Short distance (~100m)",
			lat1: 1.3521, lon1: 103.8198,
			lat2: 1.3530, lon2: 103.8198,
			wantMeters:       100,
			tolerancePercent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			assert.LessOrEqual(t, diff, tt.tolerancePercent, "Haversine = %f m", got)
		})
	}

	assert.Zero(t, Haversine(1.3521, 103.8198, 1.3521, 103.8198))
}

func TestEquirectangularDist(t *testing.T) {
	lat1, lon1 := 1.3521, 103.8198
	lat2, lon2 := 1.3600, 103.8300

	h := Haversine(lat1, lon1, lat2, lon2)
	e := EquirectangularDist(lat1, lon1, lat2, lon2)
	assert.InEpsilon(t, h, e, 0.005)
}

func TestProjection(t *testing.T) {
	p, err := NewProjection(48.8566, 2.3522, 10)
	require.NoError(t, err)

	assert.Equal(t, geom.Vec3{}, p.Project(48.8566, 2.3522))

	// North of the origin lands on -Z, east on +X.
	north := p.Project(48.8666, 2.3522)
	assert.Less(t, north.Z, 0.0)
	assert.InDelta(t, 0, north.X, 1e-9)
	assert.Zero(t, north.Y)
	east := p.Project(48.8566, 2.3622)
	assert.Greater(t, east.X, 0.0)

	// Scene distance times scale approximates the ground distance.
	a, b := p.Project(48.8600, 2.3400), p.Project(48.8500, 2.3600)
	ground := Haversine(48.8600, 2.3400, 48.8500, 2.3600)
	assert.InEpsilon(t, ground, a.Dist(b)*p.Scale, 0.01)

	lat, lon := p.Unproject(a)
	assert.InDelta(t, 48.8600, lat, 1e-9)
	assert.InDelta(t, 2.3400, lon, 1e-9)
}

func TestNewProjectionRejectsBadInput(t *testing.T) {
	_, err := NewProjection(0, 0, 0)
	assert.Error(t, err)
	_, err = NewProjection(95, 0, 1)
	assert.Error(t, err)
}

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox("1.2,103.6,1.5,104.1")
	require.NoError(t, err)
	assert.Equal(t, BBox{MinLat: 1.2, MinLon: 103.6, MaxLat: 1.5, MaxLon: 104.1}, b)
	assert.True(t, b.Contains(1.3, 103.8))
	assert.False(t, b.Contains(1.6, 103.8))
	lat, lon := b.Center()
	assert.InDelta(t, 1.35, lat, 1e-9)
	assert.InDelta(t, 103.85, lon, 1e-9)

	_, err = ParseBBox("1,2,3")
	assert.Error(t, err)
	_, err = ParseBBox("5,0,1,1")
	assert.Error(t, err)
	assert.True(t, BBox{}.IsZero())
}

func BenchmarkHaversine(b *testing.B) {
	for b.Loop() {
		Haversine(1.3521, 103.8198, 1.2905, 103.8520)
	}
}

func BenchmarkEquirectangularDist(b *testing.B) {
	for b.Loop() {
		EquirectangularDist(1.3521, 103.8198, 1.2905, 103.8520)
	}
}

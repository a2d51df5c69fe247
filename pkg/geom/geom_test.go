package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestLineParametrization(t *testing.T) {
	l := Line{V1: Vec3{0, 0, 0}, V2: Vec3{10, 0, 0}}

	assert.Equal(t, Vec3{0, 0, 0}, l.PointAt(0))
	assert.Equal(t, Vec3{10, 0, 0}, l.PointAt(1))
	assert.Equal(t, Vec3{4.5, 0, 0}, l.PointAt(0.45))
	assert.Equal(t, UnitX, l.TangentAt(0.3))
	assert.InDelta(t, 10.0, l.Length(), eps)
}

func TestLineDegenerateTangent(t *testing.T) {
	l := Line{V1: Vec3{1, 2, 3}, V2: Vec3{1, 2, 3}}
	assert.Equal(t, UnitX, l.TangentAt(0))
}

func TestQuadraticBezierEndpoints(t *testing.T) {
	q := NewQuadraticBezier(Vec3{0, 0, 0}, Vec3{5, 3, 0}, Vec3{10, 0, 0})

	assert.True(t, q.PointAt(0).ApproxEqual(Vec3{0, 0, 0}, eps))
	assert.True(t, q.PointAt(1).ApproxEqual(Vec3{10, 0, 0}, eps))
	assert.True(t, q.Point(0.5).ApproxEqual(Vec3{5, 1.5, 0}, eps))

	// Symmetric curve: half the arc length is reached at t=0.5.
	mid := q.PointAt(0.5)
	assert.InDelta(t, 5.0, mid.X, 1e-3)
	assert.InDelta(t, 1.5, mid.Y, 1e-3)

	assert.Greater(t, q.Length(), 10.0)
}

func TestQuadraticBezierArcLengthMonotonic(t *testing.T) {
	q := NewQuadraticBezier(Vec3{0, 0, 0}, Vec3{1, 8, 0}, Vec3{10, 0, 2})
	prev := -1.0
	for i := 0; i <= 50; i++ {
		require.True(t, q.PointAt(float64(i)/50).IsFinite())
		tt := q.uToT(float64(i) / 50)
		assert.GreaterOrEqual(t, tt, prev)
		prev = tt
	}
}

func TestQuadraticBezierTangentAtEnd(t *testing.T) {
	q := NewQuadraticBezier(Vec3{0, 0, 0}, Vec3{5, 3, 0}, Vec3{10, 0, 0})
	// B'(1) = 2(V2 - V1) = (10, -6, 0).
	want := Vec3{10, -6, 0}.Normalize()
	assert.True(t, q.TangentAt(1).ApproxEqual(want, 1e-9))
}

func TestBinormalOffset(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec3
		want     Vec3
	}{
		{"along +x", Vec3{0, 0, 0}, Vec3{10, 0, 0}, Vec3{0, 3, 0}},
		{"along -x", Vec3{10, 0, 0}, Vec3{0, 0, 0}, Vec3{0, -3, 0}},
		{"coincident falls back to +x", Vec3{2, 2, 2}, Vec3{2, 2, 2}, Vec3{0, 3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BinormalOffset(tt.from, tt.to, 3)
			assert.True(t, got.ApproxEqual(tt.want, eps), "got %+v want %+v", got, tt.want)
		})
	}
}

func TestBinormalOffsetPerpendicular(t *testing.T) {
	pairs := [][2]Vec3{
		{{0, 0, 0}, {3, 4, 5}},
		{{-7, 2, 1}, {4, -9, 6}},
		{{1, 1, 1}, {1, 1, 9}},
		{{0, 0, 0}, {0, -5, 0}},
	}
	for _, p := range pairs {
		off := BinormalOffset(p[0], p[1], 3)
		chord := p[1].Sub(p[0])
		assert.InDelta(t, 3.0, off.Len(), 1e-9)
		assert.InDelta(t, 0.0, off.Dot(chord), 1e-9)

		rev := BinormalOffset(p[1], p[0], 3)
		assert.True(t, rev.ApproxEqual(off.Scale(-1), 1e-9))
	}
}

func TestFrenetFramesOnLineMatchBinormalOffset(t *testing.T) {
	l := Line{V1: Vec3{1, -2, 4}, V2: Vec3{6, 3, -1}}
	f := FrenetFrames(l, 3)

	require.Len(t, f.Binormals, 4)
	want := BinormalOffset(l.V1, l.V2, 1)
	assert.True(t, f.Binormals[1].Normalize().ApproxEqual(want, 1e-9))
	for i := range f.Tangents {
		assert.InDelta(t, 0.0, f.Tangents[i].Dot(f.Normals[i]), 1e-9)
		assert.InDelta(t, 1.0, f.Normals[i].Len(), 1e-9)
	}
}

func TestFrenetFramesOnCurveStayOrthonormal(t *testing.T) {
	q := NewQuadraticBezier(Vec3{0, 0, 0}, Vec3{5, 3, 0}, Vec3{10, 0, 0})
	f := FrenetFrames(q, 20)
	for i := range f.Tangents {
		assert.InDelta(t, 0.0, f.Tangents[i].Dot(f.Normals[i]), 1e-6)
		assert.InDelta(t, 0.0, f.Tangents[i].Dot(f.Binormals[i]), 1e-6)
		assert.InDelta(t, 1.0, f.Binormals[i].Len(), 1e-6)
	}
}

func TestTubeAlongLine(t *testing.T) {
	l := Line{V1: Vec3{0, 0, 0}, V2: Vec3{10, 0, 0}}
	b := Tube(l, 20, 0.25, 7)

	assert.Len(t, b.Positions, 21*8)
	assert.Len(t, b.Normals, 21*8)
	assert.Len(t, b.Indices, 20*7*6)
	assert.True(t, b.IsFinite())

	// Every ring vertex sits 0.25 away from the x axis.
	for _, p := range b.Positions {
		assert.InDelta(t, 0.25, math.Hypot(p.Y, p.Z), 1e-9)
	}
	for _, idx := range b.Indices {
		assert.Less(t, int(idx), len(b.Positions))
	}
}

func TestConeApexAndBase(t *testing.T) {
	b := Cone(1, 3, 7)
	lo, hi := b.Bounds()

	assert.InDelta(t, 1.5, hi.Y, eps)
	assert.InDelta(t, -1.5, lo.Y, eps)
	assert.Equal(t, 7*2, b.NumTriangles())
	for _, idx := range b.Indices {
		assert.Less(t, int(idx), len(b.Positions))
	}
}

func TestConeTranslateRotateX(t *testing.T) {
	const targetRadius = 3.0
	b := Cone(1, 3, 7)
	b.Translate(Vec3{0, -1.5 - targetRadius, 0}).RotateX(-math.Pi / 2)

	// Apex was at (0, 1.5, 0); it now points down -Z and sits at z = radius.
	apex := b.Positions[0]
	assert.True(t, apex.ApproxEqual(Vec3{0, 0, targetRadius}, 1e-9), "apex %+v", apex)

	lo, hi := b.Bounds()
	assert.InDelta(t, targetRadius, lo.Z, 1e-9)
	assert.InDelta(t, targetRadius+3, hi.Z, 1e-9)
}

func TestSphereCounts(t *testing.T) {
	b := Sphere(3, 16, 8)
	assert.Len(t, b.Positions, 17*9)
	for _, p := range b.Positions {
		assert.InDelta(t, 3.0, p.Len(), 1e-9)
	}
	// Poles contribute one triangle per segment, other rows two.
	assert.Equal(t, 16*(2*8-2), b.NumTriangles())
}

func TestLookAt(t *testing.T) {
	eye := Vec3{8, 2, 0}
	target := Vec3{10, 0, 0}
	m := Identity().WithPosition(target).WithLookAt(eye, target, UnitY)

	require.True(t, m.IsFinite())
	assert.Equal(t, target, m.Position())

	z := m.MulDir(UnitZ)
	assert.True(t, z.ApproxEqual(eye.Sub(target).Normalize(), 1e-9))

	x, y := m.MulDir(UnitX), m.MulDir(UnitY)
	assert.InDelta(t, 0.0, x.Dot(y), 1e-9)
	assert.InDelta(t, 0.0, x.Dot(z), 1e-9)
	assert.InDelta(t, 1.0, x.Len(), 1e-9)
}

func TestLookAtDegenerate(t *testing.T) {
	// Eye equals target and eye straight above target.
	m := Identity().WithLookAt(Vec3{1, 1, 1}, Vec3{1, 1, 1}, UnitY)
	assert.True(t, m.IsFinite())

	m = Identity().WithLookAt(Vec3{0, 5, 0}, Vec3{0, 0, 0}, UnitY)
	assert.True(t, m.IsFinite())
	assert.InDelta(t, 1.0, m.MulDir(UnitX).Len(), 1e-9)
}

func TestMatMul(t *testing.T) {
	m := Translation(Vec3{1, 2, 3}).Mul(RotationX(math.Pi / 2))
	// Rotate (0,1,0) to (0,0,1), then translate.
	got := m.MulPoint(Vec3{0, 1, 0})
	assert.True(t, got.ApproxEqual(Vec3{1, 2, 4}, 1e-9), "got %+v", got)
}

func TestRotationAxisMatchesRotationX(t *testing.T) {
	a := RotationAxis(UnitX, 0.7)
	b := RotationX(0.7)
	for i := range a {
		assert.InDelta(t, b[i], a[i], 1e-12)
	}
}

package geom

import "sort"

// arcDivisions is the sample count used to approximate arc length.
const arcDivisions = 200

// Curve is a parametric 3D curve over [0,1].
type Curve interface {
	// Point evaluates the curve at raw parameter t.
	Point(t float64) Vec3
	// PointAt evaluates the curve at fraction u of its arc length.
	PointAt(u float64) Vec3
	// TangentAt returns the unit tangent at arc-length fraction u.
	TangentAt(u float64) Vec3
	// Length returns the (approximate) arc length.
	Length() float64
}

// Line is a straight segment from V1 to V2. Its raw and arc-length
// parametrizations coincide.
type Line struct {
	V1, V2 Vec3
}

func (l Line) Point(t float64) Vec3 { return l.V1.Lerp(l.V2, t) }

func (l Line) PointAt(u float64) Vec3 { return l.Point(u) }

// TangentAt returns the chord direction, or +X for a degenerate segment.
func (l Line) TangentAt(float64) Vec3 {
	d := l.V2.Sub(l.V1)
	if d.LenSq() == 0 {
		return UnitX
	}
	return d.Normalize()
}

func (l Line) Length() float64 { return l.V1.Dist(l.V2) }

// QuadraticBezier is a quadratic Bézier curve with control point V1.
type QuadraticBezier struct {
	V0, V1, V2 Vec3

	arcLengths []float64 // cumulative, len arcDivisions+1
}

// NewQuadraticBezier builds the curve and its arc-length table.
func NewQuadraticBezier(v0, v1, v2 Vec3) *QuadraticBezier {
	q := &QuadraticBezier{V0: v0, V1: v1, V2: v2}
	q.arcLengths = make([]float64, arcDivisions+1)
	prev := q.Point(0)
	for i := 1; i <= arcDivisions; i++ {
		p := q.Point(float64(i) / arcDivisions)
		q.arcLengths[i] = q.arcLengths[i-1] + p.Dist(prev)
		prev = p
	}
	return q
}

// Point evaluates B(t) = (1-t)²V0 + 2(1-t)tV1 + t²V2.
func (q *QuadraticBezier) Point(t float64) Vec3 {
	k := 1 - t
	return q.V0.Scale(k * k).Add(q.V1.Scale(2 * k * t)).Add(q.V2.Scale(t * t))
}

// PointAt evaluates the curve at arc-length fraction u.
func (q *QuadraticBezier) PointAt(u float64) Vec3 {
	return q.Point(q.uToT(u))
}

// TangentAt returns the normalized derivative at arc-length fraction u.
// A vanishing derivative falls back to the chord, then to +X.
func (q *QuadraticBezier) TangentAt(u float64) Vec3 {
	t := q.uToT(u)
	d := q.V1.Sub(q.V0).Scale(2 * (1 - t)).Add(q.V2.Sub(q.V1).Scale(2 * t))
	if d.LenSq() > 0 {
		return d.Normalize()
	}
	return Line{V1: q.V0, V2: q.V2}.TangentAt(u)
}

func (q *QuadraticBezier) Length() float64 { return q.arcLengths[arcDivisions] }

// uToT maps an arc-length fraction to the raw curve parameter.
func (q *QuadraticBezier) uToT(u float64) float64 {
	if u <= 0 {
		return 0
	}
	if u >= 1 {
		return 1
	}
	total := q.Length()
	if total == 0 {
		return u
	}
	target := u * total

	// First index whose cumulative length reaches the target.
	i := sort.SearchFloat64s(q.arcLengths, target)
	if i == 0 {
		return 0
	}
	before := q.arcLengths[i-1]
	segment := q.arcLengths[i] - before
	if segment == 0 {
		return float64(i) / arcDivisions
	}
	return (float64(i-1) + (target-before)/segment) / arcDivisions
}

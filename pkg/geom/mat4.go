package geom

import "math"

// Mat4 is a 4x4 affine transform stored column-major, so elements 12..14
// hold the translation.
type Mat4 [16]float64

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// fromRows builds a matrix from row-major arguments.
func fromRows(
	n11, n12, n13, n14,
	n21, n22, n23, n24,
	n31, n32, n33, n34,
	n41, n42, n43, n44 float64,
) Mat4 {
	return Mat4{
		n11, n21, n31, n41,
		n12, n22, n32, n42,
		n13, n23, n33, n43,
		n14, n24, n34, n44,
	}
}

// Translation returns a pure translation by v.
func Translation(v Vec3) Mat4 {
	m := Identity()
	return m.WithPosition(v)
}

// RotationX returns a rotation of theta radians about the X axis.
func RotationX(theta float64) Mat4 {
	c, s := math.Cos(theta), math.Sin(theta)
	return fromRows(
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	)
}

// RotationAxis returns a rotation of theta radians about the unit vector axis.
func RotationAxis(axis Vec3, theta float64) Mat4 {
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	tx, ty := t*x, t*y
	return fromRows(
		tx*x+c, tx*y-s*z, tx*z+s*y, 0,
		tx*y+s*z, ty*y+c, ty*z-s*x, 0,
		tx*z-s*y, ty*z+s*x, t*z*z+c, 0,
		0, 0, 0, 1,
	)
}

// WithPosition returns m with its translation replaced by v.
func (m Mat4) WithPosition(v Vec3) Mat4 {
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Position returns the translation part of m.
func (m Mat4) Position() Vec3 { return Vec3{m[12], m[13], m[14]} }

// WithLookAt replaces the rotation part of m so that its local +Z axis
// points from target toward eye, using up to fix the roll. Translation is
// left untouched. Degenerate inputs fall back to a nearby valid basis.
func (m Mat4) WithLookAt(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target)
	if z.LenSq() == 0 {
		z.Z = 1
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.LenSq() == 0 {
		// up and z are parallel; nudge z off the axis.
		if math.Abs(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	m[0], m[4], m[8] = x.X, y.X, z.X
	m[1], m[5], m[9] = x.Y, y.Y, z.Y
	m[2], m[6], m[10] = x.Z, y.Z, z.Z
	return m
}

// Mul returns m × o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// MulPoint transforms a point (w=1).
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return Vec3{
		m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// MulDir transforms a direction (w=0), ignoring translation.
func (m Mat4) MulDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// IsFinite reports whether every element is a finite number.
func (m Mat4) IsFinite() bool {
	for _, e := range m {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return false
		}
	}
	return true
}

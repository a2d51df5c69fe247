package geom

import "math"

const frameEpsilon = 1e-6

// Frames holds the Frenet frames sampled along a curve at i/segments.
type Frames struct {
	Tangents  []Vec3
	Normals   []Vec3
	Binormals []Vec3
}

// FrenetFrames samples segments+1 frames along c. The first normal is
// derived from the axis of the smallest tangent component; later normals
// are parallel-transported so the tube does not twist.
func FrenetFrames(c Curve, segments int) Frames {
	n := segments + 1
	f := Frames{
		Tangents:  make([]Vec3, n),
		Normals:   make([]Vec3, n),
		Binormals: make([]Vec3, n),
	}
	for i := 0; i < n; i++ {
		f.Tangents[i] = c.TangentAt(float64(i) / float64(segments))
	}

	t0 := f.Tangents[0]
	vec := t0.Cross(t0.SmallestAxis()).Normalize()
	f.Normals[0] = t0.Cross(vec)
	f.Binormals[0] = t0.Cross(f.Normals[0])

	for i := 1; i < n; i++ {
		f.Normals[i] = f.Normals[i-1]
		axis := f.Tangents[i-1].Cross(f.Tangents[i])
		if axis.Len() > frameEpsilon {
			axis = axis.Normalize()
			cos := clamp(f.Tangents[i-1].Dot(f.Tangents[i]), -1, 1)
			f.Normals[i] = RotationAxis(axis, math.Acos(cos)).MulDir(f.Normals[i])
		}
		f.Binormals[i] = f.Tangents[i].Cross(f.Normals[i])
	}
	return f
}

// BinormalOffset returns the vector perpendicular to the chord from -> to
// that a straight segment's Frenet binormal would give, scaled to length.
// The sign is stable: reversing the chord flips the offset.
func BinormalOffset(from, to Vec3, length float64) Vec3 {
	t := Line{V1: from, V2: to}.TangentAt(0)
	return t.SmallestAxis().Cross(t).SetLength(length)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package geom

import "math"

// Buffer is an indexed triangle mesh ready for upload to a renderer.
type Buffer struct {
	Positions []Vec3
	Normals   []Vec3
	UVs       [][2]float64
	Indices   []uint32
}

// NumTriangles returns the number of indexed triangles.
func (b *Buffer) NumTriangles() int { return len(b.Indices) / 3 }

// Translate moves every vertex by v in place.
func (b *Buffer) Translate(v Vec3) *Buffer {
	for i := range b.Positions {
		b.Positions[i] = b.Positions[i].Add(v)
	}
	return b
}

// RotateX rotates positions and normals about the X axis in place.
func (b *Buffer) RotateX(theta float64) *Buffer {
	return b.ApplyMatrix(RotationX(theta))
}

// ApplyMatrix transforms positions and normals in place. m is assumed to
// have no scale, so normals only need renormalizing.
func (b *Buffer) ApplyMatrix(m Mat4) *Buffer {
	for i := range b.Positions {
		b.Positions[i] = m.MulPoint(b.Positions[i])
	}
	for i := range b.Normals {
		b.Normals[i] = m.MulDir(b.Normals[i]).Normalize()
	}
	return b
}

// Bounds returns the axis-aligned bounding box of the positions.
func (b *Buffer) Bounds() (lo, hi Vec3) {
	if len(b.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = b.Positions[0], b.Positions[0]
	for _, p := range b.Positions[1:] {
		lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

// IsFinite reports whether every position and normal is finite.
func (b *Buffer) IsFinite() bool {
	for _, p := range b.Positions {
		if !p.IsFinite() {
			return false
		}
	}
	for _, n := range b.Normals {
		if !n.IsFinite() {
			return false
		}
	}
	return true
}

func (b *Buffer) face(a, c, d uint32) {
	b.Indices = append(b.Indices, a, c, d)
}

// Tube sweeps a circle of the given radius along path. The ends are open.
func Tube(path Curve, tubularSegments int, radius float64, radialSegments int) *Buffer {
	frames := FrenetFrames(path, tubularSegments)
	ring := radialSegments + 1
	n := (tubularSegments + 1) * ring
	b := &Buffer{
		Positions: make([]Vec3, 0, n),
		Normals:   make([]Vec3, 0, n),
		UVs:       make([][2]float64, 0, n),
		Indices:   make([]uint32, 0, tubularSegments*radialSegments*6),
	}

	for i := 0; i <= tubularSegments; i++ {
		p := path.PointAt(float64(i) / float64(tubularSegments))
		nrm, bin := frames.Normals[i], frames.Binormals[i]
		for j := 0; j <= radialSegments; j++ {
			v := float64(j) / float64(radialSegments) * 2 * math.Pi
			sin, cos := math.Sin(v), -math.Cos(v)
			normal := nrm.Scale(cos).Add(bin.Scale(sin)).Normalize()
			b.Normals = append(b.Normals, normal)
			b.Positions = append(b.Positions, p.Add(normal.Scale(radius)))
			b.UVs = append(b.UVs, [2]float64{
				float64(i) / float64(tubularSegments),
				float64(j) / float64(radialSegments),
			})
		}
	}

	for j := 1; j <= tubularSegments; j++ {
		for i := 1; i <= radialSegments; i++ {
			a := uint32(ring*(j-1) + (i - 1))
			c := uint32(ring*j + (i - 1))
			d := uint32(ring*j + i)
			e := uint32(ring*(j-1) + i)
			b.face(a, c, e)
			b.face(c, d, e)
		}
	}
	return b
}

// Cone builds a closed cone with its apex at +height/2 on the Y axis and
// its base centred at -height/2.
func Cone(radius, height float64, radialSegments int) *Buffer {
	b := &Buffer{}
	half := height / 2
	slope := radius / height

	// Torso: row 0 is the apex ring, row 1 the base ring.
	var rows [2][]uint32
	for y := 0; y <= 1; y++ {
		r := float64(y) * radius
		for x := 0; x <= radialSegments; x++ {
			u := float64(x) / float64(radialSegments)
			theta := u * 2 * math.Pi
			sin, cos := math.Sin(theta), math.Cos(theta)
			rows[y] = append(rows[y], uint32(len(b.Positions)))
			b.Positions = append(b.Positions, Vec3{r * sin, -float64(y)*height + half, r * cos})
			b.Normals = append(b.Normals, Vec3{sin, slope, cos}.Normalize())
			b.UVs = append(b.UVs, [2]float64{u, 1 - float64(y)})
		}
	}
	for x := 0; x < radialSegments; x++ {
		// The apex row has zero radius, so only the lower triangle is kept.
		b.face(rows[1][x], rows[1][x+1], rows[0][x+1])
	}

	// Base cap.
	centerStart := uint32(len(b.Positions))
	for x := 1; x <= radialSegments; x++ {
		b.Positions = append(b.Positions, Vec3{0, -half, 0})
		b.Normals = append(b.Normals, Vec3{0, -1, 0})
		b.UVs = append(b.UVs, [2]float64{0.5, 0.5})
	}
	ringStart := uint32(len(b.Positions))
	for x := 0; x <= radialSegments; x++ {
		theta := float64(x) / float64(radialSegments) * 2 * math.Pi
		sin, cos := math.Sin(theta), math.Cos(theta)
		b.Positions = append(b.Positions, Vec3{radius * sin, -half, radius * cos})
		b.Normals = append(b.Normals, Vec3{0, -1, 0})
		b.UVs = append(b.UVs, [2]float64{cos*0.5 + 0.5, sin*0.5 + 0.5})
	}
	for x := uint32(0); x < uint32(radialSegments); x++ {
		c := centerStart + x
		i := ringStart + x
		b.face(i+1, i, c)
	}
	return b
}

// Sphere builds a UV sphere centred on the origin.
func Sphere(radius float64, widthSegments, heightSegments int) *Buffer {
	b := &Buffer{}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			p := Vec3{
				-radius * math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi),
				radius * math.Cos(v*math.Pi),
				radius * math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi),
			}
			grid[iy] = append(grid[iy], uint32(len(b.Positions)))
			b.Positions = append(b.Positions, p)
			b.Normals = append(b.Normals, p.Normalize())
			b.UVs = append(b.UVs, [2]float64{u, 1 - v})
		}
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			c := grid[iy][ix]
			d := grid[iy+1][ix]
			e := grid[iy+1][ix+1]
			if iy != 0 {
				b.face(a, c, e)
			}
			if iy != heightSegments-1 {
				b.face(c, d, e)
			}
		}
	}
	return b
}

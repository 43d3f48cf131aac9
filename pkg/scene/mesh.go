package scene

import (
	"math"

	"github.com/df07/go-raydiance/pkg/core"
)

// addFace appends a unit square centered at center with outward normal n.
// v runs along the texture V axis; u = n × v completes a basis whose
// counter-clockwise winding faces n.
func addFace(m *Mesh, center, n, v core.Vec3) {
	u := n.Cross(v)
	base := uint32(len(m.Positions))

	corners := []struct{ su, sv float64 }{
		{-0.5, -0.5},
		{-0.5, +0.5},
		{+0.5, +0.5},
		{+0.5, -0.5},
	}
	for _, c := range corners {
		m.Positions = append(m.Positions, center.Add(u.Multiply(c.su)).Add(v.Multiply(c.sv)))
		m.Normals = append(m.Normals, n)
		m.TexCoords = append(m.TexCoords, core.NewVec2(c.su+0.5, c.sv+0.5))
	}
	m.Indices = append(m.Indices, [3]uint32{base, base + 1, base + 2}, [3]uint32{base, base + 2, base + 3})
}

// Quad creates a unit square in the XZ plane centered at the origin, facing +Y
func Quad() *Mesh {
	m := &Mesh{Name: "quad"}
	addFace(m, core.Vec3{}, core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1))
	return m
}

// Cube creates a unit cube centered at the origin with flat, outward-facing normals
func Cube() *Mesh {
	m := &Mesh{Name: "cube"}
	faces := []struct{ n, v core.Vec3 }{
		{core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)},  // Top
		{core.NewVec3(0, -1, 0), core.NewVec3(0, 0, 1)}, // Bottom
		{core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},  // Right
		{core.NewVec3(-1, 0, 0), core.NewVec3(0, 1, 0)}, // Left
		{core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)},  // Front
		{core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)}, // Back
	}
	for _, f := range faces {
		addFace(m, f.n.Multiply(0.5), f.n, f.v)
	}
	return m
}

// Triangle creates a single triangle in the XY plane facing +Z, with vertices
// (-1,-1,0), (1,-1,0) and (0,1,0)
func Triangle() *Mesh {
	n := core.NewVec3(0, 0, 1)
	return &Mesh{
		Name:      "triangle",
		Positions: []core.Vec3{core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0)},
		Normals:   []core.Vec3{n, n, n},
		TexCoords: []core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0.5, 1)},
		Indices:   [][3]uint32{{0, 1, 2}},
	}
}

// UVSphere creates a unit sphere centered at the origin with smooth normals.
// segments divides longitude, rings divides latitude.
func UVSphere(segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	m := &Mesh{Name: "uv-sphere"}
	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			p := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
			m.Positions = append(m.Positions, p)
			m.Normals = append(m.Normals, p)
			m.TexCoords = append(m.TexCoords, core.NewVec2(float64(s)/float64(segments), 1-float64(r)/float64(rings)))
		}
	}

	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			// Skip the zero-area triangles that touch the poles
			if r > 0 {
				m.Indices = append(m.Indices, [3]uint32{a, a + 1, b})
			}
			if r < rings-1 {
				m.Indices = append(m.Indices, [3]uint32{a + 1, b + 1, b})
			}
		}
	}
	return m
}

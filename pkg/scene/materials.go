package scene

import (
	"math"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewMaterialsScene creates a grid of spheres: roughness increases along X,
// rows are dielectric, metallic and sheen-coated dielectric
func NewMaterialsScene() *Scene {
	s := New("materials")
	s.SkyModel = "gradient"
	s.Camera = Camera{
		Position: core.NewVec3(0, 4, 10),
		LookAt:   core.NewVec3(0, 0.8, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}

	ground := s.AddMaterial(material.NewLambertian("ground", core.NewVec3(0.5, 0.5, 0.5)))
	s.AddInstance(s.AddMesh(Quad()), ground, place(core.Vec3{}, 0, core.NewVec3(30, 1, 30)))

	sphere := s.AddMesh(UVSphere(48, 24))

	const columns = 5
	const radius = 0.5
	spacing := 1.3

	rows := []struct {
		name     string
		metallic float64
		sheen    float64
	}{
		{"dielectric", 0, 0},
		{"metal", 1, 0},
		{"sheen", 0, 1},
	}

	for row, r := range rows {
		for col := 0; col < columns; col++ {
			roughness := float64(col) / float64(columns-1)
			hue := float64(col) / float64(columns) * 360.0
			color := oklchToRGB(0.7, 0.15, hue)

			m := material.NewDisney(r.name, color, r.metallic, roughness)
			m.Sheen = r.sheen
			mat := s.AddMaterial(m)

			x := (float64(col) - float64(columns-1)/2) * spacing
			z := -float64(row) * spacing
			s.AddInstance(sphere, mat, place(core.NewVec3(x, radius, z), 0, core.Splat(radius)))
		}
	}

	return s
}

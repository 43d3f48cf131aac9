package scene

import (
	"math"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
)

// NewMirrorScene creates a perfect mirror floor (metallic, zero roughness)
// under the sun-glow sky, with a diffuse cube and a rough gold sphere on it
func NewMirrorScene() *Scene {
	s := New("mirror")
	s.SkyModel = "sunglow"
	s.Camera = Camera{
		Position: core.NewVec3(0, 1.5, 5),
		LookAt:   core.NewVec3(0, 0.5, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45,
	}

	mirror := s.AddMaterial(material.NewDisney("mirror", core.NewVec3(0.95, 0.95, 0.95), 1, 0))
	red := s.AddMaterial(material.NewLambertian("red", core.NewVec3(0.65, 0.25, 0.2)))
	gold := s.AddMaterial(material.NewDisney("gold", core.NewVec3(0.8, 0.6, 0.2), 1, 0.3))

	s.AddInstance(s.AddMesh(Quad()), mirror, place(core.Vec3{}, 0, core.NewVec3(10, 1, 10)))
	s.AddInstance(s.AddMesh(Cube()), red, place(core.NewVec3(-0.8, 0.5, 0), math.Pi/6, core.Splat(1)))
	s.AddInstance(s.AddMesh(UVSphere(48, 24)), gold, place(core.NewVec3(0.9, 0.6, 0.3), 0, core.Splat(0.6)))

	return s
}

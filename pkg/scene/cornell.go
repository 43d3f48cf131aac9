package scene

import (
	"math"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/go-gl/mathgl/mgl64"
)

// NewCornellScene creates a Cornell box built from quads with its ceiling and
// front removed, so the sky is the only light source
func NewCornellScene() *Scene {
	s := New("cornell")
	s.SkyModel = "sunglow"

	// Cornell box dimensions (the classic 555 units, in meters)
	boxSize := 5.55
	half := boxSize / 2

	s.Camera = Camera{
		Position: core.NewVec3(half, half, -8), // Outside the box looking in
		LookAt:   core.NewVec3(half, half, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}

	white := s.AddMaterial(material.NewLambertian("white", core.NewVec3(0.73, 0.73, 0.73)))
	red := s.AddMaterial(material.NewLambertian("red", core.NewVec3(0.65, 0.05, 0.05)))
	green := s.AddMaterial(material.NewLambertian("green", core.NewVec3(0.12, 0.45, 0.15)))

	steel := material.NewDisney("steel", core.NewVec3(0.8, 0.8, 0.9), 1, 0.2)
	metal := s.AddMaterial(steel)

	velvet := material.NewDisney("velvet", core.NewVec3(0.7, 0.7, 0.65), 0, 0.6)
	velvet.Sheen = 0.8
	velvet.SheenTint = 0.5
	cloth := s.AddMaterial(velvet)

	quad := s.AddMesh(Quad())
	wallScale := mgl64.Scale3D(boxSize, 1, boxSize)

	// Floor (white), XZ plane at y=0 facing up
	s.AddInstance(quad, white, mgl64.Translate3D(half, 0, half).Mul4(wallScale))

	// Back wall (white), XY plane at z=boxSize facing -Z
	s.AddInstance(quad, white, mgl64.Translate3D(half, half, boxSize).
		Mul4(mgl64.HomogRotate3DX(-math.Pi/2)).Mul4(wallScale))

	// Left wall (red), YZ plane at x=0 facing +X
	s.AddInstance(quad, red, mgl64.Translate3D(0, half, half).
		Mul4(mgl64.HomogRotate3DZ(-math.Pi/2)).Mul4(wallScale))

	// Right wall (green), YZ plane at x=boxSize facing -X
	s.AddInstance(quad, green, mgl64.Translate3D(boxSize, half, half).
		Mul4(mgl64.HomogRotate3DZ(math.Pi/2)).Mul4(wallScale))

	// Tall metal block at the back left, short cloth block at the front right
	cube := s.AddMesh(Cube())
	s.AddInstance(cube, metal, place(core.NewVec3(1.85, 1.65, 3.5), mgl64.DegToRad(15), core.NewVec3(1.65, 3.3, 1.65)))
	s.AddInstance(cube, cloth, place(core.NewVec3(3.7, 0.825, 1.7), mgl64.DegToRad(-18), core.NewVec3(1.65, 1.65, 1.65)))

	return s
}

package scene

import (
	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
)

// NewCheckerboardTexture creates a checkerboard pattern with squares of checkSize pixels
func NewCheckerboardTexture(name string, width, height, checkSize int, color1, color2 core.Vec3) *material.Texture {
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/checkSize+y/checkSize)%2 == 0 {
				pixels[y*width+x] = color1
			} else {
				pixels[y*width+x] = color2
			}
		}
	}
	return material.NewTexture(name, width, height, pixels)
}

// NewTexturedScene creates a row of textured meshes on a checkerboard ground.
// The floor alternates polished metal and rough dielectric squares through
// its metallic-roughness texture.
func NewTexturedScene() *Scene {
	s := New("textured")
	s.SkyModel = "gradient"
	s.Camera = Camera{
		Position: core.NewVec3(0, 2, 8),
		LookAt:   core.NewVec3(0, 0.8, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45,
	}

	checker := s.AddTexture(NewCheckerboardTexture("checker", 256, 256, 32,
		core.NewVec3(0.9, 0.9, 0.9), // White
		core.NewVec3(0.2, 0.2, 0.8), // Blue
	))
	// Green scales roughness, blue scales metallic
	metalRough := s.AddTexture(NewCheckerboardTexture("metal-rough", 64, 64, 8,
		core.NewVec3(0, 0.05, 1), // Polished metal
		core.NewVec3(0, 1, 0),    // Rough dielectric
	))

	floor := material.NewDisney("floor", core.NewVec3(1, 1, 1), 1, 1)
	floor.BaseColorTexture = checker
	floor.MetallicRoughnessTexture = metalRough
	floorMat := s.AddMaterial(floor)

	wrapped := material.NewLambertian("wrapped", core.NewVec3(1, 1, 1))
	wrapped.BaseColorTexture = checker
	wrappedMat := s.AddMaterial(wrapped)

	s.AddInstance(s.AddMesh(Quad()), floorMat, place(core.Vec3{}, 0, core.NewVec3(12, 1, 12)))
	s.AddInstance(s.AddMesh(UVSphere(48, 24)), wrappedMat, place(core.NewVec3(-1.5, 1, 0), 0, core.Splat(1)))
	s.AddInstance(s.AddMesh(Cube()), wrappedMat, place(core.NewVec3(1.5, 0.75, 0), 0.5, core.Splat(1.5)))

	return s
}

package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/sky"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidScene wraps every reference-integrity or range violation found by Validate
var ErrInvalidScene = errors.New("scene: invalid scene")

// ErrUnknownScene is returned by Builtin for an unregistered name
var ErrUnknownScene = errors.New("scene: unknown scene")

// Mesh is an indexed triangle mesh in object space. Normals and TexCoords are
// optional; when present they hold one entry per position.
type Mesh struct {
	Name      string
	Positions []core.Vec3
	Normals   []core.Vec3
	TexCoords []core.Vec2
	Indices   [][3]uint32
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Indices)
}

// Validate checks attribute lengths and index bounds
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if m.Normals != nil && len(m.Normals) != n {
		return fmt.Errorf("mesh %q: %d normals for %d positions", m.Name, len(m.Normals), n)
	}
	if m.TexCoords != nil && len(m.TexCoords) != n {
		return fmt.Errorf("mesh %q: %d texcoords for %d positions", m.Name, len(m.TexCoords), n)
	}
	for i, p := range m.Positions {
		if !p.IsFinite() {
			return fmt.Errorf("mesh %q: position %d is not finite", m.Name, i)
		}
	}
	for i, tri := range m.Indices {
		for _, idx := range tri {
			if int(idx) >= n {
				return fmt.Errorf("mesh %q: triangle %d references vertex %d (have %d)", m.Name, i, idx, n)
			}
		}
	}
	return nil
}

// Instance places a mesh in the world with a material. Transform maps object
// space to world space and must be affine and invertible.
type Instance struct {
	Mesh      int
	Material  int
	Transform mgl64.Mat4
}

// Camera describes a pinhole camera
type Camera struct {
	Position core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	VFov     float64 // Vertical field of view in degrees
}

// Validate rejects cameras that cannot form a view basis
func (c Camera) Validate() error {
	forward := c.LookAt.Subtract(c.Position)
	if forward.Length() == 0 {
		return errors.New("camera position equals look-at target")
	}
	if forward.Normalize().Cross(c.Up.Normalize()).Length() < 1e-9 {
		return errors.New("camera up vector is parallel to the view direction")
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return fmt.Errorf("camera vertical field of view %v outside (0, 180)", c.VFov)
	}
	return nil
}

// Scene contains all the elements needed for rendering. It is treated as
// read-only once a renderer has been built from it.
type Scene struct {
	Name      string
	Meshes    []*Mesh
	Instances []Instance
	Materials []material.Material
	Textures  []*material.Texture
	Camera    Camera
	Sky       sky.Params
	SkyModel  string // Name accepted by sky.Lookup
}

// New creates an empty scene with a default camera and sky
func New(name string) *Scene {
	return &Scene{
		Name: name,
		Camera: Camera{
			Position: core.NewVec3(0, 0, 3),
			LookAt:   core.NewVec3(0, 0, 0),
			Up:       core.NewVec3(0, 1, 0),
			VFov:     40,
		},
		Sky:      sky.DefaultParams(),
		SkyModel: "sunglow",
	}
}

// AddMesh appends a mesh and returns its index
func (s *Scene) AddMesh(m *Mesh) int {
	s.Meshes = append(s.Meshes, m)
	return len(s.Meshes) - 1
}

// AddMaterial appends a material and returns its index
func (s *Scene) AddMaterial(m material.Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddTexture appends a texture and returns its index
func (s *Scene) AddTexture(t *material.Texture) int {
	s.Textures = append(s.Textures, t)
	return len(s.Textures) - 1
}

// AddInstance places mesh with material under transform
func (s *Scene) AddInstance(mesh, mat int, transform mgl64.Mat4) {
	s.Instances = append(s.Instances, Instance{Mesh: mesh, Material: mat, Transform: transform})
}

// TriangleCount returns the total number of world-space triangles
func (s *Scene) TriangleCount() int {
	count := 0
	for _, inst := range s.Instances {
		if inst.Mesh >= 0 && inst.Mesh < len(s.Meshes) {
			count += s.Meshes[inst.Mesh].TriangleCount()
		}
	}
	return count
}

// ApplyBaseColorTexture adds t to the scene and makes it the base color
// texture of every material
func (s *Scene) ApplyBaseColorTexture(t *material.Texture) {
	idx := s.AddTexture(t)
	for i := range s.Materials {
		s.Materials[i].BaseColorTexture = idx
	}
}

// Validate checks reference integrity and parameter ranges across the scene
func (s *Scene) Validate() error {
	for i, t := range s.Textures {
		if t == nil || !t.Valid() {
			return fmt.Errorf("%w: texture %d has no valid pixel data", ErrInvalidScene, i)
		}
	}
	for _, m := range s.Materials {
		if err := m.Validate(len(s.Textures)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
	}
	for i, m := range s.Meshes {
		if m == nil {
			return fmt.Errorf("%w: mesh %d is nil", ErrInvalidScene, i)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
	}
	for i, inst := range s.Instances {
		if inst.Mesh < 0 || inst.Mesh >= len(s.Meshes) {
			return fmt.Errorf("%w: instance %d references mesh %d (have %d)", ErrInvalidScene, i, inst.Mesh, len(s.Meshes))
		}
		if inst.Material < 0 || inst.Material >= len(s.Materials) {
			return fmt.Errorf("%w: instance %d references material %d (have %d)", ErrInvalidScene, i, inst.Material, len(s.Materials))
		}
		if err := validateTransform(inst.Transform); err != nil {
			return fmt.Errorf("%w: instance %d: %v", ErrInvalidScene, i, err)
		}
	}
	if err := s.Camera.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.Sky.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return nil
}

func validateTransform(m mgl64.Mat4) error {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("transform is not finite")
		}
	}
	if m.Row(3) != (mgl64.Vec4{0, 0, 0, 1}) {
		return errors.New("transform is not affine")
	}
	if math.Abs(m.Mat3().Det()) < 1e-12 {
		return errors.New("transform is not invertible")
	}
	return nil
}

package renderer

import (
	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	cameraNear = 0.01
	cameraFar  = 1000.0
)

// Camera generates primary rays through the pixels of a fixed-size image
type Camera struct {
	origin        core.Vec3
	worldFromClip mgl64.Mat4
	width, height float64
}

// NewCamera creates a pinhole camera for an image of width x height pixels
func NewCamera(c scene.Camera, width, height int) *Camera {
	aspect := float64(width) / float64(height)
	projection := mgl64.Perspective(mgl64.DegToRad(c.VFov), aspect, cameraNear, cameraFar)
	view := mgl64.LookAtV(toMgl(c.Position), toMgl(c.LookAt), toMgl(c.Up))

	return &Camera{
		origin:        c.Position,
		worldFromClip: projection.Mul4(view).Inv(),
		width:         float64(width),
		height:        float64(height),
	}
}

// GetRay returns the ray through pixel (x, y) offset by jitter in [0,1)².
// Row 0 is the top of the image.
func (c *Camera) GetRay(x, y int, jitter core.Vec2) core.Ray {
	ndcX := 2*(float64(x)+jitter.X)/c.width - 1
	ndcY := 1 - 2*(float64(y)+jitter.Y)/c.height

	// Every point with these NDC coordinates lies on the ray through the eye
	target := mgl64.TransformCoordinate(mgl64.Vec3{ndcX, ndcY, 1}, c.worldFromClip)
	direction := core.NewVec3(target[0], target[1], target[2]).Subtract(c.origin).Normalize()
	return core.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

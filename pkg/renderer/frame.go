package renderer

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// Frame is a snapshot of the accumulated image: the average linear HDR
// radiance per pixel, plus first-hit normals and texcoords when aux buffers
// are enabled. It does not alias the renderer's accumulator.
type Frame struct {
	Width     int
	Height    int
	Radiance  []f32.Vec3 // Row-major, row 0 at the top
	Normals   []f32.Vec3 // nil without aux buffers
	TexCoords []f32.Vec2 // nil without aux buffers

	SampleCount int // Samples accumulated in every pixel
	Pass        int // Passes since the last reset
}

// At returns the radiance of pixel (x, y)
func (f *Frame) At(x, y int) (f32.Vec3, error) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return f32.Vec3{}, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrPixelOutOfRange, x, y, f.Width, f.Height)
	}
	return f.Radiance[y*f.Width+x], nil
}

// newFrame copies the averages out of fb
func newFrame(fb *FrameBuffer, aux bool, pass int) *Frame {
	n := len(fb.Pixels)
	frame := &Frame{
		Width:    fb.Width,
		Height:   fb.Height,
		Radiance: make([]f32.Vec3, n),
		Pass:     pass,
	}
	if aux {
		frame.Normals = make([]f32.Vec3, n)
		frame.TexCoords = make([]f32.Vec2, n)
	}

	frame.SampleCount = fb.Stats().MinSamples
	for i := range fb.Pixels {
		ps := &fb.Pixels[i]
		c := ps.GetColor()
		frame.Radiance[i] = f32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
		if aux {
			n := ps.GetNormal()
			uv := ps.GetTexCoord()
			frame.Normals[i] = f32.Vec3{float32(n.X), float32(n.Y), float32(n.Z)}
			frame.TexCoords[i] = f32.Vec2{float32(uv.X), float32(uv.Y)}
		}
	}
	return frame
}

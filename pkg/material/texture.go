package material

import (
	"math"

	"github.com/df07/go-raydiance/pkg/core"
)

// Texture is an RGB image sampled with nearest-neighbor filtering
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewTexture creates a new texture
func NewTexture(name string, width, height int, pixels []core.Vec3) *Texture {
	return &Texture{
		Name:   name,
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// NewSolidTexture creates a 1x1 texture of a single color
func NewSolidTexture(name string, color core.Vec3) *Texture {
	return NewTexture(name, 1, 1, []core.Vec3{color})
}

// Evaluate samples the texture at uv. UVs wrap; V=0 is the bottom row of the image.
func (t *Texture) Evaluate(uv core.Vec2) core.Vec3 {
	u := uv.X - math.Floor(uv.X)
	v := uv.Y - math.Floor(uv.Y)

	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)

	return t.Pixels[y*t.Width+x]
}

// Valid reports whether the pixel buffer matches the declared size
func (t *Texture) Valid() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) == t.Width*t.Height
}

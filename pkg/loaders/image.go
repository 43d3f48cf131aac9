package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
)

// ColorSpace selects how 8/16-bit image values map to linear texture values
type ColorSpace int

const (
	// SRGB decodes the sRGB transfer curve; use for base color images
	SRGB ColorSpace = iota
	// Linear keeps the stored values; use for data such as metallic-roughness
	Linear
)

// String returns the color space name
func (c ColorSpace) String() string {
	switch c {
	case SRGB:
		return "srgb"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("ColorSpace(%d)", int(c))
	}
}

// ParseColorSpace parses "srgb" or "linear"
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(s) {
	case "srgb":
		return SRGB, nil
	case "linear":
		return Linear, nil
	}
	return 0, fmt.Errorf("unknown color space %q (expected srgb or linear)", s)
}

// LoadTexture loads a PNG, JPEG, BMP, TIFF or WebP image as a texture named
// after the file
func LoadTexture(filename string, space ColorSpace) (*material.Texture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is detected from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return ImageToTexture(name, img, space), nil
}

// ImageToTexture converts a decoded image to a texture, row-major from the top
func ImageToTexture(name string, img image.Image, space ColorSpace) *material.Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	decode := func(c uint32) float64 {
		// RGBA returns values in [0, 65535]
		v := float64(c) / 65535.0
		if space == SRGB {
			return srgbToLinear(v)
		}
		return v
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewVec3(decode(r), decode(g), decode(b))
		}
	}

	return material.NewTexture(name, width, height, pixels)
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

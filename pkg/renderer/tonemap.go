package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/math/f32"
)

// Exposure scales radiance by 1/2^stops before tonemapping
func Exposure(stops float64) float64 {
	return 1.0 / math.Exp2(stops)
}

// aces is the fitted ACES filmic curve (Narkowicz 2015), clamped to [0,1]
func aces(x float64) float64 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	x = max(0, x)
	return min(1, (x*(a*x+b))/(x*(c*x+d)+e))
}

// Tonemap maps linear radiance to display-referred linear values in [0,1]
func Tonemap(radiance f32.Vec3, stops float64) f32.Vec3 {
	scale := Exposure(stops)
	var out f32.Vec3
	for i, v := range radiance {
		x := float64(v) * scale
		if math.IsNaN(x) {
			x = 0
		}
		out[i] = float32(aces(x))
	}
	return out
}

// linearToSRGB8 applies the sRGB transfer curve and quantizes
func linearToSRGB8(v float32) uint8 {
	x := float64(v)
	if x <= 0.0031308 {
		x *= 12.92
	} else {
		x = 1.055*math.Pow(x, 1/2.4) - 0.055
	}
	return uint8(math.Round(min(1, max(0, x)) * 255))
}

// ToImage tonemaps the frame's radiance into an 8-bit sRGB image
func ToImage(frame *Frame, stops float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			c := Tonemap(frame.Radiance[y*frame.Width+x], stops)
			img.SetRGBA(x, y, color.RGBA{
				R: linearToSRGB8(c[0]),
				G: linearToSRGB8(c[1]),
				B: linearToSRGB8(c[2]),
				A: 255,
			})
		}
	}
	return img
}

// AuxImage encodes the frame's normal buffer as 0.5·n + 0.5, without tonemapping
func AuxImage(frame *Frame) (*image.RGBA, error) {
	if frame.Normals == nil {
		return nil, fmt.Errorf("renderer: frame has no aux buffers")
	}
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	encode := func(v float32) uint8 {
		return uint8(math.Round(min(1, max(0, 0.5*float64(v)+0.5)) * 255))
	}
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			n := frame.Normals[y*frame.Width+x]
			img.SetRGBA(x, y, color.RGBA{R: encode(n[0]), G: encode(n[1]), B: encode(n[2]), A: 255})
		}
	}
	return img, nil
}

// SavePNG writes img to path
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("renderer: creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("renderer: encoding %s: %w", path, err)
	}
	return f.Close()
}

// CalculateAverageLuminance returns the mean BT.709 luminance of an 8-bit image
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}

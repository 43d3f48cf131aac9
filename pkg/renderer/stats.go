package renderer

import (
	"time"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/integrator"
)

// RenderStats contains statistics about the accumulated image and the last pass
type RenderStats struct {
	Pass           int     // Passes since the last reset
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
	InvalidSamples int     // Samples whose non-finite estimate was dropped

	// Traversal counters of the last pass
	Rays          uint64
	BoxTests      uint64
	BoxHits       uint64
	TriangleTests uint64
	TriangleHits  uint64

	PassTime time.Duration
}

// addTraversal accumulates BVH traversal counters
func (s *RenderStats) addTraversal(t core.TraversalStats) {
	s.Rays += t.Rays
	s.BoxTests += t.BoxTests
	s.BoxHits += t.BoxHits
	s.TriangleTests += t.PrimitiveTests
	s.TriangleHits += t.PrimitiveHits
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
	InvalidCount     int       // Samples replaced by zero

	NormalAccum   core.Vec3 // First-hit normals, when aux buffers are enabled
	TexCoordAccum core.Vec2
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// AddResult adds an integrator result, optionally accumulating its aux data
func (ps *PixelStats) AddResult(r integrator.Result, aux bool) {
	ps.AddSample(r.Radiance)
	if !r.Valid {
		ps.InvalidCount++
	}
	if aux {
		ps.NormalAccum = ps.NormalAccum.Add(r.Normal)
		ps.TexCoordAccum = ps.TexCoordAccum.Add(r.TexCoord)
	}
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// GetNormal returns the average first-hit normal, renormalized
func (ps *PixelStats) GetNormal() core.Vec3 {
	if ps.NormalAccum.LengthSquared() == 0 {
		return core.Vec3{}
	}
	return ps.NormalAccum.Normalize()
}

// GetTexCoord returns the average first-hit texture coordinates
func (ps *PixelStats) GetTexCoord() core.Vec2 {
	if ps.SampleCount == 0 {
		return core.Vec2{}
	}
	return ps.TexCoordAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the sample variance of the pixel's luminance
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return max(0, (ps.LuminanceSqAccum-n*mean*mean)/(n-1))
}

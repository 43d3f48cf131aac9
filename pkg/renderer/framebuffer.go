package renderer

import (
	"fmt"
	"image"
)

// FrameBuffer accumulates per-pixel sample sums. Workers write disjoint tiles
// of it during a pass; nothing else touches it until the pass has finished.
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []PixelStats // Row-major
}

// NewFrameBuffer creates an empty accumulator
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]PixelStats, width*height),
	}
}

// Reset discards every accumulated sample
func (fb *FrameBuffer) Reset() {
	clear(fb.Pixels)
}

// At returns the statistics of pixel (x, y)
func (fb *FrameBuffer) At(x, y int) (PixelStats, error) {
	if !image.Pt(x, y).In(fb.bounds()) {
		return PixelStats{}, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrPixelOutOfRange, x, y, fb.Width, fb.Height)
	}
	return fb.Pixels[y*fb.Width+x], nil
}

func (fb *FrameBuffer) bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// pixel returns the accumulator of (x, y) for in-place updates
func (fb *FrameBuffer) pixel(x, y int) *PixelStats {
	return &fb.Pixels[y*fb.Width+x]
}

// Stats summarizes sample counts across the buffer
func (fb *FrameBuffer) Stats() RenderStats {
	stats := RenderStats{TotalPixels: len(fb.Pixels)}
	if len(fb.Pixels) == 0 {
		return stats
	}

	stats.MinSamples = fb.Pixels[0].SampleCount
	for i := range fb.Pixels {
		ps := &fb.Pixels[i]
		stats.TotalSamples += ps.SampleCount
		stats.InvalidSamples += ps.InvalidCount
		stats.MinSamples = min(stats.MinSamples, ps.SampleCount)
		stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, ps.SampleCount)
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

package material

import (
	"testing"

	"github.com/df07/go-raydiance/pkg/core"
)

// TestTextureEvaluate tests basic texture sampling
func TestTextureEvaluate(t *testing.T) {
	// 2x2 checkerboard:
	//   white black
	//   black white
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	texture := NewTexture("checker", 2, 2, []core.Vec3{white, black, black, white})

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		// V is flipped: v near 0 reads the bottom image row
		{"bottom-left", core.NewVec2(0.1, 0.1), black},
		{"bottom-right", core.NewVec2(0.9, 0.1), white},
		{"top-left", core.NewVec2(0.1, 0.9), white},
		{"top-right", core.NewVec2(0.9, 0.9), black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := texture.Evaluate(tt.uv); got != tt.expected {
				t.Errorf("UV%v: expected %v, got %v", tt.uv, tt.expected, got)
			}
		})
	}
}

// TestTextureWrapping tests UV wrapping behavior
func TestTextureWrapping(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	texture := NewSolidTexture("red", red)

	for _, uv := range []core.Vec2{
		core.NewVec2(0.5, 0.5),
		core.NewVec2(1.5, 0.5),
		core.NewVec2(0.5, 1.5),
		core.NewVec2(-0.5, -0.5),
		core.NewVec2(2.3, 3.7),
		core.NewVec2(1, 1),
	} {
		if got := texture.Evaluate(uv); got != red {
			t.Errorf("UV%v: expected %v, got %v", uv, red, got)
		}
	}

	// A 4-wide texture must repeat with period 1 in u
	pixels := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(3, 0, 0)}
	strip := NewTexture("strip", 4, 1, pixels)
	if a, b := strip.Evaluate(core.NewVec2(0.3, 0.5)), strip.Evaluate(core.NewVec2(-0.7, 0.5)); a != b {
		t.Errorf("Negative wrap mismatch: %v vs %v", a, b)
	}
}

// TestTextureSampling tests that sampling selects correct pixels
func TestTextureSampling(t *testing.T) {
	pixels := make([]core.Vec3, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			val := float64(y*4+x) / 15.0
			pixels[y*4+x] = core.NewVec3(val, val, val)
		}
	}
	texture := NewTexture("gradient", 4, 4, pixels)

	if got := texture.Evaluate(core.NewVec2(0.125, 0.875)); got != pixels[0] {
		t.Errorf("Sample top-left: expected %v, got %v", pixels[0], got)
	}
	if got := texture.Evaluate(core.NewVec2(0.875, 0.125)); got != pixels[15] {
		t.Errorf("Sample bottom-right: expected %v, got %v", pixels[15], got)
	}
}

func TestTextureValid(t *testing.T) {
	if !NewSolidTexture("ok", core.NewVec3(1, 1, 1)).Valid() {
		t.Error("Solid texture should be valid")
	}
	if NewTexture("short", 2, 2, make([]core.Vec3, 3)).Valid() {
		t.Error("Texture with missing pixels should be invalid")
	}
	if NewTexture("empty", 0, 0, nil).Valid() {
		t.Error("Empty texture should be invalid")
	}
}

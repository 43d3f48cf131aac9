package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/scene"
)

func TestCamera_GetRay(t *testing.T) {
	c := NewCamera(scene.Camera{
		Position: core.NewVec3(0, 0, 3),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}, 200, 100)

	tests := []struct {
		name     string
		x, y     int
		jitter   core.Vec2
		expected core.Vec3
	}{
		{"center", 100, 50, core.Vec2{}, core.NewVec3(0, 0, -1)},
		{"top edge", 100, 0, core.Vec2{}, core.NewVec3(0, math.Sin(math.Pi/9), -math.Cos(math.Pi/9))},
		{"bottom edge", 99, 99, core.NewVec2(1, 1), core.NewVec3(0, -math.Sin(math.Pi/9), -math.Cos(math.Pi/9))},
		{"left edge", 0, 50, core.Vec2{}, core.NewVec3(-2*math.Tan(math.Pi/9), 0, -1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := c.GetRay(tt.x, tt.y, tt.jitter)
			if ray.Origin != core.NewVec3(0, 0, 3) {
				t.Errorf("Origin = %v, expected the eye position", ray.Origin)
			}
			if ray.Direction.Subtract(tt.expected).Length() > 1e-6 {
				t.Errorf("Direction = %v, expected %v", ray.Direction, tt.expected)
			}
		})
	}

	if c.Origin() != core.NewVec3(0, 0, 3) {
		t.Errorf("Origin() = %v", c.Origin())
	}
}

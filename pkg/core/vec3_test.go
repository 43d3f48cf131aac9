package core

import (
	"math"
	"testing"
)

func TestVec3_Operations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Lerp", a.Lerp(b, 0.5), NewVec3(2.5, -1.5, 4.5)},
		{"Min", a.Min(b), NewVec3(1, -5, 3)},
		{"Max", a.Max(b), NewVec3(4, 2, 6)},
		{"Clamp", b.Clamp(0, 5), NewVec3(4, 0, 5)},
		{"Normalize zero", Vec3{}.Normalize(), Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_Luminance(t *testing.T) {
	if l := NewVec3(1, 1, 1).Luminance(); math.Abs(l-1) > 1e-12 {
		t.Errorf("White luminance should be 1, got %f", l)
	}
	if l := NewVec3(0, 1, 0).Luminance(); math.Abs(l-0.7152) > 1e-12 {
		t.Errorf("Green luminance should be 0.7152, got %f", l)
	}
}

func TestVec3_IsFinite(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected bool
	}{
		{NewVec3(1, 2, 3), true},
		{NewVec3(math.NaN(), 0, 0), false},
		{NewVec3(0, math.Inf(1), 0), false},
		{NewVec3(0, 0, math.Inf(-1)), false},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.expected {
			t.Errorf("IsFinite(%v) = %v, expected %v", tt.v, got, tt.expected)
		}
	}
}

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		tMax     float64
		expected bool
	}{
		{"straight through", NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)), math.Inf(1), true},
		{"parallel inside slab", NewRay(NewVec3(-5, 0.5, 0.5), NewVec3(1, 0, 0)), math.Inf(1), true},
		{"parallel outside slab", NewRay(NewVec3(-5, 2, 0), NewVec3(1, 0, 0)), math.Inf(1), false},
		{"behind origin", NewRay(NewVec3(5, 0, 0), NewVec3(1, 0, 0)), math.Inf(1), false},
		{"interval too short", NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)), 3, false},
		{"origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(0, 1, 0)), math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0, tt.tMax); got != tt.expected {
				t.Errorf("Hit = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestAABB_UnionAndContains(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(2, -1, 0), NewVec3(3, 0, 4))

	union := EmptyAABB().Union(a).Union(b)
	if union != NewAABB(NewVec3(0, -1, 0), NewVec3(3, 1, 4)) {
		t.Errorf("Unexpected union %v", union)
	}
	if !union.Contains(a) || !union.Contains(b) {
		t.Error("Union must contain both inputs")
	}
	if a.Contains(union) {
		t.Error("Smaller box cannot contain the union")
	}
	if EmptyAABB().IsValid() {
		t.Error("Empty box should be invalid")
	}
	if got := union.LongestAxis(); got != 2 {
		t.Errorf("Expected longest axis Z (2), got %d", got)
	}
}

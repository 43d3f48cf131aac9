package scene

import (
	"errors"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"dragon_gold", "Dragon Gold"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestBuiltinScenesValidate(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			if err != nil {
				t.Fatalf("Builtin(%q) error: %v", name, err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Built-in scene %q does not validate: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Scene name = %q, want %q", s.Name, name)
			}
			if Describe(name) == "" {
				t.Errorf("Scene %q has no description", name)
			}
		})
	}
}

func TestBuiltinReturnsFreshCopies(t *testing.T) {
	a, _ := Builtin("triangle")
	b, _ := Builtin("triangle")
	a.Materials[0].Roughness = 0.9
	if b.Materials[0].Roughness == 0.9 {
		t.Error("Builtin scenes share material storage")
	}
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("dragon")
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
	if Describe("dragon") != "" {
		t.Error("Describe should return an empty string for unknown scenes")
	}
}

func TestReferenceScenes(t *testing.T) {
	empty, _ := Builtin("empty")
	if empty.TriangleCount() != 0 || len(empty.Instances) != 0 {
		t.Errorf("Empty scene has %d triangles", empty.TriangleCount())
	}

	tri, _ := Builtin("triangle")
	if tri.TriangleCount() != 1 {
		t.Errorf("Triangle scene has %d triangles, want 1", tri.TriangleCount())
	}
	if tri.SkyModel != "uniform" {
		t.Errorf("Triangle scene sky = %q, want uniform", tri.SkyModel)
	}
}

func TestListGroups(t *testing.T) {
	groups := ListGroups()
	if len(groups) == 0 {
		t.Fatal("ListGroups() returned no groups")
	}

	seen := make(map[string]bool)
	for i, group := range groups {
		if group.Name == "" {
			t.Error("Found group with empty name")
		}
		if i > 0 && groups[i-1].Name >= group.Name {
			t.Errorf("Groups not sorted: %q before %q", groups[i-1].Name, group.Name)
		}
		for _, info := range group.Scenes {
			if info.DisplayName == "" {
				t.Errorf("Scene %q has empty DisplayName", info.ID)
			}
			if info.Group != group.Name {
				t.Errorf("Scene %q listed under %q but belongs to %q", info.ID, group.Name, info.Group)
			}
			seen[info.ID] = true
		}
	}

	for _, name := range Names() {
		if !seen[name] {
			t.Errorf("Scene %q missing from groups", name)
		}
	}
}

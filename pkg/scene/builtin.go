package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/go-gl/mathgl/mgl64"
)

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string // Name accepted by Builtin
	DisplayName string
	Description string
	Group       string

	build func() *Scene
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

const (
	groupReference = "Reference"
	groupShowcase  = "Showcase"
)

var builtins = []SceneInfo{
	{ID: "triangle", Group: groupReference, Description: "One grey Lambertian triangle facing the camera under a uniform sky", build: NewTriangleScene},
	{ID: "empty", Group: groupReference, Description: "No geometry, every pixel sees the sky", build: NewEmptyScene},
	{ID: "mirror", Group: groupReference, Description: "Perfect metallic floor reflecting a cube and a sphere", build: NewMirrorScene},
	{ID: "materials", Group: groupShowcase, Description: "Sphere grid sweeping roughness against metallic and sheen", build: NewMaterialsScene},
	{ID: "cornell", Group: groupShowcase, Description: "Open-top Cornell box lit by the sky", build: NewCornellScene},
	{ID: "textured", Group: groupShowcase, Description: "Checkerboard base color and metallic-roughness textures", build: NewTexturedScene},
}

func init() {
	for i := range builtins {
		builtins[i].DisplayName = titleCase(builtins[i].ID)
	}
}

// Builtin constructs a fresh copy of the named built-in scene
func Builtin(name string) (*Scene, error) {
	for _, info := range builtins {
		if info.ID == name {
			return info.build(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
}

// Names returns the IDs of every built-in scene, in registration order
func Names() []string {
	names := make([]string, len(builtins))
	for i, info := range builtins {
		names[i] = info.ID
	}
	return names
}

// Describe returns the description of a built-in scene, or "" if unknown
func Describe(name string) string {
	for _, info := range builtins {
		if info.ID == name {
			return info.Description
		}
	}
	return ""
}

// ListGroups returns the built-in scenes grouped by category, groups sorted by name
func ListGroups() []SceneGroup {
	groupMap := make(map[string][]SceneInfo)
	for _, info := range builtins {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for name := range groupMap {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	groups := make([]SceneGroup, 0, len(groupNames))
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}

// place builds an object-to-world transform: scale, then rotate about +Y, then translate
func place(position core.Vec3, yaw float64, scale core.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(position.X, position.Y, position.Z)
	r := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}).Mat4()
	s := mgl64.Scale3D(scale.X, scale.Y, scale.Z)
	return t.Mul4(r).Mul4(s)
}

// NewTriangleScene creates the closed-form reference scene: with a uniform
// white sky every camera ray that hits the triangle sees exactly its albedo
func NewTriangleScene() *Scene {
	s := New("triangle")
	s.SkyModel = "uniform"

	grey := s.AddMaterial(material.NewLambertian("grey", core.NewVec3(0.8, 0.8, 0.8)))
	tri := s.AddMesh(Triangle())
	s.AddInstance(tri, grey, mgl64.Ident4())
	return s
}

// NewEmptyScene creates a scene with no geometry
func NewEmptyScene() *Scene {
	s := New("empty")
	s.SkyModel = "gradient"
	return s
}

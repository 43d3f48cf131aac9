package material

import (
	"fmt"

	"github.com/df07/go-raydiance/pkg/core"
)

// Model selects the reflectance model of a material
type Model int

const (
	// Disney is the principled diffuse + GGX specular + sheen model
	Disney Model = iota
	// Lambertian is an ideal diffuse reflector (base color / π)
	Lambertian
)

func (m Model) String() string {
	switch m {
	case Disney:
		return "disney"
	case Lambertian:
		return "lambertian"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// NoTexture marks an unused texture slot
const NoTexture = -1

// Material is a flat parameter record. Scalar parameters are in [0, 1].
type Material struct {
	Name  string
	Model Model

	BaseColor        core.Vec3
	BaseColorTexture int // Index into the scene's textures, multiplies BaseColor

	// MetallicRoughnessTexture scales Roughness by green and Metallic by blue
	MetallicRoughnessTexture int

	Metallic     float64
	Roughness    float64
	Specular     float64
	SpecularTint float64
	Sheen        float64
	SheenTint    float64
}

// NewDisney returns an untextured Disney material with the usual defaults
// (specular 0.5, everything else off)
func NewDisney(name string, baseColor core.Vec3, metallic, roughness float64) Material {
	return Material{
		Name:                     name,
		Model:                    Disney,
		BaseColor:                baseColor,
		BaseColorTexture:         NoTexture,
		MetallicRoughnessTexture: NoTexture,
		Metallic:                 metallic,
		Roughness:                roughness,
		Specular:                 0.5,
	}
}

// NewLambertian returns an untextured ideal diffuse material
func NewLambertian(name string, baseColor core.Vec3) Material {
	return Material{
		Name:                     name,
		Model:                    Lambertian,
		BaseColor:                baseColor,
		BaseColorTexture:         NoTexture,
		MetallicRoughnessTexture: NoTexture,
	}
}

// Validate checks parameter ranges and texture references
func (m Material) Validate(numTextures int) error {
	if m.Model != Disney && m.Model != Lambertian {
		return fmt.Errorf("material %q: unknown model %v", m.Name, m.Model)
	}
	if !m.BaseColor.IsFinite() || m.BaseColor.X < 0 || m.BaseColor.Y < 0 || m.BaseColor.Z < 0 {
		return fmt.Errorf("material %q: invalid base color %v", m.Name, m.BaseColor)
	}

	params := []struct {
		name  string
		value float64
	}{
		{"metallic", m.Metallic},
		{"roughness", m.Roughness},
		{"specular", m.Specular},
		{"specular tint", m.SpecularTint},
		{"sheen", m.Sheen},
		{"sheen tint", m.SheenTint},
	}
	for _, p := range params {
		if !(p.value >= 0 && p.value <= 1) {
			return fmt.Errorf("material %q: %s %v outside [0, 1]", m.Name, p.name, p.value)
		}
	}

	for _, tex := range []int{m.BaseColorTexture, m.MetallicRoughnessTexture} {
		if tex != NoTexture && (tex < 0 || tex >= numTextures) {
			return fmt.Errorf("material %q: texture %d out of range (have %d)", m.Name, tex, numTextures)
		}
	}
	return nil
}

// Params are the material parameters resolved at one surface point
type Params struct {
	Model        Model
	BaseColor    core.Vec3
	Metallic     float64
	Roughness    float64
	Specular     float64
	SpecularTint float64
	Sheen        float64
	SheenTint    float64
}

// Resolve applies m's textures at uv and clamps the result to valid ranges
func Resolve(m Material, uv core.Vec2, textures []*Texture) Params {
	base := m.BaseColor
	if m.BaseColorTexture != NoTexture {
		base = base.MultiplyVec(textures[m.BaseColorTexture].Evaluate(uv))
	}

	metallic := m.Metallic
	roughness := m.Roughness
	if m.MetallicRoughnessTexture != NoTexture {
		mr := textures[m.MetallicRoughnessTexture].Evaluate(uv)
		roughness *= mr.Y
		metallic *= mr.Z
	}

	return Params{
		Model:        m.Model,
		BaseColor:    base.Clamp(0, 1),
		Metallic:     clamp01(metallic),
		Roughness:    clamp01(roughness),
		Specular:     clamp01(m.Specular),
		SpecularTint: clamp01(m.SpecularTint),
		Sheen:        clamp01(m.Sheen),
		SheenTint:    clamp01(m.SheenTint),
	}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}

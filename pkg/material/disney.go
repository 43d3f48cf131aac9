package material

import (
	"math"

	"github.com/df07/go-raydiance/pkg/core"
)

// Local shading space helpers. The surface normal is +Y.

func cosTheta(w core.Vec3) float64 { return w.Y }

func tan2Theta(w core.Vec3) float64 {
	cos2 := w.Y * w.Y
	sin2 := math.Max(0, 1-cos2)
	return sin2 / math.Max(cos2, Epsilon*Epsilon)
}

// Reflect mirrors w about n
func Reflect(w, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * w.Dot(n)).Subtract(w)
}

// schlickWeight returns (1 - cos)^5
func schlickWeight(cos float64) float64 {
	m := clamp01(1 - cos)
	m2 := m * m
	return m2 * m2 * m
}

// schlickFresnel blends f0 toward white at grazing angles
func schlickFresnel(f0 core.Vec3, cos float64) core.Vec3 {
	return f0.Lerp(core.Splat(1), schlickWeight(cos))
}

// tintColor is the base color normalized to unit luminance (white for black),
// clamped to [0, 1] per channel so tinted lobes never gain energy
func tintColor(base core.Vec3) core.Vec3 {
	lum := base.Luminance()
	if lum <= 0 {
		return core.Splat(1)
	}
	return base.Multiply(1 / lum).Clamp(0, 1)
}

// specularColor is the normal-incidence reflectance: a tinted dielectric 0.08·specular
// blended toward the base color by metallic
func specularColor(p Params) core.Vec3 {
	dielectric := core.Splat(1).Lerp(tintColor(p.BaseColor), p.SpecularTint).Multiply(p.Specular * 0.08)
	return dielectric.Lerp(p.BaseColor, p.Metallic)
}

// ggxAlpha remaps perceptual roughness to the GGX width
func ggxAlpha(roughness float64) float64 {
	return math.Max(0.001, roughness*roughness)
}

// ggxD is the GGX (Trowbridge-Reitz) normal distribution
func ggxD(h core.Vec3, alpha float64) float64 {
	cos2 := h.Y * h.Y
	a2 := alpha * alpha
	d := cos2*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// smithLambda is the GGX Smith auxiliary function
func smithLambda(w core.Vec3, alpha float64) float64 {
	return (math.Sqrt(1+alpha*alpha*tan2Theta(w)) - 1) * 0.5
}

func smithG1(w core.Vec3, alpha float64) float64 {
	return 1 / (1 + smithLambda(w, alpha))
}

// smithG2 is the height-correlated masking-shadowing term
func smithG2(wo, wi core.Vec3, alpha float64) float64 {
	return 1 / (1 + smithLambda(wo, alpha) + smithLambda(wi, alpha))
}

// sampleGGXVNDF draws a microfacet normal from the distribution of normals
// visible from wo (Heitz 2018). The algorithm is written for +Z up, so Y and Z
// are swapped on the way in and out.
func sampleGGXVNDF(wo core.Vec3, alpha float64, u core.Vec2) core.Vec3 {
	vh := core.NewVec3(alpha*wo.X, alpha*wo.Z, wo.Y).Normalize()

	lensq := vh.X*vh.X + vh.Y*vh.Y
	t1 := core.NewVec3(1, 0, 0)
	if lensq > 0 {
		t1 = core.NewVec3(-vh.Y, vh.X, 0).Multiply(1 / math.Sqrt(lensq))
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))))
	return core.NewVec3(alpha*nh.X, math.Max(0, nh.Z), alpha*nh.Y).Normalize()
}

// disneyDiffuse is the renormalized Disney retro-reflective diffuse factor
// (without base color and 1/π)
func disneyDiffuse(wo, wi core.Vec3, cosD, roughness float64) float64 {
	energyBias := 0.5 * roughness
	energyFactor := 1 + (1/1.51-1)*roughness
	fd90 := energyBias + 2*roughness*cosD*cosD
	fi := 1 + (fd90-1)*schlickWeight(cosTheta(wi))
	fo := 1 + (fd90-1)*schlickWeight(cosTheta(wo))
	return fi * fo * energyFactor
}

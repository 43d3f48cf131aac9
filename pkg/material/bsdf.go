package material

import (
	"math"

	"github.com/df07/go-raydiance/pkg/core"
)

// Epsilon bounds every division by a cosine with the normal, and is the
// smallest pdf a sample may have before it is discarded
const Epsilon = 0.001

// Lobe identifies the sampling strategy that produced a direction
type Lobe int

const (
	LobeDiffuse Lobe = iota
	LobeSpecular
)

func (l Lobe) String() string {
	if l == LobeSpecular {
		return "specular"
	}
	return "diffuse"
}

// BSDFSample is an importance-sampled incoming direction in local space
type BSDFSample struct {
	Wi   core.Vec3
	F    core.Vec3 // BRDF value for (wo, Wi)
	PDF  float64   // Solid-angle density of Wi over all lobes
	Lobe Lobe
}

// Weight returns F·cosθ/PDF, the throughput factor of the sample
func (s BSDFSample) Weight() core.Vec3 {
	return s.F.Multiply(cosTheta(s.Wi) / s.PDF)
}

// BSDF evaluates and samples one resolved material in local shading space
// (normal = +Y). Directions point away from the surface.
type BSDF struct {
	params     Params
	hemisphere core.HemisphereSampler
	alpha      float64
	specColor  core.Vec3
	sheenColor core.Vec3
}

// NewBSDF prepares a BSDF for the resolved parameters. The hemisphere sampler
// drives the diffuse strategy.
func NewBSDF(p Params, hemisphere core.HemisphereSampler) BSDF {
	return BSDF{
		params:     p,
		hemisphere: hemisphere,
		alpha:      ggxAlpha(p.Roughness),
		specColor:  specularColor(p),
		sheenColor: core.Splat(1).Lerp(tintColor(p.BaseColor), p.SheenTint).Multiply(p.Sheen),
	}
}

// Evaluate returns the BRDF value for the pair (wo, wi)
func (b BSDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	cosO := cosTheta(wo)
	cosI := cosTheta(wi)
	if cosO <= 0 || cosI <= 0 {
		return core.Vec3{}
	}

	if b.params.Model == Lambertian {
		return b.params.BaseColor.Multiply(1 / math.Pi)
	}

	h := wo.Add(wi).Normalize()
	if h.IsZero() {
		return core.Vec3{}
	}
	cosD := clamp01(wi.Dot(h))

	// Energy not reflected by the specular layer at wo is left to diffuse and sheen
	kd := core.Splat(1).Subtract(schlickFresnel(b.specColor, cosO)).Multiply(1 - b.params.Metallic)

	diffuse := b.params.BaseColor.Multiply(disneyDiffuse(wo, wi, cosD, b.params.Roughness) / math.Pi)
	sheen := b.sheenColor.Multiply(schlickWeight(cosD))
	result := diffuse.Add(sheen).MultiplyVec(kd)

	fresnel := schlickFresnel(b.specColor, clamp01(wo.Dot(h)))
	d := ggxD(h, b.alpha)
	g := smithG2(wo, wi, b.alpha)
	specular := fresnel.Multiply(d * g / math.Max(4*cosI*cosO, Epsilon))

	return result.Add(specular)
}

// specularProbability returns the chance of picking the specular strategy for wo.
// Diffuse weight follows (1 - metallic) and the diffuse/sheen albedo; specular
// weight follows the Fresnel reflectance at wo, which grows with metallic and specular.
func (b BSDF) specularProbability(wo core.Vec3) float64 {
	if b.params.Model == Lambertian {
		return 0
	}
	wSpec := schlickFresnel(b.specColor, cosTheta(wo)).Luminance()
	wDiff := (1 - b.params.Metallic) * (b.params.BaseColor.Luminance() + b.params.Sheen)
	if wSpec+wDiff <= 0 {
		return 1
	}
	return wSpec / (wSpec + wDiff)
}

// specularPDF is the density of reflecting a visible-normal sample about h
func (b BSDF) specularPDF(wo, wi core.Vec3) float64 {
	h := wo.Add(wi).Normalize()
	cosOH := wo.Dot(h)
	if cosOH <= 0 {
		return 0
	}
	return smithG1(wo, b.alpha) * ggxD(h, b.alpha) / (4 * math.Max(cosTheta(wo), Epsilon))
}

// PDF returns the density with which Sample produces wi for wo
func (b BSDF) PDF(wo, wi core.Vec3) float64 {
	if cosTheta(wo) <= 0 || cosTheta(wi) <= 0 {
		return 0
	}
	pSpec := b.specularProbability(wo)
	pdf := (1 - pSpec) * b.hemisphere.PDF(wi)
	if pSpec > 0 {
		pdf += pSpec * b.specularPDF(wo, wi)
	}
	return pdf
}

// Sample picks a lobe with uLobe and draws wi from it with u. It reports false
// when the sample must be discarded (below the hemisphere, vanishing pdf or a
// non-finite value); the caller treats that as zero contribution.
func (b BSDF) Sample(wo core.Vec3, uLobe float64, u core.Vec2) (BSDFSample, bool) {
	if cosTheta(wo) <= 0 {
		return BSDFSample{}, false
	}

	lobe := LobeDiffuse
	var wi core.Vec3
	if uLobe < b.specularProbability(wo) {
		lobe = LobeSpecular
		h := sampleGGXVNDF(wo, b.alpha, u)
		wi = Reflect(wo, h)
	} else {
		wi = b.hemisphere.Sample(u)
	}

	if cosTheta(wi) <= 0 {
		return BSDFSample{}, false
	}

	pdf := b.PDF(wo, wi)
	if !(pdf >= Epsilon) || math.IsInf(pdf, 0) {
		return BSDFSample{}, false
	}
	f := b.Evaluate(wo, wi)
	if !f.IsFinite() {
		return BSDFSample{}, false
	}

	return BSDFSample{Wi: wi, F: f, PDF: pdf, Lobe: lobe}, true
}

package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// UniformHemispherePDF is the solid-angle density of SampleUniformHemisphere
const UniformHemispherePDF = 1.0 / (2.0 * math.Pi)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler draws from a PCG stream that can be restarted from a seed pair
type RandomSampler struct {
	source *rand.PCG
	random *rand.Rand
}

// NewRandomSampler creates a sampler seeded with (seed1, seed2)
func NewRandomSampler(seed1, seed2 uint64) *RandomSampler {
	source := rand.NewPCG(seed1, seed2)
	return &RandomSampler{source: source, random: rand.New(source)}
}

// Reseed restarts the stream from (seed1, seed2)
func (r *RandomSampler) Reseed(seed1, seed2 uint64) {
	r.source.Seed(seed1, seed2)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SampleUniformHemisphere maps u to a direction uniformly distributed over the
// hemisphere around +Y. The density is UniformHemispherePDF.
func SampleUniformHemisphere(u Vec2) Vec3 {
	y := u.X
	r := math.Sqrt(math.Max(0, 1.0-y*y))
	phi := 2.0 * math.Pi * u.Y
	return NewVec3(r*math.Cos(phi), y, r*math.Sin(phi))
}

// SampleCosineHemisphere maps u to a cosine-weighted direction around +Y by
// lifting a concentric disk sample onto the hemisphere
func SampleCosineHemisphere(u Vec2) Vec3 {
	d := SampleConcentricDisk(u)
	y := math.Sqrt(math.Max(0, 1.0-d.X*d.X-d.Y*d.Y))
	return NewVec3(d.X, y, d.Y)
}

// CosineHemispherePDF returns the density of SampleCosineHemisphere for a local direction
func CosineHemispherePDF(w Vec3) float64 {
	return math.Max(0, w.Y) / math.Pi
}

// SampleConcentricDisk maps the unit square to the unit disk using Shirley's concentric mapping
func SampleConcentricDisk(u Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// HemisphereSampler selects the strategy used for diffuse bounces
type HemisphereSampler int

const (
	CosineHemisphere HemisphereSampler = iota
	UniformHemisphere
)

// Sample draws a local direction around +Y
func (h HemisphereSampler) Sample(u Vec2) Vec3 {
	if h == UniformHemisphere {
		return SampleUniformHemisphere(u)
	}
	return SampleCosineHemisphere(u)
}

// PDF returns the solid-angle density of Sample for a local direction
func (h HemisphereSampler) PDF(w Vec3) float64 {
	if w.Y <= 0 {
		return 0
	}
	if h == UniformHemisphere {
		return UniformHemispherePDF
	}
	return CosineHemispherePDF(w)
}

func (h HemisphereSampler) String() string {
	switch h {
	case CosineHemisphere:
		return "cosine"
	case UniformHemisphere:
		return "uniform"
	default:
		return fmt.Sprintf("HemisphereSampler(%d)", int(h))
	}
}

// ParseHemisphereSampler converts a name ("cosine", "uniform") to a HemisphereSampler
func ParseHemisphereSampler(name string) (HemisphereSampler, error) {
	switch name {
	case "cosine", "":
		return CosineHemisphere, nil
	case "uniform":
		return UniformHemisphere, nil
	default:
		return 0, fmt.Errorf("core: unknown hemisphere sampler %q", name)
	}
}

// Halton2D returns the index-th point of the (2, 3) Halton sequence
func Halton2D(index int) Vec2 {
	return NewVec2(radicalInverse(index, 2), radicalInverse(index, 3))
}

func radicalInverse(index, base int) float64 {
	inv := 1.0 / float64(base)
	f := inv
	result := 0.0
	for i := index; i > 0; i /= base {
		result += f * float64(i%base)
		f *= inv
	}
	return result
}

// CranleyPatterson applies a toroidal shift to a point in the unit square
func CranleyPatterson(p, shift Vec2) Vec2 {
	x := p.X + shift.X
	y := p.Y + shift.Y
	return NewVec2(x-math.Floor(x), y-math.Floor(y))
}

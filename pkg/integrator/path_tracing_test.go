package integrator

import (
	"fmt"
	"math"
	"testing"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/geometry"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/df07/go-raydiance/pkg/sky"
	"github.com/go-gl/mathgl/mgl64"
)

// newTestTracer builds a path tracer for s lit by radiance
func newTestTracer(t *testing.T, s *scene.Scene, radiance sky.Func, config Config) *PathTracer {
	t.Helper()
	world, err := geometry.NewWorld(s, core.NopLogger{})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	env, err := sky.NewEnvironment(radiance, s.Sky)
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}
	return NewPathTracer(world, s.Materials, s.Textures, env, config)
}

func white() sky.Func {
	return sky.Uniform(core.NewVec3(1, 1, 1))
}

func TestPathTracer_LambertianUnderUniformSky(t *testing.T) {
	s, _ := scene.Builtin("triangle")

	for _, hemisphere := range []core.HemisphereSampler{core.CosineHemisphere, core.UniformHemisphere} {
		t.Run(hemisphere.String(), func(t *testing.T) {
			config := DefaultConfig()
			config.Hemisphere = hemisphere
			pt := newTestTracer(t, s, white(), config)
			sampler := core.NewRandomSampler(7, 11)
			ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

			const n = 4000
			sum := 0.0
			exact := 0
			for i := 0; i < n; i++ {
				r := pt.Li(ray, sampler, nil)
				if !r.Hit || !r.Valid {
					t.Fatalf("Sample %d: hit=%v valid=%v", i, r.Hit, r.Valid)
				}
				if math.Abs(r.Radiance.X-0.8) < 1e-9 {
					exact++
				}
				sum += r.Radiance.X
			}

			mean := sum / n
			switch hemisphere {
			case core.CosineHemisphere:
				// f·cos/pdf is exactly the albedo; only grazing discards deviate
				if exact < n*99/100 {
					t.Errorf("Only %d of %d cosine samples equal the albedo", exact, n)
				}
				if math.Abs(mean-0.8) > 0.005 {
					t.Errorf("Mean radiance %f, expected 0.8", mean)
				}
			case core.UniformHemisphere:
				if math.Abs(mean-0.8) > 0.03 {
					t.Errorf("Mean radiance %f, expected 0.8 within noise", mean)
				}
			}
		})
	}
}

func TestPathTracer_EmptySceneSeesSky(t *testing.T) {
	s, _ := scene.Builtin("empty")
	radiance, _ := sky.Lookup("gradient")
	pt := newTestTracer(t, s, radiance, DefaultConfig())
	sampler := core.NewRandomSampler(1, 2)

	for _, dir := range []core.Vec3{
		core.NewVec3(0, 0, -1),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0.3, -0.8, 0.1),
	} {
		ray := core.NewRay(core.NewVec3(0, 0, 3), dir)
		r := pt.Li(ray, sampler, nil)
		if r.Hit {
			t.Errorf("Empty scene reported a hit for %v", dir)
		}
		if expected := pt.env.Evaluate(dir); r.Radiance != expected {
			t.Errorf("Direction %v: radiance %v, expected sky %v", dir, r.Radiance, expected)
		}
	}
}

// mirrorScene is a perfect metallic quad facing +Y
func mirrorScene() *scene.Scene {
	s := scene.New("mirror-test")
	m := s.AddMaterial(material.NewDisney("mirror", core.NewVec3(1, 1, 1), 1, 0))
	s.AddInstance(s.AddMesh(scene.Quad()), m, mgl64.Scale3D(10, 1, 10))
	return s
}

func TestPathTracer_MirrorReflectsSky(t *testing.T) {
	incoming := core.NewVec3(1, -1, 0).Normalize()
	reflected := core.NewVec3(1, 1, 0).Normalize()

	// Bright only within a few degrees of the mirror direction
	spot := func(dir, _ core.Vec3, _ float64, _ core.Vec3) core.Vec3 {
		if dir.Dot(reflected) > math.Cos(3*math.Pi/180) {
			return core.NewVec3(1, 1, 1)
		}
		return core.Vec3{}
	}

	config := DefaultConfig()
	config.MaxBounces = 1
	pt := newTestTracer(t, mirrorScene(), spot, config)
	sampler := core.NewRandomSampler(3, 5)
	// Lands off the quad's diagonal seam
	ray := core.NewRay(core.NewVec3(-2, 2, 1), incoming)

	const n = 500
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += pt.Li(ray, sampler, nil).Radiance.X
	}
	if mean := sum / n; mean < 0.95 || mean > 1.05 {
		t.Errorf("Mirror reflected %f of the sky spot, expected ~1", mean)
	}
}

func TestPathTracer_BackFaceTerminates(t *testing.T) {
	s, _ := scene.Builtin("triangle")
	pt := newTestTracer(t, s, white(), DefaultConfig())
	sampler := core.NewRandomSampler(1, 1)

	ray := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1))
	r := pt.Li(ray, sampler, nil)
	if !r.Hit || !r.Valid {
		t.Fatalf("Expected a valid hit, got hit=%v valid=%v", r.Hit, r.Valid)
	}
	if !r.Radiance.IsZero() {
		t.Errorf("Back face should contribute nothing, got %v", r.Radiance)
	}
}

func TestPathTracer_BounceLimit(t *testing.T) {
	// A cube with inward-facing normals: paths started inside bounce until
	// the limit and never reach the sky
	box := scene.Cube()
	for i := range box.Normals {
		box.Normals[i] = box.Normals[i].Negate()
	}
	s := scene.New("closed-box")
	grey := s.AddMaterial(material.NewLambertian("grey", core.NewVec3(0.5, 0.5, 0.5)))
	s.AddInstance(s.AddMesh(box), grey, mgl64.Scale3D(2, 2, 2))

	for _, maxBounces := range []int{0, 1, 3, 8} {
		t.Run(fmt.Sprintf("%d bounces", maxBounces), func(t *testing.T) {
			config := DefaultConfig()
			config.MaxBounces = maxBounces
			pt := newTestTracer(t, s, white(), config)
			sampler := core.NewRandomSampler(uint64(maxBounces), 9)

			const n = 200
			full := 0
			for i := 0; i < n; i++ {
				dir := core.SampleUniformHemisphere(sampler.Get2D())
				if i%2 == 1 {
					dir = dir.Negate()
				}
				var stats core.TraversalStats
				r := pt.Li(core.NewRay(core.Vec3{}, dir), sampler, &stats)
				if !r.Radiance.IsZero() {
					t.Fatalf("Closed box leaked radiance %v", r.Radiance)
				}
				if stats.Rays > uint64(maxBounces+1) {
					t.Fatalf("Traced %d rays with a limit of %d bounces", stats.Rays, maxBounces)
				}
				if stats.Rays == uint64(maxBounces+1) {
					full++
				}
			}
			if full < n*9/10 {
				t.Errorf("Only %d of %d paths reached the bounce limit", full, n)
			}
		})
	}
}

func TestPathTracer_ZeroBouncesSeesOnlySky(t *testing.T) {
	s, _ := scene.Builtin("triangle")
	config := DefaultConfig()
	config.MaxBounces = 0
	pt := newTestTracer(t, s, white(), config)
	sampler := core.NewRandomSampler(1, 1)

	if r := pt.Li(core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1)), sampler, nil); !r.Radiance.IsZero() {
		t.Errorf("Hit with zero bounces should be black, got %v", r.Radiance)
	}
	if r := pt.Li(core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1)), sampler, nil); r.Radiance != core.NewVec3(1, 1, 1) {
		t.Errorf("Miss with zero bounces should see the sky, got %v", r.Radiance)
	}
}

func TestPathTracer_NonFiniteRadianceIsDropped(t *testing.T) {
	s, _ := scene.Builtin("empty")
	broken := func(_, _ core.Vec3, _ float64, _ core.Vec3) core.Vec3 {
		return core.NewVec3(math.NaN(), 1, math.Inf(1))
	}
	pt := newTestTracer(t, s, broken, DefaultConfig())

	r := pt.Li(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), core.NewRandomSampler(1, 1), nil)
	if r.Valid {
		t.Error("Non-finite radiance should be flagged invalid")
	}
	if !r.Radiance.IsZero() {
		t.Errorf("Non-finite radiance should be replaced by zero, got %v", r.Radiance)
	}
}

func TestPathTracer_Visualization(t *testing.T) {
	s, _ := scene.Builtin("triangle")
	hitRay := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	missRay := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 1, 0))

	tests := []struct {
		mode     Visualization
		expected core.Vec3
	}{
		{Normals, core.NewVec3(0.5, 0.5, 1)},
		{TexCoords, core.NewVec3(0.5, 0.5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			config := DefaultConfig()
			config.Visualization = tt.mode
			pt := newTestTracer(t, s, white(), config)
			sampler := core.NewRandomSampler(1, 1)

			r := pt.Li(hitRay, sampler, nil)
			if r.Radiance.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Hit color %v, expected %v", r.Radiance, tt.expected)
			}
			if r.Normal != core.NewVec3(0, 0, 1) {
				t.Errorf("Normal %v, expected +Z", r.Normal)
			}

			r = pt.Li(missRay, sampler, nil)
			if r.Hit || !r.Radiance.IsZero() {
				t.Errorf("Miss should be black, got %v (hit=%v)", r.Radiance, r.Hit)
			}
		})
	}
}

func TestParseVisualization(t *testing.T) {
	for _, mode := range []Visualization{Shaded, Normals, TexCoords} {
		got, err := ParseVisualization(mode.String())
		if err != nil || got != mode {
			t.Errorf("ParseVisualization(%q) = %v, %v", mode.String(), got, err)
		}
	}
	if got, err := ParseVisualization("NORMALS"); err != nil || got != Normals {
		t.Errorf("Parsing should ignore case, got %v, %v", got, err)
	}
	if _, err := ParseVisualization("depth"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

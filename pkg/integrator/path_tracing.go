package integrator

import (
	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/geometry"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/sky"
)

// PathTracer implements unidirectional path tracing with a fixed bounce
// limit. The sky is the only light source. It holds no mutable state and
// may be shared by every worker.
type PathTracer struct {
	world     *geometry.World
	materials []material.Material
	textures  []*material.Texture
	env       *sky.Environment
	config    Config
}

// NewPathTracer creates a path tracer over world. Material indices stored in
// the world's triangles refer to materials.
func NewPathTracer(world *geometry.World, materials []material.Material, textures []*material.Texture, env *sky.Environment, config Config) *PathTracer {
	return &PathTracer{
		world:     world,
		materials: materials,
		textures:  textures,
		env:       env,
		config:    config,
	}
}

// Config returns the settings the tracer was built with
func (pt *PathTracer) Config() Config {
	return pt.config
}

// Environment returns the sky the tracer gathers light from
func (pt *PathTracer) Environment() *sky.Environment {
	return pt.env
}

// Li traces one path starting with ray. Random numbers are drawn from
// sampler in a fixed order per bounce: lobe choice, then direction.
func (pt *PathTracer) Li(ray core.Ray, sampler core.Sampler, stats *core.TraversalStats) Result {
	result := Result{Valid: true}
	radiance := core.Vec3{}
	throughput := core.Splat(1)

	for bounce := 0; ; bounce++ {
		hit, ok := pt.world.Intersect(ray, stats)
		if !ok {
			if bounce == 0 && pt.config.Visualization != Shaded {
				return result
			}
			radiance = radiance.Add(throughput.MultiplyVec(pt.env.Evaluate(ray.Direction)))
			break
		}

		si := pt.world.Surface(ray, hit)
		if bounce == 0 {
			result.Hit = true
			result.Normal = si.Normal
			result.TexCoord = si.TexCoord
			switch pt.config.Visualization {
			case Normals:
				result.Radiance = si.Normal.Multiply(0.5).Add(core.Splat(0.5))
				return result
			case TexCoords:
				result.Radiance = core.NewVec3(si.TexCoord.X, si.TexCoord.Y, 0)
				return result
			}
		}

		if bounce >= pt.config.MaxBounces {
			break
		}

		next, weight, ok := pt.scatter(ray, si, sampler)
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(weight)
		if throughput.IsZero() {
			break
		}
		ray = next
	}

	if !radiance.IsFinite() {
		result.Valid = false
		radiance = core.Vec3{}
	}
	result.Radiance = radiance
	return result
}

// scatter samples the material at si and returns the continuation ray and
// its throughput weight. Surfaces are one-sided: hitting the back of a
// triangle or arriving below the shading hemisphere ends the path.
func (pt *PathTracer) scatter(ray core.Ray, si geometry.SurfaceInteraction, sampler core.Sampler) (core.Ray, core.Vec3, bool) {
	if !si.FrontFace {
		return core.Ray{}, core.Vec3{}, false
	}

	frame := core.NewONB(si.Normal)
	wo := frame.ToLocal(ray.Direction.Negate().Normalize())
	if wo.Y <= 0 {
		return core.Ray{}, core.Vec3{}, false
	}

	params := material.Resolve(pt.materials[si.Material], si.TexCoord, pt.textures)
	bsdf := material.NewBSDF(params, pt.config.Hemisphere)

	uLobe := sampler.Get1D()
	u := sampler.Get2D()
	sample, ok := bsdf.Sample(wo, uLobe, u)
	if !ok {
		return core.Ray{}, core.Vec3{}, false
	}

	wi := frame.ToWorld(sample.Wi)
	offset := si.GeometricNormal.Multiply(RayEpsilon)
	if wi.Dot(si.GeometricNormal) < 0 {
		offset = offset.Negate()
	}
	return core.NewRay(si.Point.Add(offset), wi), sample.Weight(), true
}

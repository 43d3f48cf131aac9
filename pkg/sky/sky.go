// Package sky holds the environment radiance contract the integrator evaluates
// on every ray miss, plus a few simple stand-in models.
package sky

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-raydiance/pkg/core"
)

// ErrInvalidParams is returned when sky parameters are out of range
var ErrInvalidParams = errors.New("sky: invalid parameters")

// ErrUnknownModel is returned by Lookup for an unregistered model name
var ErrUnknownModel = errors.New("sky: unknown model")

// Func maps a view direction and sun configuration to RGB radiance. Directions
// are unit length. Implementations must be pure and safe for concurrent use.
type Func func(direction, sunDirection core.Vec3, turbidity float64, albedo core.Vec3) core.Vec3

// Params configures the sun and atmosphere
type Params struct {
	Elevation float64   // Sun angle above the horizon in radians, [0, π/2]
	Azimuth   float64   // Sun angle around +Y in radians, [0, 2π], 0 = +X
	Turbidity float64   // Atmospheric haze, [1, 10]
	Albedo    core.Vec3 // Ground albedo, [0, 1] per channel
}

// DefaultParams places the sun along (1, 3, 1) on a clear day
func DefaultParams() Params {
	return Params{
		Elevation: math.Asin(3 / math.Sqrt(11)),
		Azimuth:   math.Pi / 4,
		Turbidity: 3,
		Albedo:    core.NewVec3(0.3, 0.3, 0.3),
	}
}

// SunDirection returns the unit vector pointing toward the sun (+Y up)
func (p Params) SunDirection() core.Vec3 {
	cosEl := math.Cos(p.Elevation)
	return core.NewVec3(
		cosEl*math.Cos(p.Azimuth),
		math.Sin(p.Elevation),
		cosEl*math.Sin(p.Azimuth),
	).Normalize()
}

// Validate checks every parameter against its documented range
func (p Params) Validate() error {
	if !(p.Elevation >= 0 && p.Elevation <= math.Pi/2) {
		return fmt.Errorf("%w: elevation %v outside [0, π/2]", ErrInvalidParams, p.Elevation)
	}
	if !(p.Azimuth >= 0 && p.Azimuth <= 2*math.Pi) {
		return fmt.Errorf("%w: azimuth %v outside [0, 2π]", ErrInvalidParams, p.Azimuth)
	}
	if !(p.Turbidity >= 1 && p.Turbidity <= 10) {
		return fmt.Errorf("%w: turbidity %v outside [1, 10]", ErrInvalidParams, p.Turbidity)
	}
	a := p.Albedo
	if !a.IsFinite() || a.MinComponent() < 0 || a.MaxComponent() > 1 {
		return fmt.Errorf("%w: albedo %v outside [0, 1]", ErrInvalidParams, a)
	}
	return nil
}

// Environment binds a radiance function to its parameters
type Environment struct {
	Radiance Func
	Params   Params
	sun      core.Vec3
}

// NewEnvironment validates params and precomputes the sun direction
func NewEnvironment(radiance Func, params Params) (*Environment, error) {
	if radiance == nil {
		return nil, fmt.Errorf("%w: nil radiance function", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Environment{Radiance: radiance, Params: params, sun: params.SunDirection()}, nil
}

// Evaluate returns the sky radiance seen along direction (need not be normalized)
func (e *Environment) Evaluate(direction core.Vec3) core.Vec3 {
	return e.Radiance(direction.Normalize(), e.sun, e.Params.Turbidity, e.Params.Albedo)
}

// Uniform is a constant sky
func Uniform(color core.Vec3) Func {
	return func(_, _ core.Vec3, _ float64, _ core.Vec3) core.Vec3 {
		return color
	}
}

// Gradient blends from horizon below to zenith straight up
func Gradient(horizon, zenith core.Vec3) Func {
	return func(direction, _ core.Vec3, _ float64, _ core.Vec3) core.Vec3 {
		t := 0.5 * (direction.Y + 1.0) // Map Y from [-1,1] to [0,1]
		return horizon.Lerp(zenith, t)
	}
}

// SunGlow brightens toward the sun: scale·(0.5 + 0.5·cos(angle to sun))
func SunGlow(scale core.Vec3) Func {
	return func(direction, sun core.Vec3, _ float64, _ core.Vec3) core.Vec3 {
		return scale.Multiply(0.5 + 0.5*sun.Dot(direction))
	}
}

var models = map[string]struct {
	description string
	radiance    Func
}{
	"uniform":  {"constant white", Uniform(core.NewVec3(1, 1, 1))},
	"gradient": {"white horizon to light blue zenith", Gradient(core.NewVec3(1, 1, 1), core.NewVec3(0.5, 0.7, 1.0))},
	"sunglow":  {"brightens toward the sun direction", SunGlow(core.NewVec3(1, 1, 1))},
}

// Lookup returns a named stand-in model
func Lookup(name string) (Func, error) {
	m, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownModel, name, Models())
	}
	return m.radiance, nil
}

// Models lists the names accepted by Lookup, sorted
func Models() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a one-line description of a named model
func Describe(name string) string {
	return models[name].description
}

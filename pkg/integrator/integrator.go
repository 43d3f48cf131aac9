package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-raydiance/pkg/core"
)

// RayEpsilon is the distance a spawned ray's origin is pushed off the surface
const RayEpsilon = 1e-4

// Visualization selects what a traced sample reports as its color
type Visualization int

const (
	// Shaded is full path-traced radiance
	Shaded Visualization = iota
	// Normals shows the first-hit shading normal mapped to [0,1]
	Normals
	// TexCoords shows the first-hit texture coordinates as (u, v, 0)
	TexCoords
)

var visualizationNames = []string{"shaded", "normals", "texcoords"}

func (v Visualization) String() string {
	if v < 0 || int(v) >= len(visualizationNames) {
		return fmt.Sprintf("Visualization(%d)", int(v))
	}
	return visualizationNames[v]
}

// ParseVisualization parses a visualization mode name
func ParseVisualization(name string) (Visualization, error) {
	for i, n := range visualizationNames {
		if strings.EqualFold(name, n) {
			return Visualization(i), nil
		}
	}
	return Shaded, fmt.Errorf("unknown visualization mode %q (expected one of %s)", name, strings.Join(visualizationNames, ", "))
}

// Config holds the integrator settings
type Config struct {
	MaxBounces    int // Scattering events per path; 0 renders only directly visible sky
	Hemisphere    core.HemisphereSampler
	Visualization Visualization
}

// DefaultConfig returns five bounces with cosine-weighted diffuse sampling
func DefaultConfig() Config {
	return Config{
		MaxBounces:    5,
		Hemisphere:    core.CosineHemisphere,
		Visualization: Shaded,
	}
}

// Result is the outcome of tracing one camera sample
type Result struct {
	Radiance core.Vec3 // Linear radiance, or the visualization color
	Normal   core.Vec3 // First-hit shading normal, zero on a miss
	TexCoord core.Vec2 // First-hit texture coordinates
	Hit      bool      // Whether the camera ray hit geometry
	Valid    bool      // False when the estimate was non-finite and replaced by zero
}

// Integrator computes the radiance arriving along a camera ray
type Integrator interface {
	Li(ray core.Ray, sampler core.Sampler, stats *core.TraversalStats) Result
}

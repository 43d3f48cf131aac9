package geometry

import (
	"fmt"
	"time"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// HitRecord identifies the nearest intersection found by World.Intersect
type HitRecord struct {
	T            float64
	Barycentrics core.Vec3 // Weights of V0, V1, V2: (1-u-v, u, v)
	Primitive    int       // Index into the world's triangles
	Instance     int       // Index into the scene's instances
}

// SurfaceInteraction holds the shading data at a hit point
type SurfaceInteraction struct {
	Point           core.Vec3
	Normal          core.Vec3 // Interpolated shading normal, on the same side as GeometricNormal
	GeometricNormal core.Vec3 // Oriented with the mesh's vertex normals, not with the ray
	TexCoord        core.Vec2
	Material        int
	FrontFace       bool // Whether the ray arrived against GeometricNormal
}

// World is the flattened, world-space triangle set of a scene with a BVH over it.
// It is immutable and safe for concurrent queries.
type World struct {
	triangles []Triangle
	bvh       *core.BVH
	bounds    core.AABB
	hit       core.HitFunc
}

// NewWorld validates s, transforms every instance's triangles to world space
// and builds the BVH
func NewWorld(s *scene.Scene, logger core.Logger) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	start := time.Now()
	w := &World{
		triangles: make([]Triangle, 0, s.TriangleCount()),
		bounds:    core.EmptyAABB(),
	}
	for i, inst := range s.Instances {
		w.addInstance(i, inst, s.Meshes[inst.Mesh])
	}

	prims := make([]core.BVHPrimitive, len(w.triangles))
	for i := range w.triangles {
		tri := &w.triangles[i]
		prims[i] = core.BVHPrimitive{Bounds: tri.BoundingBox(), Centroid: tri.Centroid()}
		w.bounds = w.bounds.Union(tri.BoundingBox())
	}
	w.bvh = core.NewBVH(prims)
	w.hit = w.hitTriangle

	stats := w.bvh.Stats()
	logger.Infof("built BVH over %d triangles from %d instances in %v", len(w.triangles), len(s.Instances), time.Since(start))
	logger.Debugf("BVH: %d nodes, %d leaves, max depth %d, avg leaf depth %.1f, max leaf size %d",
		stats.TotalNodes, stats.LeafNodes, stats.MaxDepth, stats.AvgDepth, stats.MaxLeafSize)

	return w, nil
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// addInstance appends the world-space triangles of one instance. Positions
// use the instance transform, normals its inverse transpose.
func (w *World) addInstance(index int, inst scene.Instance, mesh *scene.Mesh) {
	normalMatrix := inst.Transform.Mat3().Inv().Transpose()

	position := func(i uint32) core.Vec3 {
		return fromMgl(mgl64.TransformCoordinate(toMgl(mesh.Positions[i]), inst.Transform))
	}
	normal := func(i uint32) core.Vec3 {
		return fromMgl(normalMatrix.Mul3x1(toMgl(mesh.Normals[i]))).Normalize()
	}

	for _, idx := range mesh.Indices {
		tri := Triangle{
			V0:       position(idx[0]),
			V1:       position(idx[1]),
			V2:       position(idx[2]),
			Material: inst.Material,
			Instance: index,
		}
		if mesh.Normals != nil {
			tri.N0, tri.N1, tri.N2 = normal(idx[0]), normal(idx[1]), normal(idx[2])
		}
		if mesh.TexCoords != nil {
			tri.UV0, tri.UV1, tri.UV2 = mesh.TexCoords[idx[0]], mesh.TexCoords[idx[1]], mesh.TexCoords[idx[2]]
		}
		tri.computeNormal()
		if mesh.Normals == nil {
			tri.N0, tri.N1, tri.N2 = tri.normal, tri.normal, tri.normal
		}
		tri.computeBoundingBox()
		w.triangles = append(w.triangles, tri)
	}
}

func (w *World) hitTriangle(prim int, ray core.Ray, tMin, tMax float64) (float64, bool) {
	t, _, _, ok := w.triangles[prim].Hit(ray, tMin, tMax)
	return t, ok
}

// Intersect returns the nearest triangle hit within [ray.TMin, ray.TMax]
func (w *World) Intersect(ray core.Ray, stats *core.TraversalStats) (HitRecord, bool) {
	best, ok := w.bvh.Intersect(ray, w.hit, stats)
	if !ok {
		return HitRecord{}, false
	}

	// Recover the barycentrics of the winning triangle
	tri := &w.triangles[best.Primitive]
	_, u, v, _ := tri.Hit(ray, ray.TMin, ray.TMax)
	return HitRecord{
		T:            best.T,
		Barycentrics: core.NewVec3(1-u-v, u, v),
		Primitive:    best.Primitive,
		Instance:     tri.Instance,
	}, true
}

// IntersectAny reports whether anything is hit within [ray.TMin, ray.TMax]
func (w *World) IntersectAny(ray core.Ray, stats *core.TraversalStats) bool {
	return w.bvh.IntersectAny(ray, w.hit, stats)
}

// Surface interpolates the shading data of hit
func (w *World) Surface(ray core.Ray, hit HitRecord) SurfaceInteraction {
	tri := &w.triangles[hit.Primitive]
	ng := tri.Normal()

	n := tri.ShadingNormal(hit.Barycentrics)
	if n.Dot(ng) < 0 {
		n = n.Negate()
	}

	return SurfaceInteraction{
		Point:           ray.At(hit.T),
		Normal:          n,
		GeometricNormal: ng,
		TexCoord:        tri.TexCoord(hit.Barycentrics),
		Material:        tri.Material,
		FrontFace:       ray.Direction.Dot(ng) < 0,
	}
}

// TriangleCount returns the number of world-space triangles
func (w *World) TriangleCount() int {
	return len(w.triangles)
}

// Triangle returns the i-th world-space triangle
func (w *World) Triangle(i int) (*Triangle, error) {
	if i < 0 || i >= len(w.triangles) {
		return nil, fmt.Errorf("geometry: triangle %d out of range (have %d)", i, len(w.triangles))
	}
	return &w.triangles[i], nil
}

// Bounds returns the bounding box of the whole world (inverted when empty)
func (w *World) Bounds() core.AABB {
	return w.bounds
}

// BVHStats returns the structure statistics of the acceleration structure
func (w *World) BVHStats() core.BVHStats {
	return w.bvh.Stats()
}

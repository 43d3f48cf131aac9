package geometry

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestWorld(t *testing.T, s *scene.Scene) *World {
	t.Helper()
	w, err := NewWorld(s, core.NopLogger{})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

// bruteForce finds the nearest hit by testing every triangle, lowest index winning ties
func bruteForce(w *World, ray core.Ray) (int, float64, bool) {
	best, bestT := -1, ray.TMax
	for i := range w.triangles {
		if tHit, _, _, ok := w.triangles[i].Hit(ray, ray.TMin, ray.TMax); ok && (best < 0 || tHit < bestT) {
			best, bestT = i, tHit
		}
	}
	return best, bestT, best >= 0
}

func TestWorld_MatchesBruteForce(t *testing.T) {
	s, err := scene.Builtin("materials")
	if err != nil {
		t.Fatal(err)
	}
	w := newTestWorld(t, s)
	if w.TriangleCount() != s.TriangleCount() {
		t.Fatalf("World has %d triangles, scene has %d", w.TriangleCount(), s.TriangleCount())
	}

	rng := rand.New(rand.NewPCG(1, 2))
	var stats core.TraversalStats
	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(rng.Float64()*8-4, rng.Float64()*3+0.1, rng.Float64()*8-4)
		dir := core.NewVec3(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()).Normalize()
		ray := core.NewRay(origin, dir)

		hit, ok := w.Intersect(ray, &stats)
		want, wantT, wantOK := bruteForce(w, ray)
		if ok != wantOK {
			t.Fatalf("Ray %d: BVH hit=%v, brute force hit=%v", i, ok, wantOK)
		}
		if !ok {
			if w.IntersectAny(ray, &stats) {
				t.Fatalf("Ray %d: IntersectAny reports a hit that Intersect missed", i)
			}
			continue
		}
		if math.Abs(hit.T-wantT) > 1e-9*math.Max(1, wantT) {
			t.Fatalf("Ray %d: BVH t=%f (prim %d), brute force t=%f (prim %d)", i, hit.T, hit.Primitive, wantT, want)
		}
		if !w.IntersectAny(ray, &stats) {
			t.Fatalf("Ray %d: IntersectAny missed a hit", i)
		}

		// The hit point lies on the reported triangle
		tri, _ := w.Triangle(hit.Primitive)
		b := hit.Barycentrics
		if b.MinComponent() < -1e-12 || b.MaxComponent() > 1+1e-12 || math.Abs(b.X+b.Y+b.Z-1) > 1e-12 {
			t.Fatalf("Ray %d: invalid barycentrics %v", i, b)
		}
		p := tri.V0.Multiply(b.X).Add(tri.V1.Multiply(b.Y)).Add(tri.V2.Multiply(b.Z))
		if p.Subtract(ray.At(hit.T)).Length() > 1e-6 {
			t.Fatalf("Ray %d: barycentric point %v far from hit point %v", i, p, ray.At(hit.T))
		}
	}

	if stats.Rays == 0 || stats.BoxTests == 0 || stats.PrimitiveTests == 0 {
		t.Errorf("Traversal statistics not collected: %+v", stats)
	}
}

func TestWorld_RayOutsideBounds(t *testing.T) {
	s, _ := scene.Builtin("cornell")
	w := newTestWorld(t, s)

	// Starts above the open box and points away from it
	ray := core.NewRay(core.NewVec3(2, 20, 2), core.NewVec3(0, 1, 0))
	if _, ok := w.Intersect(ray, nil); ok {
		t.Error("Ray pointing away from every bounding box reported a hit")
	}
	if w.IntersectAny(ray, nil) {
		t.Error("IntersectAny reported a hit for a ray outside every bounding box")
	}
}

func TestWorld_Empty(t *testing.T) {
	s, _ := scene.Builtin("empty")
	w := newTestWorld(t, s)

	if w.TriangleCount() != 0 {
		t.Fatalf("Empty world has %d triangles", w.TriangleCount())
	}
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	if _, ok := w.Intersect(ray, nil); ok {
		t.Error("Empty world reported a hit")
	}
	if w.IntersectAny(ray, nil) {
		t.Error("Empty world reported an occluder")
	}
	if w.BVHStats().TotalNodes != 0 {
		t.Error("Empty world should have an empty BVH")
	}
}

func TestWorld_InstanceTransform(t *testing.T) {
	s := scene.New("transformed")
	mat := s.AddMaterial(material.NewLambertian("white", core.NewVec3(1, 1, 1)))
	quad := s.AddMesh(scene.Quad())

	// Stretch 4x along X, tilt 45° about Z, lift to y=2
	transform := mgl64.Translate3D(0, 2, 0).
		Mul4(mgl64.HomogRotate3DZ(math.Pi / 4)).
		Mul4(mgl64.Scale3D(4, 1, 1))
	s.AddInstance(quad, mat, transform)
	w := newTestWorld(t, s)

	expectedNormal := core.NewVec3(-1, 1, 0).Normalize()
	for i := 0; i < w.TriangleCount(); i++ {
		tri, _ := w.Triangle(i)
		if tri.Normal().Subtract(expectedNormal).Length() > 1e-9 {
			t.Errorf("Triangle %d geometric normal %v, expected %v", i, tri.Normal(), expectedNormal)
		}
		// Vertex normals go through the inverse transpose, so they stay perpendicular
		for _, n := range []core.Vec3{tri.N0, tri.N1, tri.N2} {
			if n.Subtract(expectedNormal).Length() > 1e-9 {
				t.Errorf("Triangle %d vertex normal %v, expected %v", i, n, expectedNormal)
			}
		}
		if tri.Instance != 0 || tri.Material != mat {
			t.Errorf("Triangle %d lost its instance or material", i)
		}
	}

	// Aim off the shared diagonal so exactly one triangle is hit
	ray := core.NewRay(core.NewVec3(-3, 5, 0.2), core.NewVec3(1, -1, 0).Normalize())
	hit, ok := w.Intersect(ray, nil)
	if !ok {
		t.Fatal("Expected to hit the tilted quad")
	}
	if p := ray.At(hit.T); p.Subtract(core.NewVec3(0, 2, 0.2)).Length() > 1e-9 {
		t.Errorf("Hit point %v, expected (0,2,0.2)", p)
	}
}

func TestWorld_Surface(t *testing.T) {
	s, _ := scene.Builtin("triangle")
	w := newTestWorld(t, s)

	front := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	hit, ok := w.Intersect(front, nil)
	if !ok {
		t.Fatal("Expected to hit the triangle")
	}
	si := w.Surface(front, hit)
	if !si.FrontFace {
		t.Error("Ray from the camera should see the front face")
	}
	if si.Normal != core.NewVec3(0, 0, 1) || si.GeometricNormal != core.NewVec3(0, 0, 1) {
		t.Errorf("Unexpected normals %v / %v", si.Normal, si.GeometricNormal)
	}
	if si.Point.Subtract(core.Vec3{}).Length() > 1e-12 {
		t.Errorf("Hit point %v, expected origin", si.Point)
	}
	// Barycentrics of the origin are (0.25, 0.25, 0.5)
	if math.Abs(si.TexCoord.X-0.5) > 1e-12 || math.Abs(si.TexCoord.Y-0.5) > 1e-12 {
		t.Errorf("TexCoord %v, expected (0.5, 0.5)", si.TexCoord)
	}
	if si.Material != 0 {
		t.Errorf("Material %d, expected 0", si.Material)
	}

	back := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1))
	hit, ok = w.Intersect(back, nil)
	if !ok {
		t.Fatal("Expected to hit the triangle from behind")
	}
	if w.Surface(back, hit).FrontFace {
		t.Error("Ray from behind should see the back face")
	}
}

func TestWorld_RejectsInvalidScene(t *testing.T) {
	s, _ := scene.Builtin("triangle")
	s.Instances[0].Material = 5
	if _, err := NewWorld(s, core.NopLogger{}); !errors.Is(err, scene.ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene, got %v", err)
	}
}

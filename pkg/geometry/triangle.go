package geometry

import (
	"github.com/df07/go-raydiance/pkg/core"
)

// Triangle is a world-space triangle with its shading attributes
type Triangle struct {
	V0, V1, V2    core.Vec3 // The three vertices
	N0, N1, N2    core.Vec3 // Vertex normals (the geometric normal when the mesh has none)
	UV0, UV1, UV2 core.Vec2 // Texture coordinates (zero when the mesh has none)
	Material      int
	Instance      int
	normal        core.Vec3 // Cached geometric normal, oriented with the vertex normals
	bbox          core.AABB // Cached bounding box
}

// NewTriangle creates a triangle without shading attributes. Its normal
// follows the counter-clockwise winding of v0, v1, v2.
func NewTriangle(v0, v1, v2 core.Vec3, material int) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Material: material}
	t.computeNormal()
	t.N0, t.N1, t.N2 = t.normal, t.normal, t.normal
	t.computeBoundingBox()
	return t
}

// computeNormal calculates and caches the triangle's geometric normal. When
// vertex normals are present, the winding is ignored and the normal is turned
// to the side the vertex normals point to.
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()

	if shading := t.N0.Add(t.N1).Add(t.N2); shading.Dot(t.normal) < 0 {
		t.normal = t.normal.Negate()
	}
}

// computeBoundingBox calculates and caches the triangle's bounding box
func (t *Triangle) computeBoundingBox() {
	t.bbox = core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// Hit tests the ray against the triangle using the Möller-Trumbore algorithm.
// It returns the distance and the barycentric weights of V1 and V2.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (float64, float64, float64, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return 0, 0, 0, false
	}
	return tHit, u, v, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Multiply(1.0 / 3.0)
}

// Normal returns the triangle's geometric normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// ShadingNormal interpolates the vertex normals at barycentrics b
func (t *Triangle) ShadingNormal(b core.Vec3) core.Vec3 {
	n := t.N0.Multiply(b.X).Add(t.N1.Multiply(b.Y)).Add(t.N2.Multiply(b.Z))
	if n.LengthSquared() < 1e-24 || !n.IsFinite() {
		return t.normal
	}
	return n.Normalize()
}

// TexCoord interpolates the texture coordinates at barycentrics b
func (t *Triangle) TexCoord(b core.Vec3) core.Vec2 {
	return t.UV0.Multiply(b.X).Add(t.UV1.Multiply(b.Y)).Add(t.UV2.Multiply(b.Z))
}

package core

import "math"

// ONB is a right-handed orthonormal frame whose Normal plays the role of the
// local +Y axis: local (x, y, z) maps to Tangent, Normal, Bitangent.
type ONB struct {
	Tangent   Vec3
	Normal    Vec3
	Bitangent Vec3
}

// NewONB builds a frame around a unit normal without branching on near-axis
// normals (Duff et al., "Building an Orthonormal Basis, Revisited")
func NewONB(normal Vec3) ONB {
	sign := math.Copysign(1, normal.Z)
	a := -1.0 / (sign + normal.Z)
	b := normal.X * normal.Y * a

	b1 := NewVec3(1+sign*normal.X*normal.X*a, sign*b, -sign*normal.X)
	b2 := NewVec3(b, sign+normal.Y*normal.Y*a, -normal.Y)

	return ONB{Tangent: b2, Normal: normal, Bitangent: b1}
}

// ToWorld transforms a local direction into world space
func (o ONB) ToWorld(v Vec3) Vec3 {
	return o.Tangent.Multiply(v.X).Add(o.Normal.Multiply(v.Y)).Add(o.Bitangent.Multiply(v.Z))
}

// ToLocal transforms a world direction into the frame
func (o ONB) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(o.Tangent), v.Dot(o.Normal), v.Dot(o.Bitangent))
}

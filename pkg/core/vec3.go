package core

import (
	"math"
)

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// World axes used for basis construction and fallbacks
var (
	WorldUp    = Vec3{X: 0, Y: 1, Z: 0}
	WorldRight = Vec3{X: 1, Y: 0, Z: 0}
)

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// IsFinite reports whether every component is neither NaN nor infinite
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// RejectFrom returns the component of v perpendicular to the unit vector n
func (v Vec3) RejectFrom(n Vec3) Vec3 {
	return v.Subtract(n.Multiply(v.Dot(n)))
}

// Orthonormalize rebuilds a right-handed orthonormal {right, up, forward} basis.
// Forward is kept as the reference axis; right and up are re-derived from it
// by Gram-Schmidt so accumulated drift never skews the camera frame.
func Orthonormalize(right, up, forward Vec3) (Vec3, Vec3, Vec3) {
	f := forward.Normalize()
	if f.LengthSquared() == 0 {
		f = Vec3{X: 0, Y: 0, Z: -1}
	}

	r := right.RejectFrom(f)
	if r.LengthSquared() < 1e-24 {
		// Right collapsed onto forward, derive it from the up hint instead
		r = f.Cross(up)
		if r.LengthSquared() < 1e-24 {
			r = f.Cross(WorldUp)
		}
		if r.LengthSquared() < 1e-24 {
			r = f.Cross(WorldRight)
		}
	}
	r = r.Normalize()

	u := r.Cross(f).Normalize()
	return r, u, f
}

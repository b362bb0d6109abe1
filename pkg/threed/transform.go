package threed

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// AffineTransform3 is a 3D affine transform stored as the top three rows of
// a homogeneous 4x4 matrix.
type AffineTransform3 struct {
	m00, m01, m02, m03 float64
	m10, m11, m12, m13 float64
	m20, m21, m22, m23 float64
}

// IdentityTransform3 returns the identity transform.
func IdentityTransform3() AffineTransform3 {
	return AffineTransform3{m00: 1, m11: 1, m22: 1}
}

// Translation3 returns a transform translating by v.
func Translation3(v r3.Vec) AffineTransform3 {
	return AffineTransform3{m00: 1, m11: 1, m22: 1, m03: v.X, m13: v.Y, m23: v.Z}
}

// Scaling3 returns a transform scaling by sx, sy and sz about the origin.
func Scaling3(sx, sy, sz float64) AffineTransform3 {
	return AffineTransform3{m00: sx, m11: sy, m22: sz}
}

// RotationX returns a rotation about the X axis by the given angle in
// radians, counterclockwise viewed from +X.
func RotationX(angle float64) AffineTransform3 {
	sin, cos := math.Sincos(angle)
	return AffineTransform3{m00: 1, m11: cos, m12: -sin, m21: sin, m22: cos}
}

// RotationY returns a rotation about the Y axis by the given angle in
// radians, counterclockwise viewed from +Y.
func RotationY(angle float64) AffineTransform3 {
	sin, cos := math.Sincos(angle)
	return AffineTransform3{m00: cos, m02: sin, m11: 1, m20: -sin, m22: cos}
}

// RotationZ returns a rotation about the Z axis by the given angle in
// radians, counterclockwise viewed from +Z.
func RotationZ(angle float64) AffineTransform3 {
	sin, cos := math.Sincos(angle)
	return AffineTransform3{m00: cos, m01: -sin, m10: sin, m11: cos, m22: 1}
}

// Mul returns the composition "a then the receiver": the result applies a
// first.
func (t AffineTransform3) Mul(a AffineTransform3) AffineTransform3 {
	return AffineTransform3{
		m00: t.m00*a.m00 + t.m01*a.m10 + t.m02*a.m20,
		m01: t.m00*a.m01 + t.m01*a.m11 + t.m02*a.m21,
		m02: t.m00*a.m02 + t.m01*a.m12 + t.m02*a.m22,
		m03: t.m00*a.m03 + t.m01*a.m13 + t.m02*a.m23 + t.m03,
		m10: t.m10*a.m00 + t.m11*a.m10 + t.m12*a.m20,
		m11: t.m10*a.m01 + t.m11*a.m11 + t.m12*a.m21,
		m12: t.m10*a.m02 + t.m11*a.m12 + t.m12*a.m22,
		m13: t.m10*a.m03 + t.m11*a.m13 + t.m12*a.m23 + t.m13,
		m20: t.m20*a.m00 + t.m21*a.m10 + t.m22*a.m20,
		m21: t.m20*a.m01 + t.m21*a.m11 + t.m22*a.m21,
		m22: t.m20*a.m02 + t.m21*a.m12 + t.m22*a.m22,
		m23: t.m20*a.m03 + t.m21*a.m13 + t.m22*a.m23 + t.m23,
	}
}

// Apply maps the point through the transform.
func (t AffineTransform3) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.m00*p.X + t.m01*p.Y + t.m02*p.Z + t.m03,
		Y: t.m10*p.X + t.m11*p.Y + t.m12*p.Z + t.m13,
		Z: t.m20*p.X + t.m21*p.Y + t.m22*p.Z + t.m23,
	}
}

// Determinant returns the determinant of the linear part.
func (t AffineTransform3) Determinant() float64 {
	return t.m00*(t.m11*t.m22-t.m12*t.m21) -
		t.m01*(t.m10*t.m22-t.m12*t.m20) +
		t.m02*(t.m10*t.m21-t.m11*t.m20)
}

// PreservesOrientation reports whether the transform keeps handedness:
// reflections and mirror scalings reverse it.
func (t AffineTransform3) PreservesOrientation() bool {
	return t.Determinant() > 0
}

package twod

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AffineTransform is a 2D affine transform stored as the top two rows of a
// homogeneous 3x3 matrix.
type AffineTransform struct {
	m00, m01, m02 float64
	m10, m11, m12 float64
}

// NewAffineTransform returns the transform with the given matrix entries,
// row by row.
func NewAffineTransform(m00, m01, m02, m10, m11, m12 float64) AffineTransform {
	return AffineTransform{m00: m00, m01: m01, m02: m02, m10: m10, m11: m11, m12: m12}
}

// IdentityTransform returns the identity transform.
func IdentityTransform() AffineTransform {
	return AffineTransform{m00: 1, m11: 1}
}

// Translation returns a transform translating by v.
func Translation(v r2.Vec) AffineTransform {
	return AffineTransform{m00: 1, m11: 1, m02: v.X, m12: v.Y}
}

// Scaling returns a transform scaling by sx and sy about the origin.
func Scaling(sx, sy float64) AffineTransform {
	return AffineTransform{m00: sx, m11: sy}
}

// Rotation returns a counterclockwise rotation about the origin by the
// given angle in radians.
func Rotation(angle float64) AffineTransform {
	sin, cos := math.Sincos(angle)
	return AffineTransform{m00: cos, m01: -sin, m10: sin, m11: cos}
}

// Mul returns the composition "a then the receiver": the result applies a
// first.
func (t AffineTransform) Mul(a AffineTransform) AffineTransform {
	return AffineTransform{
		m00: t.m00*a.m00 + t.m01*a.m10,
		m01: t.m00*a.m01 + t.m01*a.m11,
		m02: t.m00*a.m02 + t.m01*a.m12 + t.m02,
		m10: t.m10*a.m00 + t.m11*a.m10,
		m11: t.m10*a.m01 + t.m11*a.m11,
		m12: t.m10*a.m02 + t.m11*a.m12 + t.m12,
	}
}

// Apply maps the point through the transform.
func (t AffineTransform) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: t.m00*p.X + t.m01*p.Y + t.m02,
		Y: t.m10*p.X + t.m11*p.Y + t.m12,
	}
}

// Determinant returns the determinant of the linear part.
func (t AffineTransform) Determinant() float64 {
	return t.m00*t.m11 - t.m01*t.m10
}

// PreservesOrientation reports whether the transform keeps handedness:
// reflections and negative scalings reverse it.
func (t AffineTransform) PreservesOrientation() bool {
	return t.Determinant() > 0
}

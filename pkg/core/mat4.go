package core

import "math"

// Mat4 is a 4x4 affine transform stored row-major.
// Points are treated as column vectors: p' = M * p.
type Mat4 [16]float64

// Identity returns the identity transform
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// NewTranslation returns a transform that moves points by offset
func NewTranslation(offset Vec3) Mat4 {
	m := Identity()
	m[3] = offset.X
	m[7] = offset.Y
	m[11] = offset.Z
	return m
}

// NewScale returns a non-uniform scale transform
func NewScale(scale Vec3) Mat4 {
	return Mat4{
		scale.X, 0, 0, 0,
		0, scale.Y, 0, 0,
		0, 0, scale.Z, 0,
		0, 0, 0, 1,
	}
}

// NewRotationZ returns a counter-clockwise rotation about +Z by angle radians
func NewRotationZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// NewRotationX returns a counter-clockwise rotation about +X by angle radians
func NewRotationX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at row r, column c
func (m Mat4) At(r, c int) float64 {
	return m[r*4+c]
}

// Mul returns m * other, so other is applied first
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * other[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// MulPoint transforms a point, including translation.
// A projective bottom row is honoured by dividing through by w.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3]
	y := m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7]
	z := m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11]
	w := m[12]*p.X + m[13]*p.Y + m[14]*p.Z + m[15]
	if w != 1 && w != 0 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// MulDirection transforms a direction, ignoring translation
func (m Mat4) MulDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[1]*d.Y + m[2]*d.Z,
		m[4]*d.X + m[5]*d.Y + m[6]*d.Z,
		m[8]*d.X + m[9]*d.Y + m[10]*d.Z,
	}
}

// Package vmath provides the linear math and error-bounded floating point
// primitives used throughout the renderer: vectors, axis-aligned bounds,
// transforms and EFloat intervals.
package vmath

import "math"

// Epsilon is used to distinguish when a float32 is close enough to a number.
const Epsilon float32 = 1e-6

// Pi is math.Pi rounded to float32, used throughout the renderer so
// callers don't need to import math just for the constant.
const Pi float32 = math.Pi

// V2 is a 2 element vector, typically used for UV coordinates and lens/film
// samples.
type V2 struct {
	X, Y float32
}

// V3 is a 3 element vector. This also doubles as a point or a surface
// normal depending on context.
type V3 struct {
	X, Y, Z float32
}

// Aeq (~=) almost-equals returns true if v and a have essentially the
// same value in every component.
func (v V3) Aeq(a V3) bool {
	return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z)
}

// Add returns v+a.
func (v V3) Add(a V3) V3 { return V3{v.X + a.X, v.Y + a.Y, v.Z + a.Z} }

// Sub returns v-a.
func (v V3) Sub(a V3) V3 { return V3{v.X - a.X, v.Y - a.Y, v.Z - a.Z} }

// Mul returns the component-wise product v*a.
func (v V3) Mul(a V3) V3 { return V3{v.X * a.X, v.Y * a.Y, v.Z * a.Z} }

// Neg returns -v.
func (v V3) Neg() V3 { return V3{-v.X, -v.Y, -v.Z} }

// Scale returns v*s.
func (v V3) Scale(s float32) V3 { return V3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and a.
func (v V3) Dot(a V3) float32 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// AbsDot returns |Dot(v,a)|.
func (v V3) AbsDot(a V3) float32 { return Abs(v.Dot(a)) }

// Cross returns v×a.
func (v V3) Cross(a V3) V3 {
	return V3{
		v.Y*a.Z - v.Z*a.Y,
		v.Z*a.X - v.X*a.Z,
		v.X*a.Y - v.Y*a.X,
	}
}

// LenSq returns the squared length of v.
func (v V3) LenSq() float32 { return v.Dot(v) }

// Len returns the length of v.
func (v V3) Len() float32 { return Sqrt(v.LenSq()) }

// Unit returns v normalized to unit length. The zero vector is returned
// unchanged.
func (v V3) Unit() V3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// MaxComponent returns the largest of the three components.
func (v V3) MaxComponent() float32 { return Max(v.X, Max(v.Y, v.Z)) }

// MaxAxis returns 0, 1 or 2 for whichever of X, Y, Z is largest.
func (v V3) MaxAxis() int {
	if v.X > v.Y && v.X > v.Z {
		return 0
	}
	if v.Y > v.Z {
		return 1
	}
	return 2
}

// At returns the i'th component (0=X, 1=Y, 2=Z).
func (v V3) At(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Abs returns the component-wise absolute value of v.
func (v V3) Abs() V3 { return V3{Abs(v.X), Abs(v.Y), Abs(v.Z)} }

// Min returns the component-wise minimum of v and a.
func (v V3) Min(a V3) V3 { return V3{Min(v.X, a.X), Min(v.Y, a.Y), Min(v.Z, a.Z)} }

// Max returns the component-wise maximum of v and a.
func (v V3) Max(a V3) V3 { return V3{Max(v.X, a.X), Max(v.Y, a.Y), Max(v.Z, a.Z)} }

// Permute returns a vector built from v's components reordered by kx, ky, kz
// (each 0, 1 or 2). Used by the robust triangle intersection axis swap.
func (v V3) Permute(kx, ky, kz int) V3 { return V3{v.At(kx), v.At(ky), v.At(kz)} }

// FaceForward flips v so that it lies in the same hemisphere as ref.
func (v V3) FaceForward(ref V3) V3 {
	if v.Dot(ref) < 0 {
		return v.Neg()
	}
	return v
}

// LerpV3 linearly interpolates between a and b by t.
func LerpV3(t float32, a, b V3) V3 {
	return a.Scale(1 - t).Add(b.Scale(t))
}

// CoordinateSystem builds an orthonormal basis (v2, v3) given the unit
// vector v1, following Duff et al.'s branchless construction.
func CoordinateSystem(v1 V3) (v2, v3 V3) {
	sign := float32(1)
	if v1.Z < 0 {
		sign = -1
	}
	a := -1 / (sign + v1.Z)
	b := v1.X * v1.Y * a
	v2 = V3{1 + sign*v1.X*v1.X*a, sign * b, -sign * v1.X}
	v3 = V3{b, sign + v1.Y*v1.Y*a, -v1.Y}
	return v2, v3
}

// Add returns v+a for V2.
func (v V2) Add(a V2) V2 { return V2{v.X + a.X, v.Y + a.Y} }

// Sub returns v-a for V2.
func (v V2) Sub(a V2) V2 { return V2{v.X - a.X, v.Y - a.Y} }

// Scale returns v*s for V2.
func (v V2) Scale(s float32) V2 { return V2{v.X * s, v.Y * s} }

// Aeq reports whether a and b are within Epsilon of each other.
func Aeq(a, b float32) bool { return Abs(a-b) < Epsilon }

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of a and b.
func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float32) float32 { return Max(lo, Min(x, hi)) }

// Lerp linearly interpolates between a and b by t.
func Lerp(t, a, b float32) float32 { return (1-t)*a + t*b }

// Sqrt wraps math.Sqrt at float32 precision.
func Sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }

// Gamma is the conservative bound on the relative error accumulated over n
// sequential float32 operations: n*eps / (1 - n*eps).
func Gamma(n int) float32 {
	e := MachineEpsilon
	return float32(n) * e / (1 - float32(n)*e)
}

// MachineEpsilon is half the ULP spacing of float32 at 1.0, matching the
// conventional definition used by the Gamma() error bound.
const MachineEpsilon float32 = 1.1920929e-7 / 2

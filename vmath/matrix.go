package vmath

import (
	"math"

	"github.com/guerarda/rt1w-sub000/internal/trap"
)

// M4 is a 4x4 row-major matrix, named after the fields of the engine's old
// M4 (Xx, Xy, Xz, Xw / Yx... / Zx... / Wx...) but stored as a flat array
// since the renderer needs general affine+projective matrices (scale,
// shear, perspective) rather than the rotation-only basis vu composed its
// M3/M4 from.
type M4 [4][4]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() M4 {
	return M4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m*o.
func (m M4) Mul(o M4) M4 {
	var r M4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Transpose returns the transpose of m.
func (m M4) Transpose() M4 {
	var r M4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Inverse returns the inverse of m via Gauss-Jordan elimination with
// partial pivoting. Panics if m is singular, which should never occur for
// the well-formed scene transforms constructed by the factories below.
func (m M4) Inverse() M4 {
	indxc, indxr, ipiv := [4]int{}, [4]int{}, [4]int{}
	minv := m
	for i := 0; i < 4; i++ {
		irow, icol := 0, 0
		big := float32(0)
		for j := 0; j < 4; j++ {
			if ipiv[j] != 1 {
				for k := 0; k < 4; k++ {
					if ipiv[k] == 0 {
						if Abs(minv[j][k]) >= big {
							big = Abs(minv[j][k])
							irow, icol = j, k
						}
					}
				}
			}
		}
		ipiv[icol]++
		if irow != icol {
			for k := 0; k < 4; k++ {
				minv[irow][k], minv[icol][k] = minv[icol][k], minv[irow][k]
			}
		}
		indxr[i], indxc[i] = irow, icol
		if minv[icol][icol] == 0 {
			trap.Panicf("vmath: singular matrix has no inverse")
		}
		pivinv := 1 / minv[icol][icol]
		minv[icol][icol] = 1
		for j := 0; j < 4; j++ {
			minv[icol][j] *= pivinv
		}
		for j := 0; j < 4; j++ {
			if j != icol {
				save := minv[j][icol]
				minv[j][icol] = 0
				for k := 0; k < 4; k++ {
					minv[j][k] -= minv[icol][k] * save
				}
			}
		}
	}
	for j := 3; j >= 0; j-- {
		if indxr[j] != indxc[j] {
			for k := 0; k < 4; k++ {
				minv[k][indxr[j]], minv[k][indxc[j]] = minv[k][indxc[j]], minv[k][indxr[j]]
			}
		}
	}
	return minv
}

// Transform is a pair (M, Minv) of 4x4 matrices kept in sync so inverse
// transforms never need to be recomputed on the fly.
type Transform struct {
	M, Minv M4
}

// Identity returns the identity transform.
func Identity() Transform { return Transform{Identity4(), Identity4()} }

// Inverse returns the transform with M and Minv swapped.
func (t Transform) Inverse() Transform { return Transform{t.Minv, t.M} }

// Mul composes t and o such that t.Mul(o).ApplyPoint(p) == t.ApplyPoint(o.ApplyPoint(p));
// o is applied first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{M: t.M.Mul(o.M), Minv: o.Minv.Mul(t.Minv)}
}

// Translate returns a transform that translates by delta.
func Translate(delta V3) Transform {
	m := Identity4()
	m[0][3], m[1][3], m[2][3] = delta.X, delta.Y, delta.Z
	mi := Identity4()
	mi[0][3], mi[1][3], mi[2][3] = -delta.X, -delta.Y, -delta.Z
	return Transform{m, mi}
}

// ScaleT returns a transform that scales non-uniformly by (x,y,z).
func ScaleT(x, y, z float32) Transform {
	m := M4{
		{x, 0, 0, 0},
		{0, y, 0, 0},
		{0, 0, z, 0},
		{0, 0, 0, 1},
	}
	mi := M4{
		{1 / x, 0, 0, 0},
		{0, 1 / y, 0, 0},
		{0, 0, 1 / z, 0},
		{0, 0, 0, 1},
	}
	return Transform{m, mi}
}

// RotateX returns a transform that rotates theta degrees about the X axis.
func RotateX(theta float32) Transform {
	s, c := sinCos(theta)
	m := M4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
	return Transform{m, m.Transpose()}
}

// RotateY returns a transform that rotates theta degrees about the Y axis.
func RotateY(theta float32) Transform {
	s, c := sinCos(theta)
	m := M4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
	return Transform{m, m.Transpose()}
}

// RotateZ returns a transform that rotates theta degrees about the Z axis.
func RotateZ(theta float32) Transform {
	s, c := sinCos(theta)
	m := M4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	return Transform{m, m.Transpose()}
}

// Rotate returns a transform that rotates theta degrees about an arbitrary
// unit axis.
func Rotate(theta float32, axis V3) Transform {
	a := axis.Unit()
	s, c := sinCos(theta)
	var m M4
	m[0][0] = a.X*a.X + (1-a.X*a.X)*c
	m[0][1] = a.X*a.Y*(1-c) - a.Z*s
	m[0][2] = a.X*a.Z*(1-c) + a.Y*s
	m[0][3] = 0
	m[1][0] = a.X*a.Y*(1-c) + a.Z*s
	m[1][1] = a.Y*a.Y + (1-a.Y*a.Y)*c
	m[1][2] = a.Y*a.Z*(1-c) - a.X*s
	m[1][3] = 0
	m[2][0] = a.X*a.Z*(1-c) - a.Y*s
	m[2][1] = a.Y*a.Z*(1-c) + a.X*s
	m[2][2] = a.Z*a.Z + (1-a.Z*a.Z)*c
	m[2][3] = 0
	m[3] = [4]float32{0, 0, 0, 1}
	return Transform{m, m.Transpose()}
}

// LookAt returns a transform mapping camera space (+z view direction, +y
// up) to world space, with the camera positioned at eye.
func LookAt(eye, look, up V3) Transform {
	dir := look.Sub(eye).Unit()
	right := up.Unit().Cross(dir).Unit()
	newUp := dir.Cross(right)
	m := M4{
		{right.X, newUp.X, dir.X, eye.X},
		{right.Y, newUp.Y, dir.Y, eye.Y},
		{right.Z, newUp.Z, dir.Z, eye.Z},
		{0, 0, 0, 1},
	}
	return Transform{m, m.Inverse()}
}

// Orthographic returns a transform mapping [znear,zfar] to [0,1] (NDC z)
// with the screen-space mapping left to the camera's raster transform.
func Orthographic(znear, zfar float32) Transform {
	return ScaleT(1, 1, 1/(zfar-znear)).Mul(Translate(V3{0, 0, -znear}))
}

// Perspective returns a perspective projection transform for the given
// vertical field of view (degrees) and near/far clip planes.
func Perspective(fov, znear, zfar float32) Transform {
	m := M4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, zfar / (zfar - znear), -zfar * znear / (zfar - znear)},
		{0, 0, 1, 0},
	}
	invTanAng := 1 / Tan(Radians(fov)/2)
	return ScaleT(invTanAng, invTanAng, 1).Mul(Transform{m, m.Inverse()})
}

// ApplyPoint transforms point p, ignoring the homogeneous divide unless
// the transform is projective (w != 1).
func (t Transform) ApplyPoint(p V3) V3 {
	m := t.M
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w == 1 {
		return V3{x, y, z}
	}
	return V3{x / w, y / w, z / w}
}

// ApplyPointErr transforms p and returns a conservative componentwise
// absolute error bound for the transformed point, following the gamma(3)
// bound pbrt-style renderers use for a matrix-vector product with exact
// matrix entries.
func (t Transform) ApplyPointErr(p V3) (V3, V3) {
	m := t.M
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	g := Gamma(3)
	ex := g * (Abs(m[0][0]*p.X) + Abs(m[0][1]*p.Y) + Abs(m[0][2]*p.Z) + Abs(m[0][3]))
	ey := g * (Abs(m[1][0]*p.X) + Abs(m[1][1]*p.Y) + Abs(m[1][2]*p.Z) + Abs(m[1][3]))
	ez := g * (Abs(m[2][0]*p.X) + Abs(m[2][1]*p.Y) + Abs(m[2][2]*p.Z) + Abs(m[2][3]))
	return V3{x, y, z}, V3{ex, ey, ez}
}

// ApplyVector transforms direction vector v (no translation).
func (t Transform) ApplyVector(v V3) V3 {
	m := t.M
	return V3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ApplyVectorErr is the vector analogue of ApplyPointErr.
func (t Transform) ApplyVectorErr(v V3) (V3, V3) {
	tv := t.ApplyVector(v)
	m := t.M
	g := Gamma(3)
	ex := g * (Abs(m[0][0]*v.X) + Abs(m[0][1]*v.Y) + Abs(m[0][2]*v.Z))
	ey := g * (Abs(m[1][0]*v.X) + Abs(m[1][1]*v.Y) + Abs(m[1][2]*v.Z))
	ez := g * (Abs(m[2][0]*v.X) + Abs(m[2][1]*v.Y) + Abs(m[2][2]*v.Z))
	return tv, V3{ex, ey, ez}
}

// ApplyNormal transforms surface normal n using the inverse-transpose.
func (t Transform) ApplyNormal(n V3) V3 {
	mi := t.Minv
	return V3{
		mi[0][0]*n.X + mi[1][0]*n.Y + mi[2][0]*n.Z,
		mi[0][1]*n.X + mi[1][1]*n.Y + mi[2][1]*n.Z,
		mi[0][2]*n.X + mi[1][2]*n.Y + mi[2][2]*n.Z,
	}
}

// ApplyBounds transforms an axis aligned bound by transforming its eight
// corners and taking their union.
func (t Transform) ApplyBounds(b Bounds3) Bounds3 {
	r := BoundsFromPoint(t.ApplyPoint(b.Corner(0)))
	for i := 1; i < 8; i++ {
		r = r.Union(t.ApplyPoint(b.Corner(i)))
	}
	return r
}

// SwapsHandedness reports whether t flips orientation (determinant < 0),
// which matters for consistent normal orientation after transforms.
func (t Transform) SwapsHandedness() bool {
	m := t.M
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	return det < 0
}

func sinCos(degrees float32) (s, c float32) {
	r := Radians(degrees)
	return float32(math.Sin(float64(r))), float32(math.Cos(float64(r)))
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 { return rad * 180 / math.Pi }

// Tan wraps math.Tan at float32 precision.
func Tan(x float32) float32 { return float32(math.Tan(float64(x))) }

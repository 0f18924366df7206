package shape

import (
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Mesh is the shared backing store for a group of triangles: world-space
// vertex positions, optional shading normals and UVs, and the vertex
// indices for every triangle, three per face. Triangle instances index
// into this shared storage, mirroring the mesh-plus-handle layout the
// engine's OBJ loader produces, but without the GPU vertex-buffer
// concerns (mesh.go's render bindings) that only applied to rasterized
// scenes.
type Mesh struct {
	Indices []int
	P       []vmath.V3
	N       []vmath.V3 // optional: len 0 or len(P)
	UV      []vmath.V2 // optional: len 0 or len(P)
}

// Triangle is one face of a Mesh, referenced by its first index into
// Mesh.Indices.
type Triangle struct {
	Mesh     *Mesh
	FaceBase int // index into Mesh.Indices of this face's first vertex
}

// NewTriangles builds one Triangle per face in mesh.
func NewTriangles(mesh *Mesh) []*Triangle {
	n := len(mesh.Indices) / 3
	out := make([]*Triangle, n)
	for i := 0; i < n; i++ {
		out[i] = &Triangle{Mesh: mesh, FaceBase: i * 3}
	}
	return out
}

func (tr *Triangle) verts() (p0, p1, p2 vmath.V3) {
	m := tr.Mesh
	i0, i1, i2 := m.Indices[tr.FaceBase], m.Indices[tr.FaceBase+1], m.Indices[tr.FaceBase+2]
	return m.P[i0], m.P[i1], m.P[i2]
}

func (tr *Triangle) uvs() (uv0, uv1, uv2 vmath.V2) {
	m := tr.Mesh
	if len(m.UV) == 0 {
		return vmath.V2{X: 0, Y: 0}, vmath.V2{X: 1, Y: 0}, vmath.V2{X: 1, Y: 1}
	}
	i0, i1, i2 := m.Indices[tr.FaceBase], m.Indices[tr.FaceBase+1], m.Indices[tr.FaceBase+2]
	return m.UV[i0], m.UV[i1], m.UV[i2]
}

func (tr *Triangle) shadingNormals() (n0, n1, n2 vmath.V3, ok bool) {
	m := tr.Mesh
	if len(m.N) == 0 {
		return vmath.V3{}, vmath.V3{}, vmath.V3{}, false
	}
	i0, i1, i2 := m.Indices[tr.FaceBase], m.Indices[tr.FaceBase+1], m.Indices[tr.FaceBase+2]
	return m.N[i0], m.N[i1], m.N[i2], true
}

func (tr *Triangle) WorldBound() vmath.Bounds3 {
	p0, p1, p2 := tr.verts()
	return vmath.BoundsFromPoints(p0, p1).Union(p2)
}

func (tr *Triangle) Area() float32 {
	p0, p1, p2 := tr.verts()
	return 0.5 * p1.Sub(p0).Cross(p2.Sub(p0)).Len()
}

// Intersect implements the watertight ray-triangle test of spec §4.6:
// translate to the ray origin, permute so the ray direction's dominant
// axis becomes z, shear so the direction becomes (0,0,1), then test
// edge functions in the sheared (x,y) plane.
func (tr *Triangle) Intersect(r vmath.Ray) (Interaction, float32, bool) {
	p0, p1, p2 := tr.verts()

	p0t := p0.Sub(r.Origin)
	p1t := p1.Sub(r.Origin)
	p2t := p2.Sub(r.Origin)

	kz := r.Dir.Abs().MaxAxis()
	kx := (kz + 1) % 3
	ky := (kx + 1) % 3
	d := permute(r.Dir, kx, ky, kz)
	p0t = permute(p0t, kx, ky, kz)
	p1t = permute(p1t, kx, ky, kz)
	p2t = permute(p2t, kx, ky, kz)

	sx := -d.X / d.Z
	sy := -d.Y / d.Z
	sz := 1 / d.Z

	p0t.X += sx * p0t.Z
	p0t.Y += sy * p0t.Z
	p1t.X += sx * p1t.Z
	p1t.Y += sy * p1t.Z
	p2t.X += sx * p2t.Z
	p2t.Y += sy * p2t.Z

	e0 := p1t.X*p2t.Y - p1t.Y*p2t.X
	e1 := p2t.X*p0t.Y - p2t.Y*p0t.X
	e2 := p0t.X*p1t.Y - p0t.Y*p1t.X

	if (e0 < 0 || e1 < 0 || e2 < 0) && (e0 > 0 || e1 > 0 || e2 > 0) {
		return Interaction{}, 0, false
	}
	det := e0 + e1 + e2
	if det == 0 {
		return Interaction{}, 0, false
	}

	p0t.Z *= sz
	p1t.Z *= sz
	p2t.Z *= sz
	tScaled := e0*p0t.Z + e1*p1t.Z + e2*p2t.Z
	if det < 0 && (tScaled >= 0 || tScaled < r.TMax*det) {
		return Interaction{}, 0, false
	} else if det > 0 && (tScaled <= 0 || tScaled > r.TMax*det) {
		return Interaction{}, 0, false
	}

	invDet := 1 / det
	b0 := e0 * invDet
	b1 := e1 * invDet
	b2 := e2 * invDet
	t := tScaled * invDet

	maxZt := vmath.V3{X: p0t.Z, Y: p1t.Z, Z: p2t.Z}.Abs().MaxComponent()
	deltaZ := vmath.Gamma(3) * maxZt
	maxXt := vmath.V3{X: p0t.X, Y: p1t.X, Z: p2t.X}.Abs().MaxComponent()
	maxYt := vmath.V3{X: p0t.Y, Y: p1t.Y, Z: p2t.Y}.Abs().MaxComponent()
	deltaX := vmath.Gamma(5) * (maxXt + maxZt)
	deltaY := vmath.Gamma(5) * (maxYt + maxZt)
	deltaE := 2 * (vmath.Gamma(2)*maxXt*maxYt + deltaY*maxXt + deltaX*maxYt)
	maxE := vmath.Abs(e0) + vmath.Abs(e1) + vmath.Abs(e2)
	deltaT := 3 * (vmath.Gamma(3)*maxE*maxZt + deltaE*maxZt + deltaZ*maxE) * vmath.Abs(invDet)
	if t <= deltaT {
		return Interaction{}, 0, false
	}

	pHit := p0.Scale(b0).Add(p1.Scale(b1)).Add(p2.Scale(b2))
	uv0, uv1, uv2 := tr.uvs()
	uvHit := vmath.V2{
		X: b0*uv0.X + b1*uv1.X + b2*uv2.X,
		Y: b0*uv0.Y + b1*uv1.Y + b2*uv2.Y,
	}

	duv02 := uv0.Sub(uv2)
	duv12 := uv1.Sub(uv2)
	dp02 := p0.Sub(p2)
	dp12 := p1.Sub(p2)
	determinant := duv02.X*duv12.Y - duv02.Y*duv12.X
	var dpdu, dpdv vmath.V3
	if vmath.Abs(determinant) < 1e-8 {
		ng := dp02.Cross(dp12)
		if ng.LenSq() == 0 {
			return Interaction{}, 0, false
		}
		dpdu, dpdv = vmath.CoordinateSystem(ng.Unit())
	} else {
		invDet := 1 / determinant
		dpdu = dp02.Scale(duv12.Y).Sub(dp12.Scale(duv02.Y)).Scale(invDet)
		dpdv = dp12.Scale(duv02.X).Sub(dp02.Scale(duv12.X)).Scale(invDet)
	}

	xAbsSum := vmath.Abs(b0*p0.X) + vmath.Abs(b1*p1.X) + vmath.Abs(b2*p2.X)
	yAbsSum := vmath.Abs(b0*p0.Y) + vmath.Abs(b1*p1.Y) + vmath.Abs(b2*p2.Y)
	zAbsSum := vmath.Abs(b0*p0.Z) + vmath.Abs(b1*p1.Z) + vmath.Abs(b2*p2.Z)
	pError := vmath.V3{X: xAbsSum, Y: yAbsSum, Z: zAbsSum}.Scale(vmath.Gamma(7))

	ng := dp02.Cross(dp12).Unit()
	shadingN := ng
	if n0, n1, n2, ok := tr.shadingNormals(); ok {
		sn := n0.Scale(b0).Add(n1.Scale(b1)).Add(n2.Scale(b2))
		if sn.LenSq() > 0 {
			shadingN = sn.Unit()
			ng = ng.FaceForward(shadingN)
		}
	}

	it := Interaction{
		P:           pHit,
		PError:      pError,
		N:           ng,
		Wo:          r.Dir.Neg().Unit(),
		UV:          uvHit,
		Dpdu:        dpdu,
		Dpdv:        dpdv,
		ShadingN:    shadingN,
		ShadingDpdu: dpdu,
		ShadingDpdv: dpdv,
		T:           t,
		Shape:       tr,
	}
	return it, t, true
}

func (tr *Triangle) QIntersect(r vmath.Ray) bool {
	_, _, hit := tr.Intersect(r)
	return hit
}

func (tr *Triangle) Sample(u vmath.V2) (Interaction, float32) {
	b0, b1 := vmath.UniformSampleTriangle(u)
	b2 := 1 - b0 - b1
	p0, p1, p2 := tr.verts()
	p := p0.Scale(b0).Add(p1.Scale(b1)).Add(p2.Scale(b2))

	dp02 := p0.Sub(p2)
	dp12 := p1.Sub(p2)
	ng := dp02.Cross(dp12)
	area2 := ng.Len()
	n := ng.Scale(1 / area2)
	if n0, n1, n2, ok := tr.shadingNormals(); ok {
		sn := n0.Scale(b0).Add(n1.Scale(b1)).Add(n2.Scale(b2))
		if sn.LenSq() > 0 {
			n = n.FaceForward(sn.Unit())
		}
	}

	xAbsSum := vmath.Abs(b0*p0.X) + vmath.Abs(b1*p1.X) + vmath.Abs(b2*p2.X)
	yAbsSum := vmath.Abs(b0*p0.Y) + vmath.Abs(b1*p1.Y) + vmath.Abs(b2*p2.Y)
	zAbsSum := vmath.Abs(b0*p0.Z) + vmath.Abs(b1*p1.Z) + vmath.Abs(b2*p2.Z)
	pError := vmath.V3{X: xAbsSum, Y: yAbsSum, Z: zAbsSum}.Scale(vmath.Gamma(6))

	return Interaction{P: p, PError: pError, N: n, Shape: tr}, 1 / tr.Area()
}

func (tr *Triangle) SampleFrom(ref Interaction, u vmath.V2) (Interaction, float32) {
	it, _ := tr.Sample(u)
	wi := it.P.Sub(ref.P)
	if wi.LenSq() == 0 {
		return it, 0
	}
	wi = wi.Unit()
	return it, SolidAnglePdf(ref, it, wi, tr.Area())
}

func (tr *Triangle) PdfFrom(ref Interaction, wi vmath.V3) float32 {
	it, _, hit := tr.Intersect(ref.SpawnRay(wi))
	if !hit {
		return 0
	}
	return SolidAnglePdf(ref, it, wi, tr.Area())
}

func permute(v vmath.V3, x, y, z int) vmath.V3 {
	a := [3]float32{v.X, v.Y, v.Z}
	return vmath.V3{X: a[x], Y: a[y], Z: a[z]}
}

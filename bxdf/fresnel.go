package bxdf

import (
	"math"

	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Fresnel evaluates the fraction of light reflected at a surface for a
// given cosine between the incident direction and the surface normal.
type Fresnel interface {
	Evaluate(cosThetaI float32) spectrum.Spectrum
}

// FresnelNoOp always reflects fully; used as a no-op Fresnel term for
// materials (e.g. a plain mirror) that do not model angle-dependent
// reflectance.
type FresnelNoOp struct{}

func (FresnelNoOp) Evaluate(float32) spectrum.Spectrum { return spectrum.New(1) }

// FresnelDielectric implements Snell's law for a dielectric interface
// with real indices of refraction EtaI (incident side) and EtaT
// (transmitted side). Total internal reflection returns a reflectance
// of 1.
type FresnelDielectric struct {
	EtaI, EtaT float32
}

func (f FresnelDielectric) Evaluate(cosThetaI float32) spectrum.Spectrum {
	r := dielectricReflectance(cosThetaI, f.EtaI, f.EtaT)
	return spectrum.New(r)
}

// dielectricReflectance computes unpolarized Fresnel reflectance for a
// dielectric interface, swapping the index pair when the ray is exiting
// rather than entering (cosThetaI < 0).
func dielectricReflectance(cosThetaI, etaI, etaT float32) float32 {
	cosThetaI = vmath.Clamp(cosThetaI, -1, 1)
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = vmath.Abs(cosThetaI)
	}
	sinThetaI := vmath.Sqrt(vmath.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1 // total internal reflection.
	}
	cosThetaT := vmath.Sqrt(vmath.Max(0, 1-sinThetaT*sinThetaT))

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// SchlickReflectance approximates dielectricReflectance using Schlick's
// polynomial. It is used by material.Glass's legacy Scatter path;
// FresnelSpecular evaluates the exact dielectric term instead.
func SchlickReflectance(cosThetaI, etaI, etaT float32) float32 {
	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	c := 1 - vmath.Abs(cosThetaI)
	return r0 + (1-r0)*c*c*c*c*c
}

// FresnelConductor implements the polarization-averaged Fresnel
// reflectance for a conductor with complex index of refraction Eta+iK,
// evaluated independently per spectral channel.
type FresnelConductor struct {
	EtaI, EtaT, K spectrum.Spectrum
}

func (f FresnelConductor) Evaluate(cosThetaI float32) spectrum.Spectrum {
	cosThetaI = vmath.Clamp(vmath.Abs(cosThetaI), 0, 1)
	var out spectrum.Spectrum
	for i := 0; i < spectrum.N; i++ {
		out.C[i] = conductorReflectance(cosThetaI, f.EtaI.C[i], f.EtaT.C[i], f.K.C[i])
	}
	return out
}

func conductorReflectance(cosThetaI, etaI, etaT, k float32) float32 {
	eta := etaT / etaI
	etak := k / etaI

	cosThetaI2 := cosThetaI * cosThetaI
	sinThetaI2 := 1 - cosThetaI2
	eta2 := eta * eta
	etak2 := etak * etak

	t0 := eta2 - etak2 - sinThetaI2
	a2plusb2 := float32(math.Sqrt(float64(vmath.Max(0, t0*t0+4*eta2*etak2))))
	t1 := a2plusb2 + cosThetaI2
	a := float32(math.Sqrt(float64(vmath.Max(0, (a2plusb2+t0)*0.5))))
	t2 := 2 * a * cosThetaI
	rs := (t1 - t2) / (t1 + t2)

	t3 := cosThetaI2*a2plusb2 + sinThetaI2*sinThetaI2
	t4 := t2 * sinThetaI2
	rp := rs * (t3 - t4) / (t3 + t4)

	return (rp + rs) / 2
}

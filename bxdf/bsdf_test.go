package bxdf

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

func flatBSDF() *BSDF {
	n := vmath.V3{X: 0, Y: 0, Z: 1}
	dpdu := vmath.V3{X: 1, Y: 0, Z: 0}
	return NewBSDF(n, n, dpdu)
}

func TestBSDFSampleFMatchesPdf(t *testing.T) {
	b := flatBSDF()
	b.Add(&LambertianReflection{R: spectrum.New(0.6)})

	wo := vmath.V3{X: 0, Y: 0, Z: 1}
	wi, f, pdf, _ := b.Sample_f(wo, vmath.V2{X: 0.25, Y: 0.6}, All)
	if pdf <= 0 {
		t.Fatalf("expected positive pdf")
	}
	if got := b.Pdf(wo, wi, All); !vmath.Aeq(got, pdf) {
		t.Fatalf("Pdf() = %v, Sample_f reported %v", got, pdf)
	}
	if f.IsBlack() {
		t.Fatalf("expected non-black f for a diffuse reflection")
	}
}

func TestBSDFFZeroWhenNoLobesMatch(t *testing.T) {
	b := flatBSDF()
	b.Add(&LambertianReflection{R: spectrum.New(1)})
	wo := vmath.V3{X: 0, Y: 0, Z: 1}
	wi := vmath.V3{X: 0, Y: 0, Z: 1}
	f := b.F(wo, wi, Specular)
	if !f.IsBlack() {
		t.Fatalf("expected black f when no lobe matches flags, got %v", f)
	}
}

func TestBSDFTwoLobesAverageWeight(t *testing.T) {
	b := flatBSDF()
	b.Add(&LambertianReflection{R: spectrum.New(1)})
	b.Add(&LambertianReflection{R: spectrum.New(1)})
	wo := vmath.V3{X: 0, Y: 0, Z: 1}
	wi := vmath.V3{X: 0, Y: 0, Z: 1}
	pdf := b.Pdf(wo, wi, All)
	single := (&LambertianReflection{R: spectrum.New(1)}).Pdf(wo, wi)
	if !vmath.Aeq(pdf, single) {
		t.Fatalf("expected averaged pdf %v to equal single-lobe pdf %v", pdf, single)
	}
}

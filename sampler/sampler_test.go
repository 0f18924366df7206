package sampler

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/rng"
	"github.com/guerarda/rt1w-sub000/vmath"
)

func TestStratificationCoversAllStrataBeforeJitter(t *testing.T) {
	const nx, ny = 4, 4
	s := New(nx, ny, false, rng.New(1))
	s.StartPixel()

	seen := make(map[[2]int]bool)
	for s.StartNextSample() {
		cs := s.GetCameraSample(vmath.V2{})
		seen[[2]int{int(cs.PFilm.X * nx), int(cs.PFilm.Y * ny)}] = true
	}
	if len(seen) != nx*ny {
		t.Fatalf("film samples covered %d strata, want %d", len(seen), nx*ny)
	}
	if s.SamplesPerPixel() != nx*ny {
		t.Fatalf("SamplesPerPixel=%d, want %d", s.SamplesPerPixel(), nx*ny)
	}
}

func TestStratified2DCoversEveryCellExactlyOnce(t *testing.T) {
	const nx, ny = 3, 5
	r := rng.New(7)
	samples := stratified2D(nx, ny, false, r)
	if len(samples) != nx*ny {
		t.Fatalf("got %d samples, want %d", len(samples), nx*ny)
	}
	seen := make(map[[2]int]bool)
	for _, v := range samples {
		cx := int(v.X * nx)
		cy := int(v.Y * ny)
		seen[[2]int{cx, cy}] = true
	}
	if len(seen) != nx*ny {
		t.Fatalf("strata covered %d distinct cells, want %d", len(seen), nx*ny)
	}
}

func TestSamplesStayInUnitRange(t *testing.T) {
	r := rng.New(3)
	for _, v := range stratified2D(4, 4, true, r) {
		if v.X < 0 || v.X >= 1 || v.Y < 0 || v.Y >= 1 {
			t.Fatalf("sample %v out of [0,1)", v)
		}
	}
}

func TestStartNextSampleStopsAtSPP(t *testing.T) {
	s := New(2, 2, true, rng.New(5))
	s.StartPixel()
	count := 0
	for s.StartNextSample() {
		count++
	}
	if count != 4 {
		t.Fatalf("StartNextSample produced %d samples, want 4", count)
	}
}

func TestCloneProducesIndependentStream(t *testing.T) {
	s := New(2, 2, true, rng.New(11))
	c := s.Clone()
	s.StartPixel()
	c.StartPixel()
	s.StartNextSample()
	c.StartNextSample()
	a := s.GetCameraSample(vmath.V2{})
	b := c.GetCameraSample(vmath.V2{})
	if a == b {
		t.Fatalf("clone produced identical samples to parent")
	}
}

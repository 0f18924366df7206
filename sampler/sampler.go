// Package sampler implements per-pixel stratified sample generation for
// the path tracer: jittered 1D/2D strata, shuffled with Fisher-Yates, and
// the camera-sample pairing consumed by the integrator.
package sampler

import (
	"github.com/guerarda/rt1w-sub000/rng"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Sampler generates the stratified samples consumed by one pixel's worth
// of camera rays. A Sampler is not safe for concurrent use; Clone hands
// each tile worker an independent copy backed by its own RNG stream.
type Sampler struct {
	nx, ny int
	spp    int
	jitter bool

	rng *rng.RNG

	samples1D [][]float32
	samples2D [][]vmath.V2

	sampleIndex int
	dim1D       int
	dim2D       int
}

// New builds a sampler stratifying each pixel into an nx×ny grid, for
// spp = nx*ny samples per pixel. jitter enables sub-stratum jitter; when
// false, every stratum sample is its cell center.
func New(nx, ny int, jitter bool, r *rng.RNG) *Sampler {
	return &Sampler{
		nx:     nx,
		ny:     ny,
		spp:    nx * ny,
		jitter: jitter,
		rng:    r,
	}
}

// SamplesPerPixel returns spp = nx*ny.
func (s *Sampler) SamplesPerPixel() int { return s.spp }

// Clone returns an independent sampler with the same stratification
// parameters, seeded from this sampler's RNG stream.
func (s *Sampler) Clone() *Sampler {
	return New(s.nx, s.ny, s.jitter, s.rng.Clone())
}

// StartPixel regenerates this pixel's strata arrays and resets cursors.
// A Sampler carries one 1D and one 2D stratum array; GetCameraSample's
// film offset consumes the 2D array, and every further dimension
// (including the lens offset) is served directly from the RNG.
func (s *Sampler) StartPixel() {
	s.samples1D = [][]float32{stratified1D(s.nx*s.ny, s.jitter, s.rng)}
	s.samples2D = [][]vmath.V2{stratified2D(s.nx, s.ny, s.jitter, s.rng)}
	s.sampleIndex = -1
}

// StartNextSample advances to the next of the spp samples for the
// current pixel, resetting dimension cursors. It returns false once
// index reaches spp.
func (s *Sampler) StartNextSample() bool {
	s.sampleIndex++
	s.dim1D = 0
	s.dim2D = 0
	return s.sampleIndex < s.spp
}

// Sample1D returns the next pre-generated 1D stratum value for the
// current sample, falling back to a raw uniform draw once the
// pre-generated dimensions are exhausted.
func (s *Sampler) Sample1D() float32 {
	if s.dim1D < len(s.samples1D) {
		v := s.samples1D[s.dim1D][s.sampleIndex]
		s.dim1D++
		return v
	}
	return s.rng.Float32()
}

// Sample2D returns the next pre-generated 2D stratum value for the
// current sample, falling back to raw uniform draws once exhausted.
func (s *Sampler) Sample2D() vmath.V2 {
	if s.dim2D < len(s.samples2D) {
		v := s.samples2D[s.dim2D][s.sampleIndex]
		s.dim2D++
		return v
	}
	return vmath.V2{X: s.rng.Float32(), Y: s.rng.Float32()}
}

// CameraSample pairs a film-plane offset with a lens-plane offset, drawn
// from two consecutive Sample2D calls: the film offset from this
// sample's 2D stratum, the lens offset from the RNG.
type CameraSample struct {
	PFilm vmath.V2
	PLens vmath.V2
}

// GetCameraSample returns the camera sample for pixel p at the current
// sample index: pFilm = p + sample2D(), pLens = sample2D().
func (s *Sampler) GetCameraSample(p vmath.V2) CameraSample {
	return CameraSample{
		PFilm: p.Add(s.Sample2D()),
		PLens: s.Sample2D(),
	}
}

// stratified1D generates n jittered stratum samples in [0,1) and
// shuffles them with Fisher-Yates so that per-sample lookups are
// decorrelated across pixels.
func stratified1D(n int, jitter bool, r *rng.RNG) []float32 {
	out := make([]float32, n)
	invN := 1 / float32(n)
	for i := 0; i < n; i++ {
		j := float32(0.5)
		if jitter {
			j = r.Float32()
		}
		out[i] = vmath.Min((float32(i)+j)*invN, 1-vmath.MachineEpsilon)
	}
	shuffle1D(out, r)
	return out
}

// stratified2D generates nx*ny jittered samples over an nx×ny grid of
// strata, shuffled with Fisher-Yates.
func stratified2D(nx, ny int, jitter bool, r *rng.RNG) []vmath.V2 {
	out := make([]vmath.V2, 0, nx*ny)
	invX := 1 / float32(nx)
	invY := 1 / float32(ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			jx, jy := float32(0.5), float32(0.5)
			if jitter {
				jx, jy = r.Float32(), r.Float32()
			}
			out = append(out, vmath.V2{
				X: vmath.Min((float32(x)+jx)*invX, 1-vmath.MachineEpsilon),
				Y: vmath.Min((float32(y)+jy)*invY, 1-vmath.MachineEpsilon),
			})
		}
	}
	shuffle2D(out, r)
	return out
}

// shuffle1D performs an in-place Fisher-Yates shuffle.
func shuffle1D(s []float32, r *rng.RNG) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(r.U32() % uint32(i+1))
		s[i], s[j] = s[j], s[i]
	}
}

// shuffle2D performs an in-place Fisher-Yates shuffle.
func shuffle2D(s []vmath.V2, r *rng.RNG) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(r.U32() % uint32(i+1))
		s[i], s[j] = s[j], s[i]
	}
}

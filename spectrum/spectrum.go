// Package spectrum implements a fixed-length sampled radiance value with
// the arithmetic a path tracer threads through every bounce.
package spectrum

import "math"

// N is the number of wavelength samples carried by a Spectrum. The
// renderer uses N=3, i.e. linear RGB, rather than a full hero-wavelength
// sampling scheme.
const N = 3

// Spectrum is a fixed-N sampled radiance value, closed under
// component-wise +, -, *, / with itself and with scalars.
type Spectrum struct {
	C [N]float32
}

// New returns a spectrum with all channels set to v.
func New(v float32) Spectrum {
	var s Spectrum
	for i := range s.C {
		s.C[i] = v
	}
	return s
}

// RGB builds a spectrum from explicit red, green, blue samples.
func RGB(r, g, b float32) Spectrum { return Spectrum{C: [N]float32{r, g, b}} }

// Black returns the zero spectrum.
func Black() Spectrum { return Spectrum{} }

// Add returns s+o.
func (s Spectrum) Add(o Spectrum) Spectrum {
	var r Spectrum
	for i := range s.C {
		r.C[i] = s.C[i] + o.C[i]
	}
	return r
}

// Sub returns s-o.
func (s Spectrum) Sub(o Spectrum) Spectrum {
	var r Spectrum
	for i := range s.C {
		r.C[i] = s.C[i] - o.C[i]
	}
	return r
}

// Mul returns the component-wise product s*o.
func (s Spectrum) Mul(o Spectrum) Spectrum {
	var r Spectrum
	for i := range s.C {
		r.C[i] = s.C[i] * o.C[i]
	}
	return r
}

// Div returns the component-wise quotient s/o.
func (s Spectrum) Div(o Spectrum) Spectrum {
	var r Spectrum
	for i := range s.C {
		r.C[i] = s.C[i] / o.C[i]
	}
	return r
}

// Scale returns s*f.
func (s Spectrum) Scale(f float32) Spectrum {
	var r Spectrum
	for i := range s.C {
		r.C[i] = s.C[i] * f
	}
	return r
}

// ScaleInv returns s/f.
func (s Spectrum) ScaleInv(f float32) Spectrum { return s.Scale(1 / f) }

// IsBlack reports whether every channel is within epsilon of zero.
func (s Spectrum) IsBlack() bool {
	const eps = 1e-6
	for _, c := range s.C {
		if c > eps || c < -eps {
			return false
		}
	}
	return true
}

// HasNaN reports whether any channel is NaN, used to guard against
// propagating a corrupted sample through many bounces.
func (s Spectrum) HasNaN() bool {
	for _, c := range s.C {
		if math.IsNaN(float64(c)) {
			return true
		}
	}
	return false
}

// MaxComponent returns the largest channel value, used to drive Russian
// roulette termination probability.
func (s Spectrum) MaxComponent() float32 {
	m := s.C[0]
	for _, c := range s.C[1:] {
		if c > m {
			m = c
		}
	}
	return m
}

// Sqrt returns the component-wise square root, used for the approximate
// gamma correction applied before 8-bit quantization.
func (s Spectrum) Sqrt() Spectrum {
	var r Spectrum
	for i, c := range s.C {
		if c < 0 {
			c = 0
		}
		r.C[i] = float32(math.Sqrt(float64(c)))
	}
	return r
}

// Clamp restricts every channel to [lo, hi].
func (s Spectrum) Clamp(lo, hi float32) Spectrum {
	var r Spectrum
	for i, c := range s.C {
		if c < lo {
			c = lo
		} else if c > hi {
			c = hi
		}
		r.C[i] = c
	}
	return r
}

// Lerp linearly interpolates between a and b by t.
func Lerp(t float32, a, b Spectrum) Spectrum {
	return a.Scale(1 - t).Add(b.Scale(t))
}

// RGB8 quantizes s to 8-bit channels after clamping to [0,1]. Callers are
// expected to have already applied gamma correction (Sqrt) upstream.
func (s Spectrum) RGB8() (r, g, b uint8) {
	clamped := s.Clamp(0, 1)
	return uint8(clamped.C[0]*255 + 0.5), uint8(clamped.C[1]*255 + 0.5), uint8(clamped.C[2]*255 + 0.5)
}

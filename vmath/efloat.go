package vmath

// EFloat is an error-bounded float32: an interval (v, e) such that the
// true value is guaranteed to lie in [v-e, v+e]. Arithmetic on EFloat
// conservatively grows the error bound so that downstream sign tests
// (ray parameter t, Fresnel terms) cannot be fooled by cancellation.
type EFloat struct {
	v, e float32
}

// NewEFloat builds an exact EFloat (error 0).
func NewEFloat(v float32) EFloat { return EFloat{v, 0} }

// NewEFloatErr builds an EFloat with an explicit error bound.
func NewEFloatErr(v, e float32) EFloat { return EFloat{v, e} }

// V returns the interval midpoint.
func (a EFloat) V() float32 { return a.v }

// Err returns the half-width of the interval.
func (a EFloat) Err() float32 { return a.e }

// Lo returns the lower bound of the interval.
func (a EFloat) Lo() float32 { return a.v - a.e }

// Hi returns the upper bound of the interval.
func (a EFloat) Hi() float32 { return a.v + a.e }

func (a EFloat) min() float32 {
	if a.v > 0 {
		return Abs(a.Lo())
	}
	return Abs(a.Hi())
}

func (a EFloat) max() float32 {
	if a.v > 0 {
		return Abs(a.Hi())
	}
	return Abs(a.Lo())
}

// Add returns a+b with a conservative error bound.
func (a EFloat) Add(b EFloat) EFloat {
	v := a.v + b.v
	e := MachineEpsilon*Max(Abs(a.Lo()+b.Lo()), Abs(a.Hi()+b.Hi())) + (1+MachineEpsilon)*(a.e+b.e)
	return EFloat{v, e}
}

// Sub returns a-b with a conservative error bound.
func (a EFloat) Sub(b EFloat) EFloat {
	v := a.v - b.v
	e := MachineEpsilon*Max(Abs(a.Lo()-b.Hi()), Abs(a.Hi()-b.Lo())) + (1+MachineEpsilon)*(a.e+b.e)
	return EFloat{v, e}
}

// Mul returns a*b with a conservative error bound.
func (a EFloat) Mul(b EFloat) EFloat {
	v := a.v * b.v
	e := MachineEpsilon*a.max()*b.max() + (1+MachineEpsilon)*(a.max()*b.e+b.max()*a.e+a.e*b.e)
	return EFloat{v, e}
}

// Div returns a/b. The caller is expected to keep b.e well below half of
// b's minimum magnitude; see the spec's division-error contract.
func (a EFloat) Div(b EFloat) EFloat {
	v := a.v / b.v
	bmin := b.min()
	if bmin == 0 {
		return EFloat{v, float32(1e30)}
	}
	ra := 1 / (bmin - b.e)
	rb := b.e / bmin
	c := MachineEpsilon + rb + 2*rb*rb
	e := ra * (a.e + (a.max()+a.e)*c)
	return EFloat{v, e}
}

// Neg returns -a.
func (a EFloat) Neg() EFloat { return EFloat{-a.v, a.e} }

// AddF returns f+a.
func AddF(f float32, a EFloat) EFloat { return NewEFloat(f).Add(a) }

// SubF returns f-a.
func SubF(f float32, a EFloat) EFloat { return NewEFloat(f).Sub(a) }

// MulF returns f*a.
func MulF(f float32, a EFloat) EFloat { return NewEFloat(f).Mul(a) }

// EFloatSqrt returns an EFloat bounding sqrt(a). a.Lo() must be
// non-negative.
func EFloatSqrt(a EFloat) EFloat {
	if a.Lo() == 0 && a.Hi() == 0 && a.e == 0 {
		return EFloat{0, 0}
	}
	lo := a.Lo()
	hi := a.Hi()
	loSqrt, hiSqrt := Sqrt(Max(0, lo)), Sqrt(Max(0, hi))
	extra := a.e * (1 + MachineEpsilon)
	var hlo, hhi float32
	if lo-a.e > 0 {
		hlo = MachineEpsilon*loSqrt + extra/(2*Sqrt(lo-a.e))
	}
	if hi-a.e > 0 {
		hhi = MachineEpsilon*hiSqrt + extra/(2*Sqrt(hi-a.e))
	}
	return EFloat{Sqrt(Max(0, a.v)), Max(hlo, hhi)}
}

// EFloatAbs returns an EFloat bounding |a|.
func EFloatAbs(a EFloat) EFloat {
	if a.Lo() >= 0 {
		return a
	}
	if a.Hi() <= 0 {
		return EFloat{-a.v, a.e}
	}
	return EFloat{Abs(a.v), a.max()}
}

// Quadratic solves a*t^2 + b*t + c = 0 for error-bounded coefficients,
// returning the two ordered roots (t0.V() <= t1.V()) and false if the
// discriminant is negative.
func Quadratic(a, b, c EFloat) (t0, t1 EFloat, ok bool) {
	av, bv, cv := float64(a.v), float64(b.v), float64(c.v)
	discrim := bv*bv - 4*av*cv
	if discrim < 0 {
		return EFloat{}, EFloat{}, false
	}
	rootDiscrim := float32(discrim)
	sqrtDiscrim := EFloatSqrt(NewEFloat(rootDiscrim))

	var q EFloat
	if b.v < 0 {
		q = MulF(-0.5, b.Sub(sqrtDiscrim))
	} else {
		q = MulF(-0.5, b.Add(sqrtDiscrim))
	}
	t0 = q.Div(a)
	t1 = c.Div(q)
	if t0.v > t1.v {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}

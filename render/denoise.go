package render

import "github.com/guerarda/rt1w-sub000/spectrum"

// BoxDenoiser is the reference Denoiser named in spec §4.14's
// Image/Denoise pipeline: a small cross-bilateral box filter that
// averages a pixel's neighborhood, down-weighting neighbors whose
// normal or albedo differs sharply from the center. It trades noise
// reduction for a small amount of edge blur and needs no external
// dependency, unlike a production denoiser (e.g. OIDN) that a caller
// could plug in behind the same Denoiser interface.
type BoxDenoiser struct {
	// Radius is the half-width of the box in pixels; 0 defaults to 1.
	Radius int
}

func (d BoxDenoiser) radius() int {
	if d.Radius <= 0 {
		return 1
	}
	return d.Radius
}

// Denoise implements Denoiser.
func (d BoxDenoiser) Denoise(color, normals, albedo Buffer) Buffer {
	r := d.radius()
	out := newBuffer(color.W, color.H)

	for y := 0; y < color.H; y++ {
		for x := 0; x < color.W; x++ {
			idx := color.at(x, y)
			cn := normals.Data[idx]
			ca := albedo.Data[idx]

			sum := spectrum.Black()
			weight := float32(0)
			for dy := -r; dy <= r; dy++ {
				ny := y + dy
				if ny < 0 || ny >= color.H {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					nx := x + dx
					if nx < 0 || nx >= color.W {
						continue
					}
					nidx := color.at(nx, ny)
					w := similarity(cn, normals.Data[nidx]) * similarity(ca, albedo.Data[nidx])
					sum = sum.Add(color.Data[nidx].Scale(w))
					weight += w
				}
			}
			if weight > 0 {
				out.Data[idx] = sum.Scale(1 / weight)
			} else {
				out.Data[idx] = color.Data[idx]
			}
		}
	}
	return out
}

// similarity returns a weight in (0, 1] that falls off as a and b
// diverge, the edge-stopping function of a cross-bilateral filter.
func similarity(a, b spectrum.Spectrum) float32 {
	d := a.Sub(b)
	var dist2 float32
	for _, c := range d.C {
		dist2 += c * c
	}
	const sigma2 = 0.2 * 0.2
	return expNeg(dist2 / sigma2)
}

// expNeg approximates exp(-x) for x >= 0 with a cheap rational form,
// avoiding a math.Exp round-trip through float64 in the inner loop.
func expNeg(x float32) float32 {
	if x <= 0 {
		return 1
	}
	// (1+x/n)^-n approximation with n=8 (three squarings), good enough
	// for a weight.
	const n = 8
	t := 1 + x/n
	t *= t
	t *= t
	t *= t
	return 1 / t
}

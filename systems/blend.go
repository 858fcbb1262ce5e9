package systems

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// Blend moves cur toward tgt by fraction k in place: cur = (1-k)*cur + k*tgt.
// For k in (0,1) the distance to tgt shrinks by exactly (1-k) and never overshoots.
func Blend(cur, tgt []float32, k float32) {
	n := min(len(cur), len(tgt))
	if n == 0 || k <= 0 {
		return
	}
	if k >= 1 {
		copy(cur[:n], tgt[:n])
		return
	}

	c := blas32.Vector{N: n, Inc: 1, Data: cur}
	t := blas32.Vector{N: n, Inc: 1, Data: tgt}
	blas32.Scal(1-k, c)
	blas32.Axpy(k, t, c)
}

// FrameBlend rescales a per-reference-frame coefficient to an arbitrary dt,
// so motion looks the same regardless of the actual frame rate.
func FrameBlend(k, dt, referenceFPS float64) float32 {
	if k <= 0 || dt <= 0 {
		return 0
	}
	if k >= 1 {
		return 1
	}
	return float32(1 - math.Pow(1-k, dt*referenceFPS))
}

// Fill sets every rgb triple of dst to c.
func Fill(dst []float32, c [3]float32) {
	for i := 0; i+2 < len(dst); i += 3 {
		dst[i], dst[i+1], dst[i+2] = c[0], c[1], c[2]
	}
}

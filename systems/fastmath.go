package systems

import "math"

// Fast math functions for the per-particle field warp.
// These avoid float32->float64 conversions that Go's math package requires.

const twoPi = 2 * math.Pi

// wrapAngle wraps any angle to [-pi, pi].
func wrapAngle(a float32) float32 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	turns := float32(math.Floor(float64((a + math.Pi) / twoPi)))
	return a - turns*twoPi
}

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for all x.
func fastSin(x float32) float32 {
	x = wrapAngle(x)
	const pi = math.Pi
	const pi2 = pi * pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (pi - ax) / pi2
	// Correction: improves accuracy
	return 0.225*(y*absf(y)-y) + y
}

// fastCos approximates cos(x) using fastSin.
func fastCos(x float32) float32 {
	return fastSin(x + math.Pi/2)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

package renderer

import (
	"image/color"
	"math"
)

// glowStops are (radius, alpha) pairs of the particle sprite falloff.
var glowStops = [...][2]float64{
	{0, 1},
	{0.2, 0.8},
	{0.5, 0.2},
	{1, 0},
}

// GlowPixels bakes a size×size white radial sprite with a soft alpha falloff.
func GlowPixels(size int) []color.RGBA {
	pixels := make([]color.RGBA, size*size)
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			a := glowAlpha(math.Sqrt(dx*dx + dy*dy))
			pixels[y*size+x] = color.RGBA{R: 255, G: 255, B: 255, A: uint8(a*255 + 0.5)}
		}
	}
	return pixels
}

func glowAlpha(r float64) float64 {
	if r >= 1 {
		return 0
	}
	for i := 1; i < len(glowStops); i++ {
		lo, hi := glowStops[i-1], glowStops[i]
		if r <= hi[0] {
			t := (r - lo[0]) / (hi[0] - lo[0])
			return lo[1] + (hi[1]-lo[1])*t
		}
	}
	return 0
}

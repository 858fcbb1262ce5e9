package systems

import (
	"math"
	"math/rand"
)

// Palette is the two-colour scheme of the base sphere.
type Palette struct {
	Base         [3]float32
	Accent       [3]float32
	AccentChance float64 // Probability a point takes the accent colour
}

// SpherePoint returns a point uniformly distributed over the surface of a sphere.
// phi = acos(2u-1) keeps area density uniform; sampling phi uniformly would cluster at the poles.
func SpherePoint(rng *rand.Rand, radius float32) (x, y, z float32) {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(rng.Float64()*2 - 1)
	r := float64(radius)
	sinPhi := math.Sin(phi)
	return float32(r * sinPhi * math.Cos(theta)),
		float32(r * sinPhi * math.Sin(theta)),
		float32(r * math.Cos(phi))
}

// FillSphere writes len(positions)/3 sphere surface points into positions (xyz interleaved).
func FillSphere(rng *rand.Rand, radius float32, positions []float32) {
	for i := 0; i+2 < len(positions); i += 3 {
		positions[i], positions[i+1], positions[i+2] = SpherePoint(rng, radius)
	}
}

// FillPalette assigns each point independently the base or accent colour.
func FillPalette(rng *rand.Rand, pal Palette, colors []float32) {
	for i := 0; i+2 < len(colors); i += 3 {
		c := pal.Base
		if rng.Float64() < pal.AccentChance {
			c = pal.Accent
		}
		colors[i], colors[i+1], colors[i+2] = c[0], c[1], c[2]
	}
}

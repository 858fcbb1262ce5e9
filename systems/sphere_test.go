package systems

import (
	"math"
	"math/rand"
	"testing"
)

func TestFillSphereOnShell(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const radius = 600

	for _, n := range []int{1, 10, 1000, 20000} {
		positions := make([]float32, n*3)
		FillSphere(rng, radius, positions)

		for i := 0; i < n; i++ {
			x, y, z := positions[i*3], positions[i*3+1], positions[i*3+2]
			r := math.Sqrt(float64(x*x + y*y + z*z))
			if math.Abs(r-radius) > 0.05 {
				t.Fatalf("n=%d: point %d at radius %f, expected %d", n, i, r, radius)
			}
		}
	}
}

func TestSpherePointUniformInZ(t *testing.T) {
	// Uniform area density means z is uniform in [-R, R]: each band holds ~1/bands of points.
	// Uniform (theta, phi) sampling would overfill the polar bands.
	rng := rand.New(rand.NewSource(7))
	const n = 50000
	const bands = 10
	var counts [bands]int

	for i := 0; i < n; i++ {
		_, _, z := SpherePoint(rng, 1)
		b := int((z + 1) / 2 * bands)
		if b == bands {
			b--
		}
		counts[b]++
	}

	expected := float64(n) / bands
	for b, c := range counts {
		if math.Abs(float64(c)-expected) > expected*0.1 {
			t.Errorf("band %d has %d points, expected ~%.0f", b, c, expected)
		}
	}
}

func TestFillPaletteRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pal := Palette{
		Base:         [3]float32{0, 1, 1},
		Accent:       [3]float32{1, 0, 0.8},
		AccentChance: 0.2,
	}
	const n = 20000
	colors := make([]float32, n*3)
	FillPalette(rng, pal, colors)

	accents := 0
	for i := 0; i < n; i++ {
		switch colors[i*3] {
		case 1:
			accents++
		case 0:
		default:
			t.Fatalf("point %d has colour outside the palette: %v", i, colors[i*3:i*3+3])
		}
	}

	ratio := float64(accents) / n
	if ratio < 0.18 || ratio > 0.22 {
		t.Errorf("expected ~20%% accent points, got %.1f%%", ratio*100)
	}
}

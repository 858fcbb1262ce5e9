package systems

import (
	"math"
	"math/rand"
	"sync"
	"testing"
)

var testHidden = HiddenParams{Ring: 720, Depth: -500, Grey: 0}

func testPalette() Palette {
	return Palette{Base: [3]float32{0, 1, 1}, Accent: [3]float32{1, 0, 0.8}, AccentChance: 0.2}
}

func TestTargetBufferEmptyUntilSet(t *testing.T) {
	tb := NewTargetBuffer(100, testHidden)
	if tb.Load() != nil {
		t.Error("expected no layout before the first set")
	}
}

func TestSetFromSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tb := NewTargetBuffer(500, testHidden)

	l := tb.SetFromSphere(rng, 600, testPalette())
	if l.Len() != 500 || len(l.Colors) != 1500 {
		t.Fatalf("expected 500 particles, got %d positions / %d colours", l.Len(), len(l.Colors))
	}
	if l.Kind != LayoutSphere || l.Visible != 500 {
		t.Errorf("expected fully visible sphere layout, got kind=%d visible=%d", l.Kind, l.Visible)
	}
	if tb.Load() != l {
		t.Error("expected published layout to be returned by Load")
	}
}

func TestSetFromSphereRerandomises(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tb := NewTargetBuffer(100, testHidden)

	a := tb.SetFromSphere(rng, 600, testPalette())
	b := tb.SetFromSphere(rng, 600, testPalette())
	if b.Version <= a.Version {
		t.Errorf("expected increasing versions, got %d then %d", a.Version, b.Version)
	}
	same := 0
	for i := range a.Positions {
		if a.Positions[i] == b.Positions[i] {
			same++
		}
	}
	if same == len(a.Positions) {
		t.Error("expected a fresh arrangement on each reset")
	}
}

func TestSetFromSamplesHidesExcess(t *testing.T) {
	tb := NewTargetBuffer(1000, testHidden)
	samples := make([]Sample, 16)
	for i := range samples {
		samples[i] = Sample{X: float32(i), Y: -float32(i), R: 1, G: 1, B: 1}
	}

	l := tb.SetFromSamples(samples)
	if l.Visible != 16 || l.Kind != LayoutPortrait {
		t.Fatalf("expected 16 visible portrait particles, got %d", l.Visible)
	}

	for i := 0; i < 16; i++ {
		if l.Hidden(i) {
			t.Errorf("particle %d should be visible", i)
		}
		if l.Colors[i*3] != 1 || l.Positions[i*3+2] != 0 {
			t.Errorf("particle %d should carry its sample", i)
		}
	}
	for i := 16; i < 1000; i++ {
		if !l.Hidden(i) {
			t.Fatalf("particle %d should be hidden", i)
		}
		if l.Colors[i*3] != 0 || l.Colors[i*3+1] != 0 || l.Colors[i*3+2] != 0 {
			t.Fatalf("hidden particle %d should be black, got %v", i, l.Colors[i*3:i*3+3])
		}
		if l.Positions[i*3+2] != -500 {
			t.Fatalf("hidden particle %d should sit behind the portrait", i)
		}
		r := math.Hypot(float64(l.Positions[i*3]), float64(l.Positions[i*3+1]))
		if math.Abs(r-720) > 0.01 {
			t.Fatalf("hidden particle %d should sit on the ring, r=%f", i, r)
		}
	}
}

func TestSetFromSamplesTruncates(t *testing.T) {
	tb := NewTargetBuffer(10, testHidden)
	l := tb.SetFromSamples(make([]Sample, 25))
	if l.Visible != 10 || l.Len() != 10 {
		t.Errorf("expected 10 visible of 10, got %d of %d", l.Visible, l.Len())
	}
}

// A reader racing a writer must always see a layout from a single write.
func TestTargetBufferNoTornReads(t *testing.T) {
	const n = 2000
	tb := NewTargetBuffer(n, testHidden)

	uniform := func(v float32) []Sample {
		s := make([]Sample, n)
		for i := range s {
			s[i] = Sample{X: v, Y: v, R: v, G: v, B: v}
		}
		return s
	}
	a, b := uniform(1), uniform(2)
	tb.SetFromSamples(a)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				tb.SetFromSamples(b)
			} else {
				tb.SetFromSamples(a)
			}
		}
	}()

	for iter := 0; iter < 200; iter++ {
		l := tb.Load()
		first := l.Positions[0]
		for i := 0; i < n; i++ {
			if l.Positions[i*3] != first || l.Colors[i*3] != first {
				t.Fatalf("torn read: particle %d has %f, particle 0 has %f", i, l.Positions[i*3], first)
			}
		}
	}
	close(stop)
	wg.Wait()
}

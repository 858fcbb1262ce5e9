package systems

import (
	"math"
	"math/rand"
	"sync/atomic"
)

// LayoutKind identifies where a target layout came from.
type LayoutKind uint8

const (
	LayoutSphere LayoutKind = iota
	LayoutPortrait
)

// goldenAngle spreads hidden particles evenly around their ring.
const goldenAngle = math.Pi * (3 - 2.23606797749979)

// Layout is an immutable snapshot of per-particle targets.
// Once published it is never written again; a new layout replaces it wholesale.
type Layout struct {
	Positions []float32 // xyz interleaved, 3 per particle
	Colors    []float32 // rgb interleaved, 3 per particle
	Visible   int       // Particles [0, Visible) carry real targets; the rest are hidden
	Kind      LayoutKind
	Version   uint64
}

// Len returns the number of particles in the layout.
func (l *Layout) Len() int {
	return len(l.Positions) / 3
}

// Hidden reports whether particle i was parked out of view.
func (l *Layout) Hidden(i int) bool {
	return i >= l.Visible
}

// HiddenParams places particles that have no image sample.
type HiddenParams struct {
	Ring  float32 // Ring radius in world units
	Depth float32 // Z of the ring, behind the portrait
	Grey  float32 // Colour level, near black
}

// TargetBuffer publishes target layouts for a fixed particle capacity.
// Writers build a complete layout before swapping it in, so a reader never
// observes a mix of old and new targets.
type TargetBuffer struct {
	n       int
	hidden  HiddenParams
	current atomic.Pointer[Layout]
	version atomic.Uint64
}

// NewTargetBuffer creates a buffer for n particles. Load returns nil until a layout is set.
func NewTargetBuffer(n int, hidden HiddenParams) *TargetBuffer {
	return &TargetBuffer{n: n, hidden: hidden}
}

// Capacity returns the fixed particle count.
func (tb *TargetBuffer) Capacity() int {
	return tb.n
}

// Load returns the currently published layout, or nil if none has been set.
func (tb *TargetBuffer) Load() *Layout {
	return tb.current.Load()
}

// SetFromSphere publishes a freshly randomised sphere layout.
func (tb *TargetBuffer) SetFromSphere(rng *rand.Rand, radius float32, pal Palette) *Layout {
	l := tb.newLayout(LayoutSphere)
	FillSphere(rng, radius, l.Positions)
	FillPalette(rng, pal, l.Colors)
	l.Visible = tb.n
	tb.current.Store(l)
	return l
}

// SetFromSamples publishes a portrait layout. Particle i takes sample i; particles
// beyond the sample count are parked on a dim ring behind the portrait. Samples
// beyond capacity are dropped.
func (tb *TargetBuffer) SetFromSamples(samples []Sample) *Layout {
	l := tb.newLayout(LayoutPortrait)
	visible := min(len(samples), tb.n)

	for i := 0; i < tb.n; i++ {
		ix := i * 3
		if i < visible {
			s := samples[i]
			l.Positions[ix] = s.X
			l.Positions[ix+1] = s.Y
			l.Positions[ix+2] = 0
			l.Colors[ix] = s.R
			l.Colors[ix+1] = s.G
			l.Colors[ix+2] = s.B
			continue
		}

		theta := float64(i) * goldenAngle
		l.Positions[ix] = tb.hidden.Ring * float32(math.Cos(theta))
		l.Positions[ix+1] = tb.hidden.Ring * float32(math.Sin(theta))
		l.Positions[ix+2] = tb.hidden.Depth
		l.Colors[ix] = tb.hidden.Grey
		l.Colors[ix+1] = tb.hidden.Grey
		l.Colors[ix+2] = tb.hidden.Grey
	}

	l.Visible = visible
	tb.current.Store(l)
	return l
}

func (tb *TargetBuffer) newLayout(kind LayoutKind) *Layout {
	return &Layout{
		Positions: make([]float32, tb.n*3),
		Colors:    make([]float32, tb.n*3),
		Kind:      kind,
		Version:   tb.version.Add(1),
	}
}

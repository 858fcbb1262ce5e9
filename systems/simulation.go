package systems

import (
	"math"
	"math/rand"
)

// Transform is the group-level transform applied to the whole particle set.
type Transform struct {
	RotY  float64 // Yaw, radians
	RotZ  float64 // Roll, radians
	Scale float64
}

// Basis is a Transform with its trigonometry evaluated once per frame.
type Basis struct {
	cy, sy, cz, sz, s float32
}

// Basis precomputes the rotation terms for Apply.
func (t Transform) Basis() Basis {
	return Basis{
		cy: float32(math.Cos(t.RotY)),
		sy: float32(math.Sin(t.RotY)),
		cz: float32(math.Cos(t.RotZ)),
		sz: float32(math.Sin(t.RotZ)),
		s:  float32(t.Scale),
	}
}

// Apply scales, rolls about Z, then yaws about Y.
func (b Basis) Apply(x, y, z float32) (float32, float32, float32) {
	x, y, z = x*b.s, y*b.s, z*b.s
	x1 := x*b.cz - y*b.sz
	y1 := x*b.sz + y*b.cz
	return x1*b.cy + z*b.sy, y1, -x1*b.sy + z*b.cy
}

// Simulation owns the current particle state and advances it toward the
// published targets every frame.
type Simulation struct {
	n      int
	params MotionParams
	rng    *rand.Rand

	// Current state, xyz / rgb interleaved. Nil until the first layout arrives.
	Positions []float32
	Colors    []float32

	// Stable sphere positions captured at initialisation; deformations are
	// always relative to these, never cumulative.
	baseline []float32

	// Effective targets, rebuilt every frame
	posScratch   []float32
	colorScratch []float32

	transform   Transform
	spin        float64 // Angular rate achieved last frame (rad/s)
	settleTo    float64
	entryScale  float64
	status      Status
	elapsed     float64
	clock       float64
	initialised bool
	motion      Motion
}

// NewSimulation creates a simulation for n particles. Buffers are allocated
// lazily from the first layout passed to Step or Init.
func NewSimulation(n int, params MotionParams, rng *rand.Rand) *Simulation {
	return &Simulation{
		n:          n,
		params:     params,
		rng:        rng,
		transform:  Transform{Scale: 1},
		entryScale: 1,
	}
}

// Init captures layout as both the starting state and the stable baseline.
// Returns false if the layout does not match the particle capacity.
func (s *Simulation) Init(layout *Layout) bool {
	if layout == nil || layout.Len() != s.n {
		return false
	}
	s.Positions = append([]float32(nil), layout.Positions...)
	s.Colors = append([]float32(nil), layout.Colors...)
	s.baseline = append([]float32(nil), layout.Positions...)
	s.posScratch = make([]float32, s.n*3)
	s.colorScratch = make([]float32, s.n*3)
	s.initialised = true
	return true
}

// Ready reports whether the particle buffers exist.
func (s *Simulation) Ready() bool {
	return s.initialised
}

// Capacity returns the fixed particle count.
func (s *Simulation) Capacity() int {
	return s.n
}

// Transform returns the current group transform.
func (s *Simulation) Transform() Transform {
	return s.transform
}

// Spin returns the angular rate about Y achieved during the last step, in rad/s.
func (s *Simulation) Spin() float64 {
	return s.spin
}

// Elapsed returns the time spent in the current status.
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}

// Clock returns the global animation clock in seconds.
func (s *Simulation) Clock() float64 {
	return s.clock
}

// Motion returns the coefficients resolved for the last step.
func (s *Simulation) Motion() Motion {
	return s.motion
}

// Step advances the simulation by dt for the given status and target layout.
// A missing or mismatched layout, or uninitialised buffers, makes the frame a no-op.
func (s *Simulation) Step(status Status, layout *Layout, dt float64) {
	if layout == nil || layout.Len() != s.n || dt <= 0 {
		return
	}
	if !s.initialised && !s.Init(layout) {
		return
	}

	if status != s.status {
		s.enter(status)
	}
	s.elapsed += dt
	s.clock += dt

	m := ResolveMotion(&s.params, status, s.elapsed, s.clock, s.entryScale)
	s.motion = m

	s.stepTransform(&m, dt)
	tgt := s.effectiveTargets(&m, layout)

	colorTgt := layout.Colors
	if m.Tinted {
		Fill(s.colorScratch, m.Tint)
		colorTgt = s.colorScratch
	}

	ref := s.params.ReferenceFPS
	Blend(s.Positions, tgt, FrameBlend(m.K, dt, ref))
	Blend(s.Colors, colorTgt, FrameBlend(m.ColorK, dt, ref))
}

// enter resets the per-status clock and captures entry values.
func (s *Simulation) enter(status Status) {
	s.status = status
	s.elapsed = 0
	s.entryScale = s.transform.Scale

	// Settle forward to the next full turn so the group never unwinds backward
	turns := s.transform.RotY / twoPi
	if s.spin >= 0 {
		s.settleTo = math.Ceil(turns) * twoPi
	} else {
		s.settleTo = math.Floor(turns) * twoPi
	}
}

func (s *Simulation) stepTransform(m *Motion, dt float64) {
	ref := s.params.ReferenceFPS
	settle := float64(FrameBlend(s.params.SettleRate, dt, ref))

	prev := s.transform.RotY
	if m.Settle {
		s.transform.RotY += (s.settleTo - s.transform.RotY) * settle
	} else {
		s.transform.RotY += m.Spin * dt
		// Keep the angle small; a whole turn is invisible
		if s.transform.RotY > twoPi || s.transform.RotY < -twoPi {
			s.transform.RotY = math.Mod(s.transform.RotY, twoPi)
			prev = s.transform.RotY - m.Spin*dt
		}
	}
	s.spin = (s.transform.RotY - prev) / dt

	if m.Wobble {
		s.transform.RotZ = s.params.WobbleAmp * math.Sin(s.clock*s.params.WobbleSpeed)
	} else {
		s.transform.RotZ *= math.Pow(s.params.WobbleDecay, dt*ref)
	}

	if m.ScaleDirect {
		s.transform.Scale = m.Scale
	} else {
		s.transform.Scale += (m.Scale - s.transform.Scale) * settle
	}
}

// effectiveTargets returns the positions particles should head toward this frame.
func (s *Simulation) effectiveTargets(m *Motion, layout *Layout) []float32 {
	switch m.Field {
	case FieldBaseline:
		return s.baseline

	case FieldExplode:
		f := m.Explode
		for i, v := range s.baseline {
			s.posScratch[i] = v * f
		}
		return s.posScratch

	case FieldWarp:
		amp, freq, phase := m.WarpAmp, m.WarpFreq, m.WarpPhase
		jitter := m.Jitter
		for i := 0; i < len(s.baseline); i += 3 {
			bx, by, bz := s.baseline[i], s.baseline[i+1], s.baseline[i+2]
			x := bx * (1 + amp*fastSin(by*freq+phase))
			y := by * (1 + amp*fastCos(bx*freq+phase))
			if jitter > 0 {
				x += (s.rng.Float32() - 0.5) * jitter
				y += (s.rng.Float32() - 0.5) * jitter
				bz += (s.rng.Float32() - 0.5) * jitter
			}
			s.posScratch[i], s.posScratch[i+1], s.posScratch[i+2] = x, y, bz
		}
		return s.posScratch

	default:
		return layout.Positions
	}
}

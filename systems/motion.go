package systems

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// FieldMode selects how effective per-particle targets are derived.
type FieldMode uint8

const (
	FieldTargets  FieldMode = iota // Raw target buffer
	FieldBaseline                  // Stable sphere baseline
	FieldWarp                      // Undulating field derived from the baseline
	FieldExplode                   // Baseline pushed far outward
)

// MotionParams holds the tunable animation coefficients.
// Blend coefficients are fractions per reference frame; rates are per second.
type MotionParams struct {
	ReferenceFPS float64

	IdleBlend      float64
	IdleColorBlend float64
	IdleSpin       float64
	BreathPeriod   float64
	BreathAmp      float64

	WobbleDecay   float64
	WobbleAmp     float64
	WobbleSpeed   float64
	RollingJitter float64

	RollPhase      float64
	ImplodeScale   float64
	ImplodeSpin    float64
	ImplodeBlend   float64
	SpinUpScale    float64
	SpinUpRate     float64
	SpinUpAccel    float64
	SpinUpBlend    float64
	SpinColorBlend float64
	WarpAmp        float64
	WarpFreq       float64
	WarpSpeed      float64
	PulseSpeed     float64
	Hot            [3]float32
	Cool           [3]float32

	ExplodeFactor     float64
	ExplodeBlend      float64
	ExplodeColorBlend float64
	ExplodeDim        float64
	ExplodeSpin       float64

	ConvergeBlend      float64
	ConvergeColorBlend float64
	SettleRate         float64
}

// Motion is the per-frame resolution of a status into effective coefficients.
// It is computed once per frame so the particle loop never branches on status.
type Motion struct {
	Field  FieldMode
	K      float64 // Position blend per reference frame
	ColorK float64 // Colour blend per reference frame

	Spin   float64 // Angular rate about Y in rad/s, ignored when Settle
	Settle bool    // Ease rotation to the next full turn

	Scale       float64 // Group scale target
	ScaleDirect bool    // Apply Scale immediately instead of easing toward it

	Wobble  bool // Oscillating roll about Z
	Jitter  float32
	Tinted  bool
	Tint    [3]float32
	Explode float32

	WarpAmp   float32
	WarpFreq  float32
	WarpPhase float32
}

// ResolveMotion maps the status, the time spent in it and the global clock to a Motion.
// entryScale is the group scale when the status was entered.
func ResolveMotion(p *MotionParams, status Status, elapsed, clock, entryScale float64) Motion {
	switch status {
	case StatusRolling:
		if elapsed < p.RollPhase {
			return implodeMotion(p, elapsed, entryScale)
		}
		return spinUpMotion(p, elapsed-p.RollPhase, clock)

	case StatusShuffling:
		dim := float32(p.ExplodeDim)
		return Motion{
			Field:   FieldExplode,
			K:       p.ExplodeBlend,
			ColorK:  p.ExplodeColorBlend,
			Spin:    p.ExplodeSpin,
			Scale:   1,
			Tinted:  true,
			Tint:    [3]float32{dim, dim, dim},
			Explode: float32(p.ExplodeFactor),
		}

	case StatusConverging, StatusRevealed:
		return Motion{
			Field:  FieldTargets,
			K:      p.ConvergeBlend,
			ColorK: p.ConvergeColorBlend,
			Settle: true,
			Scale:  1,
		}

	default:
		breath := 0.0
		if p.BreathPeriod > 0 {
			breath = p.BreathAmp * math.Sin(2*math.Pi*clock/p.BreathPeriod)
		}
		return Motion{
			Field:  FieldTargets,
			K:      p.IdleBlend,
			ColorK: p.IdleColorBlend,
			Spin:   p.IdleSpin,
			Scale:  1 + breath,
		}
	}
}

// implodeMotion compresses the group with a cubic ease-in while rotation nearly freezes.
func implodeMotion(p *MotionParams, elapsed, entryScale float64) Motion {
	u := EaseInCubic(elapsed / p.RollPhase)
	return Motion{
		Field:       FieldBaseline,
		K:           p.ImplodeBlend,
		ColorK:      p.IdleColorBlend,
		Spin:        p.ImplodeSpin,
		Scale:       entryScale + (p.ImplodeScale-entryScale)*u,
		ScaleDirect: true,
		Wobble:      true,
	}
}

// spinUpMotion regrows the group past its rest size and accelerates to the sustained rate.
func spinUpMotion(p *MotionParams, sinceSpin, clock float64) Motion {
	u := 1.0
	if p.SpinUpAccel > 0 {
		u = sinceSpin / p.SpinUpAccel
	}

	pulse := 0.5 + 0.5*math.Sin(clock*p.PulseSpeed)
	hot := colorful.Color{R: float64(p.Hot[0]), G: float64(p.Hot[1]), B: float64(p.Hot[2])}
	cool := colorful.Color{R: float64(p.Cool[0]), G: float64(p.Cool[1]), B: float64(p.Cool[2])}
	tint := cool.BlendRgb(hot, pulse).Clamped()

	return Motion{
		Field:       FieldWarp,
		K:           p.SpinUpBlend,
		ColorK:      p.SpinColorBlend,
		Spin:        p.ImplodeSpin + (p.SpinUpRate-p.ImplodeSpin)*EaseInOutSine(u),
		Scale:       p.ImplodeScale + (p.SpinUpScale-p.ImplodeScale)*EaseOutCubic(u),
		ScaleDirect: true,
		Wobble:      true,
		Jitter:      float32(p.RollingJitter),
		Tinted:      true,
		Tint:        [3]float32{float32(tint.R), float32(tint.G), float32(tint.B)},
		WarpAmp:     float32(p.WarpAmp),
		WarpFreq:    float32(p.WarpFreq),
		WarpPhase:   float32(math.Mod(clock*p.WarpSpeed, twoPi)),
	}
}

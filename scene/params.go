package scene

import (
	"time"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/decor"
	"github.com/pthm-cable/nebula/systems"
)

// Params gathers everything the scene needs, resolved from configuration once at startup.
type Params struct {
	Capacity int
	Radius   float32
	Palette  systems.Palette
	Sampler  systems.SamplerParams
	Hidden   systems.HiddenParams
	Motion   systems.MotionParams
	Decor    decor.Params

	FetchTimeout time.Duration
}

// ParamsFromConfig converts a loaded configuration into scene parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	d := cfg.Derived
	s := cfg.Sampler
	m := cfg.Motion
	dc := cfg.Decor

	return Params{
		Capacity: cfg.Particles.Capacity,
		Radius:   d.Radius32,
		Palette: systems.Palette{
			Base:         d.BaseRGB,
			Accent:       d.AccentRGB,
			AccentChance: cfg.Particles.AccentChance,
		},
		Sampler: systems.SamplerParams{
			Width:           s.Width,
			Height:          s.Height,
			Spacing:         float32(s.Spacing),
			AlphaThreshold:  uint8(min(max(s.AlphaThreshold, 0), 255)),
			BrightnessFloor: s.BrightnessFloor,
			LowVisibility:   s.LowVisibility,
			LowLift:         s.LowLift,
			Gamma:           s.Gamma,
			Gain:            s.Gain,
		},
		Hidden: systems.HiddenParams{
			Ring:  float32(s.HiddenRing) * d.Radius32,
			Depth: float32(s.HiddenDepth),
			Grey:  float32(s.HiddenColor),
		},
		Motion: systems.MotionParams{
			ReferenceFPS:       m.ReferenceFPS,
			IdleBlend:          m.IdleBlend,
			IdleColorBlend:     m.IdleColorBlend,
			IdleSpin:           m.IdleSpin,
			BreathPeriod:       m.BreathPeriod,
			BreathAmp:          m.BreathAmp,
			WobbleDecay:        m.WobbleDecay,
			WobbleAmp:          m.WobbleAmp,
			WobbleSpeed:        m.WobbleSpeed,
			RollingJitter:      m.RollingJitter,
			RollPhase:          m.RollPhase,
			ImplodeScale:       m.ImplodeScale,
			ImplodeSpin:        m.ImplodeSpin,
			ImplodeBlend:       m.ImplodeBlend,
			SpinUpScale:        m.SpinUpScale,
			SpinUpRate:         m.SpinUpRate,
			SpinUpAccel:        m.SpinUpAccel,
			SpinUpBlend:        m.SpinUpBlend,
			SpinColorBlend:     m.SpinColorBlend,
			WarpAmp:            m.WarpAmp,
			WarpFreq:           m.WarpFreq,
			WarpSpeed:          m.WarpSpeed,
			PulseSpeed:         m.PulseSpeed,
			Hot:                d.HotRGB,
			Cool:               d.CoolRGB,
			ExplodeFactor:      m.ExplodeFactor,
			ExplodeBlend:       m.ExplodeBlend,
			ExplodeColorBlend:  m.ExplodeColorBlend,
			ExplodeDim:         m.ExplodeDim,
			ExplodeSpin:        m.ExplodeSpin,
			ConvergeBlend:      m.ConvergeBlend,
			ConvergeColorBlend: m.ConvergeColorBlend,
			SettleRate:         m.SettleRate,
		},
		Decor: decor.Params{
			SphereRadius:     d.Radius32,
			AvatarCap:        dc.AvatarCap,
			AvatarSkipChance: dc.AvatarSkipChance,
			AvatarVolume:     float32(dc.AvatarVolume),
			AvatarSize:       float32(dc.AvatarSize),
			BobAmp:           float32(dc.BobAmp),
			BobSpeedMin:      float32(dc.BobSpeedMin),
			BobSpeedMax:      float32(dc.BobSpeedMax),
			AppearDuration:   float32(dc.AppearDuration),
			MessageTTL:       float32(dc.MessageTTL),
			MessageShellMin:  float32(dc.MessageShellMin),
			MessageShellMax:  float32(dc.MessageShellMax),
			MessageOrbit:     float32(dc.MessageOrbit),
			SeenCap:          dc.SeenCap,
			Card: decor.CardParams{
				Interval:  dc.CardInterval,
				Frequency: dc.CardFrequency,
				Damping:   dc.CardDamping,
				Width:     dc.CardWidth,
				Height:    dc.CardHeight,
				BobAmp:    float32(dc.CardBobAmp),
				BobSpeed:  float32(dc.CardBobSpeed),
				Z:         float32(dc.CardZ),
				Accent:    d.AccentRGB,
			},
		},
		FetchTimeout: time.Duration(cfg.Feed.FetchTimeout * float64(time.Second)),
	}
}

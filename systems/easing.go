package systems

import "math"

// EaseInCubic accelerates from zero velocity. t is clamped to [0,1].
func EaseInCubic(t float64) float64 {
	t = clamp01(t)
	return t * t * t
}

// EaseOutCubic decelerates to zero velocity. t is clamped to [0,1].
func EaseOutCubic(t float64) float64 {
	t = clamp01(t) - 1
	return t*t*t + 1
}

// EaseInOutSine is a gentle symmetric ease. t is clamped to [0,1].
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*clamp01(t)) - 1) / 2
}

// EaseOutElastic overshoots past 1 and oscillates back to rest at t=1.
func EaseOutElastic(t float64) float64 {
	t = clamp01(t)
	if t == 0 || t == 1 {
		return t
	}
	const c4 = 2 * math.Pi / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

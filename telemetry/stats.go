package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated draw activity for a window of frames.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	TimeSec          float64 `csv:"time"`
	Status           string  `csv:"status"`

	// Events during window
	Transitions      int `csv:"transitions"`
	Draws            int `csv:"draws"`
	PortraitsApplied int `csv:"portraits_applied"`
	PortraitsFailed  int `csv:"portraits_failed"`
	Picks            int `csv:"card_picks"`

	// Decoration counts at window end
	Avatars  int `csv:"avatars"`
	Messages int `csv:"messages"`

	// Group transform at window end
	Spin  float64 `csv:"spin"`
	Scale float64 `csv:"scale"`

	// Particle distance from target (sampled at window end)
	ErrorMean float64 `csv:"error_mean"`
	ErrorP10  float64 `csv:"error_p10"`
	ErrorP50  float64 `csv:"error_p50"`
	ErrorP90  float64 `csv:"error_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeStats calculates mean and percentiles of values.
func ComputeStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("time", s.TimeSec),
		slog.String("status", s.Status),
		slog.Int("transitions", s.Transitions),
		slog.Int("draws", s.Draws),
		slog.Int("portraits_applied", s.PortraitsApplied),
		slog.Int("portraits_failed", s.PortraitsFailed),
		slog.Int("card_picks", s.Picks),
		slog.Int("avatars", s.Avatars),
		slog.Int("messages", s.Messages),
		slog.Float64("spin", s.Spin),
		slog.Float64("scale", s.Scale),
		slog.Float64("error_mean", s.ErrorMean),
		slog.Float64("error_p10", s.ErrorP10),
		slog.Float64("error_p50", s.ErrorP50),
		slog.Float64("error_p90", s.ErrorP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"time", s.TimeSec,
		"status", s.Status,
		"draws", s.Draws,
		"portraits", s.PortraitsApplied,
		"avatars", s.Avatars,
		"messages", s.Messages,
		"error_p50", s.ErrorP50,
	)
}

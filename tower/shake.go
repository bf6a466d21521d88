package tower

import (
	"log/slog"
	"math/rand"
	"sort"
)

// Shake is the per-tick jitter applied on top of the wobble.
type Shake struct {
	Level int
	X, Y  float64
}

// LogValue implements slog.LogValuer.
func (s Shake) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("level", s.Level),
		slog.Float64("x", s.X),
		slog.Float64("y", s.Y),
	)
}

// ShakeBand quantizes |width| against ascending band thresholds.
// A width equal to a threshold stays in the lower band.
func ShakeBand(bands []float64, absWidth float64) int {
	return sort.SearchFloat64s(bands, absWidth)
}

// ShakeMultiplier amplifies jitter for every full height band of blocks.
func ShakeMultiplier(size, bandBlocks int, gain float64) float64 {
	if bandBlocks <= 0 {
		return 1
	}
	return 1 + gain*float64(size/bandBlocks)
}

// UpdateShake rolls a new jitter for the current instability.
func (t *Tower) UpdateShake(rng *rand.Rand) {
	c := t.cfg.Shake
	w := t.Width()
	if w < 0 {
		w = -w
	}
	level := ShakeBand(c.Bands, w)
	if t.Size() == 0 {
		level = 0
	}
	t.Shake.Level = level

	amp := 0.0
	if level < len(c.Jitter) {
		amp = c.Jitter[level] * ShakeMultiplier(t.Size(), c.HeightBandBlocks, c.HeightGain)
	}
	if amp == 0 {
		t.Shake.X, t.Shake.Y = 0, 0
		return
	}
	t.Shake.X = (rng.Float64()*2 - 1) * amp
	t.Shake.Y = (rng.Float64()*2 - 1) * amp
}

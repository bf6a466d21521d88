package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// ToneGenerator is a sine sweep with a short attack and a quadratic decay.
type ToneGenerator struct {
	sr       beep.SampleRate
	from, to float64 // Hz
	amp      float64
	attack   int
	total    int
	pos      int
	phase    float64
}

// NewToneGenerator creates a tone sweeping from one frequency to another.
func NewToneGenerator(sr beep.SampleRate, from, to float64, d time.Duration, amp float64) *ToneGenerator {
	return &ToneGenerator{
		sr:     sr,
		from:   from,
		to:     to,
		amp:    amp,
		attack: sr.N(5 * time.Millisecond),
		total:  sr.N(d),
	}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		frac := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*frac
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		env := (1 - frac) * (1 - frac)
		if g.pos < g.attack {
			env *= float64(g.pos) / float64(g.attack)
		}
		v := g.amp * env * math.Sin(g.phase)
		samples[i] = [2]float64{v, v}
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error { return nil }

// RumbleGenerator is low-passed noise that fades out, used for the collapse.
type RumbleGenerator struct {
	rng    *rand.Rand
	amp    float64
	smooth float64
	total  int
	pos    int
	last   float64
}

// NewRumbleGenerator creates a rumble of duration d. cutoff is the low-pass
// corner in Hz.
func NewRumbleGenerator(sr beep.SampleRate, d time.Duration, cutoff, amp float64, seed int64) *RumbleGenerator {
	dt := 1 / float64(sr)
	rc := 1 / (2 * math.Pi * cutoff)
	return &RumbleGenerator{
		rng:    rand.New(rand.NewSource(seed)),
		amp:    amp,
		smooth: dt / (rc + dt),
		total:  sr.N(d),
	}
}

func (g *RumbleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		x := g.rng.Float64()*2 - 1
		g.last += g.smooth * (x - g.last)
		env := 1 - float64(g.pos)/float64(g.total)
		v := math.Max(-0.6, math.Min(0.6, g.amp*env*g.last*4))
		samples[i] = [2]float64{v, v}
		g.pos++
	}
	return len(samples), true
}

func (g *RumbleGenerator) Err() error { return nil }

// synthesize renders the built-in streamer for a cue.
func synthesize(c Cue, sr beep.SampleRate) beep.Streamer {
	switch c {
	case CueBuild:
		return NewToneGenerator(sr, 520, 440, 120*time.Millisecond, 0.4)
	case CueGolden:
		return beep.Seq(
			NewToneGenerator(sr, 880, 880, 90*time.Millisecond, 0.35),
			NewToneGenerator(sr, 1320, 1320, 180*time.Millisecond, 0.35),
		)
	case CueFall:
		return NewToneGenerator(sr, 420, 110, 450*time.Millisecond, 0.4)
	case CueCollapse:
		return beep.Mix(
			NewRumbleGenerator(sr, 700*time.Millisecond, 180, 0.5, 1),
			NewToneGenerator(sr, 160, 60, 700*time.Millisecond, 0.3),
		)
	default:
		return beep.Silence(0)
	}
}

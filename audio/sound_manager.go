// Package audio plays the game's sound cues.
package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/session"
)

// Cue is a sound effect.
type Cue uint8

const (
	CueBuild Cue = iota
	CueGolden
	CueFall
	CueCollapse
	cueCount
)

// Override file names looked up in the asset directory.
var cueFiles = [cueCount]string{"build.wav", "gold.wav", "fall.wav", "overmusic.wav"}

func (c Cue) String() string {
	switch c {
	case CueBuild:
		return "build"
	case CueGolden:
		return "golden"
	case CueFall:
		return "fall"
	case CueCollapse:
		return "collapse"
	default:
		return "unknown"
	}
}

// CuesFor maps a game event to the cues it plays. A toppled block plays
// the fall and the collapse together.
func CuesFor(kind session.EventKind) []Cue {
	switch kind {
	case session.EventBuilt:
		return []Cue{CueBuild}
	case session.EventGolden:
		return []Cue{CueGolden}
	case session.EventToppled:
		return []Cue{CueFall, CueCollapse}
	case session.EventCollapsed, session.EventMissed:
		return []Cue{CueCollapse}
	default:
		return nil
	}
}

// SoundManager plays fire-and-forget cues through a single mixer.
type SoundManager struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	rate        beep.SampleRate
	mixer       *beep.Mixer
	cues        [cueCount]*beep.Buffer
	initialized bool
}

// NewSoundManager renders every cue into memory. Cues found as WAV files in
// the configured asset directory replace the synthesized ones.
func NewSoundManager(cfg config.AudioConfig) *SoundManager {
	sm := &SoundManager{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
	}
	format := sm.format()
	for c := Cue(0); c < cueCount; c++ {
		buf := beep.NewBuffer(format)
		buf.Append(synthesize(c, sm.rate))
		sm.cues[c] = buf
	}
	if cfg.AssetDir != "" {
		sm.loadOverrides(cfg.AssetDir)
	}
	return sm
}

func (sm *SoundManager) format() beep.Format {
	return beep.Format{SampleRate: sm.rate, NumChannels: 2, Precision: 2}
}

// loadOverrides replaces synthesized cues with WAV files from dir.
func (sm *SoundManager) loadOverrides(dir string) {
	for c := Cue(0); c < cueCount; c++ {
		path := filepath.Join(dir, cueFiles[c])
		buf, err := sm.loadWAV(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			slog.Warn("audio_asset_failed", "cue", c.String(), "path", path, "error", err)
			continue
		}
		sm.cues[c] = buf
		slog.Debug("audio_asset_loaded", "cue", c.String(), "path", path)
	}
}

func (sm *SoundManager) loadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != sm.rate {
		s = beep.Resample(4, format.SampleRate, sm.rate, s)
	}
	buf := beep.NewBuffer(sm.format())
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf, nil
}

// Initialize opens the speaker. Without a working audio device the game
// runs silent.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sm.rate, sm.rate.N(sm.cfg.Buffer)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Play starts a cue. Overlapping cues mix with no ordering guarantee.
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || c >= cueCount {
		return
	}
	buf := sm.cues[c]
	s := newVolume(buf.Streamer(0, buf.Len()), sm.cfg.Volume)

	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// HandleEvents plays the cues of every event.
func (sm *SoundManager) HandleEvents(events []session.Event) {
	for _, e := range events {
		for _, c := range CuesFor(e.Kind) {
			sm.Play(c)
		}
	}
}

// Samples returns the length of a cue in samples.
func (sm *SoundManager) Samples(c Cue) int {
	if c >= cueCount {
		return 0
	}
	return sm.cues[c].Len()
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// newVolume scales linear volume vol onto beep's exponential volume.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/session"
)

func init() {
	config.MustInit("")
}

// TestSoundManagerGracefulDegradation verifies cues are safe to play without a speaker.
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(config.Cfg().Audio)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("sound operations panicked without initialization: %v", r)
		}
	}()

	for c := Cue(0); c < cueCount; c++ {
		sm.Play(c)
	}
	sm.HandleEvents([]session.Event{{Kind: session.EventBuilt}, {Kind: session.EventCollapsed}})
	sm.Cleanup()
}

func TestDisabledSkipsSpeaker(t *testing.T) {
	cfg := config.Cfg().Audio
	cfg.Enabled = false
	sm := NewSoundManager(cfg)

	if err := sm.Initialize(); err != nil {
		t.Fatalf("disabled audio should not fail: %v", err)
	}
	if sm.initialized {
		t.Error("disabled audio should stay uninitialized")
	}
}

func TestSynthesizedCuesAreBounded(t *testing.T) {
	sr := beep.SampleRate(44100)
	for c := Cue(0); c < cueCount; c++ {
		t.Run(c.String(), func(t *testing.T) {
			s := synthesize(c, sr)
			buf := make([][2]float64, 512)
			total := 0
			for {
				n, ok := s.Stream(buf)
				for _, smp := range buf[:n] {
					if smp[0] > 1 || smp[0] < -1 {
						t.Fatalf("sample %f out of range", smp[0])
					}
				}
				total += n
				if !ok || total > sr.N(5*time.Second) {
					break
				}
			}
			if total == 0 || total > sr.N(time.Second) {
				t.Errorf("expected a short cue, got %d samples", total)
			}
		})
	}
}

func TestCuesFor(t *testing.T) {
	tests := []struct {
		kind session.EventKind
		want []Cue
	}{
		{session.EventBuilt, []Cue{CueBuild}},
		{session.EventGolden, []Cue{CueGolden}},
		{session.EventToppled, []Cue{CueFall, CueCollapse}},
		{session.EventCollapsed, []Cue{CueCollapse}},
		{session.EventMissed, []Cue{CueCollapse}},
		{session.EventDropped, nil},
		{session.EventGameOver, nil},
	}
	for _, tt := range tests {
		got := CuesFor(tt.kind)
		if len(got) != len(tt.want) {
			t.Errorf("%v: expected %v, got %v", tt.kind, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%v: expected %v, got %v", tt.kind, tt.want, got)
				break
			}
		}
	}
}

func TestWAVOverrideIsResampled(t *testing.T) {
	dir := t.TempDir()
	srcRate := beep.SampleRate(22050)
	f, err := os.Create(filepath.Join(dir, "build.wav"))
	if err != nil {
		t.Fatal(err)
	}
	tone := NewToneGenerator(srcRate, 440, 440, 500*time.Millisecond, 0.5)
	format := beep.Format{SampleRate: srcRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, tone, format); err != nil {
		t.Fatalf("encoding wav: %v", err)
	}
	f.Close()

	cfg := config.Cfg().Audio
	cfg.SampleRate = 44100
	cfg.AssetDir = dir
	sm := NewSoundManager(cfg)

	got := sm.Samples(CueBuild)
	want := beep.SampleRate(44100).N(500 * time.Millisecond)
	if got < want-100 || got > want+100 {
		t.Errorf("expected about %d samples after resampling, got %d", want, got)
	}
	// Cues without a file stay synthesized
	if sm.Samples(CueFall) != beep.SampleRate(44100).N(450*time.Millisecond) {
		t.Errorf("fall cue should be synthesized, got %d samples", sm.Samples(CueFall))
	}
}

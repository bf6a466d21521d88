package session

import (
	"math"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/sensor"
)

// Loop drains the sensor feed once per tick and steps the session.
// It never blocks on the feed.
type Loop struct {
	cfg     *config.Config
	session *Session
	feed    *sensor.Feed // nil without a camera

	frame     sensor.Frame
	haveFrame bool
	nose      sensor.NoseSample
	haveNose  bool
	noseArmed bool

	blinksReceived int
	blinksCleared  int
}

// NewLoop wires a session to a feed. feed may be nil.
func NewLoop(cfg *config.Config, s *Session, feed *sensor.Feed) *Loop {
	return &Loop{
		cfg:       cfg,
		session:   s,
		feed:      feed,
		noseArmed: true,
	}
}

// Session returns the stepped session.
func (l *Loop) Session() *Session { return l.session }

// Frame returns the most recent camera frame seen.
func (l *Loop) Frame() (sensor.Frame, bool) { return l.frame, l.haveFrame }

// Nose returns the most recent nose sample seen.
func (l *Loop) Nose() (sensor.NoseSample, bool) { return l.nose, l.haveNose }

// BlinksReceived is the number of blinks drained from the feed.
func (l *Loop) BlinksReceived() int { return l.blinksReceived }

// BlinksCleared is the number of blinks discarded by the clear key.
func (l *Loop) BlinksCleared() int { return l.blinksCleared }

// Tick runs one game tick.
func (l *Loop) Tick(k Keys) []Event {
	in := Input{
		Drop:       k.Drop,
		Restart:    k.Restart,
		ToggleMode: k.ToggleMode,
	}
	mode := l.session.Mode
	var pre []Event

	if l.feed != nil {
		if f, ok := l.feed.Frames.TryRecv(); ok {
			l.frame = f
			l.haveFrame = true
		}

		blinks := l.feed.Blinks.Drain()
		l.blinksReceived += len(blinks)
		if k.ClearBlinks {
			l.blinksCleared += len(blinks)
			pre = append(pre, Event{
				Kind:   EventBlinksCleared,
				Tick:   l.session.Tick + 1,
				Score:  l.session.Score,
				Blocks: l.session.Tower.Size(),
				Mode:   mode,
				Count:  len(blinks),
			})
		} else if mode == ModeBlink && len(blinks) > 0 {
			in.Drop = true
		}

		if n, ok := l.feed.Nose.TryRecv(); ok {
			l.nose = n
			l.haveNose = true
			if mode == ModeNose && l.noseTriggered(n.X) {
				in.Drop = true
			}
		}
	}

	return append(pre, l.session.Step(in)...)
}

// noseTriggered fires when the nose leaves the centre band and re-arms once
// it comes back inside the smaller rearm band.
func (l *Loop) noseTriggered(x float64) bool {
	off := math.Abs(x - 0.5)
	if l.noseArmed && off > l.cfg.Control.NoseTrigger {
		l.noseArmed = false
		return true
	}
	if !l.noseArmed && off < l.cfg.Control.NoseRearm {
		l.noseArmed = true
	}
	return false
}

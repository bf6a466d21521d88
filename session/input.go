package session

import "fmt"

// Mode selects what besides the keyboard drops the block.
type Mode uint8

const (
	ModeKeyboard Mode = iota
	ModeBlink
	ModeNose
)

var modeNames = [...]string{"keyboard", "blink", "nose"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Next cycles keyboard, blink, nose.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return ModeKeyboard, fmt.Errorf("unknown control mode %q", s)
}

// Input is the per-tick intent after keys and sensor events are merged.
type Input struct {
	Drop       bool
	Restart    bool
	ToggleMode bool
}

// Keys is the raw keyboard state for one tick.
type Keys struct {
	Drop        bool
	Restart     bool
	ToggleMode  bool
	ClearBlinks bool
}

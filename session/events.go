package session

import "log/slog"

// EventKind identifies something that happened during a tick.
type EventKind uint8

const (
	EventDropped EventKind = iota
	EventBuilt
	EventGolden
	EventToppled
	EventCollapsed
	EventMissed
	EventGameOver
	EventRestarted
	EventModeChanged
	EventBlinksCleared
)

var eventNames = [...]string{
	"dropped", "built", "golden", "toppled", "collapsed",
	"missed", "game_over", "restarted", "mode_changed", "blinks_cleared",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// EndReason is why a life ended.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndTowerFell
	EndToppled
	EndMissed
)

func (r EndReason) String() string {
	switch r {
	case EndTowerFell:
		return "tower_fell"
	case EndToppled:
		return "toppled"
	case EndMissed:
		return "missed"
	default:
		return "none"
	}
}

// Event is emitted by Step for audio, telemetry and logging.
type Event struct {
	Kind   EventKind
	Tick   uint64
	Score  int // Session score after the event
	Blocks int // Tower size after the event
	Reason EndReason
	Mode   Mode
	Count  int // Blinks discarded by a clear
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Uint64("tick", e.Tick),
		slog.Int("score", e.Score),
		slog.Int("blocks", e.Blocks),
	}
	switch e.Kind {
	case EventGameOver:
		attrs = append(attrs, slog.String("reason", e.Reason.String()))
	case EventModeChanged:
		attrs = append(attrs, slog.String("mode", e.Mode.String()))
	case EventBlinksCleared:
		attrs = append(attrs, slog.Int("count", e.Count))
	}
	return slog.GroupValue(attrs...)
}

package telemetry

import "log/slog"

// LifeRecord summarizes one life from first swing to game over.
type LifeRecord struct {
	Run         string  `csv:"run"`
	Life        int     `csv:"life"`
	Mode        string  `csv:"mode"`
	Reason      string  `csv:"reason"`
	Score       int     `csv:"score"`
	Blocks      int     `csv:"blocks"`
	Golden      int     `csv:"golden"`
	Drops       int     `csv:"drops"`
	Ticks       uint64  `csv:"ticks"`
	DurationSec float64 `csv:"duration_sec"`
}

// LogValue implements slog.LogValuer.
func (r LifeRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("life", r.Life),
		slog.String("reason", r.Reason),
		slog.Int("score", r.Score),
		slog.Int("blocks", r.Blocks),
		slog.Int("golden", r.Golden),
		slog.Float64("duration_sec", r.DurationSec),
	)
}

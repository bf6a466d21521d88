package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SensorWindow holds camera and control activity for one time window.
type SensorWindow struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	ElapsedSec      float64 `csv:"elapsed_sec"`
	Mode            string  `csv:"mode"`

	// Worker counters during the window
	Frames          uint64  `csv:"frames"`
	CameraFPS       float64 `csv:"camera_fps"`
	CaptureFailures uint64  `csv:"capture_failures"`
	NoFace          uint64  `csv:"no_face"`
	VisionErrors    uint64  `csv:"vision_errors"`
	Blinks          uint64  `csv:"blinks"`
	BlinksDropped   uint64  `csv:"blinks_dropped"`

	// Game side
	BlinksDrained int `csv:"blinks_drained"`
	Drops         int `csv:"drops"`
	Builds        int `csv:"builds"`
	Golden        int `csv:"golden"`

	// EAR distribution over frames with a face
	EARSamples int     `csv:"ear_samples"`
	EARMean    float64 `csv:"ear_mean"`
	EARP10     float64 `csv:"ear_p10"`
	EARP50     float64 `csv:"ear_p50"`
	EARP90     float64 `csv:"ear_p90"`
}

// LogValue implements slog.LogValuer.
func (w SensorWindow) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", w.WindowEndTick),
		slog.String("mode", w.Mode),
		slog.Float64("camera_fps", w.CameraFPS),
		slog.Uint64("capture_failures", w.CaptureFailures),
		slog.Uint64("blinks", w.Blinks),
		slog.Uint64("blinks_dropped", w.BlinksDropped),
		slog.Int("drops", w.Drops),
		slog.Int("builds", w.Builds),
		slog.Float64("ear_mean", w.EARMean),
	)
}

// ComputeEARStats calculates mean and percentiles of EAR samples.
func ComputeEARStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

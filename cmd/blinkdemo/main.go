// Package main runs the camera worker on its own and logs blinks, which is
// handy for checking a webcam and tuning the EAR threshold.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/sensor"
	"github.com/pthm-cable/towerblocks/telemetry"
	"github.com/pthm-cable/towerblocks/webcam"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	camera := flag.Int("camera", -1, "Camera device index (-1 = use config)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	report := flag.Duration("report", time.Second, "EAR report interval")
	calibrate := flag.Duration("calibrate", 0, "Sample open and closed eyes for this long each and suggest a threshold")
	write := flag.String("write", "", "Write the config with the suggested threshold to this path")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	device := cfg.Sensor.Device
	if *camera >= 0 {
		device = *camera
	}

	vision, err := webcam.NewCascadeVision(cfg.Vision)
	if err != nil {
		slog.Error("failed to load cascades", "error", err)
		os.Exit(1)
	}

	dev, err := webcam.Open(device)
	if err != nil {
		vision.Close()
		slog.Error("failed to open camera", "device", device, "error", err)
		os.Exit(1)
	}
	slog.Info("camera_opened", "device", dev.ID())

	feed := sensor.NewFeed(cfg.Sensor.BlinkQueue)
	worker := sensor.NewWorker(cfg, dev, vision, feed)
	worker.Start()
	defer stop(worker, vision, cfg.Sensor.StopTimeout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if *calibrate > 0 {
		runCalibration(ctx, cfg, feed, *calibrate, *write)
		return
	}
	watch(ctx, cfg, feed, worker, *report)
}

// stop shuts the worker down and frees the cascades, unless the worker is
// still inside Detect after the timeout.
func stop(worker *sensor.Worker, vision *webcam.CascadeVision, timeout time.Duration) {
	if !worker.Shutdown(timeout) {
		return
	}
	vision.Close()
}

// watch logs every blink and periodic EAR statistics until ctx is done.
func watch(ctx context.Context, cfg *config.Config, feed *sensor.Feed, worker *sensor.Worker, report time.Duration) {
	poll := time.NewTicker(cfg.Derived.FrameInterval)
	defer poll.Stop()
	flush := time.NewTicker(report)
	defer flush.Stop()

	var ears []float64
	var lastSeq uint64
	total := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("blinkdemo_done", "blinks", total, "worker", worker.Stats())
			return
		case <-poll.C:
			for _, b := range feed.Blinks.Drain() {
				total++
				slog.Info("blink", "seq", b.Seq, "total", total)
			}
			if f, ok := feed.Frames.TryRecv(); ok && f.Seq != lastSeq {
				lastSeq = f.Seq
				if f.Faces > 0 {
					ears = append(ears, f.EAR)
				}
			}
		case <-flush.C:
			mean, p10, p50, p90 := telemetry.ComputeEARStats(ears)
			slog.Info("ear",
				"samples", len(ears),
				"mean", mean,
				"p10", p10,
				"p50", p50,
				"p90", p90,
				"threshold", cfg.Sensor.EARThreshold,
			)
			ears = ears[:0]
		}
	}
}

// runCalibration samples open then closed eyes and suggests the midpoint
// between the low end of open readings and the high end of closed ones.
func runCalibration(ctx context.Context, cfg *config.Config, feed *sensor.Feed, each time.Duration, path string) {
	slog.Info("calibrate: keep your eyes open", "for", each)
	open := sample(ctx, cfg, feed, each)
	slog.Info("calibrate: keep your eyes closed", "for", each)
	closed := sample(ctx, cfg, feed, each)

	if len(open) == 0 || len(closed) == 0 {
		slog.Error("calibrate: no face seen", "open_samples", len(open), "closed_samples", len(closed))
		return
	}
	_, openP10, _, _ := telemetry.ComputeEARStats(open)
	_, _, _, closedP90 := telemetry.ComputeEARStats(closed)
	if closedP90 >= openP10 {
		slog.Warn("calibrate: open and closed readings overlap", "open_p10", openP10, "closed_p90", closedP90)
	}
	threshold := (openP10 + closedP90) / 2
	slog.Info("calibrate: suggested threshold",
		"ear_threshold", threshold,
		"open_p10", openP10,
		"closed_p90", closedP90,
		"current", cfg.Sensor.EARThreshold,
	)

	if path == "" {
		return
	}
	out := *cfg
	out.Sensor.EARThreshold = threshold
	if err := out.WriteYAML(path); err != nil {
		slog.Error("failed to write config", "path", path, "error", err)
		return
	}
	slog.Info("config written", "path", path)
}

// sample collects the EAR of every new frame with a face for d.
func sample(ctx context.Context, cfg *config.Config, feed *sensor.Feed, d time.Duration) []float64 {
	poll := time.NewTicker(cfg.Derived.FrameInterval)
	defer poll.Stop()
	deadline := time.After(d)

	var ears []float64
	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			return ears
		case <-deadline:
			return ears
		case <-poll.C:
			feed.Blinks.Clear()
			if f, ok := feed.Frames.TryRecv(); ok && f.Seq != lastSeq && f.Faces > 0 {
				lastSeq = f.Seq
				ears = append(ears, f.EAR)
			}
		}
	}
}

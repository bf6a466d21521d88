package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pthm-cable/towerblocks/audio"
	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/game"
	"github.com/pthm-cable/towerblocks/sensor"
	"github.com/pthm-cable/towerblocks/session"
	"github.com/pthm-cable/towerblocks/webcam"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// CLI flags
	configPath := flag.String("config", os.Getenv("TOWERBLOCKS_CONFIG"), "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	autoplay := flag.Bool("autoplay", false, "Let a bot drop the blocks")
	camera := flag.Int("camera", envInt("TOWERBLOCKS_CAMERA", -1), "Camera device index (-1 = use config)")
	noCamera := flag.Bool("no-camera", false, "Disable the camera even if enabled in config")
	mode := flag.String("mode", "", "Control mode: keyboard, blink or nose (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	fullscreen := flag.Bool("fullscreen", false, "Start fullscreen")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	logFormat := flag.String("log-format", "json", "Log format: json or text")

	flag.Parse()

	// Set up slog with a run id on every record
	runID := uuid.NewString()
	slog.SetDefault(newLogger(*logLevel, *logFormat).With("run", runID))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	modeName := cfg.Control.Mode
	if *mode != "" {
		modeName = *mode
	}
	controlMode, err := session.ParseMode(modeName)
	if err != nil {
		slog.Error("invalid control mode", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Camera worker
	var cam *cameraRig
	if cfg.Sensor.Enabled && !*noCamera {
		device := cfg.Sensor.Device
		if *camera >= 0 {
			device = *camera
		}
		cam = startCamera(cfg, device)
	}
	if cam == nil && controlMode != session.ModeKeyboard {
		slog.Warn("no camera, only the keyboard can drop", "mode", controlMode.String())
	}

	opts := game.Options{
		Seed:      rngSeed,
		Mode:      controlMode,
		Run:       runID,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Headless:  *headless,
		Autoplay:  *autoplay,
	}
	if cam != nil {
		opts.Feed = cam.feed
		opts.Worker = cam.worker
		defer cam.stop(cfg.Sensor.StopTimeout)
	}

	slog.Info("starting",
		"seed", rngSeed,
		"mode", controlMode.String(),
		"headless", *headless,
		"autoplay", *autoplay,
		"camera", cam != nil,
		"max_ticks", *maxTicks,
	)

	if *headless {
		// Headless mode - no raylib or audio
		g := game.NewGameWithOptions(opts)
		defer g.Unload()

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && g.Tick() >= uint64(*maxTicks) {
				slog.Info("max ticks reached", "tick", g.Tick(), "life", g.Session().Life, "score", g.Session().Score)
				return
			}
		}
	}

	// Graphical mode
	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager(cfg.Audio)
		if err := sm.Initialize(); err != nil {
			slog.Warn("audio_unavailable", "error", err)
		}
		defer sm.Cleanup()
		opts.Sound = sm
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	if *fullscreen || cfg.Screen.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= uint64(*maxTicks) {
			break
		}
	}
	slog.Info("window closed", "tick", g.Tick(), "life", g.Session().Life, "score", g.Session().Score)
}

// cameraRig is the running camera worker and the resources it borrows.
type cameraRig struct {
	feed   *sensor.Feed
	worker *sensor.Worker
	vision *webcam.CascadeVision
}

// startCamera opens the camera and starts the worker. Returns nil, after
// logging why, when the camera or the cascades are unavailable.
func startCamera(cfg *config.Config, device int) *cameraRig {
	vision, err := webcam.NewCascadeVision(cfg.Vision)
	if err != nil {
		slog.Warn("vision_unavailable", "error", err)
		return nil
	}
	dev, err := webcam.Open(device)
	if err != nil {
		vision.Close()
		slog.Warn("camera_open_failed", "device", device, "error", err)
		return nil
	}

	slog.Info("camera_opened", "device", dev.ID())

	feed := sensor.NewFeed(cfg.Sensor.BlinkQueue)
	worker := sensor.NewWorker(cfg, dev, vision, feed)
	worker.Start()
	return &cameraRig{feed: feed, worker: worker, vision: vision}
}

// stop shuts the worker down. The cascades stay loaded if the worker is
// still running after the timeout.
func (c *cameraRig) stop(timeout time.Duration) {
	if !c.worker.Shutdown(timeout) {
		return
	}
	c.vision.Close()
	slog.Info("camera_stats", "stats", c.worker.Stats())
}

// newLogger builds the default logger from the CLI options.
func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// envInt reads an integer environment variable, falling back to def.
func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

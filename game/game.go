// Package game drives a session from the raylib frame loop, or headless,
// and fans its events out to audio, particles and telemetry.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/towerblocks/audio"
	"github.com/pthm-cable/towerblocks/camera"
	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/renderer"
	"github.com/pthm-cable/towerblocks/sensor"
	"github.com/pthm-cable/towerblocks/session"
	"github.com/pthm-cable/towerblocks/telemetry"
	"github.com/pthm-cable/towerblocks/ui"
)

// Options configures a Game.
type Options struct {
	Seed      int64
	Mode      session.Mode
	Run       string // Run id written to lives.csv
	OutputDir string // Empty disables CSV output
	LogStats  bool
	Headless  bool
	Autoplay  bool

	Feed   *sensor.Feed        // nil without a camera
	Worker *sensor.Worker      // nil without a camera
	Sound  *audio.SoundManager // nil when silent
}

// Game holds the session and everything that observes it.
type Game struct {
	cfg    *config.Config
	loop   *session.Loop
	feed   *sensor.Feed
	worker *sensor.Worker
	sound  *audio.SoundManager
	bot    *Autoplay

	headless bool
	logStats bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	// Rendering, unused when headless
	target         rl.RenderTexture2D
	camera         *camera.Camera
	background     *renderer.BackgroundRenderer
	webcam         *renderer.WebcamRenderer
	scene          *renderer.SceneRenderer
	particles      *renderer.ParticleRenderer
	hud            *ui.HUD
	gameOver       *ui.GameOverPanel
	restartClicked bool
}

// NewGameWithOptions creates a game. The raylib window must already be open
// unless opts.Headless is set.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	s := session.New(cfg, opts.Seed, opts.Mode)
	g := &Game{
		cfg:           cfg,
		loop:          session.NewLoop(cfg, s, opts.Feed),
		feed:          opts.Feed,
		worker:        opts.Worker,
		sound:         opts.Sound,
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		collector:     telemetry.NewCollector(opts.Run, cfg.Derived.WindowTicks, float64(cfg.Screen.TargetFPS)),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}
	if opts.Autoplay {
		g.bot = NewAutoplay(cfg, opts.Seed)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
			slog.Info("writing telemetry", "dir", om.Dir())
		}
	}

	if !opts.Headless {
		w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
		g.target = rl.LoadRenderTexture(w, h)
		rl.SetTextureFilter(g.target.Texture, rl.FilterBilinear)
		g.camera = camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
			float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
		g.background = renderer.NewBackgroundRenderer(w, h)
		g.webcam = renderer.NewWebcamRenderer(w, h, 90)
		g.scene = renderer.NewSceneRenderer(cfg)
		g.particles = renderer.NewParticleRenderer(opts.Seed)
		g.hud = ui.NewHUD(w, h)
		g.gameOver = ui.NewGameOverPanel(w, h)
	}

	return g
}

// Update reads input and runs one tick. The tick's timing sample is closed
// by Draw.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleWindowInput()
	events := g.step(g.readKeys())
	g.spawnParticles(events)
	g.particles.Update()
}

// UpdateHeadless runs one tick without raylib.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	var keys session.Keys
	if g.bot != nil {
		keys = g.bot.Keys(g.loop.Session())
	}
	g.step(keys)
	g.perfCollector.EndTick()
}

// step advances the session and dispatches its events.
func (g *Game) step(keys session.Keys) []session.Event {
	g.perfCollector.StartPhase(telemetry.PhaseStep)
	before := g.loop.BlinksReceived()
	events := g.loop.Tick(keys)

	g.perfCollector.StartPhase(telemetry.PhaseAudio)
	if g.sound != nil {
		g.sound.HandleEvents(events)
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordTelemetry(events, g.loop.BlinksReceived()-before)
	return events
}

// Session returns the running session.
func (g *Game) Session() *session.Session {
	return g.loop.Session()
}

// Tick returns the current game tick.
func (g *Game) Tick() uint64 {
	return g.loop.Session().Tick
}

// Unload flushes telemetry and releases GPU resources.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
	if g.headless {
		return
	}
	g.webcam.Unload()
	rl.UnloadRenderTexture(g.target)
}

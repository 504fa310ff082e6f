package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/weightcam/config"
	"github.com/pthm-cable/weightcam/game"
	"github.com/pthm-cable/weightcam/renderer"
	"github.com/pthm-cable/weightcam/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output framing and perf stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per rendered frame")
	watch := flag.Bool("watch", true, "Reload the framing section when the config file changes (graphical mode)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(*logLevel))); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Config:    cfg,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Logger:    logger,
	}

	if *headless {
		if err := runHeadless(opts, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	var watcher *config.Watcher
	if *watch && *configPath != "" {
		w, err := config.NewWatcher(*configPath)
		if err != nil {
			slog.Warn("config watch disabled", "error", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}
	if err := runGraphical(opts, *configPath, watcher, *maxTicks, *stepsPerUpdate); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps the simulation until max ticks or an interrupt.
func runHeadless(opts game.Options, maxTicks int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, err := game.New(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless simulation",
		"max_ticks", maxTicks,
		"output_dir", opts.OutputDir,
	)

	for ctx.Err() == nil {
		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
	return nil
}

// runGraphical opens a window and runs the interactive viewer.
func runGraphical(opts game.Options, configPath string, watcher *config.Watcher, maxTicks, stepsPerUpdate int) error {
	cfg := opts.Config

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Weighted Framing Camera")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	view := renderer.NewView(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	scene := renderer.NewSceneRenderer()
	overlays := ui.NewOverlayRegistry()
	controls := ui.NewControlsPanel(10, 120, 200)
	input := &ui.Input{Overlays: overlays, Controls: controls, View: view}
	hud := ui.NewHUD()
	perfPanel := ui.NewPerfPanel(0, 0)
	framingPanel := ui.NewFramingPanel(0, 0, 260)
	targetsPanel := ui.NewTargetsPanel(0, 0, 260)

	for !rl.WindowShouldClose() {
		if watcher != nil {
			reloadFraming(g, configPath, watcher)
		}

		stepOnce := input.Handle(g)
		if stepOnce {
			g.Step()
		}
		for i := 0; i < stepsPerUpdate; i++ {
			g.UpdateHeadless()
		}

		screenW, screenH := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
		ctrl := g.Controller()
		view.Fit(ctrl.Bounds(), ctrl.Lens(), g.Frame().Pose)

		rl.BeginDrawing()
		scene.Draw(view, g, cfg.SafeArea(), overlays.Layers())

		hud.Draw(ui.HUDData{
			Title:     "Weighted Framing Camera",
			Tick:      g.Tick(),
			SimTime:   g.SimTime(),
			Frame:     g.Frame(),
			Limits:    ctrl.Limits(),
			ViewMode:  view.Mode.String(),
			Smoothing: g.Registry().Mode().String(),
			FPS:       rl.GetFPS(),
			Paused:    g.Paused(),
		})
		controls.Draw(overlays)

		framingPanel.SetPosition(screenW-270, 10)
		if f, changed := framingPanel.Draw(cfg.Framing); changed {
			if err := g.ApplyFraming(f); err != nil {
				slog.Warn("framing change rejected", "error", err)
			}
		}
		targetsPanel.SetPosition(screenW-270, 210)
		if name := targetsPanel.Draw(g.Targets()); name != "" {
			g.ToggleTarget(name)
		}
		perfPanel.SetPosition(screenW-270, screenH-110)
		perfPanel.Draw(g.PerfStats())

		hud.DrawControls(screenH, "[Space] Pause  [N] Step  [Tab] View  [H] Overlays  [1-9] Toggle target  [RMB] Add marker (Shift = important)  [Backspace] Remove marker")
		rl.EndDrawing()
		g.RecordRenderFrame()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}

// reloadFraming applies the framing section of a changed config file.
func reloadFraming(g *game.Game, path string, watcher *config.Watcher) {
	if _, ok := watcher.Poll(); !ok {
		return
	}
	next, err := config.Load(path)
	if err != nil {
		slog.Warn("config reload failed", "path", path, "error", err)
		return
	}
	if err := g.ApplyFraming(next.Framing); err != nil {
		slog.Warn("config reload rejected", "path", path, "error", err)
	}
}

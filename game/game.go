// Package game hosts the framing camera in a small ECS scene.
//
// Targets are ECS entities that move around the level and come and go on a
// schedule. Each tick the scene advances, the weight registry follows the
// targets, and the controller frames them. Rendering lives elsewhere so the
// simulation can run headless.
package game

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/weightcam/camera"
	"github.com/pthm-cable/weightcam/components"
	"github.com/pthm-cable/weightcam/config"
	"github.com/pthm-cable/weightcam/systems"
	"github.com/pthm-cable/weightcam/telemetry"
	"github.com/pthm-cable/weightcam/weights"
)

// Options configures a Game.
type Options struct {
	Config    *config.Config
	OutputDir string // empty disables CSV output
	LogStats  bool   // log pose and perf once per stats window
	Logger    *slog.Logger
}

// Game holds the complete simulation state.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger

	world        *ecs.World
	moverMapper  *ecs.Map3[components.Position, components.Velocity, components.Target]
	mortalMapper *ecs.Map4[components.Position, components.Velocity, components.Target, components.Lifetime]
	targetMap    *ecs.Map1[components.Target]
	targetFilter *ecs.Filter2[components.Position, components.Target]

	movement *systems.MovementSystem
	lifetime *systems.LifetimeSystem
	sources  *systems.TargetSources

	registry   *weights.Registry
	controller *camera.Controller
	frame      camera.Frame

	pending []config.TargetConfig // sorted by SpawnAt
	names   map[ecs.Entity]string

	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	summary   *telemetry.Summary
	frameRows []telemetry.FrameRecord
	logStats  bool

	tick   int32
	paused bool
}

// New builds the scene, registry and controller from the options.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("game: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lens, err := cfg.NewLens()
	if err != nil {
		return nil, fmt.Errorf("game: lens: %w", err)
	}
	bounds := cfg.Bounds()
	limits := camera.DeriveZoomLimits(bounds, lens, cfg.Zoom.Min, cfg.Zoom.Max)
	controller, err := camera.NewController(lens, bounds, limits,
		camera.WithEdgeBuffer(cfg.Derived.EdgeBuffer),
		camera.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("game: controller: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("game: output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("game: config snapshot: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:          cfg,
		logger:       logger,
		world:        world,
		moverMapper:  ecs.NewMap3[components.Position, components.Velocity, components.Target](world),
		mortalMapper: ecs.NewMap4[components.Position, components.Velocity, components.Target, components.Lifetime](world),
		targetMap:    ecs.NewMap1[components.Target](world),
		targetFilter: ecs.NewFilter2[components.Position, components.Target](world),
		movement:     systems.NewMovementSystem(world, bounds),
		lifetime:     systems.NewLifetimeSystem(world),
		sources:      systems.NewTargetSources(world),
		registry: weights.NewRegistry(
			weights.WithSmoothing(cfg.Derived.Smoothing),
			weights.WithEpsilon(cfg.Framing.Epsilon),
			weights.WithLogger(logger),
		),
		controller: controller,
		names:      make(map[ecs.Entity]string),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:     output,
		summary:    telemetry.NewSummary(),
		logStats:   opts.LogStats,
	}

	g.pending = slices.Clone(cfg.Targets)
	slices.SortStableFunc(g.pending, func(a, b config.TargetConfig) int {
		return cmp.Compare(a.SpawnAt, b.SpawnAt)
	})
	g.spawnDue()

	logger.Info("framing scene ready",
		"targets", len(cfg.Targets),
		"min_zoom", limits.Min,
		"max_zoom", limits.Max,
		"smoothing", cfg.Derived.Smoothing.String(),
	)
	return g, nil
}

// Step advances the simulation by one tick.
func (g *Game) Step() {
	dt := g.cfg.Physics.DT
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseScene)
	g.spawnDue()
	g.movement.Update(dt)
	for _, e := range g.lifetime.Update(g.world, dt) {
		g.logger.Debug("target expired", "name", g.names[e], "tick", g.tick)
		delete(g.names, e)
	}

	g.perf.StartPhase(telemetry.PhaseWeights)
	g.registry.Tick(dt, g.cfg.Framing.TimeConstant)

	g.perf.StartPhase(telemetry.PhaseFraming)
	g.frame = g.controller.Advance(g.registry.Snapshot())

	g.perf.StartPhase(telemetry.PhaseOutput)
	g.tick++
	g.recordFrame()

	g.perf.EndTick()
}

// UpdateHeadless runs one tick unless paused.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	g.Step()
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns elapsed simulated seconds.
func (g *Game) SimTime() float64 { return float64(g.tick) * g.cfg.Physics.DT }

// Frame returns the latest controller frame.
func (g *Game) Frame() camera.Frame { return g.frame }

// Controller returns the framing controller.
func (g *Game) Controller() *camera.Controller { return g.controller }

// Registry returns the weight registry.
func (g *Game) Registry() *weights.Registry { return g.registry }

// Config returns the active configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// PerfStats returns timing for the current perf window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perf.Stats() }

// SummaryStats returns the run summary so far.
func (g *Game) SummaryStats() telemetry.SummaryStats { return g.summary.Stats() }

// RecordRenderFrame marks a rendered frame for FPS tracking.
func (g *Game) RecordRenderFrame() { g.perf.RecordFrame() }

// Paused reports whether ticks are suspended.
func (g *Game) Paused() bool { return g.paused }

// SetPaused suspends or resumes ticking.
func (g *Game) SetPaused(p bool) { g.paused = p }

// Resize updates the lens aspect after the window changes size.
func (g *Game) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.controller.Lens().SetAspect(float64(width) / float64(height))
}

// ApplyFraming swaps in new framing parameters without restarting the scene.
func (g *Game) ApplyFraming(f config.FramingConfig) error {
	mode, ok := weights.ParseSmoothingMode(f.Smoothing)
	if !ok {
		return fmt.Errorf("%w: got %q", config.ErrInvalidSmoothing, f.Smoothing)
	}
	if !(f.TimeConstant > 0) {
		return fmt.Errorf("%w: got %v", config.ErrInvalidTimeConstant, f.TimeConstant)
	}
	g.cfg.Framing = f
	g.cfg.Derived.Smoothing = mode
	g.cfg.Derived.EdgeBuffer = r2.Vec{X: f.EdgeBufferX, Y: f.EdgeBufferY}
	g.registry.SetMode(mode)
	g.registry.SetEpsilon(f.Epsilon)
	g.controller.SetEdgeBuffer(g.cfg.Derived.EdgeBuffer)
	g.logger.Info("framing updated",
		"edge_buffer_x", f.EdgeBufferX,
		"edge_buffer_y", f.EdgeBufferY,
		"time_constant", f.TimeConstant,
		"smoothing", mode.String(),
		"epsilon", g.registry.Epsilon(),
	)
	return nil
}

// Close flushes output and logs the run summary.
func (g *Game) Close() error {
	err := g.flushFrames()
	stats := g.summary.Stats()
	g.logger.Info("run summary", "summary", stats)
	if cerr := g.output.Close(); err == nil {
		err = cerr
	}
	return err
}

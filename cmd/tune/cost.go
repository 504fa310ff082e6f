package main

import (
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/pthm-cable/weightcam/camera"
	"github.com/pthm-cable/weightcam/config"
	"github.com/pthm-cable/weightcam/game"
)

// Cost component weights. Missing an important target dominates; the rest
// separates configs that keep everything framed.
const (
	costWeightMiss   = 10.0 // per unit fraction of ticks with a target out of view
	costWeightDepth  = 1.0  // mean depth as a fraction of the max zoom
	costWeightJitter = 0.5  // depth stddev as a fraction of the max zoom
	costWeightTravel = 0.05 // camera travel per simulated second
)

// runResult holds the measurements from a single headless run.
type runResult struct {
	ticks      int32
	missTicks  int32
	depthMean  float64
	depthStd   float64
	travel     float64
	simSeconds float64
	maxZoom    float64
}

// CostEvaluator runs headless scenarios and scores framing parameters.
type CostEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	speeds     []float64
	baseConfig *config.Config
	logger     *slog.Logger

	mu       sync.Mutex
	lastMiss float64 // miss fraction from the most recent Evaluate call
}

// NewCostEvaluator creates a new evaluator. Each speed scales every target
// velocity to form one scenario.
func NewCostEvaluator(params *ParamVector, maxTicks int32, speeds []float64, baseCfg *config.Config) *CostEvaluator {
	return &CostEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		speeds:     speeds,
		baseConfig: baseCfg,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LastMiss returns the miss fraction from the most recent evaluation.
func (ce *CostEvaluator) LastMiss() float64 {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	return ce.lastMiss
}

// Evaluate returns the mean cost over all scenarios (lower = better).
func (ce *CostEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(ce.speeds))
	var wg sync.WaitGroup
	for i, speed := range ce.speeds {
		wg.Add(1)
		go func(idx int, s float64) {
			defer wg.Done()
			results[idx] = ce.runScenario(x, s)
		}(i, speed)
	}
	wg.Wait()

	var totalCost, totalMiss float64
	for _, r := range results {
		totalCost += computeCost(r)
		totalMiss += r.missFraction()
	}
	n := float64(len(results))

	ce.mu.Lock()
	ce.lastMiss = totalMiss / n
	ce.mu.Unlock()

	return totalCost / n
}

// runScenario executes one headless run with velocities scaled by speed.
func (ce *CostEvaluator) runScenario(x []float64, speed float64) *runResult {
	cfg := ce.copyConfig()
	ce.params.ApplyToConfig(cfg, x)
	for i := range cfg.Targets {
		cfg.Targets[i].VX *= speed
		cfg.Targets[i].VY *= speed
	}

	g, err := game.New(game.Options{Config: cfg, Logger: ce.logger})
	if err != nil {
		// Parameters are clamped into valid ranges, so this is a config bug.
		ce.logger.Error("scenario setup failed", "error", err)
		return &runResult{ticks: 1, missTicks: 1, maxZoom: 1}
	}
	defer g.Close()

	result := &runResult{maxZoom: g.Controller().Limits().Max}
	for g.Tick() < ce.maxTicks {
		g.Step()
		if !importantInView(g) {
			result.missTicks++
		}
	}

	stats := g.SummaryStats()
	result.ticks = g.Tick()
	result.depthMean = stats.DepthMean
	result.depthStd = stats.DepthStd
	result.travel = stats.Travel
	result.simSeconds = g.SimTime()
	return result
}

// importantInView reports whether every enabled important target is inside
// the camera view.
func importantInView(g *game.Game) bool {
	view := camera.FullScreen.Rect(g.Controller().Lens(), g.Frame().Pose)
	for _, t := range g.Targets() {
		if !t.Important || !t.Enabled {
			continue
		}
		p := t.Position
		if p.X < view.Min.X || p.X > view.Max.X || p.Y < view.Min.Y || p.Y > view.Max.Y {
			return false
		}
	}
	return true
}

// copyConfig returns a copy of the base config that a run may mutate.
func (ce *CostEvaluator) copyConfig() *config.Config {
	cfg := *ce.baseConfig
	cfg.Targets = slices.Clone(ce.baseConfig.Targets)
	return &cfg
}

func (r *runResult) missFraction() float64 {
	if r.ticks == 0 {
		return 1
	}
	return float64(r.missTicks) / float64(r.ticks)
}

// computeCost combines the run measurements into a scalar.
func computeCost(r *runResult) float64 {
	depthNorm := 1.0
	if r.maxZoom > 0 {
		depthNorm = r.maxZoom
	}
	travelRate := 0.0
	if r.simSeconds > 0 {
		travelRate = r.travel / r.simSeconds
	}
	cost := costWeightMiss*r.missFraction() +
		costWeightDepth*math.Abs(r.depthMean)/depthNorm +
		costWeightJitter*r.depthStd/depthNorm +
		costWeightTravel*travelRate
	return cost
}

package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/weightcam/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	pv.ApplyToConfig(cfg, []float64{-3, 100, 0})

	if cfg.Framing.EdgeBufferX != 0 {
		t.Errorf("edge_buffer_x = %v, want 0", cfg.Framing.EdgeBufferX)
	}
	if cfg.Framing.EdgeBufferY != 15 {
		t.Errorf("edge_buffer_y = %v, want 15", cfg.Framing.EdgeBufferY)
	}
	if cfg.Framing.TimeConstant != 0.05 {
		t.Errorf("time_constant = %v, want 0.05", cfg.Framing.TimeConstant)
	}
	if cfg.Derived.EdgeBuffer.Y != 15 {
		t.Errorf("derived edge buffer not updated: %v", cfg.Derived.EdgeBuffer)
	}
	if got := pv.ExtractFromConfig(cfg); got[1] != 15 {
		t.Errorf("ExtractFromConfig = %v", got)
	}
}

func TestParseSpeeds(t *testing.T) {
	got, err := parseSpeeds(" 0.5, 1 ,2,")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 0.5 || got[2] != 2 {
		t.Errorf("parseSpeeds = %v", got)
	}
	for _, bad := range []string{"", "fast", "1,-2"} {
		if _, err := parseSpeeds(bad); err == nil {
			t.Errorf("parseSpeeds(%q) should fail", bad)
		}
	}
}

func TestEvaluateDoesNotMutateBase(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	vx := cfg.Targets[0].VX
	pv := NewParamVector()
	ce := NewCostEvaluator(pv, 60, []float64{2, 3}, cfg)

	cost := ce.Evaluate(pv.DefaultVector())
	if math.IsNaN(cost) || cost < 0 {
		t.Fatalf("cost = %v", cost)
	}
	if cfg.Targets[0].VX != vx {
		t.Errorf("base config velocity changed from %v to %v", vx, cfg.Targets[0].VX)
	}
	if m := ce.LastMiss(); m < 0 || m > 1 {
		t.Errorf("miss fraction = %v", m)
	}
}

func TestComputeCostPenalizesMisses(t *testing.T) {
	framed := &runResult{ticks: 100, depthMean: -20, maxZoom: 50, simSeconds: 1}
	missed := *framed
	missed.missTicks = 50
	if computeCost(&missed) <= computeCost(framed) {
		t.Errorf("missing targets should cost more: %v vs %v", computeCost(&missed), computeCost(framed))
	}
}

package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/weightcam/camera"
)

// Summary accumulates whole-run camera statistics.
type Summary struct {
	depths []float64
	travel float64
	last   r2.Vec
	ticks  int

	clampedTicks int
	axisTicks    map[camera.Axis]int
}

// NewSummary creates an empty summary.
func NewSummary() *Summary {
	return &Summary{axisTicks: make(map[camera.Axis]int)}
}

// Record adds one frame.
func (s *Summary) Record(f camera.Frame) {
	pos := r2.Vec{X: f.Pose.X, Y: f.Pose.Y}
	if s.ticks > 0 {
		s.travel += r2.Norm(r2.Sub(pos, s.last))
	}
	s.last = pos
	s.ticks++

	s.depths = append(s.depths, -f.Pose.Z)
	s.axisTicks[f.Axis]++
	if f.Pose.X != f.Unclamped.X || f.Pose.Y != f.Unclamped.Y {
		s.clampedTicks++
	}
}

// SummaryStats is the digest of a run.
type SummaryStats struct {
	Ticks         int
	DepthMean     float64
	DepthStd      float64
	DepthMin      float64
	DepthMax      float64
	Travel        float64 // total camera path length on the plane
	ClampedPct    float64
	VerticalPct   float64
	HorizontalPct float64
}

// Stats computes the digest. An empty summary returns zero values.
func (s *Summary) Stats() SummaryStats {
	if s.ticks == 0 {
		return SummaryStats{}
	}
	mean, std := stat.MeanStdDev(s.depths, nil)
	if math.IsNaN(std) {
		std = 0
	}
	minD, maxD := s.depths[0], s.depths[0]
	for _, d := range s.depths[1:] {
		minD = math.Min(minD, d)
		maxD = math.Max(maxD, d)
	}
	pct := func(n int) float64 { return float64(n) / float64(s.ticks) * 100 }
	return SummaryStats{
		Ticks:         s.ticks,
		DepthMean:     mean,
		DepthStd:      std,
		DepthMin:      minD,
		DepthMax:      maxD,
		Travel:        s.travel,
		ClampedPct:    pct(s.clampedTicks),
		VerticalPct:   pct(s.axisTicks[camera.AxisVertical]),
		HorizontalPct: pct(s.axisTicks[camera.AxisHorizontal]),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s SummaryStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", s.Ticks),
		slog.Float64("depth_mean", s.DepthMean),
		slog.Float64("depth_std", s.DepthStd),
		slog.Float64("depth_min", s.DepthMin),
		slog.Float64("depth_max", s.DepthMax),
		slog.Float64("travel", s.Travel),
		slog.Float64("clamped_pct", s.ClampedPct),
		slog.Float64("vertical_pct", s.VerticalPct),
		slog.Float64("horizontal_pct", s.HorizontalPct),
	)
}

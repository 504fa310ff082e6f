package game

import (
	"github.com/pthm-cable/weightcam/telemetry"
)

// recordFrame buffers the latest frame and flushes once per stats window.
func (g *Game) recordFrame() {
	g.summary.Record(g.frame)
	if g.output != nil {
		g.frameRows = append(g.frameRows, telemetry.NewFrameRecord(g.tick, g.SimTime(), g.frame))
	}

	if int(g.tick)%g.cfg.Derived.StatsTicks != 0 {
		return
	}
	if err := g.flushFrames(); err != nil {
		g.logger.Error("failed to write frames", "error", err)
	}
	perf := g.perf.Stats()
	if err := g.output.WritePerf(perf, g.tick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
	if g.logStats {
		g.logger.Info("framing",
			"tick", g.tick,
			"x", g.frame.Pose.X,
			"y", g.frame.Pose.Y,
			"depth", g.frame.Pose.Z,
			"samples", g.frame.Samples,
			"important", g.frame.Important,
			"axis", g.frame.Axis.String(),
			"perf", perf,
		)
	}
}

// flushFrames writes buffered frame rows.
func (g *Game) flushFrames() error {
	if len(g.frameRows) == 0 {
		return nil
	}
	err := g.output.WriteFrames(g.frameRows)
	g.frameRows = g.frameRows[:0]
	return err
}

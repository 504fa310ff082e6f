// Package telemetry records per-tick camera frames, timing and run summaries.
package telemetry

import (
	"github.com/pthm-cable/weightcam/camera"
)

// FrameRecord is one CSV row describing a camera tick.
type FrameRecord struct {
	Tick        int32   `csv:"tick"`
	SimTimeSec  float64 `csv:"sim_time"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Depth       float64 `csv:"depth"`
	FocusX      float64 `csv:"focus_x"`
	FocusY      float64 `csv:"focus_y"`
	TotalWeight float64 `csv:"total_weight"`
	Samples     int     `csv:"samples"`
	Important   int     `csv:"important"`
	Axis        string  `csv:"axis"`
	ClampedX    bool    `csv:"clamped_x"`
	ClampedY    bool    `csv:"clamped_y"`
}

// NewFrameRecord flattens a controller frame for export.
func NewFrameRecord(tick int32, simTime float64, f camera.Frame) FrameRecord {
	return FrameRecord{
		Tick:        tick,
		SimTimeSec:  simTime,
		X:           f.Pose.X,
		Y:           f.Pose.Y,
		Depth:       f.Pose.Z,
		FocusX:      f.Focus.X,
		FocusY:      f.Focus.Y,
		TotalWeight: f.TotalWeight,
		Samples:     f.Samples,
		Important:   f.Important,
		Axis:        f.Axis.String(),
		ClampedX:    f.Pose.X != f.Unclamped.X,
		ClampedY:    f.Pose.Y != f.Unclamped.Y,
	}
}

package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseWeights)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseFraming)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhasePct[PhaseWeights]; !ok {
		t.Error("expected weights phase to be tracked")
	}
	if _, ok := stats.PhasePct[PhaseFraming]; !ok {
		t.Error("expected framing phase to be tracked")
	}
	if stats.PhasePct[PhaseFraming] <= stats.PhasePct[PhaseWeights] {
		t.Errorf("expected framing (%v%%) > weights (%v%%)", stats.PhasePct[PhaseFraming], stats.PhasePct[PhaseWeights])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseScene)
		pc.EndTick()
	}

	if pc.sampleCount != 5 {
		t.Errorf("expected window capped at 5 samples, got %d", pc.sampleCount)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 150 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseFraming: 40, PhaseWeights: 10},
	}
	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 150 {
		t.Errorf("unexpected row header fields: %+v", row)
	}
	if row.FramingPct != 40 || row.WeightsPct != 10 || row.ScenePct != 0 {
		t.Errorf("unexpected phase columns: %+v", row)
	}
}

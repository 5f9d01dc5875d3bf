package station

import (
	"testing"

	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// TestS4RuntimeRetryPathCountsTowardCycleTime drives a seed that forces the
// first-try pass roll to fail and the retry roll to pass, and asserts the
// retry stage's duration is folded into the completed cycle's time.
func TestS4RuntimeRetryPathCountsTowardCycleTime(t *testing.T) {
	var seed int64
	var r *S4Runtime
	for seed = 1; seed < 10000; seed++ {
		r = NewS4Runtime(seed, nil)
		r.Tick(wire.SignalFrame{CmdStart: 1}, 0)
		total := S4MotionS + S4ThermalS + S4CalibrationS + S4TestprintS
		r.Tick(wire.SignalFrame{CmdStart: 1}, total)
		if r.Core.StageName == s4StageRetry {
			break
		}
	}
	if r.Core.StageName != s4StageRetry {
		t.Fatal("no seed under 10000 produced a retry path; generator logic likely changed")
	}

	r.Tick(wire.SignalFrame{CmdStart: 1}, S4RetryS)
	if !r.Core.DonePulse && !r.Core.FaultLatched {
		t.Fatal("expected the cycle to terminate (pass or fail) once the retry stage is consumed")
	}
	wantMs := uint32((S4MotionS + S4ThermalS + S4CalibrationS + S4TestprintS + S4RetryS) * 1000)
	if r.Core.DonePulse && r.Core.LastCycleTimeMs != wantMs {
		t.Errorf("LastCycleTimeMs = %d, want %d (stages + retry)", r.Core.LastCycleTimeMs, wantMs)
	}
}

func TestS4RuntimeTotalPersistsAcrossReset(t *testing.T) {
	r := NewS4Runtime(1, nil)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	if r.Core.Total != 1 {
		t.Fatalf("Total = %d, want 1", r.Core.Total)
	}
	r.Tick(wire.SignalFrame{CmdReset: 1}, 0)
	if r.Core.Total != 1 {
		t.Errorf("Total = %d after reset, want 1 (persists across cmd_reset)", r.Core.Total)
	}
}

package station

import (
	"math/rand"
	"testing"

	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// fakeGenerator is a two-stage cycle with a fixed outcome, used to exercise
// Core's handshake logic independent of any station's RNG-driven specifics.
type fakeGenerator struct {
	passed     bool
	cycleTimeS float64
	advances   int
}

func (g *fakeGenerator) Start(rng *rand.Rand) StageResult {
	g.advances = 0
	return StageResult{Name: "stage1", DurationS: 1.0}
}

func (g *fakeGenerator) Advance(rng *rand.Rand) StageResult {
	g.advances++
	if g.advances == 1 {
		return StageResult{Name: "stage2", DurationS: 1.0}
	}
	return StageResult{Terminal: true, Passed: g.passed, CycleTimeS: g.cycleTimeS}
}

func newTestCore(passed bool) (*Core, *fakeGenerator) {
	gen := &fakeGenerator{passed: passed, cycleTimeS: 2.0}
	return NewCore("TEST", gen, rand.New(rand.NewSource(1)), nil), gen
}

func TestCoreStartEdgeBeginsCycleAndSetsBusy(t *testing.T) {
	core, _ := newTestCore(true)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	if !core.Busy || !core.Enabled {
		t.Fatalf("expected busy+enabled after start edge, got busy=%v enabled=%v", core.Busy, core.Enabled)
	}
	if core.Total != 1 {
		t.Errorf("Total = %d, want 1", core.Total)
	}
}

func TestCoreStartEdgeOnlyFiresOnce(t *testing.T) {
	core, _ := newTestCore(true)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0) // held high, not a new edge
	if core.Total != 1 {
		t.Errorf("Total = %d, want 1 (no re-trigger while cmd_start stays high)", core.Total)
	}
}

func TestCoreCompletesCycleAndPulsesDoneOnceThenClears(t *testing.T) {
	core, _ := newTestCore(true)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0) // consumes stage1
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0) // consumes stage2, terminal
	if !core.DonePulse {
		t.Fatal("expected done_pulse on the tick the cycle completes")
	}
	if core.Completed != 1 {
		t.Errorf("Completed = %d, want 1", core.Completed)
	}
	if core.LastCycleTimeMs != 2000 {
		t.Errorf("LastCycleTimeMs = %d, want 2000", core.LastCycleTimeMs)
	}

	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	if core.DonePulse {
		t.Fatal("expected done_pulse to clear the following tick")
	}
}

func TestCoreFailedCycleLatchesFault(t *testing.T) {
	core, _ := newTestCore(false)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0)
	if !core.FaultLatched {
		t.Fatal("expected fault_latched after a failed cycle")
	}
	if core.Busy {
		t.Error("expected busy=false once faulted")
	}
}

func TestCoreResetEdgeClearsFaultAndCycleState(t *testing.T) {
	core, _ := newTestCore(false)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0)
	if !core.FaultLatched {
		t.Fatal("setup: expected fault_latched before reset")
	}

	core.Tick(wire.SignalFrame{CmdReset: 1}, 0)
	if core.FaultLatched || core.Busy || core.Enabled {
		t.Errorf("expected clean state after reset, got fault=%v busy=%v enabled=%v",
			core.FaultLatched, core.Busy, core.Enabled)
	}
}

func TestCoreStopEdgeAbandonsCycleWithoutCompleting(t *testing.T) {
	core, _ := newTestCore(true)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	core.Tick(wire.SignalFrame{CmdStart: 1, CmdStop: 1}, 1.0)
	if core.Busy {
		t.Error("expected busy=false after stop edge")
	}
	if core.Completed != 0 {
		t.Errorf("Completed = %d, want 0 (stop must not count as completion)", core.Completed)
	}
}

func TestCoreReadyReflectsIdleNonFaultedNonPulsedState(t *testing.T) {
	core, _ := newTestCore(true)
	if core.Ready() {
		t.Fatal("expected not ready at construction (not yet enabled)")
	}
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	if core.Ready() {
		t.Error("expected not ready while busy")
	}
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0)
	core.Tick(wire.SignalFrame{CmdStart: 1}, 1.0) // cycle completes, done pulse
	if core.Ready() {
		t.Error("expected not ready during the done pulse")
	}
	core.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	if !core.Ready() {
		t.Error("expected ready once enabled, idle, unfaulted and the done pulse has cleared")
	}
}

func TestCoreAvailabilityIsOneWhenNoTimeAccumulated(t *testing.T) {
	core, _ := newTestCore(true)
	if got := core.Availability(); got != 1.0 {
		t.Errorf("Availability() = %v, want 1.0", got)
	}
}

package station

import (
	"testing"

	"github.com/lineforge/assembly-line-sim/internal/wire"
)

func TestS2RuntimeNoReworkCompletesInBaseStages(t *testing.T) {
	r := NewS2Runtime(0.0, 0.0, 1, nil)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 3.0+2.0+1.5)
	if !r.Core.DonePulse {
		t.Fatal("expected cycle to complete")
	}
	if r.Completed != 1 || r.Reworks != 0 {
		t.Errorf("Completed=%d Reworks=%d, want 1/0", r.Completed, r.Reworks)
	}
}

func TestS2RuntimeAlwaysReworksAndScraps(t *testing.T) {
	r := NewS2Runtime(1.0, 1.0, 1, nil)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 3.0+2.0+1.5+2.0)
	if !r.Core.DonePulse {
		t.Fatal("expected cycle to complete (scrap is not a station fault)")
	}
	if r.Reworks != 1 || r.Scrapped != 1 || r.Completed != 0 {
		t.Errorf("Reworks=%d Scrapped=%d Completed=%d, want 1/1/0", r.Reworks, r.Scrapped, r.Completed)
	}
}

func TestS2RuntimeCycleTimeAvgTracksOnlyGoodUnits(t *testing.T) {
	r := NewS2Runtime(0.0, 0.0, 1, nil)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 3.0+2.0+1.5)
	if got := r.CycleTimeAvgS(); got != 6.5 {
		t.Errorf("CycleTimeAvgS() = %v, want 6.5", got)
	}
}

package station

import (
	"testing"

	"github.com/lineforge/assembly-line-sim/internal/wire"
)

func TestS1RuntimeCompletesWithZeroArmFailProb(t *testing.T) {
	r := NewS1Runtime(0.0, 1, nil)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 3.0) // pick+place+verify = 3.0s
	if r.Core.FaultLatched {
		t.Fatal("expected no fault with arm-fail probability 0")
	}
	if !r.Core.DonePulse {
		t.Fatal("expected cycle to complete within 3.0s")
	}
	if r.AnyArmFailed {
		t.Error("AnyArmFailed should be false")
	}
}

func TestS1RuntimeAlwaysFaultsWithArmFailProbOne(t *testing.T) {
	r := NewS1Runtime(1.0, 1, nil)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 0)
	r.Tick(wire.SignalFrame{CmdStart: 1}, 3.0)
	if !r.Core.FaultLatched {
		t.Fatal("expected fault latched with arm-fail probability 1")
	}
	if !r.AnyArmFailed {
		t.Error("AnyArmFailed should be true")
	}
}

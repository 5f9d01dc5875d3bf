package station

import (
	"math/rand"

	"github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// S1 kitting has no original_source Python counterpart (the pack's
// original_source/ only covers ST4/ST5/ST6); its three fixed stages and
// single arm-failure roll are grounded directly on spec.md's station-table
// entry for S1.
const (
	s1StagePick   = "pick"
	s1StagePlace  = "place"
	s1StageVerify = "verify"
)

// S1Generator produces the kitting station's pick/place/verify cycle,
// failing the whole cycle with probability ArmFailProb (any_arm_failed).
type S1Generator struct {
	ArmFailProb float64

	cur *stageQueue
}

func NewS1Generator(armFailProb float64) *S1Generator {
	return &S1Generator{ArmFailProb: armFailProb}
}

func (g *S1Generator) build(rng *rand.Rand) {
	armFailed := rng.Float64() < g.ArmFailProb
	cycleTime := 1.0 + 1.5 + 0.5

	g.cur = newStageQueue(
		[]queuedStage{
			{Name: s1StagePick, DurationS: 1.0},
			{Name: s1StagePlace, DurationS: 1.5},
			{Name: s1StageVerify, DurationS: 0.5},
		},
		StageResult{
			Terminal:   true,
			Passed:     !armFailed,
			CycleTimeS: cycleTime,
			Extra:      s1Outcome{AnyArmFailed: armFailed},
		},
	)
}

// s1Outcome is S1's StageResult.Extra payload.
type s1Outcome struct {
	AnyArmFailed bool
}

func (g *S1Generator) Start(rng *rand.Rand) StageResult {
	g.build(rng)
	return g.cur.pop()
}

func (g *S1Generator) Advance(rng *rand.Rand) StageResult {
	return g.cur.pop()
}

// S1Runtime wraps the generic Core with S1's inventory_ok/any_arm_failed
// status fields.
type S1Runtime struct {
	*Core
	InventoryOK  bool
	AnyArmFailed bool
}

func NewS1Runtime(armFailProb float64, seed int64, logger log.Logger) *S1Runtime {
	gen := NewS1Generator(armFailProb)
	return &S1Runtime{
		Core:        NewCore("S1", gen, rand.New(rand.NewSource(seed)), logger),
		InventoryOK: true,
	}
}

func (r *S1Runtime) Tick(cmd wire.SignalFrame, dtS float64) {
	r.Core.Tick(cmd, dtS)
	if r.Core.TerminalThisTick {
		if out, ok := r.Core.LastOutcome.(s1Outcome); ok {
			r.AnyArmFailed = out.AnyArmFailed
		}
	}
	r.InventoryOK = !r.Core.FaultLatched
}

func (r *S1Runtime) Status() wire.S1Status {
	return wire.S1Status{
		StatusCommon: r.common(),
		InventoryOK:  boolToU8(r.InventoryOK),
		AnyArmFailed: boolToU8(r.AnyArmFailed),
	}
}

package station

import (
	"math/rand"

	"github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// S6 packaging and dispatch is grounded on
// original_source/ST6_PackagingDispatch.py's _ST6SimModel._pack_one_unit:
// six packaging sub-steps (carton erect, pick+place, fold, tape seal,
// label apply, outfeed), each independently rollable against its own
// micro-fault probability and, on a miss, adding a repair stage counted as
// downtime; operate stages count as operational_time_s. Stock refill
// delays are a per-config simplification folded into the per-step fault
// probabilities rather than modeled as separate consumable counters (see
// DESIGN.md), since spec.md's table does not carry the original's
// carton/tape/label stock state. The post-cycle catastrophic failure
// latch is spec.md's supplement beyond the original, rolled against the
// station's configured failure_rate; mttr_s is not consulted, and the
// fault stays latched until the next cmd_reset edge.
type s6Step struct {
	operateName string
	operateS    float64
	faultProb   float64
	repairName  string
	repairS     float64
	isArmCycle  bool
}

var s6Steps = []s6Step{
	{operateName: "carton_erect", operateS: 1.0, faultProb: 0.010, repairName: "repair_carton_erect", repairS: 5.0},
	{operateName: "pick_place", operateS: 1.2, faultProb: 0.015, repairName: "repair_pick_place", repairS: 6.0, isArmCycle: true},
	{operateName: "fold", operateS: 1.5, faultProb: 0.008, repairName: "repair_fold", repairS: 4.5},
	{operateName: "seal", operateS: 1.2, faultProb: 0.010, repairName: "repair_seal", repairS: 5.5},
	{operateName: "label", operateS: 1.0, faultProb: 0.010, repairName: "repair_label", repairS: 5.0},
	{operateName: "outfeed", operateS: 0.8, faultProb: 0.005, repairName: "repair_outfeed", repairS: 4.0},
}

// S6Generator produces the packaging cycle: six operate/repair step pairs
// followed by a post-cycle catastrophic-failure roll.
type S6Generator struct {
	CatastrophicFailProb float64

	cur *stageQueue
}

func NewS6Generator(catastrophicFailProb float64) *S6Generator {
	return &S6Generator{CatastrophicFailProb: catastrophicFailProb}
}

// s6Outcome is S6's StageResult.Extra payload.
type s6Outcome struct {
	Repairs       uint32
	ArmCycleDelta uint32
}

func (g *S6Generator) build(rng *rand.Rand) {
	var stages []queuedStage
	var cycleTime float64
	var repairs uint32
	var armCycles uint32

	for _, step := range s6Steps {
		if rng.Float64() < step.faultProb {
			stages = append(stages, queuedStage{Name: step.repairName, DurationS: step.repairS, Downtime: true})
			cycleTime += step.repairS
			repairs++
		}
		stages = append(stages, queuedStage{Name: step.operateName, DurationS: step.operateS})
		cycleTime += step.operateS
		if step.isArmCycle {
			armCycles++
		}
	}

	catastrophic := rng.Float64() < g.CatastrophicFailProb

	g.cur = newStageQueue(stages, StageResult{
		Terminal:   true,
		Passed:     !catastrophic,
		CycleTimeS: cycleTime,
		Extra:      s6Outcome{Repairs: repairs, ArmCycleDelta: armCycles},
	})
}

func (g *S6Generator) Start(rng *rand.Rand) StageResult {
	g.build(rng)
	return g.cur.pop()
}

func (g *S6Generator) Advance(rng *rand.Rand) StageResult {
	return g.cur.pop()
}

// S6Runtime wraps the generic Core with S6's packages_completed/
// arm_cycles/total_repairs counters and availability.
type S6Runtime struct {
	*Core
	PackagesCompleted uint32
	ArmCycles         uint32
	TotalRepairs      uint32
}

func NewS6Runtime(catastrophicFailProb float64, seed int64, logger log.Logger) *S6Runtime {
	gen := NewS6Generator(catastrophicFailProb)
	return &S6Runtime{Core: NewCore("S6", gen, rand.New(rand.NewSource(seed)), logger)}
}

func (r *S6Runtime) Tick(cmd wire.SignalFrame, dtS float64) {
	r.Core.Tick(cmd, dtS)
	if r.Core.TerminalThisTick {
		out, _ := r.Core.LastOutcome.(s6Outcome)
		r.TotalRepairs += out.Repairs
		r.ArmCycles += out.ArmCycleDelta
		if r.Core.DonePulse {
			r.PackagesCompleted++
		}
	}
}

func (r *S6Runtime) Status() wire.S6Status {
	return wire.S6Status{
		StatusCommon:      r.common(),
		PackagesCompleted: r.PackagesCompleted,
		ArmCycles:         r.ArmCycles,
		TotalRepairs:      r.TotalRepairs,
		OperationalTimeS:  r.Core.OperationalTimeS,
		DowntimeS:         r.Core.DowntimeS,
		Availability:      r.Core.Availability(),
	}
}

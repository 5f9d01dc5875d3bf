package station

import (
	"math/rand"

	"github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// S5 quality inspection is grounded on original_source/ST5_QualityInspection.py's
// _ST5SimModel._unit_process: a small chance of an inspection-cell fault
// during setup, a position/vision/rules stage triple, a recipe-dependent
// accept probability, one rework loop on reject, and a final diverter
// stage. accept/reject is a product-quality outcome, not a station fault —
// the station still completes its cycle (Passed stays true) either way;
// only the inspection-cell fault latches.
const (
	s5StageSetupFault = "setup_fault"
	s5StagePosition   = "position"
	s5StageVision     = "vision"
	s5StageRules      = "rules"
	s5StageRework1    = "rework_reposition"
	s5StageRework2    = "rework_recompute"
	s5StageDivert     = "divert"
)

const s5CellFaultProb = 0.005

// S5AcceptRate reproduces ST5's _st5_accept_rate: a 0.88 base accept
// probability, perturbed by a small per-recipe offset and clamped to
// [0.70, 0.97]. Recipe 0 always gets the unperturbed base rate.
func S5AcceptRate(recipeID uint16) float64 {
	const base = 0.88
	if recipeID == 0 {
		return base
	}
	rate := base - float64(int(recipeID)%5)*0.02
	if rate < 0.70 {
		return 0.70
	}
	if rate > 0.97 {
		return 0.97
	}
	return rate
}

// S5Generator produces the quality-inspection cycle. NextRecipeID is set
// by S5Runtime from the decoded SignalFrame just before Core.Tick calls
// Start, so the accept-rate lookup sees the in-flight recipe.
type S5Generator struct {
	NextRecipeID uint16

	cur *stageQueue
}

func NewS5Generator() *S5Generator {
	return &S5Generator{}
}

// s5Outcome is S5's StageResult.Extra payload.
type s5Outcome struct {
	Accept bool
}

// BuildForRecipe rolls a fresh cycle for the given recipe ID; exported so
// S5Runtime can pass the in-flight recipe_id through without widening the
// Generator interface.
func (g *S5Generator) BuildForRecipe(rng *rand.Rand, recipeID uint16) StageResult {
	if rng.Float64() < s5CellFaultProb {
		g.cur = newStageQueue(
			[]queuedStage{{Name: s5StageSetupFault, DurationS: 0.2}},
			StageResult{Terminal: true, Passed: false, CycleTimeS: 0.2},
		)
		return g.cur.pop()
	}

	pAccept := S5AcceptRate(recipeID)
	stages := []queuedStage{
		{Name: s5StagePosition, DurationS: 0.4},
		{Name: s5StageVision, DurationS: 0.8},
		{Name: s5StageRules, DurationS: 0.3},
	}
	cycleTime := 0.4 + 0.8 + 0.3

	accept := rng.Float64() < pAccept
	if !accept {
		stages = append(stages,
			queuedStage{Name: s5StageRework1, DurationS: 0.6},
			queuedStage{Name: s5StageRework2, DurationS: 0.5},
		)
		cycleTime += 0.6 + 0.5
		recovered := pAccept + 0.12
		if recovered > 0.95 {
			recovered = 0.95
		}
		accept = rng.Float64() < recovered
	}

	stages = append(stages, queuedStage{Name: s5StageDivert, DurationS: 0.2})
	cycleTime += 0.2

	g.cur = newStageQueue(stages, StageResult{
		Terminal:   true,
		Passed:     true,
		CycleTimeS: cycleTime,
		Extra:      s5Outcome{Accept: accept},
	})
	return g.cur.pop()
}

// Start satisfies Generator using the recipe S5Runtime last staged into
// NextRecipeID.
func (g *S5Generator) Start(rng *rand.Rand) StageResult {
	return g.BuildForRecipe(rng, g.NextRecipeID)
}

func (g *S5Generator) Advance(rng *rand.Rand) StageResult {
	return g.cur.pop()
}

// S5Runtime wraps the generic Core with S5's accept/reject counters and
// recipe-aware cycle start.
type S5Runtime struct {
	*Core
	gen        *S5Generator
	Accept     uint32
	Reject     uint32
	LastAccept bool
}

func NewS5Runtime(seed int64, logger log.Logger) *S5Runtime {
	gen := NewS5Generator()
	return &S5Runtime{
		Core: NewCore("S5", gen, rand.New(rand.NewSource(seed)), logger),
		gen:  gen,
	}
}

// Tick stages cmd.RecipeID into the generator before delegating to
// Core.Tick, so a start edge this tick builds its cycle against the
// in-flight recipe's accept rate.
func (r *S5Runtime) Tick(cmd wire.SignalFrame, dtS float64) {
	r.gen.NextRecipeID = cmd.RecipeID
	r.Core.Tick(cmd, dtS)
	if r.Core.TerminalThisTick {
		if out, ok := r.Core.LastOutcome.(s5Outcome); ok {
			r.LastAccept = out.Accept
			if out.Accept {
				r.Accept++
			} else {
				r.Reject++
			}
		}
	}
}

func (r *S5Runtime) Status() wire.S5Status {
	return wire.S5Status{
		StatusCommon: r.common(),
		Accept:       r.Accept,
		Reject:       r.Reject,
		LastAccept:   boolToU8(r.LastAccept),
	}
}

package station

import (
	"math/rand"

	"github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// S4 calibration is grounded on original_source/ST4.py's st4_cycle_generator:
// fixed motion/thermal/calibration/testprint stages, a first-try pass
// check, and one retry stage with its own (higher) pass probability.
const (
	s4StageMotion      = "MOTION"
	s4StageThermal     = "THERMAL"
	s4StageCalibration = "CALIBRATION"
	s4StageTestprint   = "TESTPRINT"
	s4StageRetry       = "RETRY"
)

const (
	S4MotionS       = 2.0
	S4ThermalS      = 18.0
	S4CalibrationS  = 6.0
	S4TestprintS    = 15.0
	S4RetryS        = 5.0
	S4PassProb      = 0.93
	S4RetryPassProb = 0.97
)

// S4Generator reproduces ST4.py's st4_cycle_generator faithfully.
type S4Generator struct {
	cur *stageQueue
}

func NewS4Generator() *S4Generator {
	return &S4Generator{}
}

func (g *S4Generator) build(rng *rand.Rand) {
	cycleTime := S4MotionS + S4ThermalS + S4CalibrationS + S4TestprintS

	stages := []queuedStage{
		{Name: s4StageMotion, DurationS: S4MotionS},
		{Name: s4StageThermal, DurationS: S4ThermalS},
		{Name: s4StageCalibration, DurationS: S4CalibrationS},
		{Name: s4StageTestprint, DurationS: S4TestprintS},
	}

	passed := rng.Float64() <= S4PassProb
	if !passed {
		stages = append(stages, queuedStage{Name: s4StageRetry, DurationS: S4RetryS})
		cycleTime += S4RetryS
		passed = rng.Float64() <= S4RetryPassProb
	}

	g.cur = newStageQueue(stages, StageResult{
		Terminal:   true,
		Passed:     passed,
		CycleTimeS: cycleTime,
	})
}

func (g *S4Generator) Start(rng *rand.Rand) StageResult {
	g.build(rng)
	return g.cur.pop()
}

func (g *S4Generator) Advance(rng *rand.Rand) StageResult {
	return g.cur.pop()
}

// S4Runtime wraps the generic Core with S4's total/completed counters,
// which per the reset-on-reset policy decision (DESIGN.md) persist across
// cmd_reset edges rather than zeroing with the per-cycle state.
type S4Runtime struct {
	*Core
}

func NewS4Runtime(seed int64, logger log.Logger) *S4Runtime {
	gen := NewS4Generator()
	return &S4Runtime{Core: NewCore("S4", gen, rand.New(rand.NewSource(seed)), logger)}
}

func (r *S4Runtime) Tick(cmd wire.SignalFrame, dtS float64) {
	r.Core.Tick(cmd, dtS)
}

func (r *S4Runtime) Status() wire.S4Status {
	return wire.S4Status{
		StatusCommon: r.common(),
		Total:        r.Core.Total,
		Completed:    r.Core.Completed,
	}
}

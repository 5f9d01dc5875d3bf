package station

import "math/rand"

// StageResult is what a station-specific Generator hands back to the
// shared Core after each stage, either the next timed stage to run or the
// cycle's terminal outcome. Grounded on the teacher's state-machine-as-
// interface pattern (plugins/handler/skywalking/dialog.DialogState),
// generalized from a dialog's Enter/Exit/HandleMessage transitions to a
// stage generator's yield-then-return shape.
type StageResult struct {
	// Terminal is true when the cycle has finished; Name/DurationS/Downtime
	// are only meaningful when Terminal is false, and Passed/CycleTimeS/Extra
	// only when it is true.
	Terminal bool

	Name      string
	DurationS float64
	// Downtime marks a stage (e.g. a repair/retry) as counting toward a
	// station's downtime_s accumulator rather than operational_time_s.
	Downtime bool

	Passed     bool
	CycleTimeS float64
	// Extra carries station-specific outcome detail (e.g. S1's
	// any_arm_failed, S5's accept/reject) that the generic Core has no
	// business knowing about; each station's wrapper type-asserts it.
	Extra any
}

// Generator drives one station's multi-stage timed cycle. Start begins a
// fresh cycle and returns its first stage; Advance is called once the
// Core has fully consumed the current stage's duration and returns either
// the next stage or the terminal outcome.
type Generator interface {
	Start(rng *rand.Rand) StageResult
	Advance(rng *rand.Rand) StageResult
}

// queuedStage is one timed step of a precomputed cycle.
type queuedStage struct {
	Name      string
	DurationS float64
	Downtime  bool
}

// stageQueue holds a cycle's full stage sequence, rolled once up front at
// Start time, plus its terminal outcome. This realizes the "stage table
// plus stage_remaining_s accumulator" approach: every per-station
// generator below rolls its RNG-driven decisions (pass/fail, rework,
// micro-faults) once when the cycle starts and then simply serves the
// precomputed stages in order, rather than threading coroutine state
// across Advance calls.
type stageQueue struct {
	stages   []queuedStage
	terminal StageResult
	idx      int
}

func newStageQueue(stages []queuedStage, terminal StageResult) *stageQueue {
	return &stageQueue{stages: stages, terminal: terminal}
}

func (q *stageQueue) pop() StageResult {
	if q.idx < len(q.stages) {
		s := q.stages[q.idx]
		q.idx++
		return StageResult{Name: s.Name, DurationS: s.DurationS, Downtime: s.Downtime}
	}
	return q.terminal
}

// Package station implements the generic per-station scan-tick handshake
// shared by all six assembly stations, plus each station's concrete stage
// generator. Grounded on the teacher's plugins/handler state-machine
// pattern (rising-edge command detection, one-scan pulses, latched fault)
// generalized from a dialog turn to a simulated production cycle.
package station

import (
	"math"
	"math/rand"

	"github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/metrics"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// Core holds the handshake state common to every station: command-edge
// memory, enabled/busy/fault/done_pulse, and the currently running stage.
// Each station wraps a Core with its own KPI counters and StatusFrame
// encoding.
type Core struct {
	Name   string
	Gen    Generator
	RNG    *rand.Rand
	Logger log.Logger

	prevCmdStart uint8
	prevCmdStop  uint8
	prevCmdReset uint8

	Enabled      bool
	FaultLatched bool
	Busy         bool
	DonePulse    bool

	// TerminalThisTick is true for exactly the tick in which a cycle's
	// terminal outcome was produced, so a station wrapper can fold
	// LastOutcome into its own counters exactly once per cycle instead of
	// re-applying it on every subsequent tick while it persists.
	TerminalThisTick bool

	StageName       string
	StageRemainingS float64
	stageDowntime   bool

	Total            uint32
	Completed        uint32
	LastCycleTimeMs  uint32
	OperationalTimeS float64
	DowntimeS        float64

	// LastOutcome carries the Extra payload of the most recently completed
	// cycle's terminal StageResult (pass or fail), for station wrappers to
	// type-assert into their own status fields.
	LastOutcome any
}

// NewCore builds a Core for one station around its concrete Generator.
func NewCore(name string, gen Generator, rng *rand.Rand, logger log.Logger) *Core {
	return &Core{Name: name, Gen: gen, RNG: rng, Logger: logger}
}

// Tick runs one scan-tick's worth of handshake logic: edge detection,
// start/stop/reset transitions, then consumes up to dtS seconds of the
// active stage (possibly completing several stages back-to-back if dtS
// spans more than one remaining stage duration).
func (c *Core) Tick(cmd wire.SignalFrame, dtS float64) {
	c.DonePulse = false
	c.TerminalThisTick = false

	resetEdge := cmd.CmdReset == 1 && c.prevCmdReset == 0
	startEdge := cmd.CmdStart == 1 && c.prevCmdStart == 0
	stopEdge := cmd.CmdStop == 1 && c.prevCmdStop == 0

	if resetEdge {
		c.Enabled = false
		c.Busy = false
		c.FaultLatched = false
		c.StageName = ""
		c.StageRemainingS = 0
	}

	if startEdge && !c.Busy && !c.FaultLatched {
		c.Enabled = true
		c.Busy = true
		c.Total++
		c.applyStage(c.Gen.Start(c.RNG))
	}

	if stopEdge {
		c.Enabled = false
		c.Busy = false
		c.StageName = ""
		c.StageRemainingS = 0
	}

	remaining := dtS
	for c.Busy && c.Enabled && !c.FaultLatched && remaining > 0 {
		if c.StageRemainingS > remaining {
			c.accumulate(remaining)
			c.StageRemainingS -= remaining
			remaining = 0
			continue
		}

		consumed := c.StageRemainingS
		c.accumulate(consumed)
		remaining -= consumed

		next := c.Gen.Advance(c.RNG)
		if next.Terminal {
			c.TerminalThisTick = true
			c.LastOutcome = next.Extra
			if next.Passed {
				c.Completed++
				c.LastCycleTimeMs = uint32(math.Round(next.CycleTimeS * 1000))
				c.DonePulse = true
				metrics.StationCyclesTotal.WithLabelValues(c.Name, "passed").Inc()
				metrics.StationCycleTimeSeconds.WithLabelValues(c.Name).Observe(next.CycleTimeS)
			} else {
				c.FaultLatched = true
				metrics.StationCyclesTotal.WithLabelValues(c.Name, "failed").Inc()
				metrics.StationFaultsTotal.WithLabelValues(c.Name).Inc()
			}
			c.Busy = false
			c.StageName = ""
			c.StageRemainingS = 0
		} else {
			c.applyStage(next)
		}
	}

	c.prevCmdStart = cmd.CmdStart
	c.prevCmdStop = cmd.CmdStop
	c.prevCmdReset = cmd.CmdReset

	metrics.StationBusy.WithLabelValues(c.Name).Set(float64(boolToU8(c.Busy)))
	metrics.StationAvailability.WithLabelValues(c.Name).Set(c.Availability())
}

func (c *Core) applyStage(r StageResult) {
	c.StageName = r.Name
	c.StageRemainingS = r.DurationS
	c.stageDowntime = r.Downtime
}

func (c *Core) accumulate(dtS float64) {
	if c.stageDowntime {
		c.DowntimeS += dtS
	} else {
		c.OperationalTimeS += dtS
	}
}

// Ready reports whether the station is idle and able to accept a start
// command this tick.
func (c *Core) Ready() bool {
	return c.Enabled && !c.Busy && !c.FaultLatched && !c.DonePulse
}

// Availability is operational time as a fraction of operational+downtime,
// 1.0 when neither has accumulated yet.
func (c *Core) Availability() float64 {
	total := c.OperationalTimeS + c.DowntimeS
	if total == 0 {
		return 1.0
	}
	return c.OperationalTimeS / total
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (c *Core) common() wire.StatusCommon {
	return wire.StatusCommon{
		Ready:       boolToU8(c.Ready()),
		Busy:        boolToU8(c.Busy),
		Fault:       boolToU8(c.FaultLatched),
		Done:        boolToU8(c.DonePulse),
		CycleTimeMs: c.LastCycleTimeMs,
	}
}

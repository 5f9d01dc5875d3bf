// Package plc implements the line coordinator: the supervisory state
// machine that drives all six stations through a reset/run/fault-recover
// cycle, enforces the token-based buffer pipeline between them, and
// accounts batches. Grounded on original_source/PLC_LineCoordinator.py's
// control loop, restructured per SPEC_FULL.md's stricter token-timing rule
// (buffers decrement on a station's busy rising edge, not at start-pulse
// issuance, REDESIGN FLAG 3).
package plc

import (
	"github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/metrics"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

// Mode is the coordinator's top-level supervisory state.
type Mode int

const (
	ModeResetAll Mode = iota
	ModeRun
	ModeFaultReset
)

func (m Mode) String() string {
	switch m {
	case ModeResetAll:
		return "RESET_ALL"
	case ModeRun:
		return "RUN"
	case ModeFaultReset:
		return "FAULT_RESET"
	default:
		return "UNKNOWN"
	}
}

// ResetPulseTicks is how many scan ticks the coordinator spends in
// RESET_ALL/FAULT_RESET: every station gets (start=0, stop=1, reset=1) on
// all but the last of them, and the last tick releases every station to
// (0,0,0) and enters RUN.
const ResetPulseTicks = 3

// stationOrder fixes the station processing order so buffer token
// decrements are deterministic given the same inputs.
var stationOrder = []string{"S1", "S2", "S3", "S4", "S5", "S6"}

var predecessor = map[string]string{
	"S2": "S1",
	"S3": "S2",
	"S4": "S3",
	"S5": "S4",
	"S6": "S5",
}

func bufferKey(pred, dst string) string { return pred + "->" + dst }

// StationStatus is the coordinator's station-agnostic view of one
// station's decoded StatusFrame, abstracted away from each station's
// distinct wire layout (callers decode wire.S1Status..S6Status and fill
// this in; only LastAccept is meaningful for S5, default false elsewhere).
type StationStatus struct {
	Ready      bool
	Busy       bool
	Fault      bool
	Done       bool
	LastAccept bool
}

// Coordinator holds the PLC's full supervisory state across ticks.
type Coordinator struct {
	Logger log.Logger

	Mode       Mode
	ResetTicks uint32
	BatchID    uint32
	RecipeID   uint32

	// Buffers maps "S1->S2" style pair keys to an unbounded token count.
	Buffers map[string]uint32

	PrevDone     map[string]bool
	PrevBusy     map[string]bool
	PendingStart map[string]bool
}

// NewCoordinator builds a Coordinator starting cold in RESET_ALL, matching
// the "cold start" scenario: every process begins by completing a reset
// handshake before entering RUN.
func NewCoordinator(logger log.Logger) *Coordinator {
	c := &Coordinator{
		Logger:       logger,
		Mode:         ModeResetAll,
		Buffers:      make(map[string]uint32, len(predecessor)),
		PrevDone:     make(map[string]bool, len(stationOrder)),
		PrevBusy:     make(map[string]bool, len(stationOrder)),
		PendingStart: make(map[string]bool, len(stationOrder)),
	}
	for dst, pred := range predecessor {
		c.Buffers[bufferKey(pred, dst)] = 0
	}
	return c
}

// Tick runs one scan tick of the coordinator's control loop: mode
// transitions, token production/consumption, start-pulse issuance, and
// batch accounting, then returns the command frame to send each station
// this tick. statuses must have one entry per station name in
// stationOrder (a missing entry behaves as all-false, i.e. "no frame
// arrived yet").
func (c *Coordinator) Tick(statuses map[string]StationStatus) map[string]wire.SignalFrame {
	doneEdge := make(map[string]bool, len(stationOrder))
	busyEdge := make(map[string]bool, len(stationOrder))
	anyFault := false
	for _, st := range stationOrder {
		s := statuses[st]
		doneEdge[st] = s.Done && !c.PrevDone[st]
		busyEdge[st] = s.Busy && !c.PrevBusy[st]
		if s.Fault {
			anyFault = true
		}
	}

	if anyFault && c.Mode != ModeFaultReset {
		c.Mode = ModeFaultReset
		c.ResetTicks = 0
		if c.Logger != nil {
			c.Logger.Warn("station fault detected, entering FAULT_RESET")
		}
	}

	cmds := make(map[string]wire.SignalFrame, len(stationOrder))

	if c.Mode == ModeResetAll || c.Mode == ModeFaultReset {
		for _, st := range stationOrder {
			cmds[st] = c.frame(0, 1, 1)
			c.PendingStart[st] = false
		}
		for key := range c.Buffers {
			c.Buffers[key] = 0
		}
		c.ResetTicks++
		if c.ResetTicks >= ResetPulseTicks {
			for _, st := range stationOrder {
				cmds[st] = c.frame(0, 0, 0)
			}
			c.Mode = ModeRun
		}
		c.shiftEdgeMemory(statuses)
		c.reportMetrics()
		return cmds
	}

	// MODE == RUN

	if doneEdge["S1"] {
		c.Buffers[bufferKey("S1", "S2")]++
	}
	if doneEdge["S2"] {
		c.Buffers[bufferKey("S2", "S3")]++
	}
	if doneEdge["S3"] {
		c.Buffers[bufferKey("S3", "S4")]++
	}
	if doneEdge["S4"] {
		c.Buffers[bufferKey("S4", "S5")]++
	}
	if doneEdge["S5"] && statuses["S5"].LastAccept {
		c.Buffers[bufferKey("S5", "S6")]++
	}

	startReq := make(map[string]bool, len(stationOrder))
	for _, st := range stationOrder {
		s := statuses[st]
		idleOk := !s.Busy && !s.Fault
		canStart := s.Ready || idleOk
		upstreamOk := st == "S1" || c.Buffers[bufferKey(predecessor[st], st)] > 0
		req := idleOk && upstreamOk && !c.PendingStart[st] && canStart
		startReq[st] = req
		if req {
			c.PendingStart[st] = true
		}
	}

	for _, st := range stationOrder {
		if busyEdge[st] && c.PendingStart[st] {
			if st != "S1" {
				key := bufferKey(predecessor[st], st)
				if c.Buffers[key] > 0 {
					c.Buffers[key]--
				}
			}
			c.PendingStart[st] = false
		}
	}

	if doneEdge["S6"] {
		c.BatchID++
	}

	for _, st := range stationOrder {
		var start uint8
		if startReq[st] {
			start = 1
		}
		cmds[st] = c.frame(start, 0, 0)
	}

	c.shiftEdgeMemory(statuses)
	c.reportMetrics()
	return cmds
}

// reportMetrics publishes the coordinator's current mode, batch id, and
// buffer occupancy to Prometheus after each tick.
func (c *Coordinator) reportMetrics() {
	switch c.Mode {
	case ModeResetAll:
		metrics.PLCMode.Set(metrics.ModeStatusResetAll)
	case ModeRun:
		metrics.PLCMode.Set(metrics.ModeStatusRun)
	case ModeFaultReset:
		metrics.PLCMode.Set(metrics.ModeStatusFaultReset)
	}
	metrics.BatchID.Set(float64(c.BatchID))
	for dst, pred := range predecessor {
		metrics.BufferOccupancy.WithLabelValues(pred, dst).Set(float64(c.Buffers[bufferKey(pred, dst)]))
	}
}

func (c *Coordinator) frame(start, stop, reset uint8) wire.SignalFrame {
	return wire.SignalFrame{
		CmdStart: start,
		CmdStop:  stop,
		CmdReset: reset,
		BatchID:  c.BatchID,
		RecipeID: uint16(c.RecipeID),
	}
}

func (c *Coordinator) shiftEdgeMemory(statuses map[string]StationStatus) {
	for _, st := range stationOrder {
		c.PrevDone[st] = statuses[st].Done
		c.PrevBusy[st] = statuses[st].Busy
	}
}

// Package clock implements the simulated-time fabric shared by every node
// in the assembly line: the PLC coordinator and the six station runtimes
// all read the same monotonic nanosecond timeline and commit time only by
// calling Advance.
package clock

// Clock is the simulated-time authority every node depends on. The core
// never reads a wall clock; all scheduling decisions are driven by this
// interface so that a run is reproducible given the same schedule.
type Clock interface {
	// NowNs returns the current simulated time in nanoseconds.
	NowNs() uint64

	// TotalDurationNs returns the configured length of the run.
	TotalDurationNs() uint64

	// StepNs returns the fixed scan-tick duration.
	StepNs() uint64

	// StopRequested reports whether the fabric wants every node to drain
	// and exit.
	StopRequested() bool

	// WaitForReset blocks until the fabric has completed its own
	// initialization handshake and the run may begin.
	WaitForReset()

	// Advance commits delta nanoseconds of simulated time. A
	// single-writer fabric blocks the call until every registered
	// participant has requested at least the resulting target time.
	Advance(deltaNs uint64)
}

package clock

import "sync"

// Fabric is the single-writer shared clock all seven nodes register with.
// Advance is a barrier: the call blocks until every registered participant
// has called Advance for the current round, at which point simulated time
// moves forward by the largest delta requested in that round (a
// terminating node requests step+1 ns, so that round is one nanosecond
// longer than a regular step) and
// every blocked caller is released together. This mirrors the teacher's
// internal/scheduler.Scheduler mutex-guarded registry, generalized from a
// job map to a rendezvous counter.
type Fabric struct {
	mu   sync.Mutex
	cond *sync.Cond

	participants int
	arrived      int
	roundMax     uint64
	generation   uint64

	now      uint64
	total    uint64
	step     uint64
	stop     bool
	resetted bool
}

// NewFabric builds a Fabric for the given number of participants (PLC +
// stations), total run duration and fixed scan step, all in nanoseconds.
func NewFabric(participants int, totalNs, stepNs uint64) *Fabric {
	f := &Fabric{
		participants: participants,
		total:        totalNs,
		step:         stepNs,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *Fabric) NowNs() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fabric) TotalDurationNs() uint64 { return f.total }

func (f *Fabric) StepNs() uint64 { return f.step }

func (f *Fabric) StopRequested() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stop || f.now >= f.total
}

// RequestStop marks the fabric as draining; every node observes this on
// its next StopRequested poll.
func (f *Fabric) RequestStop() {
	f.mu.Lock()
	f.stop = true
	f.mu.Unlock()
}

// WaitForReset marks the caller as having completed its init handshake.
// The fabric does not gate on a participant count here — each node calls
// this once before entering its scan loop — but the method exists so
// callers have a single place to block on future handshake requirements
// without changing their call sites.
func (f *Fabric) WaitForReset() {
	f.mu.Lock()
	f.resetted = true
	f.mu.Unlock()
}

// Advance commits deltaNs of simulated time for the calling participant
// and blocks until every other participant has also called Advance this
// round.
func (f *Fabric) Advance(deltaNs uint64) {
	f.mu.Lock()
	if deltaNs > f.roundMax {
		f.roundMax = deltaNs
	}
	f.arrived++

	if f.arrived >= f.participants {
		f.now += f.roundMax
		f.arrived = 0
		f.roundMax = 0
		f.generation++
		f.cond.Broadcast()
		f.mu.Unlock()
		return
	}

	gen := f.generation
	for f.generation == gen {
		f.cond.Wait()
	}
	f.mu.Unlock()
}

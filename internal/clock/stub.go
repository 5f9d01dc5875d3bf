package clock

import "sync"

// Stub is a directly-advanceable, single-party Clock with no multi-party
// Fabric barrier: each plc/station process runs its own Stub, and unit
// tests use it to drive a single node. Grounded on the teacher corpus's stub-runner pattern for exercising
// scan-loop logic without the real I/O backend underneath it.
type Stub struct {
	mu    sync.Mutex
	now   uint64
	total uint64
	step  uint64
	stop  bool
}

// NewStub builds a Stub clock with the given total duration and step, both
// in nanoseconds.
func NewStub(totalNs, stepNs uint64) *Stub {
	return &Stub{total: totalNs, step: stepNs}
}

func (s *Stub) NowNs() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Stub) TotalDurationNs() uint64 { return s.total }

func (s *Stub) StepNs() uint64 { return s.step }

func (s *Stub) StopRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop || s.now >= s.total
}

// RequestStop marks the stub as draining.
func (s *Stub) RequestStop() {
	s.mu.Lock()
	s.stop = true
	s.mu.Unlock()
}

func (s *Stub) WaitForReset() {}

// Advance commits deltaNs unconditionally — a Stub has a single caller,
// so no barrier synchronization is needed.
func (s *Stub) Advance(deltaNs uint64) {
	s.mu.Lock()
	s.now += deltaNs
	s.mu.Unlock()
}

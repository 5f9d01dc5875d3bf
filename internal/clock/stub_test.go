package clock

import "testing"

func TestStubAdvanceAccumulates(t *testing.T) {
	s := NewStub(1000, 100)
	s.Advance(100)
	s.Advance(100)
	if got := s.NowNs(); got != 200 {
		t.Errorf("NowNs() = %d, want 200", got)
	}
}

func TestStubStopRequestedAtDuration(t *testing.T) {
	s := NewStub(200, 100)
	s.Advance(100)
	if s.StopRequested() {
		t.Fatal("should not be stopped before reaching total duration")
	}
	s.Advance(100)
	if !s.StopRequested() {
		t.Fatal("expected StopRequested once now reaches total duration")
	}
}

func TestStubRequestStop(t *testing.T) {
	s := NewStub(1000, 100)
	s.RequestStop()
	if !s.StopRequested() {
		t.Fatal("expected StopRequested after RequestStop")
	}
}

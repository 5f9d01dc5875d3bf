package clock

import (
	"sync"
	"testing"
	"time"
)

func TestFabricAdvanceReleasesAllParticipants(t *testing.T) {
	f := NewFabric(3, 1_000_000_000, 100_000_000)

	var wg sync.WaitGroup
	results := make([]uint64, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			f.Advance(f.StepNs())
			results[idx] = f.NowNs()
		}(i)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Advance did not release all participants")
	}

	for i, r := range results {
		if r != f.StepNs() {
			t.Errorf("participant %d observed now=%d, want %d", i, r, f.StepNs())
		}
	}
}

func TestFabricAdvanceUsesMaxDeltaInRound(t *testing.T) {
	f := NewFabric(2, 1_000_000_000, 100_000_000)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); f.Advance(100) }()
	go func() { defer wg.Done(); f.Advance(150) }()
	wg.Wait()

	if got := f.NowNs(); got != 150 {
		t.Errorf("NowNs() = %d, want 150 (max of round deltas)", got)
	}
}

func TestFabricStopRequested(t *testing.T) {
	f := NewFabric(1, 1000, 100)
	if f.StopRequested() {
		t.Fatal("should not be stopped initially")
	}
	f.RequestStop()
	if !f.StopRequested() {
		t.Fatal("expected StopRequested to be true after RequestStop")
	}
}

func TestFabricStopsAtTotalDuration(t *testing.T) {
	f := NewFabric(1, 100, 100)
	f.Advance(100)
	if !f.StopRequested() {
		t.Fatal("expected StopRequested once now reaches total duration")
	}
}

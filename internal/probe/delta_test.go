package probe

import "testing"

func TestCounterTracker_FirstObservationReportsFullCounters(t *testing.T) {
	t.Parallel()

	tr := NewCounterTracker()
	dtx, drx := tr.Observe(100, 200)
	if dtx != 100 || drx != 200 {
		t.Fatalf("deltas=%d/%d", dtx, drx)
	}
}

func TestCounterTracker_EachDirectionUsesOwnPrevious(t *testing.T) {
	t.Parallel()

	tr := NewCounterTracker()
	tr.Observe(100, 200)
	dtx, drx := tr.Observe(150, 260)
	if dtx != 50 || drx != 60 {
		t.Fatalf("deltas=%d/%d", dtx, drx)
	}
	dtx, drx = tr.Observe(150, 260)
	if dtx != 0 || drx != 0 {
		t.Fatalf("idle deltas=%d/%d", dtx, drx)
	}
}

func TestCounterTracker_ResetProducesNegativeDelta(t *testing.T) {
	t.Parallel()

	tr := NewCounterTracker()
	tr.Observe(1000, 1000)
	dtx, drx := tr.Observe(10, 20)
	if dtx != -990 || drx != -980 {
		t.Fatalf("deltas=%d/%d", dtx, drx)
	}
	// Stored previous values follow the raw readings even through a reset.
	dtx, drx = tr.Observe(110, 140)
	if dtx != 100 || drx != 120 {
		t.Fatalf("post-reset deltas=%d/%d", dtx, drx)
	}
}

package probe

// CounterTracker converts the switch's cumulative byte counters into
// per-interval deltas. It is the only owner of the previous-reading
// state; no other component reads or writes it. The sampling loop is
// single-threaded, so no locking is needed.
type CounterTracker struct {
	prevTx int64
	prevRx int64
}

func NewCounterTracker() *CounterTracker {
	return &CounterTracker{}
}

// Observe returns the per-interval deltas for the given raw cumulative
// counters and stores them as the new previous readings. The first
// observation after construction reports the full cumulative counters
// (previous values start at zero) — an expected one-time transient.
// Each direction subtracts its own previous value. A counter reset on
// the switch produces a negative delta, recorded as-is so consumers
// can detect the reset.
func (t *CounterTracker) Observe(txBytes, rxBytes int64) (deltaTx, deltaRx int64) {
	deltaTx = txBytes - t.prevTx
	deltaRx = rxBytes - t.prevRx
	t.prevTx = txBytes
	t.prevRx = rxBytes
	return deltaTx, deltaRx
}

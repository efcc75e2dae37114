package metrics

// Counter is a used/total pair of monotonic OS counters. The same shape
// serves raw since-boot values and windowed deltas, and generalizes to any
// counter a future collector may window (network bytes, disk I/O).
type Counter struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// DeltaSince returns the windowed difference c − prev. A counter that moved
// backwards (wrap or reset) clamps to zero instead of underflowing.
func (c Counter) DeltaSince(prev Counter) Counter {
	return Counter{
		Used:  clampedSub(c.Used, prev.Used),
		Total: clampedSub(c.Total, prev.Total),
	}
}

func clampedSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// Tracker folds consecutive raw samples into CPU deltas. It retains the
// newest sample as the predecessor for the next call; the first call has no
// predecessor and reports a zero delta.
type Tracker struct {
	prev *RawSample
}

// NewTracker returns a tracker with no predecessor sample.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update computes the CPU delta between the retained sample and current,
// then retains current. The zero delta returned on the first call keeps the
// front-end from rendering a bogus since-boot percentage.
func (t *Tracker) Update(current RawSample) Counter {
	if t.prev == nil {
		t.prev = &current
		return Counter{}
	}
	delta := current.CPU.DeltaSince(t.prev.CPU)
	t.prev = &current
	return delta
}

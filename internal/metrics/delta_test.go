package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaSince(t *testing.T) {
	tests := []struct {
		name string
		prev Counter
		curr Counter
		want Counter
	}{
		{
			name: "normal window",
			prev: Counter{Used: 50, Total: 100},
			curr: Counter{Used: 120, Total: 200},
			want: Counter{Used: 70, Total: 100},
		},
		{
			name: "no movement",
			prev: Counter{Used: 50, Total: 100},
			curr: Counter{Used: 50, Total: 100},
			want: Counter{},
		},
		{
			name: "counter wrapped, clamps to zero",
			prev: Counter{Used: 120, Total: 200},
			curr: Counter{Used: 10, Total: 20},
			want: Counter{},
		},
		{
			name: "only used regressed",
			prev: Counter{Used: 120, Total: 200},
			curr: Counter{Used: 100, Total: 260},
			want: Counter{Used: 0, Total: 60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.curr.DeltaSince(tt.prev))
		})
	}
}

func TestDeltaMonotonicInvariant(t *testing.T) {
	// For monotonically non-decreasing counters where used <= total in both
	// samples and used grows no faster than total, the delta satisfies
	// 0 <= used <= total.
	pairs := []struct {
		prev, curr Counter
	}{
		{Counter{0, 0}, Counter{0, 0}},
		{Counter{50, 100}, Counter{120, 200}},
		{Counter{1, 1}, Counter{1000, 1000}},
		{Counter{999, 1000}, Counter{999, 2000}},
	}
	for _, p := range pairs {
		delta := p.curr.DeltaSince(p.prev)
		assert.LessOrEqual(t, delta.Used, delta.Total, "used must not exceed total for %+v", p)
	}
}

func TestTrackerFirstTickIsZero(t *testing.T) {
	tracker := NewTracker()

	delta := tracker.Update(RawSample{CPU: Counter{Used: 12345, Total: 99999}})

	assert.Equal(t, Counter{}, delta, "first tick has no predecessor and must report zero")
}

func TestTrackerConsecutiveSamples(t *testing.T) {
	tracker := NewTracker()

	first := RawSample{
		CPU:        Counter{Used: 50, Total: 100},
		MemTotal:   1000,
		MemUsed:    400,
		SwapTotal:  200,
		SwapUsed:   0,
		UptimeSecs: 3600,
	}
	second := RawSample{CPU: Counter{Used: 120, Total: 200}}

	assert.Equal(t, Counter{}, tracker.Update(first))
	assert.Equal(t, Counter{Used: 70, Total: 100}, tracker.Update(second))
}

func TestTrackerSurvivesCounterReset(t *testing.T) {
	tracker := NewTracker()

	tracker.Update(RawSample{CPU: Counter{Used: 500, Total: 1000}})
	delta := tracker.Update(RawSample{CPU: Counter{Used: 5, Total: 10}})

	assert.Equal(t, Counter{}, delta)

	// the reset sample becomes the new predecessor
	delta = tracker.Update(RawSample{CPU: Counter{Used: 8, Total: 20}})
	assert.Equal(t, Counter{Used: 3, Total: 10}, delta)
}

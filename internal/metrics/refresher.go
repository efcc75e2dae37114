package metrics

import (
	"context"
	"log/slog"
	"sync"
)

// SystemResolver reports the active OS generation identifier, e.g. the
// NixOS current-system store path name. A nil resolver disables the field.
type SystemResolver interface {
	Current(ctx context.Context) (string, error)
}

// Refresher runs one tick of the refresh cycle: sample the OS counters,
// fold them against the previous sample, assemble a snapshot and publish it.
type Refresher struct {
	mu       sync.Mutex
	sampler  Sampler
	tracker  *Tracker
	store    *Store
	resolver SystemResolver
	logger   *slog.Logger
}

// NewRefresher wires the tick pipeline. resolver may be nil.
func NewRefresher(sampler Sampler, store *Store, resolver SystemResolver, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		sampler:  sampler,
		tracker:  NewTracker(),
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// Name returns the job identifier.
func (r *Refresher) Name() string {
	return "metrics-refresh"
}

// Run executes one tick. A sampling failure is logged and the last good
// snapshot stays published; the error is not propagated so the schedule
// never stops. A skipped tick self-heals on the next one.
//
// Ticks are serialized: the tracker and the publish order assume a single
// writer, so a tick that outlives the interval blocks the next one instead
// of racing it.
func (r *Refresher) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sample, err := r.sampler.Sample()
	if err != nil {
		r.logger.Warn("metrics sampling failed, keeping last snapshot", "error", err)
		return nil
	}

	delta := r.tracker.Update(sample)

	snapshot := &Snapshot{
		Uptime:       Uptime{Secs: sample.UptimeSecs},
		CPUSinceBoot: sample.CPU,
		CPUDelta:     delta,
		Memory:       Memory{Used: sample.MemUsed, Total: sample.MemTotal},
		Swap:         Swap{Used: sample.SwapUsed, Size: sample.SwapTotal},
	}

	if r.resolver != nil {
		if system, err := r.resolver.Current(ctx); err != nil {
			// Keep the value from the previous snapshot rather than
			// flickering to null on a transient readlink failure.
			r.logger.Warn("current-system resolution failed", "error", err)
			snapshot.CurrentSystem = r.store.Current().CurrentSystem
		} else {
			snapshot.CurrentSystem = &system
		}
	}

	r.store.Publish(snapshot)
	return nil
}

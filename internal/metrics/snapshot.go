package metrics

import "sync/atomic"

// Uptime is the system uptime in whole seconds.
type Uptime struct {
	Secs uint64 `json:"secs"`
}

// Memory is physical memory usage in bytes.
type Memory struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// Swap is swap usage in bytes.
type Swap struct {
	Used uint64 `json:"used"`
	Size uint64 `json:"size"`
}

// Snapshot is the fully-formed metrics value served to clients. Exactly one
// snapshot is current at any time; it is replaced wholesale on each tick and
// must not be mutated after publishing.
type Snapshot struct {
	Uptime        Uptime  `json:"uptime"`
	CPUSinceBoot  Counter `json:"cpu_since_boot"`
	CPUDelta      Counter `json:"cpu_delta"`
	Memory        Memory  `json:"memory"`
	Swap          Swap    `json:"swap"`
	CurrentSystem *string `json:"current_system"`
}

var zeroSnapshot = &Snapshot{}

// Store holds the current snapshot behind an atomically-swapped pointer:
// one writer (the refresher), any number of concurrent readers, no locks on
// either path, and never a torn value.
//
// Current returns a zero-valued snapshot until the first Publish, so readers
// always get something renderable.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the current snapshot.
func (s *Store) Publish(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	s.current.Store(snapshot)
}

// Current returns the latest published snapshot. Callers must treat the
// returned value as read-only.
func (s *Store) Current() *Snapshot {
	if snapshot := s.current.Load(); snapshot != nil {
		return snapshot
	}
	return zeroSnapshot
}

package metrics

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// RawSample is one raw reading of the OS counters. It is captured fresh on
// every tick and never mutated afterwards; only the CPU counters are
// monotonic and meaningful as a delta between two consecutive samples.
type RawSample struct {
	CPU        Counter
	MemTotal   uint64
	MemUsed    uint64
	SwapTotal  uint64
	SwapUsed   uint64
	UptimeSecs uint64
}

// Sampler produces raw counter readings.
type Sampler interface {
	Sample() (RawSample, error)
}

// SystemStatFetcher holds the OS-level read functions so tests can swap in
// fakes without touching /proc.
type SystemStatFetcher struct {
	CPUTimes      func(percpu bool) ([]cpu.TimesStat, error)
	VirtualMemory func() (*mem.VirtualMemoryStat, error)
	SwapMemory    func() (*mem.SwapMemoryStat, error)
	HostUptime    func() (uint64, error)
}

// SystemSampler reads host counters through gopsutil.
type SystemSampler struct {
	fetcher SystemStatFetcher
}

// NewSystemSampler returns a sampler backed by the real OS counters.
func NewSystemSampler() *SystemSampler {
	return &SystemSampler{
		fetcher: SystemStatFetcher{
			CPUTimes:      cpu.Times,
			VirtualMemory: mem.VirtualMemory,
			SwapMemory:    mem.SwapMemory,
			HostUptime:    host.Uptime,
		},
	}
}

// SetFetcher sets a custom fetcher for testing.
func (s *SystemSampler) SetFetcher(fetcher SystemStatFetcher) {
	s.fetcher = fetcher
}

// Sample reads all counters once. Any unreadable counter fails the whole
// sample; the caller keeps the previous snapshot and retries on the next
// tick.
func (s *SystemSampler) Sample() (RawSample, error) {
	sample := RawSample{}

	times, err := s.fetcher.CPUTimes(false)
	if err != nil {
		return RawSample{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(times) == 0 {
		return RawSample{}, fmt.Errorf("read cpu times: no aggregate entry")
	}
	sample.CPU = cpuCounter(times[0])

	vm, err := s.fetcher.VirtualMemory()
	if err != nil {
		return RawSample{}, fmt.Errorf("read meminfo: %w", err)
	}
	sample.MemTotal = vm.Total
	sample.MemUsed = vm.Used

	swap, err := s.fetcher.SwapMemory()
	if err != nil {
		return RawSample{}, fmt.Errorf("read swap: %w", err)
	}
	sample.SwapTotal = swap.Total
	sample.SwapUsed = swap.Used

	uptime, err := s.fetcher.HostUptime()
	if err != nil {
		return RawSample{}, fmt.Errorf("read uptime: %w", err)
	}
	sample.UptimeSecs = uptime

	return sample, nil
}

// cpuCounter folds an aggregate TimesStat into a monotonic used/total pair.
// Total sums every field of the /proc/stat cpu line; used is total minus
// idle. The float seconds are converted to centiseconds so deltas stay
// integer.
func cpuCounter(t cpu.TimesStat) Counter {
	total := t.User + t.Nice + t.System + t.Idle + t.Iowait +
		t.Irq + t.Softirq + t.Steal + t.Guest + t.GuestNice
	used := total - t.Idle
	return Counter{
		Used:  uint64(used * 100),
		Total: uint64(total * 100),
	}
}

package collectors

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/system-graph/metrics"
)

// Mock counter ramps. Values depend on the sample time alone.
const (
	mockMemTotal  = 16 * 1024 * 1024 // kB
	mockSwapTotal = 4 * 1024 * 1024  // kB
	mockCores     = 4
	mockHz        = 100 // ticks per second per core
)

// MockSample returns a synthetic sample for time at. CPU usage oscillates
// between roughly 20% and 50% with a 20 second period, memory slowly fills, and
// eth0 receives about 1 MiB/s.
func MockSample(at time.Time) metrics.Sample {
	sec := uint64(at.Unix())
	phase := sec % 20

	total := sec * mockHz * mockCores
	idle := (sec/20)*mockIdleTicks(20) + mockIdleTicks(phase)

	used := uint64(mockMemTotal) * (40 + sec%15) / 100

	return metrics.Sample{
		Timestamp: at,
		Mem:       metrics.MemStat{Total: mockMemTotal, Free: mockMemTotal - used},
		Swap:      metrics.SwapStat{Total: mockSwapTotal, Free: mockSwapTotal - mockSwapTotal/8},
		LoadAvg: metrics.LoadAvgStat{
			Load1:  1.25 + float64(phase)/10,
			Load5:  0.98,
			Load15: 0.75,
		},
		CPU: metrics.CPUStat{Total: total, Idle: idle},
		Net: metrics.NetStat{Interfaces: []metrics.IfCounters{
			{Name: metrics.LoopbackInterface, RxBytes: sec << 12, TxBytes: sec << 12, Time: at},
			{Name: "eth0", RxBytes: sec << 20, TxBytes: sec << 16, Time: at},
			{Name: "wlan0", RxBytes: sec << 14, TxBytes: sec << 10, Time: at},
		}},
	}
}

// mockIdleTicks returns the idle ticks accumulated over the first p seconds
// of a period. Second k of a period idles for 200+6k of its 400 ticks.
func mockIdleTicks(p uint64) uint64 {
	if p == 0 {
		return 0
	}
	return 200*p + 3*p*(p-1)
}

// MockHistory returns n mock samples ending at end and spaced by step,
// newest first.
func MockHistory(n int, end time.Time, step time.Duration) []metrics.Sample {
	samples := make([]metrics.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, MockSample(end.Add(-time.Duration(i)*step)))
	}
	return samples
}

// MockProvider serves MockSample for the current time. It never fails and
// needs no host access, useful for demos and testing.
type MockProvider struct {
	// Now returns the sample time. Defaults to time.Now.
	Now func() time.Time
}

var _ Provider = (*MockProvider)(nil)

// Name returns "mock".
func (m *MockProvider) Name() string { return "mock" }

// Description returns a human-readable description.
func (m *MockProvider) Description() string { return "Synthetic counters for demos and testing" }

// Sample returns a synthetic sample.
func (m *MockProvider) Sample(ctx context.Context) (*SampleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return &SampleResult{Provider: m.Name(), Sample: MockSample(now())}, nil
}

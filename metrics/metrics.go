// Package metrics holds the value types system-graph samples and renders:
// raw counter snapshots, the deltas between consecutive snapshots, and the
// usage views that normalize those deltas into 0..1 ratios.
package metrics

import "time"

// Percenter is implemented by every value that can be drawn as a glyph.
// Percentage returns a usage fraction between 0 and 1. Values above 1
// signal over-usage and are clamped by the renderer.
type Percenter interface {
	Percentage() float64
}

// Sample is a single point-in-time snapshot of host counters.
type Sample struct {
	// Timestamp is when the sample was taken.
	Timestamp time.Time `json:"timestamp"`

	// Mem is the memory usage in kB.
	Mem MemStat `json:"mem"`

	// Swap is the swap usage in kB.
	Swap SwapStat `json:"swap"`

	// LoadAvg holds the raw 1, 5 and 15 minute load averages.
	LoadAvg LoadAvgStat `json:"loadavg"`

	// CPU holds the cumulative CPU ticks since boot.
	CPU CPUStat `json:"cpu"`

	// Net holds the cumulative per-interface byte counters.
	Net NetStat `json:"net"`
}

// MemStat is the system memory usage.
type MemStat struct {
	// Total is the total system memory in kB.
	Total uint64 `json:"total"`
	// Free is the available memory in kB.
	Free uint64 `json:"free"`
}

// Percentage returns the fraction of used memory. A zero total yields 0.
func (m MemStat) Percentage() float64 {
	return usedFraction(m.Total, m.Free)
}

// SwapStat is the swap space usage.
type SwapStat struct {
	// Total is the total swap space in kB.
	Total uint64 `json:"total"`
	// Free is the free swap space in kB.
	Free uint64 `json:"free"`
}

// Percentage returns the fraction of used swap. Hosts without swap report 0.
func (s SwapStat) Percentage() float64 {
	return usedFraction(s.Total, s.Free)
}

func usedFraction(total, free uint64) float64 {
	if total == 0 {
		return 0
	}
	return (float64(total) - float64(free)) / float64(total)
}

// LoadAvgStat holds the raw load averages as reported by the kernel.
type LoadAvgStat struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// LoadUsage is a load average normalized by the number of CPU cores.
type LoadUsage struct {
	LoadAvgStat
	Cores int
}

// Window returns the load average over the given window (1, 5 or 15
// minutes) divided by the core count. The second result is false for any
// other window.
func (l LoadUsage) Window(minutes int) (Ratio, bool) {
	var load float64
	switch minutes {
	case 1:
		load = l.Load1
	case 5:
		load = l.Load5
	case 15:
		load = l.Load15
	default:
		return 0, false
	}
	cores := l.Cores
	if cores < 1 {
		cores = 1
	}
	return Ratio(load / float64(cores)), true
}

// Percentage returns the normalized 1-minute load average.
func (l LoadUsage) Percentage() float64 {
	r, _ := l.Window(1)
	return float64(r)
}

// CPUStat holds cumulative CPU ticks from /proc/stat.
type CPUStat struct {
	// Total is the sum of all tick counters.
	Total uint64 `json:"total"`
	// Idle is the idle tick counter.
	Idle uint64 `json:"idle"`
}

// Sub returns the tick delta between c (newer) and older.
func (c CPUStat) Sub(older CPUStat) CPUDelta {
	return CPUDelta{
		Total: int64(c.Total) - int64(older.Total),
		Idle:  int64(c.Idle) - int64(older.Idle),
	}
}

// CPUDelta is the CPU tick difference between two samples.
type CPUDelta struct {
	Total int64
	Idle  int64
}

// Percentage returns the fraction of non-idle ticks. A zero total yields 0.
func (d CPUDelta) Percentage() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Total-d.Idle) / float64(d.Total)
}

// Null stands in for samples missing from a short history. Its percentage
// is always 0.
type Null struct{}

// Percentage returns 0.
func (Null) Percentage() float64 { return 0 }

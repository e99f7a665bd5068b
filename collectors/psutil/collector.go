// Package psutil provides a sample provider built on gopsutil, for hosts
// without procfs (macOS, the BSDs) or where /proc is restricted.
package psutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"

	"gitlab.com/tinyland/lab/system-graph/collectors"
	"gitlab.com/tinyland/lab/system-graph/metrics"
)

const (
	providerName        = "gopsutil"
	providerDescription = "Host counters through gopsutil (portable)"

	// ticksPerSecond converts gopsutil CPU seconds back to USER_HZ ticks so
	// the counters match the procfs provider.
	ticksPerSecond = 100
)

// Provider implements collectors.Provider with gopsutil.
type Provider struct {
	logger *slog.Logger

	// Overridable sources for testing.
	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory    func(context.Context) (*mem.SwapMemoryStat, error)
	loadAvg       func(context.Context) (*load.AvgStat, error)
	cpuTimes      func(context.Context, bool) ([]cpu.TimesStat, error)
	ioCounters    func(context.Context, bool) ([]gopsnet.IOCountersStat, error)
	now           func() time.Time
}

// New creates a gopsutil provider. If logger is nil, a no-op logger is used.
func New(logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{
		logger:        logger,
		virtualMemory: mem.VirtualMemoryWithContext,
		swapMemory:    mem.SwapMemoryWithContext,
		loadAvg:       load.AvgWithContext,
		cpuTimes:      cpu.TimesWithContext,
		ioCounters:    gopsnet.IOCountersWithContext,
		now:           time.Now,
	}
}

// Name returns "gopsutil".
func (p *Provider) Name() string { return providerName }

// Description returns a human-readable description.
func (p *Provider) Description() string { return providerDescription }

// Sample reads one snapshot. Memory and CPU failures are errors; swap, load
// and network failures leave zero values and a warning.
func (p *Provider) Sample(ctx context.Context) (*collectors.SampleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var warnings []string
	sample := metrics.Sample{Timestamp: p.now()}

	vm, err := p.virtualMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("psutil: virtual memory: %w", err)
	}
	sample.Mem = metrics.MemStat{Total: vm.Total / 1024, Free: vm.Available / 1024}

	if sw, err := p.swapMemory(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("psutil: swap memory: %v", err))
	} else {
		sample.Swap = metrics.SwapStat{Total: sw.Total / 1024, Free: sw.Free / 1024}
	}

	if avg, err := p.loadAvg(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("psutil: load average: %v", err))
	} else if avg != nil {
		sample.LoadAvg = metrics.LoadAvgStat{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}
	}

	times, err := p.cpuTimes(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("psutil: cpu times: %w", err)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("psutil: cpu times: no aggregate entry")
	}
	sample.CPU = cpuStat(times[0])

	counters, err := p.ioCounters(ctx, true)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("psutil: network counters: %v", err))
	}
	for _, c := range counters {
		if c.Name == metrics.LoopbackInterface {
			continue
		}
		sample.Net.Interfaces = append(sample.Net.Interfaces, metrics.IfCounters{
			Name:    c.Name,
			RxBytes: c.BytesRecv,
			TxBytes: c.BytesSent,
			Time:    sample.Timestamp,
		})
	}

	p.logger.Debug("gopsutil sample collected",
		"mem_used_pct", fmt.Sprintf("%.1f%%", vm.UsedPercent),
		"cpu_total", sample.CPU.Total,
		"interfaces", len(sample.Net.Interfaces),
		"warnings", len(warnings),
	)

	return &collectors.SampleResult{
		Provider: providerName,
		Sample:   sample,
		Warnings: warnings,
	}, nil
}

// cpuStat converts gopsutil CPU seconds into cumulative ticks. Total sums
// every counter, as the first line of /proc/stat does.
func cpuStat(t cpu.TimesStat) metrics.CPUStat {
	total := t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq +
		t.Softirq + t.Steal + t.Guest + t.GuestNice
	return metrics.CPUStat{
		Total: ticks(total),
		Idle:  ticks(t.Idle),
	}
}

func ticks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(math.Round(seconds * ticksPerSecond))
}

var _ collectors.Provider = (*Provider)(nil)

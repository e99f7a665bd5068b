package sysmetrics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gitlab.com/tinyland/lab/system-graph/collectors"
	"gitlab.com/tinyland/lab/system-graph/metrics"
)

const (
	// providerName is the unique identifier for this provider.
	providerName = "proc"

	// providerDescription describes what this provider reads.
	providerDescription = "Host counters from /proc (memory, swap, load average, CPU ticks, network bytes)"
)

// ProcProvider implements collectors.Provider on top of procfs.
type ProcProvider struct {
	logger *slog.Logger

	// Overridable sources for testing.
	openProcStat    func() (io.ReadCloser, error)
	openProcMeminfo func() (io.ReadCloser, error)
	openProcNetDev  func() (io.ReadCloser, error)
	openProcLoadavg func() (io.ReadCloser, error)
	loadAvgFunc     func() (metrics.LoadAvgStat, error)
	now             func() time.Time
}

// NewProcProvider creates a ProcProvider reading the real /proc files.
// If logger is nil, a no-op logger is used.
func NewProcProvider(logger *slog.Logger) *ProcProvider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &ProcProvider{
		logger: logger,
		openProcStat: func() (io.ReadCloser, error) {
			return os.Open("/proc/stat")
		},
		openProcMeminfo: func() (io.ReadCloser, error) {
			return os.Open("/proc/meminfo")
		},
		openProcNetDev: func() (io.ReadCloser, error) {
			return os.Open("/proc/net/dev")
		},
		openProcLoadavg: func() (io.ReadCloser, error) {
			return os.Open("/proc/loadavg")
		},
		loadAvgFunc: sysinfoLoadAvg,
		now:         time.Now,
	}
}

// Name returns the provider's unique identifier.
func (p *ProcProvider) Name() string {
	return providerName
}

// Description returns a human-readable description of what this provider reads.
func (p *ProcProvider) Description() string {
	return providerDescription
}

// Sample reads one snapshot of every counter. Memory and CPU are required;
// missing swap lines, an unreadable load average or an unreadable
// /proc/net/dev leave zero values and a warning.
func (p *ProcProvider) Sample(ctx context.Context) (*collectors.SampleResult, error) {
	// Check for context cancellation before starting.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var warnings []string
	sample := metrics.Sample{Timestamp: p.now()}

	mem, swap, warn, err := p.readMemory()
	if err != nil {
		return nil, err
	}
	if warn != "" {
		warnings = append(warnings, warn)
	}
	sample.Mem, sample.Swap = mem, swap

	cpu, err := p.readCPU()
	if err != nil {
		return nil, err
	}
	sample.CPU = cpu

	load, warn := p.readLoadAvg()
	if warn != "" {
		warnings = append(warnings, warn)
	}
	sample.LoadAvg = load

	net, warn := p.readNet(sample.Timestamp)
	if warn != "" {
		warnings = append(warnings, warn)
	}
	sample.Net = net

	p.logger.Debug("proc sample collected",
		"mem", fmt.Sprintf("%d/%d kB", sample.Mem.Free, sample.Mem.Total),
		"swap", fmt.Sprintf("%d/%d kB", sample.Swap.Free, sample.Swap.Total),
		"load", fmt.Sprintf("%.2f %.2f %.2f", load.Load1, load.Load5, load.Load15),
		"cpu_total", cpu.Total,
		"interfaces", len(net.Interfaces),
	)

	return &collectors.SampleResult{
		Provider: providerName,
		Sample:   sample,
		Warnings: warnings,
	}, nil
}

// readMemory reads memory and swap from /proc/meminfo. Free memory is
// MemAvailable, or MemFree on kernels older than 3.14.
func (p *ProcProvider) readMemory() (metrics.MemStat, metrics.SwapStat, string, error) {
	f, err := p.openProcMeminfo()
	if err != nil {
		return metrics.MemStat{}, metrics.SwapStat{}, "", fmt.Errorf("sysmetrics: open /proc/meminfo: %w", err)
	}
	defer f.Close()

	mi, err := parseMemInfo(f)
	if err != nil {
		return metrics.MemStat{}, metrics.SwapStat{}, "", fmt.Errorf("sysmetrics: read /proc/meminfo: %w", err)
	}
	if !mi.hasTotal {
		return metrics.MemStat{}, metrics.SwapStat{}, "", fmt.Errorf("sysmetrics: MemTotal not found in /proc/meminfo")
	}

	mem := metrics.MemStat{Total: mi.memTotal}
	switch {
	case mi.hasAvailable:
		mem.Free = mi.memAvailable
	case mi.hasFree:
		mem.Free = mi.memFree
	default:
		return metrics.MemStat{}, metrics.SwapStat{}, "", fmt.Errorf("sysmetrics: neither MemAvailable nor MemFree in /proc/meminfo")
	}

	var warn string
	if !mi.hasSwap {
		warn = "sysmetrics: swap lines not found in /proc/meminfo"
	}
	return mem, metrics.SwapStat{Total: mi.swapTotal, Free: mi.swapFree}, warn, nil
}

// readCPU reads the cumulative tick counters from /proc/stat.
func (p *ProcProvider) readCPU() (metrics.CPUStat, error) {
	f, err := p.openProcStat()
	if err != nil {
		return metrics.CPUStat{}, fmt.Errorf("sysmetrics: open /proc/stat: %w", err)
	}
	defer f.Close()

	stat, err := parseCPUStat(f)
	if err != nil {
		return metrics.CPUStat{}, fmt.Errorf("sysmetrics: read /proc/stat: %w", err)
	}
	return stat, nil
}

// readLoadAvg asks the kernel through sysinfo and falls back to
// /proc/loadavg.
func (p *ProcProvider) readLoadAvg() (metrics.LoadAvgStat, string) {
	load, err := p.loadAvgFunc()
	if err == nil {
		return load, ""
	}
	p.logger.Debug("sysinfo load average unavailable", "error", err)

	f, err := p.openProcLoadavg()
	if err != nil {
		return metrics.LoadAvgStat{}, fmt.Sprintf("sysmetrics: open /proc/loadavg: %v", err)
	}
	defer f.Close()

	load, err = parseLoadAvg(f)
	if err != nil {
		return metrics.LoadAvgStat{}, fmt.Sprintf("sysmetrics: read /proc/loadavg: %v", err)
	}
	return load, ""
}

// readNet reads the per-interface byte counters from /proc/net/dev.
func (p *ProcProvider) readNet(at time.Time) (metrics.NetStat, string) {
	f, err := p.openProcNetDev()
	if err != nil {
		return metrics.NetStat{}, fmt.Sprintf("sysmetrics: open /proc/net/dev: %v", err)
	}
	defer f.Close()

	stat, err := parseNetDev(f, at)
	if err != nil {
		return metrics.NetStat{}, fmt.Sprintf("sysmetrics: read /proc/net/dev: %v", err)
	}
	return stat, ""
}

// Compile-time interface compliance check.
var _ collectors.Provider = (*ProcProvider)(nil)

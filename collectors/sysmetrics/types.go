// Package sysmetrics provides the procfs sample provider for system-graph.
// It reads memory and swap from /proc/meminfo, CPU ticks from /proc/stat,
// interface byte counters from /proc/net/dev and the load averages from the
// sysinfo syscall (falling back to /proc/loadavg).
package sysmetrics

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/system-graph/metrics"
)

// memInfo holds the /proc/meminfo lines the provider uses, in kB.
type memInfo struct {
	memTotal, memFree, memAvailable uint64
	swapTotal, swapFree             uint64

	hasTotal, hasFree, hasAvailable bool
	hasSwap                         bool
}

// parseMemInfo reads the lines of interest from /proc/meminfo.
func parseMemInfo(r io.Reader) (memInfo, error) {
	var mi memInfo
	var hasSwapTotal, hasSwapFree bool

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		key, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		var dst *uint64
		var found *bool
		switch key {
		case "MemTotal":
			dst, found = &mi.memTotal, &mi.hasTotal
		case "MemFree":
			dst, found = &mi.memFree, &mi.hasFree
		case "MemAvailable":
			dst, found = &mi.memAvailable, &mi.hasAvailable
		case "SwapTotal":
			dst, found = &mi.swapTotal, &hasSwapTotal
		case "SwapFree":
			dst, found = &mi.swapFree, &hasSwapFree
		default:
			continue
		}

		val, err := parseMemInfoLine(line)
		if err != nil {
			return mi, fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = val
		*found = true
	}
	if err := scanner.Err(); err != nil {
		return mi, err
	}
	mi.hasSwap = hasSwapTotal && hasSwapFree
	return mi, nil
}

// parseMemInfoLine extracts the numeric kB value from a /proc/meminfo line.
// Format: "MemTotal:       16384000 kB"
func parseMemInfoLine(line string) (uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, fmt.Errorf("too few fields: %q", line)
	}
	return strconv.ParseUint(fields[1], 10, 64)
}

// parseCPUStat finds the aggregate "cpu " line of /proc/stat. Total is the
// sum of every tick field; idle is the fourth field.
func parseCPUStat(r io.Reader) (metrics.CPUStat, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		// Fields: cpu user nice system idle iowait irq softirq steal ...
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return metrics.CPUStat{}, fmt.Errorf("cpu line too short: %q", line)
		}

		var stat metrics.CPUStat
		for i := 1; i < len(fields); i++ {
			val, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return metrics.CPUStat{}, fmt.Errorf("parse field %d: %w", i, err)
			}
			stat.Total += val
			if i == 4 {
				stat.Idle = val
			}
		}
		return stat, nil
	}
	if err := scanner.Err(); err != nil {
		return metrics.CPUStat{}, err
	}
	return metrics.CPUStat{}, fmt.Errorf("cpu line not found")
}

// parseNetDev reads /proc/net/dev. The two header lines are skipped; rx
// bytes are the first counter and tx bytes the ninth. The loopback
// interface is left out. Every interface is stamped with at.
func parseNetDev(r io.Reader, at time.Time) (metrics.NetStat, error) {
	var stat metrics.NetStat

	scanner := bufio.NewScanner(r)
	for n := 0; scanner.Scan(); n++ {
		if n < 2 {
			continue
		}
		name, counters, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == metrics.LoopbackInterface {
			continue
		}

		fields := strings.Fields(counters)
		if len(fields) < 9 {
			return metrics.NetStat{}, fmt.Errorf("interface %s: too few fields", name)
		}
		rx, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return metrics.NetStat{}, fmt.Errorf("interface %s: parse rx bytes: %w", name, err)
		}
		tx, err := strconv.ParseUint(fields[8], 10, 64)
		if err != nil {
			return metrics.NetStat{}, fmt.Errorf("interface %s: parse tx bytes: %w", name, err)
		}
		stat.Interfaces = append(stat.Interfaces, metrics.IfCounters{
			Name:    name,
			RxBytes: rx,
			TxBytes: tx,
			Time:    at,
		})
	}
	if err := scanner.Err(); err != nil {
		return metrics.NetStat{}, err
	}
	return stat, nil
}

// parseLoadAvg reads the first three fields of /proc/loadavg.
func parseLoadAvg(r io.Reader) (metrics.LoadAvgStat, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return metrics.LoadAvgStat{}, fmt.Errorf("empty file")
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 3 {
		return metrics.LoadAvgStat{}, fmt.Errorf("too few fields")
	}

	var loads [3]float64
	for i := range loads {
		val, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return metrics.LoadAvgStat{}, fmt.Errorf("parse field %d: %w", i+1, err)
		}
		loads[i] = val
	}
	return metrics.LoadAvgStat{Load1: loads[0], Load5: loads[1], Load15: loads[2]}, nil
}

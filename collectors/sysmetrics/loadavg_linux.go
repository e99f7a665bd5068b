//go:build linux

package sysmetrics

import (
	"golang.org/x/sys/unix"

	"gitlab.com/tinyland/lab/system-graph/metrics"
)

// loadScale is the fixed-point scale of sysinfo load averages (1 << SI_LOAD_SHIFT).
const loadScale = 1 << 16

// sysinfoLoadAvg reads the load averages with the sysinfo syscall.
func sysinfoLoadAvg() (metrics.LoadAvgStat, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return metrics.LoadAvgStat{}, err
	}
	return metrics.LoadAvgStat{
		Load1:  float64(info.Loads[0]) / loadScale,
		Load5:  float64(info.Loads[1]) / loadScale,
		Load15: float64(info.Loads[2]) / loadScale,
	}, nil
}

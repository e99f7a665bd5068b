//go:build !linux

package sysmetrics

import (
	"errors"

	"gitlab.com/tinyland/lab/system-graph/metrics"
)

func sysinfoLoadAvg() (metrics.LoadAvgStat, error) {
	return metrics.LoadAvgStat{}, errors.New("sysinfo is only available on linux")
}

package history

import "gitlab.com/tinyland/lab/system-graph/metrics"

// MaxSpeeds returns, for every interface in ifaces, the highest receive and
// transmit rate found in deltas. Neither value drops below
// metrics.MinMaxSpeed, so an empty or idle history still normalizes against
// 1 KiB/s.
func MaxSpeeds(deltas []metrics.NetDelta, ifaces []string) metrics.MaxSpeed {
	table := make(metrics.MaxSpeed, len(ifaces))
	for _, name := range ifaces {
		pair := metrics.SpeedPair{Rx: metrics.MinMaxSpeed, Tx: metrics.MinMaxSpeed}
		for _, d := range deltas {
			ifd := d.Lookup(name)
			pair.Rx = pair.Rx.Max(ifd.RxSpeed())
			pair.Tx = pair.Tx.Max(ifd.TxSpeed())
		}
		table[name] = pair
	}
	return table
}

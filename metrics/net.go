package metrics

import "time"

// LoopbackInterface is never sampled or graphed.
const LoopbackInterface = "lo"

// IfCounters holds the cumulative byte counters of one network interface.
type IfCounters struct {
	Name    string    `json:"name"`
	RxBytes uint64    `json:"rx_bytes"`
	TxBytes uint64    `json:"tx_bytes"`
	Time    time.Time `json:"time"`
}

// Sub returns the counter delta between c (newer) and older.
func (c IfCounters) Sub(older IfCounters) IfDelta {
	return IfDelta{
		Name:    c.Name,
		RxBytes: int64(c.RxBytes) - int64(older.RxBytes),
		TxBytes: int64(c.TxBytes) - int64(older.TxBytes),
		Elapsed: c.Time.Sub(older.Time).Seconds(),
	}
}

// NetStat holds the counters of every interface, in discovery order.
type NetStat struct {
	Interfaces []IfCounters `json:"interfaces"`
}

// Lookup returns the counters of the named interface.
func (n NetStat) Lookup(name string) (IfCounters, bool) {
	for _, c := range n.Interfaces {
		if c.Name == name {
			return c, true
		}
	}
	return IfCounters{}, false
}

// Names returns the interface names in discovery order.
func (n NetStat) Names() []string {
	names := make([]string, 0, len(n.Interfaces))
	for _, c := range n.Interfaces {
		names = append(names, c.Name)
	}
	return names
}

// Sub returns the per-interface deltas between n (newer) and older.
// Interfaces the older sample does not know about are left out.
func (n NetStat) Sub(older NetStat) NetDelta {
	d := NetDelta{Interfaces: make([]IfDelta, 0, len(n.Interfaces))}
	for _, c := range n.Interfaces {
		prev, ok := older.Lookup(c.Name)
		if !ok {
			continue
		}
		d.Interfaces = append(d.Interfaces, c.Sub(prev))
	}
	return d
}

// IfDelta is the byte difference of one interface over Elapsed seconds.
type IfDelta struct {
	Name    string
	RxBytes int64
	TxBytes int64
	Elapsed float64
}

// RxSpeed returns the receive rate. Zero elapsed time yields 0.
func (d IfDelta) RxSpeed() Rate { return d.speed(d.RxBytes) }

// TxSpeed returns the transmit rate. Zero elapsed time yields 0.
func (d IfDelta) TxSpeed() Rate { return d.speed(d.TxBytes) }

func (d IfDelta) speed(bytes int64) Rate {
	if d.Elapsed == 0 {
		return 0
	}
	return Rate(float64(bytes) / d.Elapsed)
}

// NetDelta holds the deltas of every interface between two samples.
type NetDelta struct {
	Interfaces []IfDelta
}

// Lookup returns the delta of the named interface, or a zero delta with
// that name when the interface is missing.
func (n NetDelta) Lookup(name string) IfDelta {
	for _, d := range n.Interfaces {
		if d.Name == name {
			return d
		}
	}
	return IfDelta{Name: name}
}

// SpeedPair is the maximum receive and transmit rate seen on an interface.
type SpeedPair struct {
	Rx Rate
	Tx Rate
}

// MaxSpeed maps interface names to their maximum observed rates.
type MaxSpeed map[string]SpeedPair

// IfUsage binds an interface delta to that interface's maximum rates so it
// can be expressed as a usage ratio.
type IfUsage struct {
	IfDelta
	Max SpeedPair
}

// Rx returns the receive rate relative to the maximum receive rate.
func (u IfUsage) Rx() Ratio { return ratio(u.RxSpeed(), u.Max.Rx) }

// Tx returns the transmit rate relative to the maximum transmit rate.
func (u IfUsage) Tx() Ratio { return ratio(u.TxSpeed(), u.Max.Tx) }

// Percentage returns the combined rate relative to the combined maximum.
func (u IfUsage) Percentage() float64 {
	return float64(ratio(u.RxSpeed().Add(u.TxSpeed()), u.Max.Rx.Add(u.Max.Tx)))
}

// NetUsage binds a delta of all interfaces to the maximum rate table.
type NetUsage struct {
	NetDelta
	Max MaxSpeed
}

// Interface returns the usage view of the named interface.
func (u NetUsage) Interface(name string) IfUsage {
	return IfUsage{IfDelta: u.Lookup(name), Max: u.Max[name]}
}

// RxSpeed returns the receive rate summed over all interfaces.
func (u NetUsage) RxSpeed() Rate {
	var sum Rate
	for _, d := range u.Interfaces {
		sum = sum.Add(d.RxSpeed())
	}
	return sum
}

// TxSpeed returns the transmit rate summed over all interfaces.
func (u NetUsage) TxSpeed() Rate {
	var sum Rate
	for _, d := range u.Interfaces {
		sum = sum.Add(d.TxSpeed())
	}
	return sum
}

// Rx returns the summed receive rate over the summed maximum receive rates.
func (u NetUsage) Rx() Ratio {
	var limit Rate
	for _, d := range u.Interfaces {
		limit = limit.Add(u.Max[d.Name].Rx)
	}
	return ratio(u.RxSpeed(), limit)
}

// Tx returns the summed transmit rate over the summed maximum transmit rates.
func (u NetUsage) Tx() Ratio {
	var limit Rate
	for _, d := range u.Interfaces {
		limit = limit.Add(u.Max[d.Name].Tx)
	}
	return ratio(u.TxSpeed(), limit)
}

// Percentage returns the summed rates over the summed per-interface maxima.
func (u NetUsage) Percentage() float64 {
	var limit Rate
	for _, d := range u.Interfaces {
		m := u.Max[d.Name]
		limit = limit.Add(m.Rx.Add(m.Tx))
	}
	return float64(ratio(u.RxSpeed().Add(u.TxSpeed()), limit))
}

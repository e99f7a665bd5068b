package history

import "gitlab.com/tinyland/lab/system-graph/metrics"

// Template keywords, each naming one series.
const (
	Mem     = "mem"
	Swap    = "swap"
	LoadAvg = "loadavg"
	CPU     = "cpu"
	Net     = "net"
)

// Keywords lists every series keyword in display order.
var Keywords = []string{Mem, Swap, LoadAvg, CPU, Net}

// Series is the read-only view of one history that a template is rendered
// against. Every keyword maps to exactly MaxPoints entries, newest first.
type Series struct {
	maxPoints int
	cores     int
	ifaces    []string
	max       metrics.MaxSpeed
	series    map[string][]metrics.Percenter
}

// Build derives the padded series of h. cores normalizes the load
// averages. The steps run in a fixed order: interface discovery, deltas,
// maximum speeds, then padding, so no normalized value exists before the
// maxima it depends on.
func Build(h *History, cores int) *Series {
	samples := h.samples
	n := h.maxPoints

	ifaces := InterfaceSet(samples)
	cpu, net := Deltas(samples, ifaces)
	limits := MaxSpeeds(net, ifaces)

	s := &Series{
		maxPoints: n,
		cores:     cores,
		ifaces:    ifaces,
		max:       limits,
		series:    make(map[string][]metrics.Percenter, len(Keywords)),
	}

	mem := make([]metrics.Percenter, 0, n)
	swap := make([]metrics.Percenter, 0, n)
	load := make([]metrics.Percenter, 0, n)
	for i := 0; i < len(samples) && i < n; i++ {
		mem = append(mem, samples[i].Mem)
		swap = append(swap, samples[i].Swap)
		load = append(load, metrics.LoadUsage{LoadAvgStat: samples[i].LoadAvg, Cores: cores})
	}
	s.series[Mem] = padNull(mem, n)
	s.series[Swap] = padNull(swap, n)
	s.series[LoadAvg] = padNull(load, n)

	cpuSeries := make([]metrics.Percenter, 0, n)
	for i := 0; i < len(cpu) && i < n; i++ {
		cpuSeries = append(cpuSeries, cpu[i])
	}
	s.series[CPU] = padNull(cpuSeries, n)

	netSeries := make([]metrics.Percenter, 0, n)
	for i := 0; i < len(net) && i < n; i++ {
		netSeries = append(netSeries, metrics.NetUsage{NetDelta: net[i], Max: limits})
	}
	zero := metrics.NetUsage{NetDelta: zeroDelta(ifaces), Max: limits}
	for len(netSeries) < n {
		netSeries = append(netSeries, zero)
	}
	s.series[Net] = netSeries

	return s
}

func padNull(values []metrics.Percenter, n int) []metrics.Percenter {
	for len(values) < n {
		values = append(values, metrics.Null{})
	}
	return values
}

func zeroDelta(ifaces []string) metrics.NetDelta {
	d := metrics.NetDelta{Interfaces: make([]metrics.IfDelta, 0, len(ifaces))}
	for _, name := range ifaces {
		d.Interfaces = append(d.Interfaces, metrics.IfDelta{Name: name})
	}
	return d
}

// InterfaceSet returns the interface names of the newest sample in their
// discovery order, without the loopback interface.
func InterfaceSet(samples []metrics.Sample) []string {
	if len(samples) == 0 {
		return nil
	}
	var names []string
	for _, name := range samples[0].Net.Names() {
		if name == metrics.LoopbackInterface {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Deltas returns the CPU and network deltas between consecutive samples,
// entry i being samples[i] minus samples[i+1]. Network deltas carry one
// entry per interface of ifaces, zero-filled where either sample lacks the
// interface.
func Deltas(samples []metrics.Sample, ifaces []string) ([]metrics.CPUDelta, []metrics.NetDelta) {
	if len(samples) < 2 {
		return nil, nil
	}
	cpu := make([]metrics.CPUDelta, 0, len(samples)-1)
	net := make([]metrics.NetDelta, 0, len(samples)-1)
	for i := 0; i+1 < len(samples); i++ {
		newer, older := samples[i], samples[i+1]
		cpu = append(cpu, newer.CPU.Sub(older.CPU))

		raw := newer.Net.Sub(older.Net)
		aligned := metrics.NetDelta{Interfaces: make([]metrics.IfDelta, 0, len(ifaces))}
		for _, name := range ifaces {
			aligned.Interfaces = append(aligned.Interfaces, raw.Lookup(name))
		}
		net = append(net, aligned)
	}
	return cpu, net
}

// MaxPoints returns the length of every series.
func (s *Series) MaxPoints() int { return s.maxPoints }

// Cores returns the core count used to normalize load averages.
func (s *Series) Cores() int { return s.cores }

// Interfaces returns the interface set in discovery order.
func (s *Series) Interfaces() []string {
	out := make([]string, len(s.ifaces))
	copy(out, s.ifaces)
	return out
}

// MaxSpeed returns the maximum speed table the net series is normalized
// against.
func (s *Series) MaxSpeed() metrics.MaxSpeed { return s.max }

// Series returns a copy of the series named by keyword.
func (s *Series) Series(keyword string) ([]metrics.Percenter, bool) {
	values, ok := s.series[keyword]
	if !ok {
		return nil, false
	}
	out := make([]metrics.Percenter, len(values))
	copy(out, values)
	return out, true
}

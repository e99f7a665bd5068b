package query

import (
	"fmt"
	"strconv"

	"gitlab.com/tinyland/lab/system-graph/history"
	"gitlab.com/tinyland/lab/system-graph/metrics"
)

// Source provides the series a reference is resolved against.
// *history.Series implements it.
type Source interface {
	// Series returns the padded series named by keyword, newest first.
	Series(keyword string) ([]metrics.Percenter, bool)
	// Interfaces returns the network interface names in discovery order.
	Interfaces() []string
}

// Resolve applies the accessor chain of ref, left to right, to the series
// selected by its keyword. An attribute applied to a list is applied to
// every element. Indices and slices apply only to lists. The source is
// never modified.
func Resolve(ref Reference, src Source) (Value, error) {
	series, ok := src.Series(ref.Keyword)
	if !ok {
		return Value{}, fieldErr(ref.Field, ref.Keyword, "unknown keyword")
	}

	values := make([]Value, len(series))
	for i, m := range series {
		values[i] = MetricValue(m)
	}
	r := resolver{ref: ref, ifaces: src.Interfaces()}

	v := ListValue(values)
	for _, acc := range ref.Chain {
		var err error
		switch acc.Kind {
		case Attribute:
			v, err = r.attribute(v, acc)
		case Index:
			v, err = r.index(v, acc)
		case Slice:
			v, err = r.slice(v, acc)
		default:
			err = fieldErr(ref.Field, acc.Token, "unknown accessor")
		}
		if err != nil {
			return Value{}, err
		}
	}
	return v, nil
}

type resolver struct {
	ref    Reference
	ifaces []string
}

func (r *resolver) fail(acc Accessor, format string, args ...any) error {
	return fieldErr(r.ref.Field, acc.Token, fmt.Sprintf(format, args...))
}

func (r *resolver) index(v Value, acc Accessor) (Value, error) {
	if v.Kind != KindList {
		return Value{}, r.fail(acc, "cannot index a %s with", v.Kind)
	}
	if acc.Index >= len(v.List) {
		return Value{}, r.fail(acc, "index out of range (%d entries):", len(v.List))
	}
	return v.List[acc.Index], nil
}

func (r *resolver) slice(v Value, acc Accessor) (Value, error) {
	if v.Kind != KindList {
		return Value{}, r.fail(acc, "cannot slice a %s with", v.Kind)
	}
	start, stop, step := sliceIndices(acc.Lo, acc.Hi, acc.Step, len(v.List))
	out := make([]Value, 0, len(v.List))
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, v.List[i])
	}
	return ListValue(out), nil
}

// sliceIndices clamps slice bounds to a sequence of length n the same way
// half-open slicing with negative indices and steps does.
func sliceIndices(lo, hi, stepp *int, n int) (start, stop, step int) {
	step = 1
	if stepp != nil {
		step = *stepp
	}

	bound := func(p *int, def int) int {
		if p == nil {
			return def
		}
		i := *p
		if i < 0 {
			i += n
			if i < 0 {
				if step < 0 {
					return -1
				}
				return 0
			}
			return i
		}
		if i >= n {
			if step < 0 {
				return n - 1
			}
			return n
		}
		return i
	}

	if step > 0 {
		return bound(lo, 0), bound(hi, n), step
	}
	return bound(lo, n-1), bound(hi, -1), step
}

func (r *resolver) attribute(v Value, acc Accessor) (Value, error) {
	if v.Kind == KindList {
		out := make([]Value, len(v.List))
		for i, elem := range v.List {
			got, err := r.attribute(elem, acc)
			if err != nil {
				return Value{}, err
			}
			out[i] = got
		}
		return ListValue(out), nil
	}
	if v.Kind != KindMetric {
		return Value{}, r.fail(acc, "a %s has no attribute", v.Kind)
	}

	name := acc.Name
	switch m := v.Metric.(type) {
	case metrics.MemStat:
		return r.stat(acc, name, m.Total, m.Free)
	case metrics.SwapStat:
		return r.stat(acc, name, m.Total, m.Free)
	case metrics.CPUDelta:
		switch name {
		case "total":
			return CountValue(m.Total), nil
		case "idle":
			return CountValue(m.Idle), nil
		}
	case metrics.LoadUsage:
		if minutes, err := strconv.Atoi(name); err == nil {
			if ratio, ok := m.Window(minutes); ok {
				return RatioValue(ratio), nil
			}
		}
	case metrics.NetUsage:
		return r.net(acc, m)
	case metrics.IfUsage:
		return r.iface(acc, m)
	case metrics.Null:
		if zero, ok := zeroOf(r.ref.Keyword); ok {
			return r.attribute(MetricValue(zero), acc)
		}
	}
	return Value{}, r.fail(acc, "unsupported attribute for %s:", r.ref.Keyword)
}

func (r *resolver) stat(acc Accessor, name string, total, free uint64) (Value, error) {
	switch name {
	case "total":
		return CountValue(int64(total)), nil
	case "free":
		return CountValue(int64(free)), nil
	}
	return Value{}, r.fail(acc, "unsupported attribute for %s:", r.ref.Keyword)
}

// net resolves attributes of the all-interface view. Interface names take
// precedence over the derived attribute names, which take precedence over
// positional interface numbers.
func (r *resolver) net(acc Accessor, u metrics.NetUsage) (Value, error) {
	name := acc.Name
	for _, iface := range r.ifaces {
		if iface == name {
			return MetricValue(u.Interface(name)), nil
		}
	}
	switch name {
	case "rx":
		return RatioValue(u.Rx()), nil
	case "tx":
		return RatioValue(u.Tx()), nil
	case "rx_speed":
		return RateValue(u.RxSpeed()), nil
	case "tx_speed":
		return RateValue(u.TxSpeed()), nil
	}
	if n, err := strconv.Atoi(name); err == nil && isDigits(name) {
		if n < len(r.ifaces) {
			return MetricValue(u.Interface(r.ifaces[n])), nil
		}
		return Value{}, r.fail(acc, "no network interface with number")
	}
	return Value{}, r.fail(acc, "unknown network interface or attribute")
}

func (r *resolver) iface(acc Accessor, u metrics.IfUsage) (Value, error) {
	switch acc.Name {
	case "rx":
		return RatioValue(u.Rx()), nil
	case "tx":
		return RatioValue(u.Tx()), nil
	case "rx_speed":
		return RateValue(u.RxSpeed()), nil
	case "tx_speed":
		return RateValue(u.TxSpeed()), nil
	case "rx_bytes":
		return CountValue(u.RxBytes), nil
	case "tx_bytes":
		return CountValue(u.TxBytes), nil
	}
	return Value{}, r.fail(acc, "unsupported attribute for interface %s:", u.Name)
}

// zeroOf returns the zero metric of the type a keyword's series holds, so
// that padding entries accept exactly the attributes real entries do.
func zeroOf(keyword string) (metrics.Percenter, bool) {
	switch keyword {
	case history.Mem:
		return metrics.MemStat{}, true
	case history.Swap:
		return metrics.SwapStat{}, true
	case history.LoadAvg:
		return metrics.LoadUsage{}, true
	case history.CPU:
		return metrics.CPUDelta{}, true
	case history.Net:
		return metrics.NetUsage{}, true
	}
	return nil, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

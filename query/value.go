package query

import "gitlab.com/tinyland/lab/system-graph/metrics"

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindMetric is a metric object such as a memory stat or a network
	// usage view. It can be drawn and may have attributes.
	KindMetric Kind = iota
	// KindRatio is a bare usage fraction.
	KindRatio
	// KindRate is a throughput in bytes per second.
	KindRate
	// KindCount is a raw counter such as kB of memory or bytes transferred.
	KindCount
	// KindList is an ordered sequence of values.
	KindList
)

var kindNames = map[Kind]string{
	KindMetric: "metric",
	KindRatio:  "ratio",
	KindRate:   "rate",
	KindCount:  "count",
	KindList:   "list",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Value is the result of resolving a field reference. Only the field
// matching Kind is set.
type Value struct {
	Kind   Kind
	Metric metrics.Percenter
	Ratio  metrics.Ratio
	Rate   metrics.Rate
	Count  int64
	List   []Value
}

// MetricValue wraps a metric object.
func MetricValue(m metrics.Percenter) Value { return Value{Kind: KindMetric, Metric: m} }

// RatioValue wraps a usage fraction.
func RatioValue(r metrics.Ratio) Value { return Value{Kind: KindRatio, Ratio: r} }

// RateValue wraps a throughput.
func RateValue(r metrics.Rate) Value { return Value{Kind: KindRate, Rate: r} }

// CountValue wraps a raw counter.
func CountValue(n int64) Value { return Value{Kind: KindCount, Count: n} }

// ListValue wraps a sequence.
func ListValue(values []Value) Value { return Value{Kind: KindList, List: values} }

// Percentage returns the usage fraction of a metric or ratio value. It is
// 0 for every other kind.
func (v Value) Percentage() float64 {
	switch v.Kind {
	case KindMetric:
		return v.Metric.Percentage()
	case KindRatio:
		return v.Ratio.Percentage()
	}
	return 0
}

// Len returns the number of elements of a list value, or 1 for a scalar.
func (v Value) Len() int {
	if v.Kind == KindList {
		return len(v.List)
	}
	return 1
}
